package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jbweber/homelab/adh/internal/config"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	defaultKeepAlive         = 60 * time.Second
)

// publisher is the subset of pahomqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// MQTTNotifier publishes each event as JSON to <prefix>/device/<mac>.
type MQTTNotifier struct {
	client  publisher
	prefix  string
	qos     byte
	timeout time.Duration
}

// New returns an MQTT notifier when cfg.Enabled, and Nop otherwise.
func New(cfg config.MQTTConfig) (Notifier, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return Connect(cfg)
}

// Connect dials the broker and returns a ready notifier.
func Connect(cfg config.MQTTConfig) (*MQTTNotifier, error) {
	client := pahomqtt.NewClient(buildClientOptions(cfg))
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return newMQTTNotifier(client, cfg), nil
}

func newMQTTNotifier(client publisher, cfg config.MQTTConfig) *MQTTNotifier {
	return &MQTTNotifier{
		client:  client,
		prefix:  strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:     byte(cfg.QoS),
		timeout: defaultPublishTimeout,
	}
}

func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))
	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	return opts
}

// Topic returns the topic events for mac are published on.
func Topic(prefix, mac string) string {
	return prefix + "/device/" + mac
}

// DeviceChanged publishes event and waits for the broker acknowledgment,
// bounded by ctx and the publish timeout.
func (n *MQTTNotifier) DeviceChanged(ctx context.Context, event DeviceEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	token := n.client.Publish(Topic(n.prefix, event.MAC), n.qos, false, payload)

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrPublishFailed, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, n.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(defaultDisconnectQuiesce)
}
