// Package notify publishes device change events for downstream consumers
// such as the DHCP and RADIUS configuration generators.
package notify

import (
	"context"
	"errors"
	"time"
)

// Action describes what happened to a device.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionMigrated Action = "migrated" // connection type changed
	ActionDeleted  Action = "deleted"
)

var (
	// ErrPublishFailed is returned when an event could not be delivered.
	ErrPublishFailed = errors.New("notify: publish failed")

	// ErrConnectionFailed is returned when the broker cannot be reached at startup.
	ErrConnectionFailed = errors.New("notify: connection failed")
)

// DeviceEvent is the payload published after every device mutation.
type DeviceEvent struct {
	Action         Action    `json:"action"`
	MAC            string    `json:"mac"`
	ConnectionType string    `json:"connectionType"`
	Username       string    `json:"username,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Notifier receives device change events.
type Notifier interface {
	DeviceChanged(ctx context.Context, event DeviceEvent) error
}

// Nop discards every event.
type Nop struct{}

// DeviceChanged implements Notifier.
func (Nop) DeviceChanged(context.Context, DeviceEvent) error { return nil }
