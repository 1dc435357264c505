// Package snmp reads live interface state from switches over SNMPv2c.
package snmp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// IfOperStatusOID is IF-MIB::ifOperStatus; the interface index is appended.
const IfOperStatusOID = "1.3.6.1.2.1.2.2.1.8"

// DefaultPort is the standard SNMP agent port.
const DefaultPort = 161

var (
	// ErrUnreachable is returned when the switch does not answer.
	ErrUnreachable = errors.New("snmp: switch unreachable")

	// ErrInvalidOID is returned when a port oid carries no interface index.
	ErrInvalidOID = errors.New("snmp: invalid interface oid")

	// ErrNoSuchInterface is returned when the switch has no such interface.
	ErrNoSuchInterface = errors.New("snmp: no such interface")
)

var operState = map[int]string{
	1: "UP",
	2: "DOWN",
	3: "TESTING",
	4: "UNKNOWN",
	5: "DORMANT",
	6: "NOT_PRESENT",
	7: "LOWER_LAYER_DOWN",
}

// OperStateName maps an ifOperStatus value to its name.
func OperStateName(v int) string {
	if name, ok := operState[v]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", v)
}

// IfIndex extracts the interface index, the last component of a port oid.
func IfIndex(oid string) (int, error) {
	oid = strings.Trim(strings.TrimSpace(oid), ".")
	if oid == "" {
		return 0, ErrInvalidOID
	}
	last := oid[strings.LastIndex(oid, ".")+1:]
	idx, err := strconv.Atoi(last)
	if err != nil || idx < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOID, oid)
	}
	return idx, nil
}

// Prober issues single ifOperStatus GETs.
type Prober struct {
	Port    uint16
	Timeout time.Duration
	Retries int
}

// NewProber creates a prober using the given UDP port, per-request timeout
// and retry count.
func NewProber(port int, timeout time.Duration, retries int) *Prober {
	return &Prober{Port: uint16(port), Timeout: timeout, Retries: retries}
}

// OperState returns the operational state name of the interface designated
// by oid on the switch at target.
func (p *Prober) OperState(ctx context.Context, target, community, oid string) (string, error) {
	idx, err := IfIndex(oid)
	if err != nil {
		return "", err
	}

	g := &gosnmp.GoSNMP{
		Target:    target,
		Port:      p.Port,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   p.Timeout,
		Retries:   p.Retries,
		Context:   ctx,
	}
	if g.Timeout == 0 {
		g.Timeout = gosnmp.Default.Timeout
	}

	if err := g.Connect(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreachable, target, err)
	}
	defer g.Conn.Close()

	requested := fmt.Sprintf("%s.%d", IfOperStatusOID, idx)
	packet, err := g.Get([]string{requested})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreachable, target, err)
	}
	if len(packet.Variables) == 0 {
		return "", fmt.Errorf("%w: %d", ErrNoSuchInterface, idx)
	}

	pdu := packet.Variables[0]
	switch pdu.Type {
	case gosnmp.NoSuchInstance, gosnmp.NoSuchObject, gosnmp.Null:
		return "", fmt.Errorf("%w: %d", ErrNoSuchInterface, idx)
	}

	return OperStateName(int(gosnmp.ToBigInt(pdu.Value).Int64())), nil
}
