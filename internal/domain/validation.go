package domain

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrInvalidMAC is returned for anything that is not a 48-bit MAC address.
	ErrInvalidMAC = errors.New("invalid MAC address")

	// ErrInvalidIPv4 is returned for anything that is not a dotted-quad IPv4 address.
	ErrInvalidIPv4 = errors.New("invalid IPv4 address")

	// ErrInvalidIPv6 is returned for anything that is not an IPv6 literal.
	ErrInvalidIPv6 = errors.New("invalid IPv6 address")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("missing required field")
)

// NormalizeMAC parses a MAC address and returns it upper-case and colon separated.
// Only 48-bit addresses are accepted.
func NormalizeMAC(mac string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(mac))
	if err != nil || len(hw) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMAC, mac)
	}
	return strings.ToUpper(hw.String()), nil
}

// IsIPv4 checks if a string is a valid IPv4 address
func IsIPv4(ip string) bool {
	if strings.Contains(ip, ":") {
		return false
	}
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.To4() != nil
}

// IsIPv6 checks if a string is a valid IPv6 address
func IsIPv6(ip string) bool {
	if !strings.Contains(ip, ":") {
		return false
	}
	return net.ParseIP(ip) != nil
}

// Validate checks the fields every stored switch must carry.
func (s Switch) Validate() error {
	if s.Description == "" {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if s.Community == "" {
		return fmt.Errorf("%w: community", ErrMissingField)
	}
	if !IsIPv4(s.IP) {
		return fmt.Errorf("%w: %q", ErrInvalidIPv4, s.IP)
	}
	return nil
}

// Validate checks the fields every stored port must carry.
func (p Port) Validate() error {
	if p.SwitchID == 0 {
		return fmt.Errorf("%w: switchID", ErrMissingField)
	}
	if p.PortNumber == "" {
		return fmt.Errorf("%w: portNumber", ErrMissingField)
	}
	return nil
}

// Validate checks the fields every stored member must carry.
func (m Member) Validate() error {
	if m.Login == "" {
		return fmt.Errorf("%w: login", ErrMissingField)
	}
	return nil
}
