package device

import "errors"

var (
	// ErrMalformedAddress is returned for an invalid MAC, IPv4 or IPv6 address.
	ErrMalformedAddress = errors.New("malformed address")

	// ErrInvalidConnectionType is returned when the connection type is
	// neither wired nor wireless.
	ErrInvalidConnectionType = errors.New("invalid connection type")

	// ErrOwnerNotFound is returned when the owner login matches no member.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrMACMismatch is returned when creating a device whose body MAC
	// differs from the MAC it is addressed by.
	ErrMACMismatch = errors.New("body MAC differs from path MAC")
)
