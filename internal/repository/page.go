package repository

// DefaultLimit is the page size used when a caller does not ask for one.
const DefaultLimit = 100

// Page selects a window of an ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// SwitchFilter narrows a switch listing.
type SwitchFilter struct {
	Page
	Terms string // substring of description, ip or community
}

// PortFilter narrows a port listing.
type PortFilter struct {
	Page
	SwitchID   *int64
	RoomNumber *int64
	Terms      string // substring of port number or oid
}

// DeviceFilter narrows a device listing.
type DeviceFilter struct {
	Page
	Username string // exact owner login
	Terms    string // substring of mac, ipv4 or ipv6
}
