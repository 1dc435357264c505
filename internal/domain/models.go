package domain

// ConnectionType tells which physical table a device lives in.
type ConnectionType string

const (
	ConnectionWired    ConnectionType = "wired"
	ConnectionWireless ConnectionType = "wireless"
)

// Valid reports whether c is one of the known connection types.
func (c ConnectionType) Valid() bool {
	return c == ConnectionWired || c == ConnectionWireless
}

// Member represents a registered network user ("adherent") who owns devices
type Member struct {
	ID        int64  // Unique identifier
	Login     string // Unique login, used as the owner key on devices
	Name      string // Family name
	FirstName string // Given name
	Email     string // Contact email
	Password  string // Credential (argon2id PHC string)
}

// Room represents a residence room a port can be wired to
type Room struct {
	ID          int64  // Unique identifier
	Number      int64  // Unique room number
	Description string // Optional description
	Phone       string // Optional phone extension
}

// Switch represents a managed network switch
type Switch struct {
	ID          int64  // Unique identifier
	Description string // Human readable description
	IP          string // IPv4 management address
	Community   string // SNMP community string
}

// Port represents a physical switch interface
type Port struct {
	ID         int64  // Unique identifier
	SwitchID   int64  // Foreign key to Switch
	RoomNumber *int64 // Room the port is wired to (optional)
	PortNumber string // Human readable label, e.g. "0/0/1"
	OID        string // Unique SNMP interface identifier
	Rcom       int64  // Revision counter
}

// WiredDevice is a device connected by cable, with static addresses
type WiredDevice struct {
	ID       int64  // Unique identifier
	MAC      string // Canonical MAC address
	IPv4     string // IPv4 address (optional)
	IPv6     string // IPv6 address (optional)
	MemberID int64  // Foreign key to Member
}

// WirelessDevice is a device connected over radio; addresses are assigned dynamically
type WirelessDevice struct {
	ID       int64  // Unique identifier
	MAC      string // Canonical MAC address
	MemberID int64  // Foreign key to Member
}

// Device is the read view over both device tables
type Device struct {
	ID             int64
	MAC            string
	ConnectionType ConnectionType
	OwnerLogin     string
	IPv4           string
	IPv6           string
}
