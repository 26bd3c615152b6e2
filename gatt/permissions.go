package gatt

// AttPermissions is an immutable set of attribute permission bits. Only
// READABLE, WRITABLE, and INDICATE are interpreted by the core; any other
// bits a caller sets are carried but ignored, mirroring the bitflags type
// in the original Rust gatt_database (AttPermissions).
type AttPermissions uint8

const (
	// READABLE marks an attribute as servable via ATT Read requests.
	READABLE AttPermissions = 1 << iota
	// WRITABLE marks an attribute as servable via ATT Write requests.
	WRITABLE
	// INDICATE marks a characteristic as indicatable. The core does not
	// implement indication delivery itself (see spec Non-goals); the bit
	// only feeds the characteristic declaration's properties byte.
	INDICATE
)

// Readable reports whether the READABLE bit is set.
func (p AttPermissions) Readable() bool { return p&READABLE != 0 }

// Writable reports whether the WRITABLE bit is set.
func (p AttPermissions) Writable() bool { return p&WRITABLE != 0 }

// Indicate reports whether the INDICATE bit is set.
func (p AttPermissions) Indicate() bool { return p&INDICATE != 0 }

func (p AttPermissions) String() string {
	s := ""
	if p.Readable() {
		s += "R"
	}
	if p.Writable() {
		s += "W"
	}
	if p.Indicate() {
		s += "I"
	}
	if s == "" {
		return "-"
	}
	return s
}
