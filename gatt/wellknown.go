package gatt

import blelib "github.com/go-ble/ble"

// Well-known 16-bit Bluetooth SIG UUIDs the core needs to build and walk the
// attribute table. Grounded on the constant table in leso-kn-ble/const.go
// (GAPUUID, GATTUUID, PrimaryServiceUUID, CharacteristicUUID, DeviceNameUUID,
// ServiceChangedUUID) rather than hand-picked magic numbers.
var (
	// PrimaryServiceDeclarationUUID types a service declaration attribute.
	PrimaryServiceDeclarationUUID = blelib.UUID16(0x2800)
	// CharacteristicDeclarationUUID types a characteristic declaration attribute.
	CharacteristicDeclarationUUID = blelib.UUID16(0x2803)

	// ClientCharacteristicConfigUUID is the CCCD (0x2902), installed by
	// convention under any indicatable characteristic.
	ClientCharacteristicConfigUUID = blelib.UUID16(0x2902)

	// GAPServiceUUID and GATTServiceUUID are the two services every GATT
	// server must expose from the moment it is opened.
	GAPServiceUUID  = blelib.UUID16(0x1800)
	GATTServiceUUID = blelib.UUID16(0x1801)

	// DeviceNameUUID is the GAP Service's mandatory Device Name characteristic.
	DeviceNameUUID = blelib.UUID16(0x2a00)
	// ServiceChangedUUID is the GATT Service's mandatory Service Changed
	// characteristic, referenced by name only (indication delivery is a
	// separate subsystem per spec.md §1).
	ServiceChangedUUID = blelib.UUID16(0x2a05)
)

// isPrimaryServiceDeclaration reports whether uuid types a service
// declaration attribute, used by Schema.RemoveService to find service
// boundaries.
func isPrimaryServiceDeclaration(uuid blelib.UUID) bool {
	return uuid.Equal(PrimaryServiceDeclarationUUID)
}
