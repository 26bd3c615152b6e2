package gatt

import (
	"encoding/binary"

	blelib "github.com/go-ble/ble"
)

// encodeServiceDeclaration returns the canonical encoded value of a service
// declaration attribute: the service's type UUID, verbatim, per the
// Bluetooth Core Specification and GattServiceDeclarationValueBuilder in
// the original gatt_database.
func encodeServiceDeclaration(serviceType blelib.UUID) []byte {
	out := make([]byte, len(serviceType))
	copy(out, serviceType)
	return out
}

// characteristicProperties packs the subset of the GATT properties byte the
// core understands from an AttPermissions set. Broadcast, write-without-
// response, notify, authenticated-signed-writes, and extended-properties are
// always zero (spec.md §4.1's property-to-permission mapping).
func characteristicProperties(perms AttPermissions) byte {
	var b byte
	if perms.Readable() {
		b |= 1 << 1
	}
	if perms.Writable() {
		b |= 1 << 3
	}
	if perms.Indicate() {
		b |= 1 << 5
	}
	return b
}

// encodeCharacteristicDeclaration returns the canonical encoded value of a
// characteristic declaration attribute: {properties byte, value handle
// (2 bytes, little-endian), type UUID}, bit-exact per the Bluetooth Core
// Specification and GattCharacteristicDeclarationValueBuilder in the
// original gatt_database.
func encodeCharacteristicDeclaration(valueHandle AttHandle, perms AttPermissions, charType blelib.UUID) []byte {
	out := make([]byte, 0, 3+len(charType))
	out = append(out, characteristicProperties(perms))
	var handleBytes [2]byte
	binary.LittleEndian.PutUint16(handleBytes[:], uint16(valueHandle))
	out = append(out, handleBytes[:]...)
	out = append(out, []byte(charType)...)
	return out
}
