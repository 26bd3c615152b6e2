package gatt

import blelib "github.com/go-ble/ble"

// AttAttribute is the public, immutable shape of one row of the attribute
// table, as returned by Schema.ListAttributes/Lookup and AttDatabase.
// ListAttributes. It never exposes the backing value: callers must go
// through ReadAttribute/WriteAttribute to observe or mutate it.
type AttAttribute struct {
	Handle      AttHandle
	Type        blelib.UUID
	Permissions AttPermissions
}

// backingValue is the closed, three-case variant behind an attribute: the
// Go rendering of the Rust AttAttributeBackingValue enum in
// gatt_database.rs (Static / DynamicCharacteristic / DynamicDescriptor).
// Only this file's three types may implement it.
type backingValue interface {
	isBackingValue()
}

// staticValue is the canonical encoded value of a declaration attribute
// (service or characteristic declaration). Always readable-only; writes
// targeting it are an internal invariant violation (spec.md I1's note on
// static+writable being a programming error).
type staticValue struct {
	data []byte
}

func (staticValue) isBackingValue() {}

// dynamicCharacteristicValue delegates reads/writes to a datastore, tagged
// so the datastore can distinguish a characteristic-value access.
type dynamicCharacteristicValue struct {
	store Datastore
}

func (dynamicCharacteristicValue) isBackingValue() {}

// dynamicDescriptorValue delegates reads/writes to a datastore, tagged so
// the datastore can distinguish a descriptor access.
type dynamicDescriptorValue struct {
	store Datastore
}

func (dynamicDescriptorValue) isBackingValue() {}

// attributeRecord is the internal, full-fidelity row the Schema stores;
// AttAttribute is derived from it for external consumption.
type attributeRecord struct {
	attribute AttAttribute
	value     backingValue
}
