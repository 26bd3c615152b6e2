package gatt

import (
	"context"
	"sync"
)

// Builtin attribute handles. The GAP and GATT services are installed at
// server-open time at fixed, low handles (spec.md §4.4): every other
// service an application registers starts above builtinTopHandle.
const (
	gapServiceHandle     AttHandle = 0x0001
	deviceNameHandle     AttHandle = 0x0003
	gattServiceHandle    AttHandle = 0x0004
	serviceChangedHandle AttHandle = 0x0006
	clientConfigHandle   AttHandle = 0x0007

	// builtinTopHandle is the last handle the built-in services occupy;
	// GattModule.AddService never needs to know this directly since
	// duplicate-handle detection in Schema.AddService already rejects any
	// application service that collides with it.
	builtinTopHandle AttHandle = clientConfigHandle
)

// builtinDatastore backs the two characteristics/descriptors the GAP and
// GATT services need: a read-only device name, and a per-connection Client
// Characteristic Configuration Descriptor for Service Changed. Modeled on
// the original gatt_database's own built-in handling of these two services,
// which the spec carries forward as mandatory (spec.md §4.4).
type builtinDatastore struct {
	mu         sync.RWMutex
	deviceName []byte
	cccd       map[ConnectionId][]byte
}

func newBuiltinDatastore(deviceName string) *builtinDatastore {
	return &builtinDatastore{
		deviceName: []byte(deviceName),
		cccd:       make(map[ConnectionId][]byte),
	}
}

func (d *builtinDatastore) ReadAttribute(_ context.Context, conn ConnectionId, handle AttHandle, kind AttributeBackingType) ([]byte, AttErrorCode) {
	switch handle {
	case deviceNameHandle:
		d.mu.RLock()
		defer d.mu.RUnlock()
		out := make([]byte, len(d.deviceName))
		copy(out, d.deviceName)
		return out, Success
	case clientConfigHandle:
		d.mu.RLock()
		defer d.mu.RUnlock()
		if v, ok := d.cccd[conn]; ok {
			out := make([]byte, len(v))
			copy(out, v)
			return out, Success
		}
		return []byte{0x00, 0x00}, Success
	default:
		return nil, UnlikelyError
	}
}

func (d *builtinDatastore) WriteAttribute(_ context.Context, conn ConnectionId, handle AttHandle, kind AttributeBackingType, data []byte) AttErrorCode {
	switch handle {
	case clientConfigHandle:
		d.mu.Lock()
		defer d.mu.Unlock()
		cfg := make([]byte, len(data))
		copy(cfg, data)
		d.cccd[conn] = cfg
		return Success
	default:
		return UnlikelyError
	}
}

// installBuiltinServices adds the mandatory GAP Service (Device Name) and
// GATT Service (Service Changed, with its CCCD) to a freshly created,
// otherwise-empty schema. Called once by GattModule.OpenServer; application
// code can never remove these through GattModule.RemoveService, which
// ignores every handle at or below builtinTopHandle.
func installBuiltinServices(s *Schema, deviceName string) error {
	store := newBuiltinDatastore(deviceName)

	if err := s.AddService(ServiceDescription{
		Handle: gapServiceHandle,
		Type:   GAPServiceUUID,
		Characteristics: []CharacteristicDescription{
			{
				ValueHandle: deviceNameHandle,
				Type:        DeviceNameUUID,
				Permissions: READABLE,
			},
		},
	}, store); err != nil {
		return err
	}

	return s.AddService(ServiceDescription{
		Handle: gattServiceHandle,
		Type:   GATTServiceUUID,
		Characteristics: []CharacteristicDescription{
			{
				ValueHandle: serviceChangedHandle,
				Type:        ServiceChangedUUID,
				Permissions: INDICATE,
				Descriptors: []DescriptorDescription{
					{
						Handle:      clientConfigHandle,
						Type:        ClientCharacteristicConfigUUID,
						Permissions: READABLE | WRITABLE,
					},
				},
			},
		},
	}, store)
}
