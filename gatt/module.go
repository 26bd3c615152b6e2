package gatt

import (
	"fmt"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"
)

// BearerFactory builds the per-link ATT state machine GattModule.OnLEConnect
// needs; its construction is entirely outside this core (spec.md §6), so the
// module is handed a factory rather than a concrete type. send delivers one
// outbound ATT packet for transportIdx.
type BearerFactory func(transportIdx TransportIndex, db AttDatabase, send func([]byte) error) Bearer

type bearerEntry struct {
	bearer Bearer
	schema *Schema
}

// GattModule is the top-level entry point: one per ATT transport, owning
// every open server's schema and every live link's bearer. Grounded on
// GattModule in original_source/system/rust/src/gatt/server.rs, translated
// from its owned HashMaps to *hashmap.Map for the same lock-free-read
// property the teacher's device scanner relies on for its live-device table.
type GattModule struct {
	schemas   *hashmap.Map[ServerId, *Schema]
	bearers   *hashmap.Map[TransportIndex, *bearerEntry]
	transport AttTransport
	newBearer BearerFactory

	deviceName string
	log        *logrus.Logger
}

// NewGattModule constructs an empty module. deviceName seeds every opened
// server's mandatory GAP Device Name characteristic (spec.md §4.4).
func NewGattModule(transport AttTransport, newBearer BearerFactory, deviceName string, log *logrus.Logger) *GattModule {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &GattModule{
		schemas:    hashmap.New[ServerId, *Schema](),
		bearers:    hashmap.New[TransportIndex, *bearerEntry](),
		transport:  transport,
		newBearer:  newBearer,
		deviceName: deviceName,
		log:        log,
	}
}

// OpenServer creates a new, empty schema for id, pre-populated with the
// built-in GAP/GATT services. Unlike the original open_gatt_server, which
// logs and clobbers an existing entry on reopen, this rejects the call with
// ErrAlreadyOpen: silently replacing a live schema out from under any bearer
// still holding a reference to it is exactly the kind of use-after-free
// invariant I5 exists to prevent (see DESIGN.md open question #1).
func (m *GattModule) OpenServer(id ServerId) error {
	if _, exists := m.schemas.Get(id); exists {
		return configErrorf(ErrStateAlreadyOpen, "server %d already open", id)
	}

	s := NewSchema()
	if err := installBuiltinServices(s, m.deviceName); err != nil {
		return fmt.Errorf("installing builtin services for server %d: %w", id, err)
	}

	m.schemas.Set(id, s)
	m.log.WithField("server_id", id).Info("gatt server opened")
	return nil
}

// CloseServer tears down id's schema: every view sharing it degrades to
// INVALID_HANDLE immediately (invariant I5). Any bearer still attached for
// this server is left to the transport layer's own link-down handling; the
// module only owns the schema's lifetime.
func (m *GattModule) CloseServer(id ServerId) error {
	s, ok := m.schemas.Get(id)
	if !ok {
		return configErrorf(ErrStateUnknownServer, "server %d not open", id)
	}
	s.markDead()
	m.schemas.Del(id)
	m.log.WithField("server_id", id).Info("gatt server closed")
	return nil
}

// AddService registers a new service on an already-open server.
func (m *GattModule) AddService(id ServerId, desc ServiceDescription, store Datastore) error {
	s, ok := m.schemas.Get(id)
	if !ok {
		return configErrorf(ErrStateUnknownServer, "server %d not open", id)
	}
	if err := s.AddService(desc, store); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"server_id": id, "handle": desc.Handle}).Info("service added")
	return nil
}

// RemoveService removes an existing service on an already-open server.
// Removing an unknown handle is a no-op, matching Schema.RemoveService, and
// so is any handle at or below builtinTopHandle: the built-in GAP/GATT
// services cannot be removed.
func (m *GattModule) RemoveService(id ServerId, serviceHandle AttHandle) error {
	s, ok := m.schemas.Get(id)
	if !ok {
		return configErrorf(ErrStateUnknownServer, "server %d not open", id)
	}
	if serviceHandle <= builtinTopHandle {
		m.log.WithFields(logrus.Fields{"server_id": id, "handle": serviceHandle}).Warn("built-in service handle; not removed")
		return nil
	}
	s.RemoveService(serviceHandle)
	m.log.WithFields(logrus.Fields{"server_id": id, "handle": serviceHandle}).Info("service removed")
	return nil
}

// OnLEConnect builds a bearer for a newly connected link, bound to a fresh
// connView over the link's server's schema, and notifies the schema the
// bearer is ready (spec.md §4.3).
func (m *GattModule) OnLEConnect(conn ConnectionId) error {
	s, ok := m.schemas.Get(conn.ServerId)
	if !ok {
		return configErrorf(ErrStateUnknownServer, "conn %s: server %d not open", conn, conn.ServerId)
	}

	transportIdx := conn.TransportIndex
	if _, exists := m.bearers.Get(transportIdx); exists {
		return configErrorf(ErrStateTransportExists, "transport %d already has a bearer", transportIdx)
	}

	view := newConnView(conn, s, m.log)
	bearer := m.newBearer(transportIdx, view, func(pkt []byte) error {
		return m.transport.SendPacket(transportIdx, pkt)
	})

	m.bearers.Set(transportIdx, &bearerEntry{bearer: bearer, schema: s})
	s.OnBearerReady(transportIdx, view)
	m.log.WithField("conn", conn.String()).Info("le link connected")
	return nil
}

// OnLEDisconnect tears down the bearer for transportIdx and notifies its
// schema it is gone.
func (m *GattModule) OnLEDisconnect(transportIdx TransportIndex) error {
	entry, ok := m.bearers.Get(transportIdx)
	if !ok {
		return configErrorf(ErrStateTransportNotFound, "transport %d has no bearer", transportIdx)
	}
	m.bearers.Del(transportIdx)
	entry.bearer.Close()
	entry.schema.OnBearerDropped(transportIdx)
	m.log.WithField("transport_idx", transportIdx).Info("le link disconnected")
	return nil
}

// GetBearer returns the live bearer for transportIdx, if any.
func (m *GattModule) GetBearer(transportIdx TransportIndex) (Bearer, bool) {
	entry, ok := m.bearers.Get(transportIdx)
	if !ok {
		return nil, false
	}
	return entry.bearer, true
}
