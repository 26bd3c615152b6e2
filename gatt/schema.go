package gatt

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	blelib "github.com/go-ble/ble"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DescriptorDescription describes one descriptor to add under a
// characteristic (spec.md §3).
type DescriptorDescription struct {
	Handle      AttHandle
	Type        blelib.UUID
	Permissions AttPermissions
}

// CharacteristicDescription describes one characteristic to add under a
// service (spec.md §3). ValueHandle is the handle of the characteristic
// *value* attribute; the declaration attribute is installed automatically
// at ValueHandle-1 (invariant I2).
type CharacteristicDescription struct {
	ValueHandle AttHandle
	Type        blelib.UUID
	Permissions AttPermissions
	Descriptors []DescriptorDescription
}

// ServiceDescription is the input to Schema.AddService (spec.md §3).
type ServiceDescription struct {
	Handle          AttHandle
	Type            blelib.UUID
	Characteristics []CharacteristicDescription
}

// Schema owns one server's ordered handle -> attribute-record mapping. All
// mutations take an exclusive lock; none suspend while holding it
// (spec.md §5). Reads (Lookup, ListAttributes) take a shared lock and
// re-derive their result on every call so dynamic registrations are
// observed (spec.md §4.2's "no caching between calls").
type Schema struct {
	mu         sync.RWMutex
	attributes *orderedmap.OrderedMap[AttHandle, *attributeRecord]
	live       atomic.Bool
}

// NewSchema creates an empty, live schema. Callers normally get one via
// GattModule.OpenServer, which also installs the built-in services.
func NewSchema() *Schema {
	s := &Schema{attributes: orderedmap.New[AttHandle, *attributeRecord]()}
	s.live.Store(true)
	return s
}

// AddService builds the attribute records for one service (service
// declaration, then per characteristic: declaration, value, descriptors, in
// input order) and commits them atomically: either every handle merges, or
// none do (spec.md §4.1 commit rule, P4).
func (s *Schema) AddService(desc ServiceDescription, store Datastore) error {
	provisional := orderedmap.New[AttHandle, *attributeRecord]()
	count := 0

	add := func(rec *attributeRecord) {
		count++
		provisional.Set(rec.attribute.Handle, rec)
	}

	add(&attributeRecord{
		attribute: AttAttribute{Handle: desc.Handle, Type: PrimaryServiceDeclarationUUID, Permissions: READABLE},
		value:     staticValue{data: encodeServiceDeclaration(desc.Type)},
	})

	for _, c := range desc.Characteristics {
		declHandle := AttHandle(uint16(c.ValueHandle) - 1)
		add(&attributeRecord{
			attribute: AttAttribute{Handle: declHandle, Type: CharacteristicDeclarationUUID, Permissions: READABLE},
			value:     staticValue{data: encodeCharacteristicDeclaration(c.ValueHandle, c.Permissions, c.Type)},
		})
		add(&attributeRecord{
			attribute: AttAttribute{Handle: c.ValueHandle, Type: c.Type, Permissions: c.Permissions},
			value:     dynamicCharacteristicValue{store: store},
		})
		for _, d := range c.Descriptors {
			add(&attributeRecord{
				attribute: AttAttribute{Handle: d.Handle, Type: d.Type, Permissions: d.Permissions},
				value:     dynamicDescriptorValue{store: store},
			})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for pair := provisional.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := s.attributes.Get(pair.Key); exists {
			return configErrorf(ErrStateDuplicateHandle, "handle %s already present", pair.Key)
		}
	}
	if provisional.Len() != count {
		return configErrorf(ErrStateDuplicateHandle, "duplicate handle within service description %s", desc.Handle)
	}

	for pair := provisional.Oldest(); pair != nil; pair = pair.Next() {
		s.attributes.Set(pair.Key, pair.Value)
	}
	return nil
}

// RemoveService deletes every record in [serviceHandle, nextServiceHandle),
// where nextServiceHandle is the smallest handle greater than serviceHandle
// whose type is a primary service declaration (spec.md §4.1). It is
// idempotent: removing an unknown handle is a no-op and never errors,
// exactly as spec.md and the original remove_service_at_handle do.
func (s *Schema) RemoveService(serviceHandle AttHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.attributes.Get(serviceHandle); !exists {
		return
	}

	// The ordered map iterates in insertion order, not handle order, so both
	// scans below visit every record.
	var nextServiceHandle AttHandle
	hasNext := false
	for pair := s.attributes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key > serviceHandle && isPrimaryServiceDeclaration(pair.Value.attribute.Type) &&
			(!hasNext || pair.Key < nextServiceHandle) {
			nextServiceHandle = pair.Key
			hasNext = true
		}
	}

	var toDelete []AttHandle
	for pair := s.attributes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key < serviceHandle || (hasNext && pair.Key >= nextServiceHandle) {
			continue
		}
		toDelete = append(toDelete, pair.Key)
	}
	for _, h := range toDelete {
		s.attributes.Delete(h)
	}
}

// ListAttributes returns the public view of every live attribute, in
// ascending handle order. The ordered map keeps insertion order, which
// differs from handle order when services are added out of order, so the
// result is sorted by handle before it is returned.
func (s *Schema) ListAttributes() []AttAttribute {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AttAttribute, 0, s.attributes.Len())
	for pair := s.attributes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.attribute)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Lookup returns the full record at handle, or (nil, false) if absent.
func (s *Schema) Lookup(handle AttHandle) (*attributeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.attributes.Get(handle)
	return rec, ok
}

// OnBearerReady notifies the schema that a bearer now exists for
// transportIdx, backed by view. The schema keeps no per-bearer state, so
// this does nothing (Service Changed indication delivery is out of scope,
// spec.md §1 Non-goals); per-bearer CCCD bookkeeping is not done here.
func (s *Schema) OnBearerReady(transportIdx TransportIndex, view AttDatabase) {}

// OnBearerDropped notifies the schema a bearer is gone. See OnBearerReady.
func (s *Schema) OnBearerDropped(transportIdx TransportIndex) {}

// markDead flips the schema's liveness flag. Called by GattModule.CloseServer
// so that any connView sharing this schema degrades to INVALID_HANDLE
// instead of racing on freed state (spec.md I5).
func (s *Schema) markDead() { s.live.Store(false) }

// isLive reports whether the schema has not yet been closed.
func (s *Schema) isLive() bool { return s.live.Load() }

func (s *Schema) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("schema{%d attributes}", s.attributes.Len())
}
