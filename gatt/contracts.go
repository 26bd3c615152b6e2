package gatt

import "context"

// AttributeBackingType tells a Datastore whether a delegated read/write
// targets a characteristic value or a descriptor value, per spec.md §6.
type AttributeBackingType int

const (
	// Characteristic identifies a characteristic value attribute.
	Characteristic AttributeBackingType = iota
	// Descriptor identifies a descriptor attribute.
	Descriptor
)

func (t AttributeBackingType) String() string {
	switch t {
	case Characteristic:
		return "characteristic"
	case Descriptor:
		return "descriptor"
	default:
		return "unknown"
	}
}

// Datastore is the application-supplied capability that produces the actual
// values for dynamic (non-static) attributes. It MAY hold internal
// per-connection state keyed on ConnectionId; the core never inspects that
// state. Implementations may suspend (the core delegates to them from a
// cooperative task, never while holding the schema lock).
type Datastore interface {
	// ReadAttribute is called to service an ATT read of a dynamic attribute.
	ReadAttribute(ctx context.Context, conn ConnectionId, handle AttHandle, kind AttributeBackingType) ([]byte, AttErrorCode)
	// WriteAttribute is called to service an ATT write of a dynamic attribute.
	WriteAttribute(ctx context.Context, conn ConnectionId, handle AttHandle, kind AttributeBackingType, data []byte) AttErrorCode
}

// AttTransport is the lower-edge transport that physically sends ATT
// packets for a given link. The core's bearer calls this from its outbound
// path; framing/MTU handling live entirely in the transport and bearer, both
// out of this core's scope (spec.md §1).
type AttTransport interface {
	SendPacket(transportIdx TransportIndex, pkt []byte) error
}

// AttDatabase is the polymorphic capability a Bearer drives: read/write by
// handle, and a full attribute listing. *connView implements it.
type AttDatabase interface {
	ReadAttribute(ctx context.Context, handle AttHandle) ([]byte, AttErrorCode)
	WriteAttribute(ctx context.Context, handle AttHandle, data []byte) AttErrorCode
	ListAttributes() []AttAttribute
}

// Bearer is the per-link ATT state machine, implemented entirely outside
// this core (spec.md §6). The module only needs to be able to create one
// bound to an AttDatabase and an outbound send function, and to notify the
// owning schema when it is ready or gone.
type Bearer interface {
	// Close tears the bearer down; called by the module on link-down
	// (OnLEDisconnect). CloseServer does not close bearers: they stay
	// registered and their views return INVALID_HANDLE.
	Close()
}

// BearerReadyHook and BearerDroppedHook are the schema-side lifecycle hooks
// a schema must expose so the module can register/clear per-bearer state
// (e.g. client-configuration descriptors, Service Changed delivery) without
// the schema holding a strong reference back to the bearer (spec.md §9: the
// back-reference from schema to bearer MUST be weak).
type BearerReadyHook func(transportIdx TransportIndex, view AttDatabase)
type BearerDroppedHook func(transportIdx TransportIndex)
