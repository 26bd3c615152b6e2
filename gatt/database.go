package gatt

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/srg/gattserver/gatt/internal/task"
)

// connView is the per-connection AttDatabase view: a fixed ConnectionId
// paired with a weak reference to a Schema. It never caches attribute
// metadata between calls (spec.md §4.2): every call re-looks-up under the
// schema's own lock so that dynamic registrations are observed immediately.
type connView struct {
	conn   ConnectionId
	schema *Schema
	log    *logrus.Entry
}

var _ AttDatabase = (*connView)(nil)

func newConnView(conn ConnectionId, schema *Schema, log *logrus.Logger) *connView {
	if log == nil {
		log = logrus.New()
	}
	return &connView{
		conn:   conn,
		schema: schema,
		log:    log.WithField("conn", conn.String()),
	}
}

// ReadAttribute implements spec.md §4.2's read_attribute.
func (v *connView) ReadAttribute(ctx context.Context, handle AttHandle) ([]byte, AttErrorCode) {
	if !v.schema.isLive() {
		return nil, InvalidHandle
	}
	rec, ok := v.schema.Lookup(handle)
	if !ok {
		return nil, InvalidHandle
	}
	if !rec.attribute.Permissions.Readable() {
		return nil, ReadNotPermitted
	}

	// Only the dynamic branches below suspend (the datastore call), and
	// only after the schema lock taken by Lookup has already been released.
	switch val := rec.value.(type) {
	case staticValue:
		return val.data, Success
	case dynamicCharacteristicValue:
		return v.dispatchRead(ctx, val.store, handle, Characteristic)
	case dynamicDescriptorValue:
		return v.dispatchRead(ctx, val.store, handle, Descriptor)
	default:
		v.log.WithField("handle", handle).Error("attribute has no recognized backing value")
		return nil, UnlikelyError
	}
}

// WriteAttribute implements spec.md §4.2's write_attribute.
func (v *connView) WriteAttribute(ctx context.Context, handle AttHandle, data []byte) AttErrorCode {
	if !v.schema.isLive() {
		return InvalidHandle
	}
	rec, ok := v.schema.Lookup(handle)
	if !ok {
		return InvalidHandle
	}
	if !rec.attribute.Permissions.Writable() {
		return WriteNotPermitted
	}

	switch val := rec.value.(type) {
	case staticValue:
		v.log.WithField("handle", handle).Error("a static attribute is marked writable; rejecting the write")
		return WriteNotPermitted
	case dynamicCharacteristicValue:
		return v.dispatchWrite(ctx, val.store, handle, Characteristic, data)
	case dynamicDescriptorValue:
		return v.dispatchWrite(ctx, val.store, handle, Descriptor, data)
	default:
		v.log.WithField("handle", handle).Error("attribute has no recognized backing value")
		return UnlikelyError
	}
}

// ListAttributes implements spec.md §4.2's list_attributes: empty if the
// schema is dead, otherwise the full ordered list.
func (v *connView) ListAttributes() []AttAttribute {
	if !v.schema.isLive() {
		return nil
	}
	return v.schema.ListAttributes()
}

type readResult struct {
	data []byte
	code AttErrorCode
}

// dispatchRead runs one datastore read on its own named goroutine (via
// gatt/internal/task) so pprof/log correlation can tell concurrent in-flight
// datastore calls apart, and waits for either its result or ctx's
// cancellation. A caller can abandon a suspended read without leaving the
// schema locked: the lock is already released by the time this runs.
func (v *connView) dispatchRead(ctx context.Context, store Datastore, handle AttHandle, kind AttributeBackingType) ([]byte, AttErrorCode) {
	done := make(chan readResult, 1)
	name := fmt.Sprintf("gatt-read-%s", handle)
	task.Go(ctx, name, func(ctx context.Context) {
		data, code := store.ReadAttribute(ctx, v.conn, handle, kind)
		done <- readResult{data: data, code: code}
	})
	select {
	case res := <-done:
		return res.data, res.code
	case <-ctx.Done():
		return nil, UnlikelyError
	}
}

type writeResult struct {
	code AttErrorCode
}

// dispatchWrite is dispatchRead's write-side counterpart.
func (v *connView) dispatchWrite(ctx context.Context, store Datastore, handle AttHandle, kind AttributeBackingType, data []byte) AttErrorCode {
	done := make(chan writeResult, 1)
	name := fmt.Sprintf("gatt-write-%s", handle)
	task.Go(ctx, name, func(ctx context.Context) {
		code := store.WriteAttribute(ctx, v.conn, handle, kind, data)
		done <- writeResult{code: code}
	})
	select {
	case res := <-done:
		return res.code
	case <-ctx.Done():
		return UnlikelyError
	}
}
