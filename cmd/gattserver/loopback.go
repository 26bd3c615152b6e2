package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/srg/gattserver/gatt"
)

// loopbackTransport is a stand-in AttTransport that just logs outbound
// packets; this demo has no real radio, so there is nowhere else to send
// them. A real lower-edge transport sits entirely outside the core
// (spec.md §6).
type loopbackTransport struct {
	log *logrus.Logger
}

func (t *loopbackTransport) SendPacket(transportIdx gatt.TransportIndex, pkt []byte) error {
	t.log.WithFields(logrus.Fields{"transport_idx": transportIdx, "bytes": len(pkt)}).Debug("sent packet")
	return nil
}

// loopbackBearer is the simplest possible Bearer: it holds the AttDatabase
// view handed to it at connect time and lets the demo drive reads/writes
// directly, in place of a real ATT request/response state machine.
type loopbackBearer struct {
	db   gatt.AttDatabase
	send func([]byte) error
}

func newLoopbackBearer(transportIdx gatt.TransportIndex, db gatt.AttDatabase, send func([]byte) error) gatt.Bearer {
	return &loopbackBearer{db: db, send: send}
}

func (b *loopbackBearer) Close() {}

// Read and Write let cmd/gattserver's serve command exercise the bearer
// the way a real ATT request handler would, without implementing the wire
// protocol itself.
func (b *loopbackBearer) Read(ctx context.Context, handle gatt.AttHandle) ([]byte, gatt.AttErrorCode) {
	return b.db.ReadAttribute(ctx, handle)
}

func (b *loopbackBearer) Write(ctx context.Context, handle gatt.AttHandle, data []byte) gatt.AttErrorCode {
	return b.db.WriteAttribute(ctx, handle, data)
}
