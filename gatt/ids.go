package gatt

import "fmt"

// ServerId is an opaque logical server identity, chosen by the caller that
// opens a server (e.g. the RPC/IPC layer sitting above this core).
type ServerId uint16

// TransportIndex identifies one LE link (one ATT bearer). It is unique while
// the link is up; the lower-edge transport chooses the numbering scheme.
type TransportIndex uint16

// ConnectionId names a (server, link) pair for datastore callbacks.
type ConnectionId struct {
	ServerId       ServerId
	TransportIndex TransportIndex
}

func (c ConnectionId) String() string {
	return fmt.Sprintf("conn{server=%d,link=%d}", c.ServerId, c.TransportIndex)
}

// AttHandle is a 16-bit ATT handle. The value 0 is reserved/invalid; handles
// are totally ordered by their numeric value.
type AttHandle uint16

// ReservedHandle is the reserved, never-assignable handle value.
const ReservedHandle AttHandle = 0

func (h AttHandle) String() string {
	return fmt.Sprintf("0x%04x", uint16(h))
}
