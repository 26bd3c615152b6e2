package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/srg/gattserver/gatt"
)

// demoCounterDatastore backs a single read/write characteristic whose value
// is a per-connection counter, incremented on every write. It stands in for
// the real application-supplied Datastore spec.md §6 describes.
type demoCounterDatastore struct {
	mu       sync.Mutex
	counters map[gatt.ConnectionId]uint32
}

func newDemoCounterDatastore() *demoCounterDatastore {
	return &demoCounterDatastore{counters: make(map[gatt.ConnectionId]uint32)}
}

func (d *demoCounterDatastore) ReadAttribute(_ context.Context, conn gatt.ConnectionId, _ gatt.AttHandle, kind gatt.AttributeBackingType) ([]byte, gatt.AttErrorCode) {
	if kind != gatt.Characteristic {
		return nil, gatt.UnlikelyError
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return []byte(fmt.Sprintf("%d", d.counters[conn])), gatt.Success
}

func (d *demoCounterDatastore) WriteAttribute(_ context.Context, conn gatt.ConnectionId, _ gatt.AttHandle, kind gatt.AttributeBackingType, _ []byte) gatt.AttErrorCode {
	if kind != gatt.Characteristic {
		return gatt.UnlikelyError
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counters[conn]++
	return gatt.Success
}
