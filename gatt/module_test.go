package gatt_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/srg/gattserver/gatt"
)

// testTransport records every packet handed to it; none of the tests in
// this package drive a real ATT wire format, so there is nothing to
// inspect beyond "it was called."
type testTransport struct {
	sent [][]byte
}

func (t *testTransport) SendPacket(_ gatt.TransportIndex, pkt []byte) error {
	t.sent = append(t.sent, pkt)
	return nil
}

// testBearer is the simplest possible gatt.Bearer: it keeps the AttDatabase
// view handed to it at connect time so tests can drive reads/writes through
// it directly, standing in for a real ATT request/response state machine
// (out of this core's scope per spec.md §6).
type testBearer struct {
	db     gatt.AttDatabase
	closed bool
}

func newTestBearer(_ gatt.TransportIndex, db gatt.AttDatabase, _ func([]byte) error) gatt.Bearer {
	return &testBearer{db: db}
}

func (b *testBearer) Close() { b.closed = true }

func (b *testBearer) Read(ctx context.Context, handle gatt.AttHandle) ([]byte, gatt.AttErrorCode) {
	return b.db.ReadAttribute(ctx, handle)
}

func (b *testBearer) Write(ctx context.Context, handle gatt.AttHandle, data []byte) gatt.AttErrorCode {
	return b.db.WriteAttribute(ctx, handle, data)
}

func (b *testBearer) ListAttributes() []gatt.AttAttribute {
	return b.db.ListAttributes()
}

func newTestModule() *gatt.GattModule {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return gatt.NewGattModule(&testTransport{}, newTestBearer, "test-device", log)
}

// mustGetLoopbackBearer fetches transportIdx's bearer and asserts it is the
// package's own testBearer, failing the test otherwise.
func mustGetLoopbackBearer(t *testing.T, module *gatt.GattModule, transportIdx gatt.TransportIndex) *testBearer {
	t.Helper()
	b, ok := module.GetBearer(transportIdx)
	if !ok {
		t.Fatalf("no bearer for transport %d", transportIdx)
	}
	tb, ok := b.(*testBearer)
	if !ok {
		t.Fatalf("unexpected bearer type %T", b)
	}
	return tb
}

// ModuleTestSuite exercises GattModule's server and bearer lifecycle.
type ModuleTestSuite struct {
	suite.Suite
}

func TestModuleTestSuite(t *testing.T) {
	suite.Run(t, new(ModuleTestSuite))
}

func (suite *ModuleTestSuite) TestOpenServerInstallsBuiltinServices() {
	// GOAL: 4.4 — every opened server exposes the mandatory GAP and GATT
	// services from the moment it is opened.
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))

	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))
	bearer := mustGetLoopbackBearer(suite.T(), module, 1)

	attrs := bearer.ListAttributes()
	suite.Assert().GreaterOrEqual(len(attrs), 6, "GAP + GATT builtin services MUST already be present")
}

func (suite *ModuleTestSuite) TestOpenServerRejectsReopenWithoutClobbering() {
	// GOAL: reopening a server id rejects with ErrAlreadyOpen instead of
	// silently clobbering the live schema (see DESIGN.md open question #1).
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))

	err := module.OpenServer(1)
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrAlreadyOpen)
}

func (suite *ModuleTestSuite) TestCloseUnknownServerErrors() {
	module := newTestModule()
	err := module.CloseServer(42)
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrUnknownServer)
}

func (suite *ModuleTestSuite) TestAddServiceOnUnknownServerErrors() {
	module := newTestModule()
	store := &countingStore{}
	err := module.AddService(42, gatt.ServiceDescription{Handle: 100, Type: testService1Type}, store)
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrUnknownServer)
}

func (suite *ModuleTestSuite) TestOnLEConnectUnknownServerErrors() {
	module := newTestModule()
	err := module.OnLEConnect(gatt.ConnectionId{ServerId: 7, TransportIndex: 1})
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrUnknownServer)
}

func (suite *ModuleTestSuite) TestOnLEConnectRejectsAlreadyConnectedTransport() {
	// GOAL: spec.md §7.1 — an already-connected transport_idx is a
	// configuration error, not a silent bearer overwrite.
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))

	err := module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1})
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrTransportExists)
}

func (suite *ModuleTestSuite) TestOnLEDisconnectUnknownTransportErrors() {
	module := newTestModule()
	err := module.OnLEDisconnect(99)
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrTransportNotFound)
}

func (suite *ModuleTestSuite) TestOnLEDisconnectRemovesBearer() {
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))

	_, ok := module.GetBearer(1)
	suite.Require().True(ok)

	suite.Require().NoError(module.OnLEDisconnect(1))

	_, ok = module.GetBearer(1)
	suite.Assert().False(ok)
}

func (suite *ModuleTestSuite) TestRemoveServiceOnUnknownServerErrors() {
	module := newTestModule()
	err := module.RemoveService(42, 100)
	suite.Require().Error(err)
	suite.Assert().ErrorIs(err, gatt.ErrUnknownServer)
}

func (suite *ModuleTestSuite) TestCloseServerThenReopenSucceeds() {
	// GOAL: closing a server frees its id for reuse.
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.CloseServer(1))
	suite.Require().NoError(module.OpenServer(1))
}
