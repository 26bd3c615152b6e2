package gatt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/srg/gattserver/gatt"
)

// BuiltinTestSuite exercises the mandatory GAP/GATT bootstrap every opened
// server carries (spec.md §4.4).
type BuiltinTestSuite struct {
	suite.Suite
}

func TestBuiltinTestSuite(t *testing.T) {
	suite.Run(t, new(BuiltinTestSuite))
}

func (suite *BuiltinTestSuite) TestDeviceNameIsReadable() {
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))
	bearer := mustGetLoopbackBearer(suite.T(), module, 1)

	data, code := bearer.Read(context.Background(), 3)
	suite.Require().Equal(gatt.Success, code)
	suite.Assert().Equal("test-device", string(data))
}

func (suite *BuiltinTestSuite) TestDeviceNameIsNotWritable() {
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))
	bearer := mustGetLoopbackBearer(suite.T(), module, 1)

	code := bearer.Write(context.Background(), 3, []byte("someone else"))
	suite.Assert().Equal(gatt.WriteNotPermitted, code)
}

func (suite *BuiltinTestSuite) TestClientConfigDescriptorDefaultsToDisabled() {
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))
	bearer := mustGetLoopbackBearer(suite.T(), module, 1)

	data, code := bearer.Read(context.Background(), 7)
	suite.Require().Equal(gatt.Success, code)
	suite.Assert().Equal([]byte{0x00, 0x00}, data)
}

func (suite *BuiltinTestSuite) TestClientConfigDescriptorRoundTrip() {
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))
	suite.Require().NoError(module.OnLEConnect(gatt.ConnectionId{ServerId: 1, TransportIndex: 1}))
	bearer := mustGetLoopbackBearer(suite.T(), module, 1)

	code := bearer.Write(context.Background(), 7, []byte{0x02, 0x00})
	suite.Require().Equal(gatt.Success, code)

	data, code := bearer.Read(context.Background(), 7)
	suite.Require().Equal(gatt.Success, code)
	suite.Assert().Equal([]byte{0x02, 0x00}, data)
}

func (suite *BuiltinTestSuite) TestApplicationServiceHandlesDoNotCollideWithBuiltins() {
	module := newTestModule()
	suite.Require().NoError(module.OpenServer(1))

	store := &countingStore{}
	err := module.AddService(1, gatt.ServiceDescription{
		Handle: 1,
		Type:   testService1Type,
	}, store)
	suite.Require().Error(err, "handle 1 collides with the builtin GAP service declaration")
	suite.Assert().ErrorIs(err, gatt.ErrDuplicateHandle)
}
