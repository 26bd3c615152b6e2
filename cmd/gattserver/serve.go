package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	blelib "github.com/go-ble/ble"
	"github.com/spf13/cobra"
	"github.com/srg/gattserver/gatt"
)

var demoCounterCharUUID = blelib.MustParse("6E400010-B5A3-F393-E0A9-E50E24DCCA9E")
var demoServiceUUID = blelib.MustParse("6E400000-B5A3-F393-E0A9-E50E24DCCA9E")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open a demo GATT server, connect a loopback link, and exercise it",
	Long: `Opens one in-process GATT server, registers a demo counter
characteristic, simulates a link connecting, performs a read and a write
against it through the generated bearer, then tears everything down.

There is no real radio here: cmd/gattserver is a demonstration of how an
application wires gatt.GattModule to its own Datastore and AttTransport,
not a usable BLE peripheral.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "path to a YAML config file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger := cfg.NewLogger()

	transport := &loopbackTransport{log: logger}
	module := gatt.NewGattModule(transport, newLoopbackBearer, cfg.DeviceName, logger)

	serverID := gatt.ServerId(cfg.ServerID)
	if err := module.OpenServer(serverID); err != nil {
		return fmt.Errorf("opening server: %w", err)
	}
	defer func() { _ = module.CloseServer(serverID) }()

	store := newDemoCounterDatastore()
	const counterValueHandle = 0x0010
	if err := module.AddService(serverID, gatt.ServiceDescription{
		Handle: counterValueHandle - 2,
		Type:   demoServiceUUID,
		Characteristics: []gatt.CharacteristicDescription{
			{
				ValueHandle: counterValueHandle,
				Type:        demoCounterCharUUID,
				Permissions: gatt.READABLE | gatt.WRITABLE,
			},
		},
	}, store); err != nil {
		return fmt.Errorf("adding demo service: %w", err)
	}

	if cfg.DialDelay > 0 {
		logger.WithField("delay", cfg.DialDelay).Debug("waiting before simulating link-up")
		time.Sleep(cfg.DialDelay)
	}

	const transportIdx gatt.TransportIndex = 1
	conn := gatt.ConnectionId{ServerId: serverID, TransportIndex: transportIdx}
	if err := module.OnLEConnect(conn); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer func() { _ = module.OnLEDisconnect(transportIdx) }()

	bearer, ok := module.GetBearer(transportIdx)
	if !ok {
		return ErrNoBearer
	}
	lb, ok := bearer.(*loopbackBearer)
	if !ok {
		return fmt.Errorf("unexpected bearer type %T", bearer)
	}

	ctx := context.Background()
	value, code := lb.Read(ctx, counterValueHandle)
	if code.IsError() {
		return fmt.Errorf("initial read: %w", code)
	}
	color.Green("counter value before write: %s", value)

	if code := lb.Write(ctx, counterValueHandle, []byte{0x01}); code.IsError() {
		return fmt.Errorf("write: %w", code)
	}

	value, code = lb.Read(ctx, counterValueHandle)
	if code.IsError() {
		return fmt.Errorf("read after write: %w", code)
	}
	color.Green("counter value after write: %s", value)

	return nil
}
