package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "gattserver",
	Short: "Demo host for the gatt GATT server core",
	Long: `gattserver is a small demonstration binary built on top of the
gatt package: a cooperative, single-executor GATT server core exposing
schema management, a per-connection attribute database view, and the
GATT/GAP bootstrap every server must expose.

It opens one server, registers a demo characteristic, simulates a link
connecting, and exercises a read and a write through the resulting
bearer.`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}
