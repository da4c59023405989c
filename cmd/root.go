// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/config"
	"github.com/Thermoquad/stencil/internal/logging"
)

var (
	configPath string

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Schema flags
	schemaPath string
	typeName   string

	logLevel string

	// cfg is resolved before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Fixed-layout wire codec toolkit",
	Long: `Stencil - generate, inspect and exchange fixed-layout wire frames.

Types are described in a YAML schema. Stencil generates Go code for them,
decodes and encodes frames by hand, and watches live links where every frame
is a payload followed by a checksum.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the STENCIL_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.

Settings may also come from a TOML file given with --config. Flags override
the file when set explicitly.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", config.DefaultBaud, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Schema flags
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "YAML schema describing the frame payload")
	rootCmd.PersistentFlags().StringVarP(&typeName, "type", "t", "", "Schema type of the frame payload")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error, disabled)")
}

// loadConfig resolves defaults, the config file, the environment and flags,
// in that order, and configures logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		loaded.Link.Port = portName
	}
	if flags.Changed("baud") {
		loaded.Link.Baud = baudRate
	}
	if flags.Changed("url") {
		loaded.Link.URL = wsURL
	}
	if flags.Changed("username") {
		loaded.Link.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		loaded.Link.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("schema") {
		loaded.Schema.Path = schemaPath
	}
	if flags.Changed("type") {
		loaded.Schema.Type = typeName
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.ConfigureRuntime()
	if loaded.Log.Level != "" {
		if err := logging.SetLevel(loaded.Log.Level); err != nil {
			return err
		}
	}

	cfg = loaded
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
