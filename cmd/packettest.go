// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/schema"
)

var (
	packetTestTimeout int
)

var packetTestCmd = &cobra.Command{
	Use:   "packet_test",
	Short: "Test connection by waiting for a valid frame",
	Long: `Wait for a valid frame on the connection until timeout.

This command connects to a serial port or WebSocket and waits for any frame
that decodes as the schema type given by --type and passes the checksum. It
ignores invalid bytes and waits for a complete, valid frame.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error`,
	RunE: runPacketTest,
}

func init() {
	rootCmd.AddCommand(packetTestCmd)
	packetTestCmd.Flags().IntVar(&packetTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

// packetTestResult is the first frame seen, with the bytes skipped before it.
type packetTestResult struct {
	frame   *schema.Instance
	skipped uint64
}

func runPacketTest(cmd *cobra.Command, args []string) error {
	payloadType, err := loadPayloadType(cfg.Schema)
	if err != nil {
		return err
	}
	rx, framer, err := newReceiver()
	if err != nil {
		return err
	}

	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection(cfg.Link)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Stencil - Packet Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", packetTestTimeout)
	fmt.Printf("Waiting for valid %s frame...\n\n", payloadType.Name)

	// Channel for frame reception
	resultChan := make(chan packetTestResult, 1)
	errChan := make(chan error, 1)

	// Reader goroutine
	go func() {
		frame := &schema.Instance{Type: payloadType}
		buf := make([]byte, cfg.Link.ReadChunk)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			data := buf[:n]
			for len(data) > 0 {
				taken := rx.Ingest(data)
				data = data[taken:]
				var first *schema.Instance
				drainFrames(rx, frame, func(parseErr error) {
					if parseErr == nil && first == nil {
						first = &schema.Instance{Type: payloadType, Value: frame.Value}
					}
				})
				if first != nil {
					resultChan <- packetTestResult{frame: first, skipped: rx.Stats().BytesDiscarded}
					return
				}
			}
		}
	}()

	// Wait for frame or timeout
	select {
	case res := <-resultChan:
		if res.skipped > 0 {
			fmt.Printf("(skipped %d invalid bytes before sync)\n", res.skipped)
		}
		raw, _ := renderFrame(framer, res.frame)
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Length: %d bytes\n", len(raw))
		fmt.Printf("  Checksum: %s\n", framer.Name())
		fmt.Print(schema.HexDump("  Frame: ", raw))
		fmt.Print(schema.FormatValue(res.frame.Value))
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(packetTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", packetTestTimeout)
		os.Exit(1)
	}

	return nil
}
