// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/schema"
	"github.com/Thermoquad/stencil/pkg/link"
)

var rawLogShowDiscards bool

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display raw frame log in human-readable format",
	Long: `Continuously decode and display frames as they arrive.

Each frame is decoded as the schema type given by --type, checked against the
configured checksum, and printed with a timestamp, its decoded fields and the
raw frame bytes. Bytes that cannot start a frame are skipped one at a time.

Supports both serial and WebSocket connections.`,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
	rawLogCmd.Flags().BoolVar(&rawLogShowDiscards, "show-discards", false, "Print every byte skipped while resynchronising")
}

func runRawLog(cmd *cobra.Command, args []string) error {
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
		return err
	}
	defer conn.Close()

	fmt.Printf("Stencil - Raw Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Payload: %s (%d bytes max) + %s checksum\n", payloadType.Name, payloadType.ExactLen(), framer.Name())
	fmt.Printf("Press Ctrl+C to exit\n\n")

	frame := &schema.Instance{Type: payloadType}
	buf := make([]byte, cfg.Link.ReadChunk)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			if connectionEnded(err) {
				log.Info().Msg("Connection closed")
				return nil
			}
			log.Warn().Err(err).Msg("Read error")
			continue
		}

		data := buf[:n]
		for len(data) > 0 {
			taken := rx.Ingest(data)
			data = data[taken:]
			drainFrames(rx, frame, func(parseErr error) {
				switch {
				case parseErr == nil:
					fmt.Print(formatFrame(time.Now(), framer, frame))
				case rawLogShowDiscards || errors.Is(parseErr, link.ErrFrameTooLarge):
					fmt.Printf("[ERROR] %v\n", parseErr)
				}
			})
		}
	}
}

// drainFrames parses buffered frames until rx needs more input, reporting the
// outcome of every attempt.
func drainFrames(rx *link.Receiver, frame *schema.Instance, report func(error)) {
	for {
		err := rx.TryParse(frame.Decode)
		if errors.Is(err, link.ErrIncomplete) {
			return
		}
		report(err)
	}
}
