// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/schema"
	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/link"
)

var (
	showAll       bool
	statsInterval int
	useTUI        bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Track frame errors and link statistics",
	Long: `Watch a link and track valid frames, checksum failures and resyncs.

Every frame is decoded as the schema type given by --type. Bytes that cannot
start a frame are skipped one at a time until the stream lines up again; each
run of skipped bytes is reported once, with the error that started it.

By default, only errors are displayed. Use --show-all to display valid frames too.

The terminal UI shows statistics, receive buffer fill and the latest frame.
Text mode prints statistics summaries at configurable intervals.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all frames (not just errors)")
	monitorCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
	monitorCmd.Flags().BoolVar(&useTUI, "tui", true, "Use terminal UI (false for text mode)")
}

// watchEvent is one valid frame together with the bytes skipped before it.
type watchEvent struct {
	at      time.Time
	value   any
	first   bool
	skipped uint64
	cause   error
}

// frameWatcher turns inbound chunks into watch events. It is owned by a
// single goroutine.
type frameWatcher struct {
	rx       *link.Receiver
	frame    *schema.Instance
	synced   bool
	skipped  uint64
	firstErr error
}

func newFrameWatcher(rx *link.Receiver, t *schema.Type) *frameWatcher {
	return &frameWatcher{rx: rx, frame: &schema.Instance{Type: t}}
}

// feed parses data and calls emit for every frame it completes.
func (fw *frameWatcher) feed(data []byte, emit func(watchEvent)) {
	for len(data) > 0 {
		n := fw.rx.Ingest(data)
		data = data[n:]
		drainFrames(fw.rx, fw.frame, func(err error) {
			if err != nil {
				fw.skipped++
				if fw.firstErr == nil {
					fw.firstErr = err
				}
				return
			}
			emit(watchEvent{
				at:      time.Now(),
				value:   fw.frame.Value,
				first:   !fw.synced,
				skipped: fw.skipped,
				cause:   fw.firstErr,
			})
			fw.synced = true
			fw.skipped = 0
			fw.firstErr = nil
		})
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
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

	watcher := newFrameWatcher(rx, payloadType)
	if useTUI {
		return runTUIMode(conn, connInfo, watcher)
	}
	return runTextMode(conn, connInfo, watcher, framer)
}

// runTUIMode runs the monitor in TUI mode
func runTUIMode(conn Connection, connInfo string, watcher *frameWatcher) error {
	// Create TUI program
	m := initialModel(connInfo, watcher.frame.Type.Name, showAll)
	p := tea.NewProgram(m)

	// Reader goroutine; the receiver is only touched here
	go func() {
		buf := make([]byte, cfg.Link.ReadChunk)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if connectionEnded(err) {
					p.Send(connectionLostMsg{err: err})
					return
				}
				log.Debug().Err(err).Msg("Read error")
				continue
			}

			watcher.feed(buf[:n], func(ev watchEvent) {
				p.Send(frameMsg{event: ev, text: schema.FormatValue(ev.value)})
			})
			p.Send(statsMsg{
				stats:    *watcher.rx.Stats(),
				buffered: watcher.rx.Buffered(),
				capacity: watcher.rx.Capacity(),
			})
		}
	}()

	// Run TUI
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// runTextMode runs the monitor in text mode
func runTextMode(conn Connection, connInfo string, watcher *frameWatcher, framer crc.Framer) error {
	fmt.Printf("Stencil - Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Payload: %s + %s checksum\n", watcher.frame.Type.Name, framer.Name())
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All frames\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	// Statistics ticker
	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	// Channel for non-blocking reads
	readBuf := make(chan []byte, 10)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, cfg.Link.ReadChunk)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if connectionEnded(err) {
					readErr <- err
					return
				}
				log.Debug().Err(err).Msg("Read error")
				continue
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			readBuf <- data
		}
	}()

	for {
		select {
		case data := <-readBuf:
			watcher.feed(data, func(ev watchEvent) {
				printWatchEvent(ev, framer, watcher.frame)
			})

		case err := <-readErr:
			fmt.Printf("\nConnection closed: %v\n\n", err)
			fmt.Print(watcher.rx.Stats().String())
			return nil

		case <-statsTicker.C:
			// Print statistics
			fmt.Println()
			fmt.Print(watcher.rx.Stats().String())
			fmt.Println()
		}
	}
}

// printWatchEvent prints one watch event in text mode.
func printWatchEvent(ev watchEvent, framer crc.Framer, frame *schema.Instance) {
	timestamp := ev.at.Format("15:04:05.000")
	switch {
	case ev.first && ev.skipped > 0:
		fmt.Printf("[SYNC] Synchronized after skipping %d invalid bytes\n\n", ev.skipped)
	case ev.first:
		fmt.Printf("[SYNC] Synchronized\n\n")
	case ev.skipped > 0:
		fmt.Printf("[%s] \033[1;31mRESYNC:\033[0m skipped %d bytes (%v)\n\n", timestamp, ev.skipped, ev.cause)
	}
	if showAll {
		fmt.Print(formatFrame(ev.at, framer, frame))
	}
}
