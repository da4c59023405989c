// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/logging"
	"github.com/Thermoquad/stencil/internal/schema"
	"github.com/Thermoquad/stencil/pkg/link"
	"github.com/Thermoquad/stencil/pkg/wire"
)

var (
	sendRepeat int
	sendFrom   string
)

var sendCmd = &cobra.Command{
	Use:   "send [value]",
	Short: "Send a command over the link and wait for the response",
	Long: `Send a value of the schema type given by --type as a command and wait for
the peer's response.

Commands travel as [0x00][payload] and responses as [0x01][status], each
followed by the configured checksum. After every command the next one is only
sent once a response arrives or the response timeout expires. Commands sent
by the peer in the meantime are printed and accepted.

Exit status is non-zero if any command was rejected or went unanswered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntVarP(&sendRepeat, "repeat", "n", 1, "Number of times to send the command")
	sendCmd.Flags().StringVar(&sendFrom, "from", inputYAML, "Input format (yaml, cbor)")
}

// commandType is the schema type carried by command. It is set once, before
// any processor starts.
var commandType *schema.Type

// command is a schema value carried in link messages.
type command struct {
	value any
}

func (c *command) Encode(dst wire.Sink) error {
	return commandType.Encode(dst, c.value)
}

func (c *command) Decode(src wire.Source) error {
	v, err := commandType.Decode(src)
	if err != nil {
		return err
	}
	c.value = v
	return nil
}

// sendTally counts the outcome of every command sent.
type sendTally struct {
	mu       sync.Mutex
	ok       int
	rejected int
	timeouts int
}

func (t *sendTally) done() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ok + t.rejected + t.timeouts
}

func runSend(cmd *cobra.Command, args []string) error {
	if sendRepeat < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}
	payloadType, err := loadPayloadType(cfg.Schema)
	if err != nil {
		return err
	}
	text, err := argsOrStdin(cmd, args)
	if err != nil {
		return err
	}
	value, err := parseInput(payloadType, text, sendFrom)
	if err != nil {
		return err
	}
	framer, err := cfg.Link.Framer()
	if err != nil {
		return err
	}
	commandType = payloadType

	conn, connInfo, err := OpenConnection(cfg.Link)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Stencil - Send\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Print(schema.FormatValue(value))
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := link.NewProcessor[command, *command](conn, link.Options{
		RingCapacity:    cfg.Link.RingCapacity,
		TxCapacity:      cfg.Link.TxCapacity,
		ReadChunk:       cfg.Link.ReadChunk,
		ResponseTimeout: cfg.Link.ResponseTimeout,
		Framer:          framer,
		Logger:          logging.Logger(),
	})

	var tally sendTally
	finish := func() {
		if tally.done() == sendRepeat {
			cancel()
		}
	}
	p.OnResponse = func(status link.Status) {
		tally.mu.Lock()
		if status == link.StatusOK {
			tally.ok++
		} else {
			tally.rejected++
		}
		tally.mu.Unlock()
		fmt.Printf("Response: %s\n", status)
		finish()
	}
	p.OnTimeout = func() {
		tally.mu.Lock()
		tally.timeouts++
		tally.mu.Unlock()
		fmt.Printf("TIMEOUT: no response within %s\n", cfg.Link.ResponseTimeout)
		finish()
	}

	outbound := make(chan command, sendRepeat)
	for range sendRepeat {
		outbound <- command{value: value}
	}
	close(outbound)

	err = p.Run(ctx, outbound, func(_ context.Context, in command) error {
		fmt.Printf("Peer command: %s", schema.FormatValue(in.value))
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("\n%s", p.Stats())
	if tally.ok != sendRepeat {
		return fmt.Errorf("%d of %d commands acknowledged (%d rejected, %d unanswered)",
			tally.ok, sendRepeat, tally.rejected, tally.timeouts)
	}
	return nil
}
