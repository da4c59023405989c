// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package link

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/ring"
	"github.com/Thermoquad/stencil/pkg/wire"
)

// Default processor settings
const (
	DefaultRingCapacity    = 256
	DefaultTxCapacity      = 256
	DefaultReadChunk       = 128
	DefaultResponseTimeout = 500 * time.Millisecond
)

// Options configures a Processor. Zero fields take the defaults above.
type Options struct {
	RingCapacity    int
	TxCapacity      int
	ReadChunk       int
	ResponseTimeout time.Duration
	Framer          crc.Framer
	Logger          zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.RingCapacity <= 0 {
		o.RingCapacity = DefaultRingCapacity
	}
	if o.TxCapacity <= 0 {
		o.TxCapacity = DefaultTxCapacity
	}
	if o.ReadChunk <= 0 {
		o.ReadChunk = DefaultReadChunk
	}
	if o.ResponseTimeout <= 0 {
		o.ResponseTimeout = DefaultResponseTimeout
	}
	if o.Framer == nil {
		o.Framer = crc.NewCCITTFramer()
	}
}

// DispatchFunc handles one inbound command. A non-nil error is answered with
// StatusRejected.
type DispatchFunc[P any] func(ctx context.Context, cmd P) error

// Processor exchanges commands of type P with a peer over a byte stream.
//
// Inbound commands are dispatched and answered with a response. Outbound
// commands are sent one at a time; after each one the processor waits for the
// peer's response, or for the response timeout, before sending the next.
type Processor[P any, PP wire.Codec[P]] struct {
	port    io.ReadWriter
	rx      *Receiver
	framer  crc.Framer
	tx      []byte
	chunk   int
	timeout time.Duration
	log     zerolog.Logger

	// OnResponse, if set, is called with the response to each command sent.
	// Responses that arrive after the command timed out, or with no command
	// sent, are only counted in Statistics.UnsolicitedResponses.
	OnResponse func(Status)

	// OnTimeout, if set, is called when a command goes unanswered.
	OnTimeout func()
}

// NewProcessor returns a processor speaking over port.
func NewProcessor[P any, PP wire.Codec[P]](port io.ReadWriter, opts Options) *Processor[P, PP] {
	opts.applyDefaults()
	return &Processor[P, PP]{
		port:    port,
		rx:      NewReceiver(ring.New(opts.RingCapacity), opts.Framer, opts.Logger),
		framer:  opts.Framer,
		tx:      make([]byte, opts.TxCapacity),
		chunk:   opts.ReadChunk,
		timeout: opts.ResponseTimeout,
		log:     opts.Logger,
	}
}

// Stats returns the statistics of the underlying receiver. They are only safe
// to read once Run has returned.
func (p *Processor[P, PP]) Stats() *Statistics {
	return p.rx.Stats()
}

// Send renders msg into the transmit buffer and writes it to the port.
func (p *Processor[P, PP]) Send(msg Message[P, PP]) error {
	w := wire.NewWriter(p.tx)
	if err := p.framer.Render(&w, &msg); err != nil {
		return fmt.Errorf("rendering %s: %w", msg.Kind, err)
	}
	if _, err := p.port.Write(w.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", msg.Kind, err)
	}
	return nil
}

// Run serves the link until ctx is cancelled or the port fails.
//
// A helper goroutine reads from the port and hands chunks to Run, which owns
// all parsing state. That goroutine can only exit once a Read returns, so
// callers should close the port after Run returns. Run returns nil on io.EOF.
func (p *Processor[P, PP]) Run(ctx context.Context, outbound <-chan P, dispatch DispatchFunc[P]) error {
	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			buf := make([]byte, p.chunk)
			n, err := p.port.Read(buf)
			if n > 0 {
				select {
				case chunks <- buf[:n]:
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	timer := time.NewTimer(p.timeout)
	timer.Stop()
	defer timer.Stop()

	// queue is nil while a command awaits its response, which pauses sending.
	queue := outbound
	awaiting := false
	var msg Message[P, PP]
	decode := func(src wire.Source) error { return msg.Decode(src) }

	// Frames found in one chunk are collected first and handled after
	// parsing, so dispatch never runs with a half-parsed buffer.
	var inbox []Message[P, PP]
	collect := func() { inbox = append(inbox, msg) }

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading link: %w", err)

		case data := <-chunks:
			p.log.Trace().Int("bytes", len(data)).Msg("received chunk")
			inbox = inbox[:0]
			p.rx.Pump(data, decode, collect)
			for _, in := range inbox {
				switch in.Kind {
				case KindCommand:
					if err := p.answer(ctx, in.Command, dispatch); err != nil {
						return err
					}
				case KindResponse:
					if !awaiting {
						p.rx.Stats().UnsolicitedResponses++
						p.log.Debug().Stringer("status", in.Status).Msg("ignoring response with no command outstanding")
						continue
					}
					awaiting = false
					timer.Stop()
					queue = outbound
					p.log.Debug().Stringer("status", in.Status).Msg("response received")
					if p.OnResponse != nil {
						p.OnResponse(in.Status)
					}
				}
			}

		case cmd, ok := <-queue:
			if !ok {
				outbound, queue = nil, nil
				continue
			}
			if err := p.Send(NewCommand[P, PP](cmd)); err != nil {
				return err
			}
			p.rx.Stats().CommandsSent++
			p.log.Debug().Msg("command sent, awaiting response")
			queue, awaiting = nil, true
			timer.Reset(p.timeout)

		case <-timer.C:
			p.rx.Stats().ResponseTimeout++
			p.log.Warn().Dur("timeout", p.timeout).Msg("no response to command")
			if p.OnTimeout != nil {
				p.OnTimeout()
			}
			queue, awaiting = outbound, false
		}
	}
}

func (p *Processor[P, PP]) answer(ctx context.Context, cmd P, dispatch DispatchFunc[P]) error {
	status := StatusOK
	if err := dispatch(ctx, cmd); err != nil {
		p.log.Warn().Err(err).Msg("command rejected")
		status = StatusRejected
	}
	if err := p.Send(NewResponse[P, PP](status)); err != nil {
		return err
	}
	p.rx.Stats().ResponsesSent++
	p.log.Debug().Stringer("status", status).Msg("response sent")
	return nil
}
