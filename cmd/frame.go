// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/stencil/internal/config"
	"github.com/Thermoquad/stencil/internal/logging"
	"github.com/Thermoquad/stencil/internal/schema"
	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/link"
	"github.com/Thermoquad/stencil/pkg/ring"
	"github.com/Thermoquad/stencil/pkg/wire"
)

// loadPayloadType loads the configured schema and returns the frame payload
// type.
func loadPayloadType(s config.Schema) (*schema.Type, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("--schema must be specified")
	}
	if s.Type == "" {
		return nil, fmt.Errorf("--type must be specified")
	}
	doc, err := schema.Load(s.Path)
	if err != nil {
		return nil, err
	}
	t, ok := doc.Lookup(s.Type)
	if !ok {
		return nil, fmt.Errorf("schema %s has no type %s", s.Path, s.Type)
	}
	return t, nil
}

// newReceiver builds a receiver from the resolved link configuration.
func newReceiver() (*link.Receiver, crc.Framer, error) {
	framer, err := cfg.Link.Framer()
	if err != nil {
		return nil, nil, err
	}
	rx := link.NewReceiver(ring.New(cfg.Link.RingCapacity), framer, logging.Logger())
	return rx, framer, nil
}

// parseHex accepts hex bytes written as "BEAA00FF", "BE AA 00 FF",
// "0xBE, 0xAA" or "be:aa".
func parseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ':' || r == '\n' || r == '\t' || r == '\r'
	})
	var digits strings.Builder
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		if len(f)%2 != 0 {
			f = "0" + f
		}
		digits.WriteString(f)
	}
	data, err := hex.DecodeString(digits.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// renderFrame returns the bytes of payload wrapped in the framer's checksum.
func renderFrame(framer crc.Framer, payload wire.Encoder) ([]byte, error) {
	buf := make([]byte, wire.Len(payload)+framer.DigestLen())
	w := wire.NewWriter(buf)
	if err := framer.Render(&w, payload); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// formatFrame formats one received frame the way raw_log prints it.
func formatFrame(ts time.Time, framer crc.Framer, in *schema.Instance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", ts.Format("15:04:05.000"), schema.FormatValue(in.Value))
	if raw, err := renderFrame(framer, in); err == nil {
		b.WriteString(schema.HexDump("  Frame: ", raw))
	}
	return b.String()
}

// renderPayload returns the bytes of payload without a checksum.
func renderPayload(payload wire.Encoder) ([]byte, error) {
	buf := make([]byte, wire.Len(payload))
	w := wire.NewWriter(buf)
	if err := payload.Encode(&w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
