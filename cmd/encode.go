// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/schema"
	"github.com/Thermoquad/stencil/pkg/crc"
)

// Input formats for encode.
const (
	inputYAML = "yaml"
	inputCBOR = "cbor"
)

var (
	encodeFramed bool
	encodeFrom   string
)

var encodeCmd = &cobra.Command{
	Use:   "encode [value]",
	Short: "Encode a value of a schema type as frame bytes",
	Long: `Encode a value of the schema type given by --type and print its bytes.

The value is read from the argument, or from stdin when no argument is given.
By default it is YAML: records are a mapping of field names (or a sequence in
field order) and unions are a single-key mapping from variant name to fields:

  stencil encode -s demo.yaml -t Foo 'D: {bar: 0xAA, t: -1}'

With --from cbor the value is the hex of a CBOR document as printed by
"inspect --format cbor". With --framed the configured checksum is appended.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolVar(&encodeFramed, "framed", false, "Append the configured checksum")
	encodeCmd.Flags().StringVar(&encodeFrom, "from", inputYAML, "Input format (yaml, cbor)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	payloadType, err := loadPayloadType(cfg.Schema)
	if err != nil {
		return err
	}
	text, err := argsOrStdin(cmd, args)
	if err != nil {
		return err
	}

	var framer crc.Framer
	if encodeFramed {
		if framer, err = cfg.Link.Framer(); err != nil {
			return err
		}
	}
	return encodeValue(cmd.OutOrStdout(), payloadType, framer, text, encodeFrom)
}

// parseInput converts text in the given input format into a value of type t.
func parseInput(t *schema.Type, text, from string) (any, error) {
	switch from {
	case inputYAML:
		return schema.ParseValue(t, []byte(text))
	case inputCBOR:
		data, err := parseHex(text)
		if err != nil {
			return nil, err
		}
		return schema.FromCBOR(t, data)
	default:
		return nil, fmt.Errorf("unknown input format %q (want %s or %s)", from, inputYAML, inputCBOR)
	}
}

// encodeValue writes the bytes of the value described by text, framed when
// framer is not nil.
func encodeValue(w io.Writer, t *schema.Type, framer crc.Framer, text, from string) error {
	v, err := parseInput(t, text, from)
	if err != nil {
		return err
	}
	in := &schema.Instance{Type: t, Value: v}

	var out []byte
	if framer != nil {
		out, err = renderFrame(framer, in)
	} else {
		out, err = renderPayload(in)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", t.Name, err)
	}
	fmt.Fprintln(w, hexString(out))
	return nil
}
