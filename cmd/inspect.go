// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/schema"
	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/wire"
)

// Output formats for inspect.
const (
	formatText = "text"
	formatCBOR = "cbor"
)

var (
	inspectFramed bool
	inspectFormat string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [hex bytes...]",
	Short: "Decode a captured frame against a schema type",
	Long: `Decode bytes as the schema type given by --type and print the value.

Bytes are given as hex arguments ("BE AA 00 FF", "beaa00ff", "0xBE,0xAA") or
on stdin when no argument is given. With --framed the bytes must end with the
configured checksum, which is verified before the value is printed.

Formats:
  text - one field per line
  cbor - deterministic CBOR encoding of the value, as hex`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectFramed, "framed", false, "Input includes the checksum")
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", formatText, "Output format (text, cbor)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	payloadType, err := loadPayloadType(cfg.Schema)
	if err != nil {
		return err
	}
	text, err := argsOrStdin(cmd, args)
	if err != nil {
		return err
	}
	data, err := parseHex(text)
	if err != nil {
		return err
	}

	var framer crc.Framer
	if inspectFramed {
		if framer, err = cfg.Link.Framer(); err != nil {
			return err
		}
	}
	return inspectFrame(cmd.OutOrStdout(), payloadType, framer, data, inspectFormat)
}

// inspectFrame decodes data as t, checked by framer when it is not nil, and
// writes the value to w in the requested format.
func inspectFrame(w io.Writer, t *schema.Type, framer crc.Framer, data []byte, format string) error {
	in := &schema.Instance{Type: t}
	r := wire.NewReader(data)

	var err error
	if framer != nil {
		err = framer.Construct(&r, in.Decode)
	} else {
		err = in.Decode(&r)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", t.Name, err)
	}

	switch format {
	case formatText:
		fmt.Fprint(w, schema.HexDump("Frame: ", data[:r.Len()]))
		fmt.Fprint(w, schema.FormatValue(in.Value))
	case formatCBOR:
		enc, err := schema.ToCBOR(in.Value)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, hexString(enc))
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatCBOR)
	}

	if rest := r.Remaining(); rest > 0 {
		fmt.Fprintf(w, "(%d trailing bytes ignored)\n", rest)
	}
	return nil
}

// argsOrStdin joins the arguments, or reads stdin when there are none.
func argsOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// hexString formats bytes as space separated upper case hex pairs.
func hexString(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
