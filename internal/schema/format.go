// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import (
	"fmt"
	"strings"
)

// FormatValue formats a runtime value into a human-readable string, one field
// per line.
func FormatValue(v any) string {
	var b strings.Builder
	formatInto(&b, v, "")
	return b.String()
}

func formatInto(b *strings.Builder, v any, indent string) {
	switch val := v.(type) {
	case *Record:
		fmt.Fprintf(b, "%s\n", val.Type.Name)
		formatFields(b, val.Type.Fields, val.Values, indent+"  ")
	case *Union:
		fmt.Fprintf(b, "%s.%s (0x%0*X)\n", val.Type.Name, val.Variant.Name, val.Type.tagWidth.Width()*2, val.Variant.tag)
		if val.Variant.Newtype() && len(val.Values) == 1 {
			b.WriteString(indent + "  ")
			formatInto(b, val.Values[0], indent+"  ")
			return
		}
		formatFields(b, val.Variant.Fields, val.Values, indent+"  ")
	default:
		fmt.Fprintf(b, "%s\n", formatScalar(v))
	}
}

func formatFields(b *strings.Builder, fields []*Field, values []any, indent string) {
	for i, f := range fields {
		if i >= len(values) {
			return
		}
		fmt.Fprintf(b, "%s%s: ", indent, f.Label(i))
		switch fv := values[i].(type) {
		case *Record, *Union:
			formatInto(b, fv, indent)
		default:
			fmt.Fprintf(b, "%s\n", formatField(f.ref, fv))
		}
	}
}

func formatField(r *Ref, v any) string {
	if r.Kind == RefPrimitive && r.Prim.Unsigned() {
		if u, ok := v.(uint64); ok {
			return fmt.Sprintf("%d (0x%0*X)", u, r.Prim.Width()*2, u)
		}
	}
	if r.Kind == RefArray {
		if elems, ok := v.([]any); ok {
			parts := make([]string, len(elems))
			for i, e := range elems {
				parts[i] = formatScalar(e)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
	}
	return formatScalar(v)
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case Marker:
		return "marker"
	case float64:
		return fmt.Sprintf("%g", val)
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = formatScalar(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Record, *Union:
		return strings.TrimSpace(strings.ReplaceAll(FormatValue(val), "\n", "; "))
	default:
		return fmt.Sprint(val)
	}
}

// HexDump formats bytes as rows of 16 hex pairs, each row after the first
// indented to line up under the prefix.
func HexDump(prefix string, data []byte) string {
	result := prefix
	pad := strings.Repeat(" ", len(prefix))
	for i, b := range data {
		if i > 0 && i%16 == 0 {
			result += "\n" + pad
		}
		result += fmt.Sprintf("%02X ", b)
	}
	return result + "\n"
}
