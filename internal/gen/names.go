// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package gen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Thermoquad/stencil/internal/schema"
)

// exported converts a schema identifier to an exported Go name:
// "rpm_max" becomes "RpmMax", "motor" becomes "Motor".
func exported(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// reserved names collide with generated methods and the union tag.
var reserved = map[string]bool{
	"Encode":   true,
	"Decode":   true,
	"ExactLen": true,
	"Inner":    true,
	"Tag":      true,
}

// unionOnly names are free to use as record fields.
var unionOnly = map[string]bool{
	"Inner": true,
	"Tag":   true,
}

// fieldName returns the Go field name for the i-th field.
func fieldName(f *schema.Field, i int) string {
	if f.Name == "" {
		return fmt.Sprintf("V%d", i)
	}
	return exported(f.Name)
}

// goType returns the Go type expression for a field type.
func goType(r *schema.Ref) string {
	switch r.Kind {
	case schema.RefPrimitive:
		return r.Prim.GoType()
	case schema.RefMarker:
		return "wire.Marker"
	case schema.RefArray:
		return fmt.Sprintf("[%d]%s", r.Len, goType(r.Elem))
	default:
		return exported(r.Named.Name)
	}
}

// primitiveFunc returns the suffix of the wire.PutX/wire.ReadX helpers.
func primitiveFunc(p schema.Primitive) string {
	return exported(p.GoType())
}

// hexLiteral renders v zero-padded to the width of p.
func hexLiteral(v uint64, p schema.Primitive) string {
	return fmt.Sprintf("0x%0*X", p.Width()*2, v)
}
