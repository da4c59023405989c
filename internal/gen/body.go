// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package gen

import (
	"fmt"
	"strings"

	"github.com/Thermoquad/stencil/internal/schema"
)

// body accumulates generated statements.
type body struct {
	b       strings.Builder
	usesErr bool
}

func (w *body) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *body) String() string {
	return w.b.String()
}

// encodeRef emits statements writing expr, of type r, to dst.
func (w *body) encodeRef(expr string, r *schema.Ref, depth int) {
	switch r.Kind {
	case schema.RefPrimitive:
		w.line("if err := wire.Put%s(dst, %s); err != nil {", primitiveFunc(r.Prim), expr)
		w.line("return err")
		w.line("}")
	case schema.RefMarker:
	case schema.RefArray:
		if r.Len == 0 || r.Elem.ExactLen() == 0 && r.Elem.Kind != schema.RefNamed {
			return
		}
		idx := fmt.Sprintf("i%d", depth)
		w.line("for %s := range %s {", idx, expr)
		w.encodeRef(fmt.Sprintf("%s[%s]", expr, idx), r.Elem, depth+1)
		w.line("}")
	case schema.RefNamed:
		w.line("if err := %s.Encode(dst); err != nil {", expr)
		w.line("return err")
		w.line("}")
	}
}

// decodeRef emits statements reading expr, of type r, from src.
func (w *body) decodeRef(expr string, r *schema.Ref, depth int) {
	switch r.Kind {
	case schema.RefPrimitive:
		w.usesErr = true
		w.line("if %s, err = wire.Read%s(src); err != nil {", expr, primitiveFunc(r.Prim))
		w.line("return err")
		w.line("}")
	case schema.RefMarker:
	case schema.RefArray:
		if r.Len == 0 || r.Elem.ExactLen() == 0 && r.Elem.Kind != schema.RefNamed {
			return
		}
		idx := fmt.Sprintf("i%d", depth)
		w.line("for %s := range %s {", idx, expr)
		w.decodeRef(fmt.Sprintf("%s[%s]", expr, idx), r.Elem, depth+1)
		w.line("}")
	case schema.RefNamed:
		w.usesErr = true
		w.line("if err = %s.Decode(src); err != nil {", expr)
		w.line("return err")
		w.line("}")
	}
}

// recordEncode returns the body of a record's Encode method.
func recordEncode(fields []*schema.Field) string {
	var w body
	for i, f := range fields {
		w.encodeRef("v."+fieldName(f, i), f.Ref(), 0)
	}
	w.line("return nil")
	return w.String()
}

// recordDecode returns the body of a record's Decode method. Fields are
// decoded into a local copy that only replaces the receiver on success.
func recordDecode(name string, fields []*schema.Field) string {
	var fieldsBody body
	for i, f := range fields {
		fieldsBody.decodeRef("out."+fieldName(f, i), f.Ref(), 0)
	}

	var w body
	w.line("var out %s", name)
	if fieldsBody.usesErr {
		w.line("var err error")
	}
	w.b.WriteString(fieldsBody.String())
	w.line("*v = out")
	w.line("return nil")
	return w.String()
}
