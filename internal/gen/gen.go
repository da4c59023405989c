// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package gen renders Go source for the types described by a schema.
//
// Each record becomes a struct with Encode, Decode and ExactLen methods over
// the wire package. Each union becomes a tag type, a struct holding the tag
// plus one payload field per data-carrying variant, and constructors for
// every variant. Decoding stages into a local value so a failed Decode never
// modifies the receiver.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/Thermoquad/stencil/internal/schema"
)

// WireImport is the import path of the runtime package generated code
// depends on.
const WireImport = "github.com/Thermoquad/stencil/pkg/wire"

// Options control code generation.
type Options struct {
	// Package overrides the package clause declared by the schema.
	Package string
	// Source names the schema file in the generated header.
	Source string
}

type fileModel struct {
	Source  string
	Package string
	Wire    string
	Decls   []any
}

type recordModel struct {
	Name     string
	Doc      string
	ExactLen int
	Fields   []fieldModel
	Encode   string
	Decode   string
}

type fieldModel struct {
	Name string
	Type string
}

type unionModel struct {
	Name     string
	TagType  string
	TagFunc  string
	ExactLen int
	Dispatch string
	Variants []variantModel
	Units    string
}

type variantModel struct {
	Name  string
	Const string
	Tag   string
	Field string
	Type  string
}

// Generate renders the Go source for every type in doc. The result is
// gofmt-formatted.
func Generate(doc *schema.Document, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = doc.Package
	}
	if !isIdent(pkg) {
		return nil, fmt.Errorf("package name %q is not a valid identifier", pkg)
	}

	model := fileModel{
		Source:  opts.Source,
		Package: pkg,
		Wire:    WireImport,
	}
	names := make(map[string]string)
	claim := func(goName, owner string) error {
		if prev, dup := names[goName]; dup {
			return fmt.Errorf("%s and %s both generate %s", prev, owner, goName)
		}
		names[goName] = owner
		return nil
	}

	for _, t := range doc.Types {
		name := exported(t.Name)
		if err := claim(name, t.Name); err != nil {
			return nil, err
		}
		if t.Kind == schema.KindRecord {
			r, err := newRecord(name, "", t.Fields)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", t.Name, err)
			}
			model.Decls = append(model.Decls, r)
			continue
		}

		if err := claim(name+"Tag", t.Name); err != nil {
			return nil, err
		}
		union, payloads, err := newUnion(name, t)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
		model.Decls = append(model.Decls, union)
		for _, p := range payloads {
			if err := claim(p.Name, t.Name); err != nil {
				return nil, err
			}
			model.Decls = append(model.Decls, p)
		}
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", pkg, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func newRecord(name, doc string, fields []*schema.Field) (recordModel, error) {
	r := recordModel{
		Name:   name,
		Doc:    doc,
		Encode: recordEncode(fields),
		Decode: recordDecode(name, fields),
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		goName := fieldName(f, i)
		if reserved[goName] && !unionOnly[goName] {
			return r, fmt.Errorf("field %s: %s is a generated method", f.Label(i), goName)
		}
		if seen[goName] {
			return r, fmt.Errorf("field %s: %s generated twice", f.Label(i), goName)
		}
		seen[goName] = true
		r.Fields = append(r.Fields, fieldModel{Name: goName, Type: goType(f.Ref())})
		r.ExactLen += f.Ref().ExactLen()
	}
	return r, nil
}

// newUnion builds the union model and one payload record per variant that
// carries more than a single named type.
func newUnion(name string, t *schema.Type) (unionModel, []recordModel, error) {
	width := t.TagWidth()
	u := unionModel{
		Name:     name,
		TagType:  width.GoType(),
		TagFunc:  primitiveFunc(width),
		ExactLen: t.ExactLen(),
		Dispatch: t.Dispatch,
	}

	var units []string
	var payloads []recordModel
	for _, v := range t.Variants {
		if reserved[exported(v.Name)] {
			return u, nil, fmt.Errorf("variant %s: %s is reserved", v.Name, exported(v.Name))
		}
		vm := variantModel{
			Name:  exported(v.Name),
			Const: name + "Tag" + exported(v.Name),
			Tag:   hexLiteral(v.ResolvedTag(), width),
		}
		switch {
		case v.IsUnit():
			units = append(units, vm.Const)
		case v.Newtype():
			vm.Field = vm.Name
			vm.Type = goType(v.Fields[0].Ref())
		default:
			vm.Field = vm.Name
			vm.Type = name + vm.Name
			doc := fmt.Sprintf("%s is the payload of %s.", vm.Type, vm.Const)
			payload, err := newRecord(vm.Type, doc, v.Fields)
			if err != nil {
				return u, nil, fmt.Errorf("variant %s: %w", v.Name, err)
			}
			payloads = append(payloads, payload)
		}
		u.Variants = append(u.Variants, vm)
	}
	u.Units = strings.Join(units, ", ")
	return u, payloads, nil
}

func isRecord(d any) bool {
	_, ok := d.(recordModel)
	return ok
}

var fileTemplate = template.Must(template.New("file").
	Funcs(template.FuncMap{"isRecord": isRecord}).
	Parse(`// Code generated by stencil gen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.Package}}

import "{{.Wire}}"
{{range .Decls}}{{if isRecord .}}{{template "record" .}}{{else}}{{template "union" .}}{{end}}{{end}}
{{- define "record"}}
{{if .Doc}}// {{.Doc}}
{{end -}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.Name}}ExactLen is the encoded length of {{.Name}} in words.
const {{.Name}}ExactLen = {{.ExactLen}}

func (v *{{.Name}}) Encode(dst wire.Sink) error {
{{.Encode}}}

func (v *{{.Name}}) Decode(src wire.Source) error {
{{.Decode}}}

func ({{.Name}}) ExactLen() int { return {{.Name}}ExactLen }
{{end}}
{{- define "union"}}
// {{.Name}}Tag identifies the active variant of {{.Name}}.
type {{.Name}}Tag {{.TagType}}

const (
{{- range .Variants}}
	{{.Const}} {{$.Name}}Tag = {{.Tag}}
{{- end}}
)

// {{.Name}}ExactLen is the largest encoded length of {{.Name}} in words.
const {{.Name}}ExactLen = {{.ExactLen}}

type {{.Name}} struct {
	Tag {{.Name}}Tag
{{- range .Variants}}{{if .Field}}
	{{.Field}} {{.Type}}
{{- end}}{{end}}
}
{{range .Variants}}
{{- if .Field}}
func New{{$.Name}}{{.Name}}(v {{.Type}}) {{$.Name}} {
	return {{$.Name}}{Tag: {{.Const}}, {{.Field}}: v}
}
{{else}}
func New{{$.Name}}{{.Name}}() {{$.Name}} {
	return {{$.Name}}{Tag: {{.Const}}}
}
{{end}}
{{- end}}
func (v *{{.Name}}) Encode(dst wire.Sink) error {
	switch v.Tag {
{{- if .Units}}
	case {{.Units}}:
		return wire.Put{{.TagFunc}}(dst, {{.TagType}}(v.Tag))
{{- end}}
{{- range .Variants}}{{if .Field}}
	case {{.Const}}:
		if err := wire.Put{{$.TagFunc}}(dst, {{$.TagType}}(v.Tag)); err != nil {
			return err
		}
		return v.{{.Field}}.Encode(dst)
{{- end}}{{end}}
	default:
		return wire.ErrInvalid
	}
}

func (v *{{.Name}}) Decode(src wire.Source) error {
	raw, err := wire.Read{{.TagFunc}}(src)
	if err != nil {
		return err
	}
	out := {{.Name}}{Tag: {{.Name}}Tag(raw)}
	switch out.Tag {
{{- if .Units}}
	case {{.Units}}:
{{- end}}
{{- range .Variants}}{{if .Field}}
	case {{.Const}}:
		if err := out.{{.Field}}.Decode(src); err != nil {
			return err
		}
{{- end}}{{end}}
	default:
		return wire.ErrInvalid
	}
	*v = out
	return nil
}

func ({{.Name}}) ExactLen() int { return {{.Name}}ExactLen }
{{- if .Dispatch}}

// Inner returns the active variant as {{.Dispatch}}, or nil for an
// unknown tag.
func (v *{{.Name}}) Inner() {{.Dispatch}} {
	switch v.Tag {
{{- range .Variants}}
	case {{.Const}}:
		return &v.{{.Field}}
{{- end}}
	}
	return nil
}
{{- end}}
{{end}}
`))
