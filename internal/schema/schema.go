// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package schema loads YAML descriptions of fixed-layout wire types.
//
// A document lists records (fields encoded back to back) and unions (a tag of
// declared width followed by the active variant's fields). Loading resolves
// field types, variant tags and exact lengths, and rejects anything that
// could not be encoded at a fixed size. The same description drives the code
// generator and the runtime interpreter used by the CLI.
package schema

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes records from unions.
type Kind string

const (
	KindRecord Kind = "record"
	KindUnion  Kind = "union"
)

// DefaultPackage is used when a document does not name one.
const DefaultPackage = "types"

// Document is a parsed schema file.
type Document struct {
	Package string            `yaml:"package"`
	Consts  map[string]string `yaml:"consts"`
	Types   []*Type           `yaml:"types"`

	consts map[string]uint64
	byName map[string]*Type
}

// Type is a record or union declaration.
type Type struct {
	Name     string     `yaml:"name"`
	Kind     Kind       `yaml:"kind"`
	Tag      string     `yaml:"tag"`
	Dispatch string     `yaml:"dispatch"`
	Fields   []*Field   `yaml:"fields"`
	Variants []*Variant `yaml:"variants"`

	tagWidth Primitive
	byTag    map[uint64]*Variant
	exactLen int
}

// Variant is one alternative of a union.
type Variant struct {
	Name   string   `yaml:"name"`
	Tag    string   `yaml:"tag"`
	Type   string   `yaml:"type"`
	Fields []*Field `yaml:"fields"`

	tag     uint64
	newtype bool
}

// Field is a record or variant member. Unnamed fields are positional.
type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	ref *Ref
}

var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Load reads and parses the schema at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a schema document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if err := doc.resolve(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Lookup returns the type called name.
func (d *Document) Lookup(name string) (*Type, bool) {
	t, ok := d.byName[name]
	return t, ok
}

// Const returns the value of a named constant.
func (d *Document) Const(name string) (uint64, bool) {
	v, ok := d.consts[name]
	return v, ok
}

func (d *Document) resolve() error {
	if d.Package == "" {
		d.Package = DefaultPackage
	}
	if len(d.Types) == 0 {
		return fmt.Errorf("schema declares no types")
	}

	d.consts = make(map[string]uint64, len(d.Consts))
	for name, raw := range d.Consts {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("const %q: invalid name", name)
		}
		v, err := parseNumber(raw)
		if err != nil {
			return fmt.Errorf("const %s: %w", name, err)
		}
		d.consts[name] = v
	}

	d.byName = make(map[string]*Type, len(d.Types))
	for _, t := range d.Types {
		if t == nil || !identPattern.MatchString(t.Name) {
			return fmt.Errorf("type name %q is not a valid identifier", typeName(t))
		}
		if _, dup := d.byName[t.Name]; dup {
			return fmt.Errorf("type %s declared twice", t.Name)
		}
		if _, clash := primitiveNames[t.Name]; clash || t.Name == markerName {
			return fmt.Errorf("type %s shadows a built-in type", t.Name)
		}
		d.byName[t.Name] = t
	}

	for _, t := range d.Types {
		if err := d.resolveType(t); err != nil {
			return fmt.Errorf("type %s: %w", t.Name, err)
		}
	}

	sizer := newSizer()
	for _, t := range d.Types {
		if _, err := sizer.typeLen(t); err != nil {
			return fmt.Errorf("type %s: %w", t.Name, err)
		}
	}
	return nil
}

func typeName(t *Type) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func (d *Document) resolveType(t *Type) error {
	switch t.Kind {
	case KindRecord:
		if len(t.Variants) > 0 || t.Tag != "" || t.Dispatch != "" {
			return fmt.Errorf("records take fields only")
		}
		return d.resolveFields(t.Fields)
	case KindUnion:
		return d.resolveUnion(t)
	default:
		return fmt.Errorf("unknown kind %q (want %s or %s)", t.Kind, KindRecord, KindUnion)
	}
}

func (d *Document) resolveFields(fields []*Field) error {
	names := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f == nil {
			return fmt.Errorf("field %d is empty", i)
		}
		if f.Name != "" {
			if !identPattern.MatchString(f.Name) {
				return fmt.Errorf("field %q: invalid name", f.Name)
			}
			if names[f.Name] {
				return fmt.Errorf("field %s declared twice", f.Name)
			}
			names[f.Name] = true
		}
		ref, err := ParseRef(f.Type, d.Lookup)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Label(i), err)
		}
		f.ref = ref
	}
	return nil
}

func (d *Document) resolveUnion(t *Type) error {
	if len(t.Fields) > 0 {
		return fmt.Errorf("unions take variants, not fields")
	}
	if len(t.Variants) == 0 {
		return fmt.Errorf("union has no variants")
	}
	if t.Tag == "" {
		t.Tag = U8.String()
	}
	width, ok := primitiveNames[t.Tag]
	if !ok || !width.Unsigned() {
		return fmt.Errorf("tag width %q must be one of u8, u16, u32, u64", t.Tag)
	}
	t.tagWidth = width

	if t.Dispatch != "" && !identPattern.MatchString(t.Dispatch) {
		return fmt.Errorf("dispatch interface %q: invalid name", t.Dispatch)
	}

	seen := make(map[string]bool, len(t.Variants))
	for _, v := range t.Variants {
		if v == nil || !identPattern.MatchString(v.Name) {
			return fmt.Errorf("variant name %q is not a valid identifier", variantName(v))
		}
		if seen[v.Name] {
			return fmt.Errorf("variant %s declared twice", v.Name)
		}
		seen[v.Name] = true

		if t.Dispatch != "" && v.Type == "" && len(v.Fields) == 0 {
			// Dispatch unions wrap one implementor per variant, named
			// after the variant unless stated otherwise.
			v.Type = v.Name
		}
		if v.Type != "" {
			if len(v.Fields) > 0 {
				return fmt.Errorf("variant %s: type and fields are exclusive", v.Name)
			}
			v.Fields = []*Field{{Type: v.Type}}
			v.newtype = true
		} else if t.Dispatch != "" {
			return fmt.Errorf("variant %s: dispatch unions need one type per variant", v.Name)
		}
		if err := d.resolveFields(v.Fields); err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
		if v.newtype && v.Fields[0].ref.Kind != RefNamed {
			return fmt.Errorf("variant %s: type must name a record or union", v.Name)
		}
	}

	return d.assignTags(t)
}

func variantName(v *Variant) string {
	if v == nil {
		return ""
	}
	return v.Name
}

// TagWidth returns the primitive the union tag is encoded as.
func (t *Type) TagWidth() Primitive {
	return t.tagWidth
}

// ExactLen returns the exact encoded length of t in words.
func (t *Type) ExactLen() int {
	return t.exactLen
}

// VariantByTag returns the variant with the given resolved tag.
func (t *Type) VariantByTag(tag uint64) (*Variant, bool) {
	v, ok := t.byTag[tag]
	return v, ok
}

// VariantByName returns the variant called name.
func (t *Type) VariantByName(name string) (*Variant, bool) {
	for _, v := range t.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// ResolvedTag returns the variant's tag value.
func (v *Variant) ResolvedTag() uint64 {
	return v.tag
}

// Newtype reports whether the variant wraps a single named type.
func (v *Variant) Newtype() bool {
	return v.newtype
}

// IsUnit reports whether the variant carries no fields.
func (v *Variant) IsUnit() bool {
	return len(v.Fields) == 0
}

// Ref returns the resolved field type.
func (f *Field) Ref() *Ref {
	return f.ref
}

// Label returns the field name, or its position for unnamed fields.
func (f *Field) Label(i int) string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("%d", i)
}
