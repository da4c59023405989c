// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseValue parses a YAML document describing a value of type t.
//
// Records are written as a mapping of field labels or as a sequence in field
// order. Unions are a single-key mapping from variant name to the variant's
// fields, or just the variant name for variants without fields.
func ParseValue(t *Type, data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing value: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parsing value: empty document")
	}
	return FromYAML(t, doc.Content[0])
}

// FromYAML converts a YAML node into a runtime value of type t.
func FromYAML(t *Type, node *yaml.Node) (any, error) {
	switch t.Kind {
	case KindRecord:
		values, err := fieldsFromYAML(t.Fields, node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		return &Record{Type: t, Values: values}, nil
	case KindUnion:
		return unionFromYAML(t, node)
	default:
		return nil, fmt.Errorf("%s: unknown kind %q", t.Name, t.Kind)
	}
}

func unionFromYAML(t *Type, node *yaml.Node) (any, error) {
	var name string
	var body *yaml.Node
	switch node.Kind {
	case yaml.ScalarNode:
		name = node.Value
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, yamlErrorf(node, "%s: union value needs exactly one variant key", t.Name)
		}
		name, body = node.Content[0].Value, node.Content[1]
	default:
		return nil, yamlErrorf(node, "%s: union value must be a variant name or mapping", t.Name)
	}

	v, ok := t.VariantByName(name)
	if !ok {
		return nil, yamlErrorf(node, "%s: unknown variant %q", t.Name, name)
	}
	if body == nil || body.Tag == "!!null" {
		if !v.IsUnit() {
			return nil, yamlErrorf(node, "%s.%s: missing fields", t.Name, v.Name)
		}
		return &Union{Type: t, Variant: v, Values: []any{}}, nil
	}

	var values []any
	var err error
	if v.Newtype() {
		var inner any
		inner, err = FromYAML(v.Fields[0].ref.Named, body)
		values = []any{inner}
	} else {
		values, err = fieldsFromYAML(v.Fields, body)
	}
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", t.Name, v.Name, err)
	}
	return &Union{Type: t, Variant: v, Values: values}, nil
}

func fieldsFromYAML(fields []*Field, node *yaml.Node) ([]any, error) {
	values := make([]any, len(fields))
	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) != len(fields) {
			return nil, yamlErrorf(node, "expected %d values, got %d", len(fields), len(node.Content))
		}
		for i, f := range fields {
			v, err := refFromYAML(f.ref, node.Content[i])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Label(i), err)
			}
			values[i] = v
		}
	case yaml.MappingNode:
		byLabel := make(map[string]*yaml.Node, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			byLabel[node.Content[i].Value] = node.Content[i+1]
		}
		for i, f := range fields {
			label := f.Label(i)
			child, ok := byLabel[label]
			delete(byLabel, label)
			if !ok {
				if f.ref.Kind == RefMarker {
					values[i] = Marker{}
					continue
				}
				return nil, yamlErrorf(node, "missing field %s", label)
			}
			v, err := refFromYAML(f.ref, child)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", label, err)
			}
			values[i] = v
		}
		if len(byLabel) > 0 {
			extra := slices.Sorted(maps.Keys(byLabel))
			return nil, yamlErrorf(node, "unknown field %s", strings.Join(extra, ", "))
		}
	default:
		if len(fields) == 0 && node.Tag == "!!null" {
			return values, nil
		}
		return nil, yamlErrorf(node, "expected a mapping or sequence")
	}
	return values, nil
}

func refFromYAML(r *Ref, node *yaml.Node) (any, error) {
	switch r.Kind {
	case RefPrimitive:
		if node.Kind != yaml.ScalarNode {
			return nil, yamlErrorf(node, "%s needs a scalar", r.Prim)
		}
		v, err := ParseScalar(r.Prim, node.Value)
		if err != nil {
			return nil, yamlErrorf(node, "%v", err)
		}
		return v, nil
	case RefMarker:
		return Marker{}, nil
	case RefArray:
		if node.Kind != yaml.SequenceNode || len(node.Content) != r.Len {
			return nil, yamlErrorf(node, "%s needs a sequence of %d", r, r.Len)
		}
		elems := make([]any, r.Len)
		for i, child := range node.Content {
			v, err := refFromYAML(r.Elem, child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			elems[i] = v
		}
		return elems, nil
	case RefNamed:
		return FromYAML(r.Named, node)
	default:
		return nil, fmt.Errorf("unresolved field type")
	}
}

// ParseScalar parses the text form of a primitive value.
func ParseScalar(p Primitive, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch {
	case p.Unsigned():
		v, err := strconv.ParseUint(s, 0, p.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", p, s)
		}
		return v, nil
	case p.Signed():
		v, err := strconv.ParseInt(s, 0, p.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", p, s)
		}
		return v, nil
	case p.Float():
		v, err := strconv.ParseFloat(s, p.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", p, s)
		}
		return v, nil
	case p == Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", s)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown primitive")
	}
}

func yamlErrorf(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", node.Line, fmt.Sprintf(format, args...))
}
