// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBOR mapping of runtime values:
//
//	record  {field index: value, ...}
//	union   [tag, payload]; payload is nil for unit variants, the wrapped
//	        value for newtype variants, and a record-style map otherwise
//	array   [elem, ...]
//	marker  null

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// ToCBOR renders a runtime value as deterministic CBOR.
func ToCBOR(v any) ([]byte, error) {
	x, err := cborValue(v)
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR: %w", err)
	}
	return data, nil
}

func cborValue(v any) (any, error) {
	switch val := v.(type) {
	case *Record:
		return cborFields(val.Values)
	case *Union:
		var payload any
		var err error
		switch {
		case val.Variant == nil:
			return nil, fmt.Errorf("%w: union without variant", ErrValue)
		case val.Variant.IsUnit():
		case val.Variant.Newtype() && len(val.Values) == 1:
			payload, err = cborValue(val.Values[0])
		default:
			payload, err = cborFields(val.Values)
		}
		if err != nil {
			return nil, err
		}
		return []any{val.Variant.tag, payload}, nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			x, err := cborValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case Marker:
		return nil, nil
	case uint64, int64, float64, bool:
		return val, nil
	default:
		return nil, fmt.Errorf("%w: cannot render %T as CBOR", ErrValue, v)
	}
}

func cborFields(values []any) (map[int]any, error) {
	m := make(map[int]any, len(values))
	for i, fv := range values {
		x, err := cborValue(fv)
		if err != nil {
			return nil, err
		}
		m[i] = x
	}
	return m, nil
}

// FromCBOR parses CBOR produced by ToCBOR back into a value of type t.
func FromCBOR(t *Type, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty CBOR payload")
	}
	var x any
	if err := cbor.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	return typeFromCBOR(t, x)
}

func typeFromCBOR(t *Type, x any) (any, error) {
	switch t.Kind {
	case KindRecord:
		values, err := fieldsFromCBOR(t.Fields, x)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		return &Record{Type: t, Values: values}, nil
	case KindUnion:
		pair, ok := x.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%s: expected [tag, payload]", t.Name)
		}
		tag, ok := cborUint(pair[0])
		if !ok {
			return nil, fmt.Errorf("%s: expected uint for tag, got %T", t.Name, pair[0])
		}
		v, ok := t.byTag[tag]
		if !ok {
			return nil, fmt.Errorf("%s: unknown tag 0x%X", t.Name, tag)
		}
		var values []any
		var err error
		switch {
		case v.IsUnit():
			values = []any{}
		case v.Newtype():
			var inner any
			inner, err = typeFromCBOR(v.Fields[0].ref.Named, pair[1])
			values = []any{inner}
		default:
			values, err = fieldsFromCBOR(v.Fields, pair[1])
		}
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name, v.Name, err)
		}
		return &Union{Type: t, Variant: v, Values: values}, nil
	default:
		return nil, fmt.Errorf("%s: unknown kind %q", t.Name, t.Kind)
	}
}

func fieldsFromCBOR(fields []*Field, x any) ([]any, error) {
	m, ok := x.(map[any]any)
	if !ok {
		return nil, fmt.Errorf("expected map, got %T", x)
	}
	values := make([]any, len(fields))
	for i, f := range fields {
		raw, present := m[uint64(i)]
		if !present && f.ref.Kind != RefMarker {
			return nil, fmt.Errorf("missing field %s", f.Label(i))
		}
		v, err := refFromCBOR(f.ref, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Label(i), err)
		}
		values[i] = v
	}
	return values, nil
}

func refFromCBOR(r *Ref, x any) (any, error) {
	switch r.Kind {
	case RefPrimitive:
		return primitiveFromCBOR(r.Prim, x)
	case RefMarker:
		return Marker{}, nil
	case RefArray:
		elems, ok := x.([]any)
		if !ok || len(elems) != r.Len {
			return nil, fmt.Errorf("%s needs an array of %d", r, r.Len)
		}
		out := make([]any, r.Len)
		for i, e := range elems {
			v, err := refFromCBOR(r.Elem, e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case RefNamed:
		return typeFromCBOR(r.Named, x)
	default:
		return nil, fmt.Errorf("unresolved field type")
	}
}

func primitiveFromCBOR(p Primitive, x any) (any, error) {
	switch {
	case p.Unsigned():
		if v, ok := cborUint(x); ok && v <= maxUnsigned(p) {
			return v, nil
		}
	case p.Signed():
		if v, ok := cborInt(x); ok {
			bits := p.Bits()
			if bits == 64 || (v >= -(1<<(bits-1)) && v < 1<<(bits-1)) {
				return v, nil
			}
		}
	case p.Float():
		switch v := x.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		}
	case p == Bool:
		if v, ok := x.(bool); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T %v", p, x, x)
}

func cborUint(x any) (uint64, bool) {
	switch v := x.(type) {
	case uint64:
		return v, true
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	}
	return 0, false
}

func cborInt(x any) (int64, bool) {
	switch v := x.(type) {
	case int64:
		return v, true
	case uint64:
		if v <= 1<<63-1 {
			return int64(v), true
		}
	}
	return 0, false
}
