// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import "fmt"

// sizer computes exact lengths and rejects types that contain themselves.
type sizer struct {
	visiting map[*Type]bool
	done     map[*Type]bool
}

func newSizer() *sizer {
	return &sizer{
		visiting: make(map[*Type]bool),
		done:     make(map[*Type]bool),
	}
}

// typeLen returns the record's field sum, or for a union the tag width plus
// the largest variant.
func (s *sizer) typeLen(t *Type) (int, error) {
	if s.done[t] {
		return t.exactLen, nil
	}
	if s.visiting[t] {
		return 0, fmt.Errorf("%s contains itself", t.Name)
	}
	s.visiting[t] = true
	defer delete(s.visiting, t)

	var n int
	switch t.Kind {
	case KindRecord:
		sum, err := s.fieldsLen(t.Fields)
		if err != nil {
			return 0, err
		}
		n = sum
	case KindUnion:
		largest := 0
		for _, v := range t.Variants {
			sum, err := s.fieldsLen(v.Fields)
			if err != nil {
				return 0, fmt.Errorf("variant %s: %w", v.Name, err)
			}
			largest = max(largest, sum)
		}
		n = t.tagWidth.Width() + largest
	}

	t.exactLen = n
	s.done[t] = true
	return n, nil
}

func (s *sizer) fieldsLen(fields []*Field) (int, error) {
	sum := 0
	for _, f := range fields {
		n, err := s.refLen(f.ref)
		if err != nil {
			return 0, err
		}
		sum += n
	}
	return sum, nil
}

func (s *sizer) refLen(r *Ref) (int, error) {
	switch r.Kind {
	case RefPrimitive:
		return r.Prim.Width(), nil
	case RefMarker:
		return 0, nil
	case RefArray:
		n, err := s.refLen(r.Elem)
		if err != nil {
			return 0, err
		}
		return r.Len * n, nil
	case RefNamed:
		return s.typeLen(r.Named)
	default:
		return 0, fmt.Errorf("unresolved field type")
	}
}

// ExactLen returns the exact length of a field type. The owning document must
// already be resolved.
func (r *Ref) ExactLen() int {
	switch r.Kind {
	case RefPrimitive:
		return r.Prim.Width()
	case RefArray:
		return r.Len * r.Elem.ExactLen()
	case RefNamed:
		return r.Named.ExactLen()
	default:
		return 0
	}
}
