// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveTags numbers union variants. explicit[i] is nil for variants without
// a declared tag. A declared tag becomes the anchor for the variants after it,
// which count up by one from it; variants before the first anchor count up
// from zero.
func ResolveTags(explicit []*uint64) []uint64 {
	tags := make([]uint64, len(explicit))
	var anchor uint64
	offset := uint64(0)
	for i, e := range explicit {
		if e != nil {
			anchor = *e
			offset = 0
		}
		tags[i] = anchor + offset
		offset++
	}
	return tags
}

func (d *Document) assignTags(t *Type) error {
	explicit := make([]*uint64, len(t.Variants))
	for i, v := range t.Variants {
		if v.Tag == "" {
			continue
		}
		tag, err := d.tagValue(v.Tag)
		if err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
		explicit[i] = &tag
	}

	tags := ResolveTags(explicit)
	limit := maxUnsigned(t.tagWidth)
	t.byTag = make(map[uint64]*Variant, len(tags))
	for i, v := range t.Variants {
		tag := tags[i]
		if tag > limit || (i > 0 && explicit[i] == nil && tag < tags[i-1]) {
			return fmt.Errorf("variant %s: tag 0x%X does not fit %s", v.Name, tag, t.tagWidth)
		}
		if prev, dup := t.byTag[tag]; dup {
			return fmt.Errorf("variant %s: tag 0x%X already used by %s", v.Name, tag, prev.Name)
		}
		v.tag = tag
		t.byTag[tag] = v
	}
	return nil
}

// tagValue parses a literal or looks up a named constant.
func (d *Document) tagValue(s string) (uint64, error) {
	if v, ok := d.consts[s]; ok {
		return v, nil
	}
	return parseNumber(s)
}

// parseNumber accepts decimal, 0x, 0o and 0b literals with optional
// underscores.
func parseNumber(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func maxUnsigned(p Primitive) uint64 {
	if p.Bits() >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(p.Bits()) - 1
}
