// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package demo is generated from demo.yaml. Its tests run the generated
// codecs, and the gen package checks that the committed output is current.
package demo

//go:generate go run github.com/Thermoquad/stencil gen -o demo_gen.go demo.yaml

// Actuator is the capability shared by every Device variant.
type Actuator interface {
	// Output reports the commanded output in the variant's own unit.
	Output() int
}

func (m *Motor) Output() int { return int(m.Rpm) }

func (p *Pump) Output() int { return int(p.Rate) }
