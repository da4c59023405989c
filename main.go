// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Stencil - fixed-layout wire codec toolkit
//
// A CLI tool for generating codecs from YAML schemas and for inspecting,
// encoding and monitoring checksummed frames on serial and WebSocket links.

package main

import (
	"os"

	"github.com/Thermoquad/stencil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
