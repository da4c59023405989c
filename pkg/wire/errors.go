// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import "errors"

var (
	// ErrEndOfInput is returned when a Sink or Source runs out of words
	// before a value has been fully written or read. It says nothing about
	// the validity of the content; retrying with more room or more data can
	// succeed.
	ErrEndOfInput = errors.New("wire: end of input")

	// ErrInvalid is returned when the words read have the right length but
	// do not correspond to any legal value of the type, such as a boolean
	// byte other than 0 or 1, or an unknown union tag. The input must be
	// discarded.
	ErrInvalid = errors.New("wire: invalid encoding")
)
