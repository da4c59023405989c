// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/wire"
)

// Statistics tracks frame statistics and error rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames     uint64
	ValidFrames     uint64
	CRCErrors       uint64
	DecodeErrors    uint64
	OversizeFrames  uint64
	BytesReceived   uint64
	BytesDiscarded  uint64
	CommandsSent    uint64
	ResponsesSent   uint64
	ResponseTimeout uint64

	UnsolicitedResponses uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the outcome of one parse attempt that consumed input.
// A nil error counts as a valid frame.
func (s *Statistics) Update(parseErr error) {
	s.TotalFrames++
	s.LastUpdateTime = time.Now()

	switch {
	case parseErr == nil:
		s.ValidFrames++
	case errors.Is(parseErr, crc.ErrMismatch):
		s.CRCErrors++
	case errors.Is(parseErr, wire.ErrInvalid):
		s.DecodeErrors++
	case errors.Is(parseErr, ErrFrameTooLarge):
		s.OversizeFrames++
	default:
		s.DecodeErrors++
	}
}

// Errors returns the number of rejected frames.
func (s *Statistics) Errors() uint64 {
	return s.CRCErrors + s.DecodeErrors + s.OversizeFrames
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent, crcErrorPercent, decodeErrorPercent, oversizePercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
		crcErrorPercent = float64(s.CRCErrors) * 100.0 / float64(s.TotalFrames)
		decodeErrorPercent = float64(s.DecodeErrors) * 100.0 / float64(s.TotalFrames)
		oversizePercent = float64(s.OversizeFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)

	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d (%.1f%%)\n", s.CRCErrors, crcErrorPercent)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", s.DecodeErrors, decodeErrorPercent)
	}
	if s.OversizeFrames > 0 {
		result += fmt.Sprintf("Oversize Frames: %8d (%.1f%%)\n", s.OversizeFrames, oversizePercent)
	}

	result += fmt.Sprintf("Bytes Received:  %8d\n", s.BytesReceived)
	if s.BytesDiscarded > 0 {
		result += fmt.Sprintf("  Discarded:       %6d\n", s.BytesDiscarded)
	}
	if s.CommandsSent > 0 || s.ResponsesSent > 0 {
		result += fmt.Sprintf("Commands Sent:   %8d\n", s.CommandsSent)
		result += fmt.Sprintf("Responses Sent:  %8d\n", s.ResponsesSent)
	}
	if s.ResponseTimeout > 0 {
		result += fmt.Sprintf("  Timeouts:        %6d\n", s.ResponseTimeout)
	}
	if s.UnsolicitedResponses > 0 {
		result += fmt.Sprintf("  Unsolicited:     %6d\n", s.UnsolicitedResponses)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
