// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"trace", zerolog.TraceLevel, true},
		{" DEBUG ", zerolog.DebugLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	rt := defaultConfig(ProfileRuntime)
	if rt.Level != zerolog.InfoLevel || !rt.Timestamp {
		t.Errorf("runtime profile = %+v, want info with timestamps", rt)
	}
	tc := defaultConfig(ProfileTest)
	if tc.Level != zerolog.DebugLevel || tc.Timestamp {
		t.Errorf("test profile = %+v, want debug without timestamps", tc)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:     "warn",
		EnvLogTimestamp: "false",
		EnvLogNoColor:   "1",
	}
	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg, func(key string) string { return env[key] })

	if cfg.Level != zerolog.WarnLevel {
		t.Errorf("Level = %v, want warn", cfg.Level)
	}
	if cfg.Timestamp {
		t.Error("Timestamp should be disabled")
	}
	if !cfg.NoColor {
		t.Error("NoColor should be enabled")
	}

	// Unparseable values leave the profile alone.
	cfg = defaultConfig(ProfileRuntime)
	env = map[string]string{EnvLogLevel: "loud", EnvLogTimestamp: "maybe"}
	applyEnvOverrides(&cfg, func(key string) string { return env[key] })
	if cfg.Level != zerolog.InfoLevel || !cfg.Timestamp {
		t.Errorf("invalid overrides changed the config: %+v", cfg)
	}
}

func TestNew_WritesConsoleLines(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, NoColor: true, Out: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Int("bytes", 7).Msg("frame")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "frame") || !strings.Contains(out, "bytes=7") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("GlobalLevel = %v, want error", zerolog.GlobalLevel())
	}
	if err := SetLevel("chatty"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestSetLevel_AppliesToExistingLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	cfg := defaultConfig(ProfileRuntime)
	cfg.Out = &buf
	cfg.NoColor = true
	logger := New(cfg)

	logger.Debug().Msg("before")
	if err := SetLevel("trace"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	logger.Debug().Msg("discarded byte")
	logger.Trace().Msg("attempt")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "discarded byte") || !strings.Contains(out, "attempt") {
		t.Errorf("lower level lines missing after SetLevel: %q", out)
	}

	buf.Reset()
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	logger.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
}
