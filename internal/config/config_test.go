// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Thermoquad/stencil/pkg/crc"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stencil.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func noEnv(string) (string, bool) { return "", false }

// ============================================================================
// Loading
// ============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Link.Baud != 115200 {
		t.Errorf("Baud = %d, want 115200", cfg.Link.Baud)
	}
	if cfg.Link.RingCapacity != 256 || cfg.Link.TxCapacity != 256 {
		t.Errorf("capacities = %d/%d, want 256/256", cfg.Link.RingCapacity, cfg.Link.TxCapacity)
	}
	if cfg.Link.Checksum != crc.NameCCITT {
		t.Errorf("Checksum = %q, want %q", cfg.Link.Checksum, crc.NameCCITT)
	}
	if cfg.Link.ResponseTimeout != 500*time.Millisecond {
		t.Errorf("ResponseTimeout = %s, want 500ms", cfg.Link.ResponseTimeout)
	}
	if cfg.Log.Level != "" {
		t.Errorf("Log.Level = %q, want unset", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefinedKeysOnly(t *testing.T) {
	path := writeConfig(t, `
[link]
port = " /dev/ttyUSB0 "
ring_capacity = 512
checksum = "BLAKE3"
blake3_key = "`+testKey+`"
response_timeout = "2s"

[schema]
path = "demo.yaml"
type = "Frame"

[log]
level = "debug"
`)

	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		t.Fatalf("loadFile: %v", err)
	}

	if cfg.Link.Port != "/dev/ttyUSB0" {
		t.Errorf("Port = %q", cfg.Link.Port)
	}
	if cfg.Link.RingCapacity != 512 {
		t.Errorf("RingCapacity = %d, want 512", cfg.Link.RingCapacity)
	}
	if cfg.Link.TxCapacity != DefaultTxCapacity {
		t.Errorf("TxCapacity = %d, undefined keys should keep defaults", cfg.Link.TxCapacity)
	}
	if cfg.Link.Baud != DefaultBaud {
		t.Errorf("Baud = %d, want default", cfg.Link.Baud)
	}
	if cfg.Link.Checksum != crc.NameBlake3 {
		t.Errorf("Checksum = %q, want blake3", cfg.Link.Checksum)
	}
	if cfg.Link.ResponseTimeout != 2*time.Second {
		t.Errorf("ResponseTimeout = %s, want 2s", cfg.Link.ResponseTimeout)
	}
	if cfg.Schema.Path != "demo.yaml" || cfg.Schema.Type != "Frame" {
		t.Errorf("Schema = %+v", cfg.Schema)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("STENCIL_PORT", "")
	t.Setenv("STENCIL_URL", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Link.RingCapacity != DefaultRingCapacity {
		t.Errorf("RingCapacity = %d", cfg.Link.RingCapacity)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[link\n", "load config"},
		{"unknown key", "[link]\nspeed = 9600\n", "unknown key link.speed"},
		{"bad duration", "[link]\nresponse_timeout = \"soon\"\n", "response_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STENCIL_URL":      " ws://bridge.local/ws ",
		"STENCIL_USERNAME": "admin",
		"STENCIL_PORT":     "   ",
	}
	cfg := Default()
	cfg.Link.Port = "/dev/ttyACM0"
	cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	if cfg.Link.URL != "ws://bridge.local/ws" {
		t.Errorf("URL = %q", cfg.Link.URL)
	}
	if cfg.Link.Username != "admin" {
		t.Errorf("Username = %q", cfg.Link.Username)
	}
	if cfg.Link.Port != "/dev/ttyACM0" {
		t.Errorf("blank env values should be ignored, Port = %q", cfg.Link.Port)
	}

	cfg.ApplyEnv(noEnv)
	if cfg.Link.URL != "ws://bridge.local/ws" {
		t.Error("unset env should change nothing")
	}
}

func TestApplyEnv_LogLevel(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"warn\"\n")

	tests := []struct {
		name string
		env  string
		set  bool
		want string
	}{
		{"file only", "", false, "warn"},
		{"env overrides file", " DEBUG ", true, "debug"},
		{"blank env ignored", "  ", true, "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.loadFile(path); err != nil {
				t.Fatalf("loadFile: %v", err)
			}
			cfg.ApplyEnv(func(key string) (string, bool) {
				if key == "STENCIL_LOG_LEVEL" {
					return tt.env, tt.set
				}
				return "", false
			})
			if cfg.Log.Level != tt.want {
				t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.ApplyEnv(noEnv)
	if cfg.Log.Level != "" {
		t.Errorf("Log.Level = %q with nothing set, want unset", cfg.Log.Level)
	}
}

// ============================================================================
// Validation
// ============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero ring", func(c *Config) { c.Link.RingCapacity = 0 }, "ring_capacity"},
		{"zero tx", func(c *Config) { c.Link.TxCapacity = 0 }, "tx_capacity"},
		{"zero chunk", func(c *Config) { c.Link.ReadChunk = 0 }, "read_chunk"},
		{"zero baud", func(c *Config) { c.Link.Baud = 0 }, "baud"},
		{"negative timeout", func(c *Config) { c.Link.ResponseTimeout = -time.Second }, "negative"},
		{"unknown checksum", func(c *Config) { c.Link.Checksum = "crc32" }, "crc32"},
		{"blake3 without key", func(c *Config) { c.Link.Checksum = crc.NameBlake3 }, "32 bytes"},
		{"blake3 short key", func(c *Config) {
			c.Link.Checksum = crc.NameBlake3
			c.Link.Blake3Key = "0011"
		}, "32 bytes"},
		{"blake3 bad hex", func(c *Config) {
			c.Link.Checksum = crc.NameBlake3
			c.Link.Blake3Key = "zz"
		}, "blake3_key"},
		{"port and url", func(c *Config) {
			c.Link.Port = "/dev/ttyUSB0"
			c.Link.URL = "ws://x/"
		}, "exclusive"},
		{"unknown log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFramer(t *testing.T) {
	cfg := Default()
	f, err := cfg.Link.Framer()
	if err != nil {
		t.Fatalf("Framer: %v", err)
	}
	if f.Name() != crc.NameCCITT || f.DigestLen() != 2 {
		t.Errorf("default framer = %s/%d, want ccitt/2", f.Name(), f.DigestLen())
	}

	cfg.Link.Checksum = crc.NameBlake3
	cfg.Link.Blake3Key = testKey
	f, err = cfg.Link.Framer()
	if err != nil {
		t.Fatalf("Framer: %v", err)
	}
	if f.Name() != crc.NameBlake3 || f.DigestLen() != 8 {
		t.Errorf("blake3 framer = %s/%d, want blake3/8", f.Name(), f.DigestLen())
	}

	cfg.Link.Checksum = "none"
	if _, err := cfg.Link.Framer(); err == nil {
		t.Error("expected an error for an unknown checksum")
	}
}
