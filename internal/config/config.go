// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads the stencil CLI configuration.
//
// Values come from built-in defaults, then an optional TOML file, then
// STENCIL_* environment variables. Command line flags are applied last by the
// cmd package.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Thermoquad/stencil/internal/logging"
	"github.com/Thermoquad/stencil/pkg/crc"
)

// Defaults.
const (
	DefaultBaud            = 115200
	DefaultRingCapacity    = 256
	DefaultTxCapacity      = 256
	DefaultReadChunk       = 128
	DefaultResponseTimeout = 500 * time.Millisecond
	DefaultChecksum        = crc.NameCCITT
	// DefaultLogLevel applies when neither log.level, STENCIL_LOG_LEVEL nor
	// --log-level is set.
	DefaultLogLevel = "info"
)

// Config is the resolved CLI configuration.
type Config struct {
	Link   Link
	Schema Schema
	Log    Log
}

// Link configures the serial or WebSocket connection and frame handling.
type Link struct {
	Port            string
	Baud            int
	URL             string
	Username        string
	NoSSLVerify     bool
	RingCapacity    int
	TxCapacity      int
	ReadChunk       int
	Checksum        string
	Blake3Key       string
	ResponseTimeout time.Duration
}

// Schema names the type description used to interpret frames.
type Schema struct {
	Path string
	Type string
}

// Log configures logging.
type Log struct {
	// Level is empty unless set explicitly. The logging profile then decides.
	Level string
}

type fileConfig struct {
	Link   fileLink   `toml:"link"`
	Schema fileSchema `toml:"schema"`
	Log    fileLog    `toml:"log"`
}

type fileLink struct {
	Port            string `toml:"port"`
	Baud            int    `toml:"baud"`
	URL             string `toml:"url"`
	Username        string `toml:"username"`
	NoSSLVerify     bool   `toml:"no_ssl_verify"`
	RingCapacity    int    `toml:"ring_capacity"`
	TxCapacity      int    `toml:"tx_capacity"`
	ReadChunk       int    `toml:"read_chunk"`
	Checksum        string `toml:"checksum"`
	Blake3Key       string `toml:"blake3_key"`
	ResponseTimeout string `toml:"response_timeout"`
}

type fileSchema struct {
	Path string `toml:"path"`
	Type string `toml:"type"`
}

type fileLog struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Link: Link{
			Baud:            DefaultBaud,
			RingCapacity:    DefaultRingCapacity,
			TxCapacity:      DefaultTxCapacity,
			ReadChunk:       DefaultReadChunk,
			Checksum:        DefaultChecksum,
			ResponseTimeout: DefaultResponseTimeout,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path and the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %s", undecoded[0])
	}

	if meta.IsDefined("link", "port") {
		c.Link.Port = strings.TrimSpace(raw.Link.Port)
	}
	if meta.IsDefined("link", "baud") {
		c.Link.Baud = raw.Link.Baud
	}
	if meta.IsDefined("link", "url") {
		c.Link.URL = strings.TrimSpace(raw.Link.URL)
	}
	if meta.IsDefined("link", "username") {
		c.Link.Username = strings.TrimSpace(raw.Link.Username)
	}
	if meta.IsDefined("link", "no_ssl_verify") {
		c.Link.NoSSLVerify = raw.Link.NoSSLVerify
	}
	if meta.IsDefined("link", "ring_capacity") {
		c.Link.RingCapacity = raw.Link.RingCapacity
	}
	if meta.IsDefined("link", "tx_capacity") {
		c.Link.TxCapacity = raw.Link.TxCapacity
	}
	if meta.IsDefined("link", "read_chunk") {
		c.Link.ReadChunk = raw.Link.ReadChunk
	}
	if meta.IsDefined("link", "checksum") {
		c.Link.Checksum = strings.ToLower(strings.TrimSpace(raw.Link.Checksum))
	}
	if meta.IsDefined("link", "blake3_key") {
		c.Link.Blake3Key = strings.TrimSpace(raw.Link.Blake3Key)
	}
	if meta.IsDefined("link", "response_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Link.ResponseTimeout))
		if err != nil {
			return fmt.Errorf("parse link.response_timeout: %w", err)
		}
		c.Link.ResponseTimeout = d
	}

	if meta.IsDefined("schema", "path") {
		c.Schema.Path = strings.TrimSpace(raw.Schema.Path)
	}
	if meta.IsDefined("schema", "type") {
		c.Schema.Type = strings.TrimSpace(raw.Schema.Type)
	}

	if meta.IsDefined("log", "level") {
		c.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	}
	return nil
}

// ApplyEnv overlays STENCIL_PORT, STENCIL_URL, STENCIL_USERNAME,
// STENCIL_SCHEMA, STENCIL_BLAKE3_KEY and STENCIL_LOG_LEVEL when set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("STENCIL_PORT", &c.Link.Port)
	set("STENCIL_URL", &c.Link.URL)
	set("STENCIL_USERNAME", &c.Link.Username)
	set("STENCIL_SCHEMA", &c.Schema.Path)
	set("STENCIL_BLAKE3_KEY", &c.Link.Blake3Key)
	set(logging.EnvLogLevel, &c.Log.Level)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Link.Baud < 1 {
		return fmt.Errorf("link.baud must be positive, got %d", c.Link.Baud)
	}
	if c.Link.RingCapacity < 1 {
		return fmt.Errorf("link.ring_capacity must be at least 1, got %d", c.Link.RingCapacity)
	}
	if c.Link.TxCapacity < 1 {
		return fmt.Errorf("link.tx_capacity must be at least 1, got %d", c.Link.TxCapacity)
	}
	if c.Link.ReadChunk < 1 {
		return fmt.Errorf("link.read_chunk must be at least 1, got %d", c.Link.ReadChunk)
	}
	if c.Link.ResponseTimeout < 0 {
		return fmt.Errorf("link.response_timeout must not be negative, got %s", c.Link.ResponseTimeout)
	}
	switch c.Link.Checksum {
	case crc.NameCCITT:
	case crc.NameBlake3:
		if _, err := c.Link.blake3Key(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("link.checksum %q: want %s or %s", c.Link.Checksum, crc.NameCCITT, crc.NameBlake3)
	}
	if c.Link.Port != "" && c.Link.URL != "" {
		return fmt.Errorf("link.port and link.url are exclusive")
	}
	if c.Log.Level != "" {
		if _, ok := logging.ParseLevel(c.Log.Level); !ok {
			return fmt.Errorf("log.level %q: want trace, debug, info, warn, error or disabled", c.Log.Level)
		}
	}
	return nil
}

func (l Link) blake3Key() ([]byte, error) {
	key, err := hex.DecodeString(l.Blake3Key)
	if err != nil {
		return nil, fmt.Errorf("link.blake3_key: %w", err)
	}
	if len(key) != crc.Blake3KeySize {
		return nil, fmt.Errorf("link.blake3_key must be %d bytes, got %d", crc.Blake3KeySize, len(key))
	}
	return key, nil
}

// Framer builds the checksum envelope selected by Checksum.
func (l Link) Framer() (crc.Framer, error) {
	switch l.Checksum {
	case crc.NameCCITT:
		return crc.NewCCITTFramer(), nil
	case crc.NameBlake3:
		key, err := l.blake3Key()
		if err != nil {
			return nil, err
		}
		return crc.NewBlake3Framer(key)
	default:
		return nil, fmt.Errorf("link.checksum %q: want %s or %s", l.Checksum, crc.NameCCITT, crc.NameBlake3)
	}
}
