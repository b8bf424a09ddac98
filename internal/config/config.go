// Package config holds the generation settings of the declaration backend.
//
// Settings are read from YAML with unknown fields rejected. Every field has
// a default, so an empty file (or no file) is a valid configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/variable"
)

// IO types.
const (
	IOParallel = "parallel"
	IOStream   = "stream"
)

// DefaultBramFactor is large enough that no realistic weight is moved to BRAM.
const DefaultBramFactor = 1_000_000_000

// Config is the full set of generation settings.
type Config struct {
	// Dialect selects the arbitrary-precision library: "ap" or "ac".
	Dialect hls.Dialect `yaml:"dialect"`

	// Port selects how top-level arrays are emitted: "dense" or "struct".
	Port string `yaml:"port"`

	// IOType selects arrays ("parallel") or FIFO streams ("stream") for
	// activation tensors.
	IOType string `yaml:"io_type"`

	// StreamDepth overrides the stream depth. 0 derives it from the shape.
	StreamDepth int `yaml:"stream_depth"`

	// PackFactor is the number of elements packed per stream word.
	PackFactor int `yaml:"pack_factor"`

	// BramFactor is the weight size above which weights are stored in BRAM.
	BramFactor int `yaml:"bram_factor"`

	// InputStruct and OutputStruct name the structs holding top-level IO
	// when Port is "struct".
	InputStruct  string `yaml:"input_struct"`
	OutputStruct string `yaml:"output_struct"`

	ArrayPragma  string `yaml:"array_pragma"`
	MemberPragma string `yaml:"member_pragma"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Dialect:      hls.DialectAP,
		Port:         variable.PortDense.String(),
		IOType:       IOParallel,
		StreamDepth:  0,
		PackFactor:   1,
		BramFactor:   DefaultBramFactor,
		InputStruct:  "inputs",
		OutputStruct: "outputs",
		ArrayPragma:  variable.DefaultArrayPragma,
		MemberPragma: variable.DefaultMemberPragma,
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	// Strict decode catches typos like "io-type:" vs "io_type:".
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every field holds a supported value.
func (c *Config) Validate() error {
	if !c.Dialect.Valid() {
		return fmt.Errorf("dialect %q must be one of %v", c.Dialect, hls.ValidDialects)
	}
	if _, err := variable.ParsePort(c.Port); err != nil {
		return err
	}
	if c.IOType != IOParallel && c.IOType != IOStream {
		return fmt.Errorf("io_type %q must be %q or %q", c.IOType, IOParallel, IOStream)
	}
	if c.StreamDepth < 0 {
		return fmt.Errorf("stream_depth must not be negative, got %d", c.StreamDepth)
	}
	if c.PackFactor < 1 {
		return fmt.Errorf("pack_factor must be at least 1, got %d", c.PackFactor)
	}
	if c.BramFactor < 0 {
		return fmt.Errorf("bram_factor must not be negative, got %d", c.BramFactor)
	}
	if c.InputStruct == "" || c.OutputStruct == "" {
		return fmt.Errorf("input_struct and output_struct are required")
	}
	return nil
}

// PortStyle returns the parsed port. Call Validate first.
func (c *Config) PortStyle() variable.Port {
	p, _ := variable.ParsePort(c.Port)
	return p
}
