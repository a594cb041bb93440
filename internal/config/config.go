// Package config loads capgen settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/capgen/internal/logging"
)

// MaxWorkers bounds the conversion worker pool.
const MaxWorkers = 64

type Config struct {
	OutDir          string    `yaml:"out_dir"` // empty: beside each input
	Workers         int       `yaml:"workers"`
	AbbreviateNames bool      `yaml:"abbreviate_names"`
	IncludeInactive bool      `yaml:"include_inactive"`
	Log             LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// Overrides holds values given on the command line. Zero values mean "not
// set"; booleans can only switch a feature on.
type Overrides struct {
	OutDir          string
	Workers         int
	AbbreviateNames bool
	IncludeInactive bool
	LogLevel        string
	LogFormat       string
}

// Default returns the built-in settings: output next to each input, one
// worker per CPU, verbatim names, active players only.
func Default() *Config {
	return &Config{
		Workers: min(runtime.NumCPU(), MaxWorkers),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configPath over the defaults. Keys the file omits keep their
// default values; unknown keys are an error.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Resolve returns the effective settings: overrides beat the file at
// configPath, which beats the defaults. An empty configPath skips the file.
func Resolve(configPath string, o Overrides) (*Config, error) {
	cfg := Default()
	if configPath != "" {
		loaded, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply copies every set override into c.
func (c *Config) Apply(o Overrides) {
	if o.OutDir != "" {
		c.OutDir = o.OutDir
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.AbbreviateNames {
		c.AbbreviateNames = true
	}
	if o.IncludeInactive {
		c.IncludeInactive = true
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, c.Workers)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// InitLogging configures the global logger from c.Log.
func (c *Config) InitLogging() {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	logging.InitLogger(level, format)
}
