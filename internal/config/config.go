// Package config loads CLI defaults from an optional YAML file.
package config

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = ".textedit.yaml"

// Config holds defaults that command-line flags may override.
type Config struct {
	Color    bool   `yaml:"color"`
	Backup   bool   `yaml:"backup"`
	LogLevel string `yaml:"log_level"`

	location string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Color: true, LogLevel: "warn"}
}

// Location returns the file the config was read from, or "" for defaults.
func (c *Config) Location() string { return c.location }

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, errors.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML %s: %w", path, err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.location = path
	return cfg, nil
}
