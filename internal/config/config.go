// Package config loads the typeref project configuration from typeref.yaml
// (or typeref.toml), found by walking up from the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Config is the project configuration.
type Config struct {
	// WitnessDB is the SQLite witness store used by `typeref subst` and
	// `typeref witness`. Relative paths are resolved against the config
	// file's directory. Empty disables the store.
	WitnessDB string `yaml:"witness_db,omitempty" toml:"witness_db"`

	// Color is one of auto, always, never. Defaults to auto.
	Color string `yaml:"color,omitempty" toml:"color"`

	// Format is the result format: compact (one line), tree (indented
	// dump) or yaml (a refdoc node). Defaults to compact.
	Format string `yaml:"format,omitempty" toml:"format"`

	// Verbose enables progress messages.
	Verbose bool `yaml:"verbose,omitempty" toml:"verbose"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a config file. The format follows the file
// extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses config content from bytes.
// The path argument selects the format and is used in error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if IsTOML(path) {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	if cfg.WitnessDB != "" && cfg.WitnessDB != ":memory:" && !filepath.IsAbs(cfg.WitnessDB) {
		cfg.WitnessDB = filepath.Join(filepath.Dir(path), cfg.WitnessDB)
	}
	return &cfg, nil
}

// IsTOML reports whether path names a TOML file.
func IsTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// FindConfig searches for a config file starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.Format == "" {
		c.Format = FormatCompact
	}
	if c.WitnessDB == "" {
		c.WitnessDB = os.Getenv(EnvWitnessDB)
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be one of %s, %s, %s; got %q", path, ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	switch c.Format {
	case FormatCompact, FormatTree, FormatYAML:
	default:
		return fmt.Errorf("%s: format must be one of %s, %s, %s; got %q", path, FormatCompact, FormatTree, FormatYAML, c.Format)
	}
	return nil
}

// Validate checks a configuration assembled outside ParseConfig, e.g. after
// command-line overrides.
func (c *Config) Validate() error {
	c.setDefaults()
	return c.validate("config")
}
