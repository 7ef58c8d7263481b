// Package config loads the YAML configuration of the proof tools and builds
// the components it describes.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
	"github.com/cognicore/atpproof/pkg/atpproof/skolem"
)

// Store drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the top-level configuration file.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Parser ParserConfig `yaml:"parser"`
	Skolem SkolemConfig `yaml:"skolem"`
	Store  StoreConfig  `yaml:"store"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ParserConfig controls transcript parsing.
type ParserConfig struct {
	Dedupe  bool `yaml:"dedupe"`
	Convert bool `yaml:"convert"` // TPTP formulas to KIF
}

// SkolemConfig controls the Skolem resolver.
type SkolemConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// StoreConfig selects the run archive.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Default returns a configuration that works without a file.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Parser: ParserConfig{Dedupe: true, Convert: true},
		Skolem: SkolemConfig{CacheSize: skolem.DefaultCacheSize},
		Store:  StoreConfig{Driver: DriverNone},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and driver requirements.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}
	if c.Skolem.CacheSize <= 0 {
		return fmt.Errorf("%w: skolem.cache_size must be positive", internalerr.ErrInvalidConfig)
	}
	switch c.Store.Driver {
	case DriverNone, DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for sqlite", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: store.driver %q", internalerr.ErrInvalidConfig, c.Store.Driver)
	}
	return nil
}
