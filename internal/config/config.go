// Package config provides configuration loading for image-split.
//
// Configuration comes from three layers applied in order: built-in defaults,
// an optional YAML file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-split-mcp/internal/imaging"
)

// Environment variables recognised by Load and ApplyEnv.
const (
	EnvConfigPath = "IMAGE_SPLIT_CONFIG"
	EnvLogLevel   = "IMAGE_SPLIT_LOG_LEVEL"
	EnvOutputDir  = "IMAGE_SPLIT_OUTPUT_DIR"
)

// Default values.
const (
	DefaultConfigFile       = "image-split.yaml"
	DefaultLogLevel         = "info"
	DefaultOutputDir        = "split-output"
	DefaultFilenamePrefix   = "split"
	DefaultMode             = "horizontal"
	DefaultMaxSurfacePixels = 100_000_000
	DefaultThumbnailSize    = 80
	DefaultOverlayColor     = "#FF000080"
	DefaultCacheTTL         = 30 * time.Minute
	DefaultCleanupInterval  = time.Hour
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`
	} `yaml:"log"`

	Output struct {
		// Dir is where split slices are written when no directory is given.
		Dir string `yaml:"dir"`

		// FilenamePrefix is the first component of <prefix>_<mode>_<n>.png.
		FilenamePrefix string `yaml:"filenamePrefix"`
	} `yaml:"output"`

	Partition struct {
		// DefaultMode is the mode a fresh or reset session starts in.
		DefaultMode string `yaml:"defaultMode"`

		// MaxSurfacePixels caps the drawing surface; 0 disables the cap.
		MaxSurfacePixels int `yaml:"maxSurfacePixels"`
	} `yaml:"partition"`

	Preview struct {
		ThumbnailSize int    `yaml:"thumbnailSize"`
		OverlayColor  string `yaml:"overlayColor"`
	} `yaml:"preview"`

	Cache struct {
		TTL             time.Duration `yaml:"ttl"`
		CleanupInterval time.Duration `yaml:"cleanupInterval"`
	} `yaml:"cache"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Log.Level = DefaultLogLevel

	cfg.Output.Dir = DefaultOutputDir
	cfg.Output.FilenamePrefix = DefaultFilenamePrefix

	cfg.Partition.DefaultMode = DefaultMode
	cfg.Partition.MaxSurfacePixels = DefaultMaxSurfacePixels

	cfg.Preview.ThumbnailSize = DefaultThumbnailSize
	cfg.Preview.OverlayColor = DefaultOverlayColor

	cfg.Cache.TTL = DefaultCacheTTL
	cfg.Cache.CleanupInterval = DefaultCleanupInterval

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load resolves the config path (explicit argument, then IMAGE_SPLIT_CONFIG,
// then DefaultConfigFile), loads it and applies environment overrides.
//
// Only DefaultConfigFile is optional; a path given explicitly or through
// IMAGE_SPLIT_CONFIG must exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}
	if configPath == "" {
		configPath = DefaultConfigFile
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
}

// Validate rejects values that would make the rest of the program misbehave.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Output.FilenamePrefix == "" {
		return fmt.Errorf("output.filenamePrefix must not be empty")
	}
	if _, err := imaging.ParseMode(c.Partition.DefaultMode); err != nil {
		return fmt.Errorf("partition.defaultMode: %w", err)
	}
	if c.Partition.MaxSurfacePixels < 0 {
		return fmt.Errorf("partition.maxSurfacePixels must not be negative")
	}
	if c.Preview.ThumbnailSize <= 0 {
		return fmt.Errorf("preview.thumbnailSize must be positive")
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
