// Package config provides configuration management for mindmap.
//
// Config file locations (priority order):
//  1. $MINDMAP_CONFIG
//  2. ./mindmap.yaml
//  3. $XDG_CONFIG_HOME/mindmap/config.yaml
//  4. ~/.config/mindmap/config.yaml
//  5. /etc/mindmap/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"mindmap/internal/domain"
	"mindmap/internal/placement"
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes YAML, fills defaults and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	// WriteTimeout stays 0 unless set: SSE streams are long-lived

	if c.Canvas.Width == 0 {
		c.Canvas.Width = 800
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = 600
	}
	if c.Placement.Alignment == "" {
		c.Placement.Alignment = string(placement.AlignCentered)
	}
	if c.Redraw.FrameInterval == 0 {
		c.Redraw.FrameInterval = Duration(16 * time.Millisecond)
	}
	if c.Database.Path == "" {
		c.Database.Path = "./mindmap.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CanvasExtent returns the configured canvas as a domain value
func (c *Config) CanvasExtent() domain.Canvas {
	return domain.Canvas{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("addr=%s canvas=%gx%g placement=%s frame=%s db=%s log=%s/%s",
		c.Server.Addr, c.Canvas.Width, c.Canvas.Height, c.Placement.Alignment,
		c.Redraw.FrameInterval.Duration(), c.Database.Path, c.Log.Level, c.Log.Format)
}
