// Package config holds the game settings. Values come from built-in
// defaults, then an optional YAML file, then FOURS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"fours/pkg/engine/command"
	"fours/pkg/engine/input"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FOURS_"

// Renderer names.
const (
	RendererTUI    = "tui"
	RendererEbiten = "ebiten"
)

// Config is the full set of game settings.
type Config struct {
	MaxUndoHistory   int               `yaml:"max_undo_history" env:"MAX_UNDO_HISTORY"`
	EnableUndo       bool              `yaml:"enable_undo" env:"ENABLE_UNDO"`
	RotationDuration time.Duration     `yaml:"rotation_duration" env:"ROTATION_DURATION"`
	RotationScale    float64           `yaml:"rotation_scale" env:"ROTATION_SCALE"`
	Spacing          float64           `yaml:"spacing" env:"SPACING"`
	TileSize         int               `yaml:"tile_size" env:"TILE_SIZE"`
	LogLevel         string            `yaml:"log_level" env:"LOG_LEVEL"`
	Development      bool              `yaml:"development" env:"DEVELOPMENT"`
	Locale           string            `yaml:"locale" env:"LOCALE"`
	Renderer         string            `yaml:"renderer" env:"RENDERER"`
	LevelFile        string            `yaml:"level_file" env:"LEVEL_FILE"`
	Keys             map[string]string `yaml:"keys" env:"KEYS"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MaxUndoHistory:   command.DefaultMaxHistory,
		EnableUndo:       true,
		RotationDuration: 250 * time.Millisecond,
		RotationScale:    1.15,
		Spacing:          1.0,
		TileSize:         64,
		LogLevel:         "info",
		Locale:           "en",
		Renderer:         RendererTUI,
	}
}

// Load builds the configuration. A missing file at path is not an error; an
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv overlays FOURS_* environment variables onto target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MaxUndoHistory < 1:
		return fmt.Errorf("config: max_undo_history must be positive, got %d", c.MaxUndoHistory)
	case c.RotationDuration < 0:
		return fmt.Errorf("config: rotation_duration must not be negative, got %s", c.RotationDuration)
	case c.RotationScale < 1:
		return fmt.Errorf("config: rotation_scale must be at least 1, got %g", c.RotationScale)
	case c.Spacing <= 0:
		return fmt.Errorf("config: spacing must be positive, got %g", c.Spacing)
	case c.TileSize < 8:
		return fmt.Errorf("config: tile_size must be at least 8, got %d", c.TileSize)
	}
	if c.Renderer != RendererTUI && c.Renderer != RendererEbiten {
		return fmt.Errorf("config: unknown renderer %q", c.Renderer)
	}
	for name := range c.Keys {
		if input.ParseAction(name) == input.ActionNone {
			return fmt.Errorf("config: unknown action %q in keys", name)
		}
	}
	return nil
}

// ApplyKeys installs the configured key overrides.
func (c *Config) ApplyKeys() {
	for name, code := range c.Keys {
		input.SetSingleBinding(input.ParseAction(name), code)
	}
}
