// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the bounce command configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete bounce configuration.
type Config struct {
	Output   string         `yaml:"output"` // file path, "-" for stdout
	Seed     *uint64        `yaml:"seed,omitempty"`
	Screen   ScreenConfig   `yaml:"screen"`
	Square   SquareConfig   `yaml:"square"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ScreenConfig describes the output frame.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Rate   int `yaml:"rate"` // frames per second
}

// SquareConfig describes the bouncing square.
type SquareConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Step   int `yaml:"step"` // 0 derives the step from the vertical travel
}

// PipelineConfig describes flow control.
type PipelineConfig struct {
	Slots       int    `yaml:"slots"`
	Frames      uint64 `yaml:"frames"` // 0 runs until interrupted
	ReserveSlot *bool  `yaml:"reserve_slot,omitempty"`
}

// Default returns the reference configuration.
func Default() *Config {
	reserve := true
	return &Config{
		Output: "out.y4m",
		Screen: ScreenConfig{Width: 1920, Height: 1080, Rate: 30},
		Square: SquareConfig{Width: 120, Height: 120},
		Pipeline: PipelineConfig{
			Slots:       10,
			Frames:      2000,
			ReserveSlot: &reserve,
		},
	}
}

// Load reads a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and fills unset optional values.
func Validate(cfg *Config) error {
	if cfg.Output == "" {
		return errors.New("output is required")
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		return fmt.Errorf("screen must be positive, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Screen.Width%2 != 0 || cfg.Screen.Height%2 != 0 {
		return fmt.Errorf("screen must have even dimensions for 4:2:0, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Screen.Rate <= 0 {
		cfg.Screen.Rate = 30 // default
	}

	if cfg.Square.Width <= 0 || cfg.Square.Height <= 0 {
		return fmt.Errorf("square must be positive, got %dx%d", cfg.Square.Width, cfg.Square.Height)
	}
	if cfg.Square.Width > cfg.Screen.Width || cfg.Square.Height > cfg.Screen.Height {
		return fmt.Errorf("square %dx%d does not fit screen %dx%d",
			cfg.Square.Width, cfg.Square.Height, cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Square.Step < 0 {
		return fmt.Errorf("square.step must be >= 0, got %d", cfg.Square.Step)
	}

	if cfg.Pipeline.Slots == 0 {
		cfg.Pipeline.Slots = 10 // default
	}
	if cfg.Pipeline.Slots < 2 {
		return fmt.Errorf("pipeline.slots must be >= 2, got %d", cfg.Pipeline.Slots)
	}
	if cfg.Pipeline.ReserveSlot == nil {
		reserve := true
		cfg.Pipeline.ReserveSlot = &reserve
	}

	return nil
}
