// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"code.hybscloud.com/bounce/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bounce.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()): %v", err)
	}
	if cfg.Screen.Width != 1920 || cfg.Screen.Height != 1080 || cfg.Pipeline.Frames != 2000 {
		t.Fatalf("Default: got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output: clip.y4m
seed: 42
screen:
  width: 640
  height: 360
square:
  width: 40
  height: 40
  step: 8
pipeline:
  frames: 0
  reserve_slot: false
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "clip.y4m" {
		t.Fatalf("Output: got %q, want clip.y4m", cfg.Output)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Fatalf("Seed: got %v, want 42", cfg.Seed)
	}
	if cfg.Screen.Width != 640 || cfg.Screen.Height != 360 || cfg.Screen.Rate != 30 {
		t.Fatalf("Screen: got %+v, want 640x360 @ 30", cfg.Screen)
	}
	if cfg.Square.Step != 8 {
		t.Fatalf("Square.Step: got %d, want 8", cfg.Square.Step)
	}
	if cfg.Pipeline.Slots != 10 || cfg.Pipeline.Frames != 0 {
		t.Fatalf("Pipeline: got %+v, want 10 slots unbounded", cfg.Pipeline)
	}
	if *cfg.Pipeline.ReserveSlot {
		t.Fatalf("ReserveSlot: got true, want false")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil ||
		!strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("missing file: got %v", err)
	}
	if _, err := config.Load(writeConfig(t, "screen: [1, 2")); err == nil ||
		!strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("bad yaml: got %v", err)
	}
	if _, err := config.Load(writeConfig(t, "screen:\n  width: 641\n")); err == nil ||
		!strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("odd width: got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"no output", func(c *config.Config) { c.Output = "" }, "output is required"},
		{"zero screen", func(c *config.Config) { c.Screen.Height = 0 }, "screen must be positive"},
		{"odd screen", func(c *config.Config) { c.Screen.Width = 1921 }, "even dimensions"},
		{"empty square", func(c *config.Config) { c.Square.Width = 0 }, "square must be positive"},
		{"square too big", func(c *config.Config) { c.Square.Height = 1081 }, "does not fit"},
		{"negative step", func(c *config.Config) { c.Square.Step = -1 }, "square.step"},
		{"one slot", func(c *config.Config) { c.Pipeline.Slots = 1 }, "pipeline.slots"},
	}
	for _, tt := range tests {
		cfg := config.Default()
		tt.mutate(cfg)
		err := config.Validate(cfg)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: got %v, want error containing %q", tt.name, err, tt.want)
		}
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Screen.Rate = 0
	cfg.Pipeline.Slots = 0
	cfg.Pipeline.ReserveSlot = nil
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Screen.Rate != 30 || cfg.Pipeline.Slots != 10 || cfg.Pipeline.ReserveSlot == nil || !*cfg.Pipeline.ReserveSlot {
		t.Fatalf("defaults: got rate %d slots %d reserve %v", cfg.Screen.Rate, cfg.Pipeline.Slots, cfg.Pipeline.ReserveSlot)
	}
}
