package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg != Default() {
		t.Fatal("missing file did not yield defaults")
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "render_distance: 6\nevict_radius: 9\nseed: 42\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RenderDistance != 6 || cfg.EvictRadius != 9 || cfg.Seed != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.GenWorkers != Default().GenWorkers {
		t.Fatal("untouched field lost its default")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"evict inside render", func(c *Config) { c.EvictRadius = c.RenderDistance }},
		{"zero render distance", func(c *Config) { c.RenderDistance = 0 }},
		{"zero workers", func(c *Config) { c.GenWorkers = 0 }},
		{"zero uploads", func(c *Config) { c.UploadsPerTick = 0 }},
		{"bad window", func(c *Config) { c.WindowWidth = -1 }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("%s accepted", tt.name)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("render_distance: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}
