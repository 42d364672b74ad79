package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything tunable at startup. Zero-valued fields fall back
// to defaults, so a partial YAML file only overrides what it names.
type Config struct {
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	WindowTitle  string `yaml:"window_title"`

	RenderDistance int `yaml:"render_distance"` // in chunks
	EvictRadius    int `yaml:"evict_radius"`    // in chunks, must exceed render distance
	GenWorkers     int `yaml:"gen_workers"`
	MeshWorkers    int `yaml:"mesh_workers"`
	UploadsPerTick int `yaml:"uploads_per_tick"`

	Seed int64 `yaml:"seed"`

	BlocksPath  string `yaml:"blocks_path"`
	TextureDir  string `yaml:"texture_dir"`
	TerrainPath string `yaml:"terrain_path"`
	ShaderDir   string `yaml:"shader_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WindowWidth:    1280,
		WindowHeight:   720,
		WindowTitle:    "voxelstream",
		RenderDistance: 10,
		EvictRadius:    13,
		GenWorkers:     3,
		MeshWorkers:    2,
		UploadsPerTick: 4,
		Seed:           1337,
		BlocksPath:     "assets/blocks.json",
		TextureDir:     "assets/textures",
		TerrainPath:    "assets/terrain.yaml",
		ShaderDir:      "assets/shaders",
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error; a malformed or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size %dx%d is not positive", c.WindowWidth, c.WindowHeight)
	}
	if c.RenderDistance < 1 {
		return fmt.Errorf("render_distance %d, want >= 1", c.RenderDistance)
	}
	if c.EvictRadius <= c.RenderDistance {
		return fmt.Errorf("evict_radius %d must exceed render_distance %d", c.EvictRadius, c.RenderDistance)
	}
	if c.GenWorkers < 1 || c.MeshWorkers < 1 {
		return fmt.Errorf("worker counts gen=%d mesh=%d, want >= 1", c.GenWorkers, c.MeshWorkers)
	}
	if c.UploadsPerTick < 1 {
		return fmt.Errorf("uploads_per_tick %d, want >= 1", c.UploadsPerTick)
	}
	return nil
}
