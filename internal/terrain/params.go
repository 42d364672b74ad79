package terrain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds every tunable of the terrain sampler. All thresholds are
// configuration: resampling with different values is a pure function of
// the new parameter set, never of sampling history.
type Params struct {
	WaterLevel int `yaml:"water_level"`

	// Per-layer noise frequencies (world units -> noise space).
	ContinentalScale float64 `yaml:"continental_scale"`
	ErosionScale     float64 `yaml:"erosion_scale"`
	PeaksScale       float64 `yaml:"peaks_scale"`
	DetailScale      float64 `yaml:"detail_scale"`

	// Domain warp applied to the continental/erosion/peaks layers.
	WarpScale float64 `yaml:"warp_scale"`
	WarpAmp   float64 `yaml:"warp_amp"`

	// Continentalness bands.
	OceanThreshold float64 `yaml:"ocean_threshold"`
	BeachThreshold float64 `yaml:"beach_threshold"`
	OceanDepth     float64 `yaml:"ocean_depth"`
	LandAmp        float64 `yaml:"land_amp"`

	// Relief blending.
	MountainAmp float64 `yaml:"mountain_amp"`
	HillAmp     float64 `yaml:"hill_amp"`
	DetailAmp   float64 `yaml:"detail_amp"`

	// Material selection.
	SnowHeight          int     `yaml:"snow_height"`
	SnowErosionMax      float64 `yaml:"snow_erosion_max"`
	StoneErosionMax     float64 `yaml:"stone_erosion_max"`
	StoneContinentalMin float64 `yaml:"stone_continental_min"`
}

// DefaultParams returns the stock terrain tuning.
func DefaultParams() Params {
	return Params{
		WaterLevel:          52,
		ContinentalScale:    1.0 / 700.0,
		ErosionScale:        1.0 / 550.0,
		PeaksScale:          1.0 / 180.0,
		DetailScale:         1.0 / 40.0,
		WarpScale:           1.0 / 400.0,
		WarpAmp:             40,
		OceanThreshold:      0.38,
		BeachThreshold:      0.46,
		OceanDepth:          18,
		LandAmp:             30,
		MountainAmp:         38,
		HillAmp:             7,
		DetailAmp:           2.5,
		SnowHeight:          96,
		SnowErosionMax:      0.30,
		StoneErosionMax:     0.35,
		StoneContinentalMin: 0.55,
	}
}

// LoadParams reads a YAML parameter file over the defaults. A missing file
// yields the defaults so a fresh checkout runs without a tuning file.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("terrain params %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("terrain params %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects parameter sets the sampler cannot work with.
func (p Params) Validate() error {
	if p.OceanThreshold <= 0 || p.OceanThreshold >= 1 {
		return fmt.Errorf("ocean_threshold %v outside (0,1)", p.OceanThreshold)
	}
	if p.BeachThreshold <= p.OceanThreshold || p.BeachThreshold >= 1 {
		return fmt.Errorf("beach_threshold %v must be in (ocean_threshold,1)", p.BeachThreshold)
	}
	if p.ContinentalScale <= 0 || p.ErosionScale <= 0 || p.PeaksScale <= 0 || p.DetailScale <= 0 || p.WarpScale <= 0 {
		return fmt.Errorf("noise scales must be positive")
	}
	if p.WaterLevel < 0 {
		return fmt.Errorf("water_level %d must be >= 0", p.WaterLevel)
	}
	return nil
}
