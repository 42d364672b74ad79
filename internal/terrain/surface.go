package terrain

import (
	"fmt"

	"voxelstream/internal/world"
)

// Layer indices for seed-derived noise offsets.
const (
	layerWarpX = iota
	layerWarpZ
	layerContinental
	layerErosion
	layerPeaks
	layerDetail
)

// Palette holds the block ids the sampler assigns to terrain materials.
type Palette struct {
	Grass world.BlockID
	Dirt  world.BlockID
	Stone world.BlockID
	Sand  world.BlockID
	Snow  world.BlockID
}

// BlockNamer resolves block names to ids; satisfied by the block registry.
type BlockNamer interface {
	IDByName(name string) (world.BlockID, bool)
}

// PaletteFromRegistry resolves the sampler's materials by name. Missing
// names are a startup error, not something to paper over mid-pipeline.
func PaletteFromRegistry(r BlockNamer) (Palette, error) {
	var p Palette
	for _, m := range []struct {
		name string
		dst  *world.BlockID
	}{
		{"grass", &p.Grass},
		{"dirt", &p.Dirt},
		{"stone", &p.Stone},
		{"sand", &p.Sand},
		{"snow", &p.Snow},
	} {
		id, ok := r.IDByName(m.name)
		if !ok {
			return p, fmt.Errorf("terrain palette: registry has no block named %q", m.name)
		}
		*m.dst = id
	}
	return p, nil
}

// NoiseSurface samples terrain columns from four fractal noise layers.
// It is the single Surface variant for now; biome-specific samplers can
// implement world.ColumnSampler later.
//
// All fields are set at construction and never mutated, so one instance
// may be shared by any number of generation workers. Changing parameters
// means building a new NoiseSurface and swapping it in while the workers
// are quiescent (the pipeline does this in ReloadAll).
type NoiseSurface struct {
	params  Params
	palette Palette

	warpXOffX, warpXOffZ   float64
	warpZOffX, warpZOffZ   float64
	contOffX, contOffZ     float64
	eroOffX, eroOffZ       float64
	peaksOffX, peaksOffZ   float64
	detailOffX, detailOffZ float64
}

// NewNoiseSurface builds a sampler for the given seed and parameters.
func NewNoiseSurface(seed int64, params Params, palette Palette) (*NoiseSurface, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &NoiseSurface{params: params, palette: palette}
	s.warpXOffX, s.warpXOffZ = layerOffset(seed, layerWarpX)
	s.warpZOffX, s.warpZOffZ = layerOffset(seed, layerWarpZ)
	s.contOffX, s.contOffZ = layerOffset(seed, layerContinental)
	s.eroOffX, s.eroOffZ = layerOffset(seed, layerErosion)
	s.peaksOffX, s.peaksOffZ = layerOffset(seed, layerPeaks)
	s.detailOffX, s.detailOffZ = layerOffset(seed, layerDetail)
	return s, nil
}

// Params returns the parameter set the sampler was built with.
func (s *NoiseSurface) Params() Params {
	return s.params
}

// warp perturbs sample coordinates so terrain features do not line up
// with the world axes. The same warp feeds both the height and the
// material decisions for a column; diverging here causes visible seams.
func (s *NoiseSurface) warp(x, z float64) (float64, float64) {
	p := s.params
	wx := x + p.WarpAmp*fbm2(s.warpXOffX+x*p.WarpScale, s.warpXOffZ+z*p.WarpScale, 2, 0.5, 2.0)
	wz := z + p.WarpAmp*fbm2(s.warpZOffX+x*p.WarpScale, s.warpZOffZ+z*p.WarpScale, 2, 0.5, 2.0)
	return wx, wz
}

func (s *NoiseSurface) continentalness(wx, wz float64) float64 {
	p := s.params
	return fbm01(s.contOffX+wx*p.ContinentalScale, s.contOffZ+wz*p.ContinentalScale, 4, 0.5, 2.0)
}

func (s *NoiseSurface) erosion(wx, wz float64) float64 {
	p := s.params
	return fbm01(s.eroOffX+wx*p.ErosionScale, s.eroOffZ+wz*p.ErosionScale, 3, 0.5, 2.0)
}

func (s *NoiseSurface) peaksValleys(wx, wz float64) float64 {
	p := s.params
	return fbm2(s.peaksOffX+wx*p.PeaksScale, s.peaksOffZ+wz*p.PeaksScale, 3, 0.5, 2.0)
}

// detail is deliberately sampled on unwarped coordinates: the fine layer
// only breaks up flat surfaces and warping it adds nothing visible.
func (s *NoiseSurface) detail(x, z float64) float64 {
	p := s.params
	return fbm2(s.detailOffX+x*p.DetailScale, s.detailOffZ+z*p.DetailScale, 2, 0.5, 2.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SampleColumn returns the surface description for a world column.
func (s *NoiseSurface) SampleColumn(worldX, worldZ int) world.SurfaceSample {
	p := s.params
	x := float64(worldX)
	z := float64(worldZ)

	wx, wz := s.warp(x, z)
	cont := s.continentalness(wx, wz)
	ero := s.erosion(wx, wz)
	pv := s.peaksValleys(wx, wz)
	det := s.detail(x, z)

	// Continentalness bands: ocean floor drops below the baseline, the
	// shore band rises gently, inland keeps climbing with cont.
	var land float64
	switch {
	case cont < p.OceanThreshold:
		land = -p.OceanDepth * (p.OceanThreshold - cont) / p.OceanThreshold
	case cont < p.BeachThreshold:
		land = 2 * (cont - p.OceanThreshold) / (p.BeachThreshold - p.OceanThreshold)
	default:
		land = 2 + p.LandAmp*(cont-p.BeachThreshold)/(1-p.BeachThreshold)
	}

	// Low erosion on solid land means mountains; squaring the factor
	// keeps plains flat and makes the peaks peaked.
	mountain := (1 - ero) * clamp01((cont-p.BeachThreshold)/(1-p.BeachThreshold))
	mountain *= mountain

	relief := pv * (p.HillAmp*(1-mountain) + p.MountainAmp*mountain)

	height := float64(p.WaterLevel) + land + relief + p.DetailAmp*det
	h := int(height)
	if h < 0 {
		h = 0
	}
	if h > world.ChunkHeight-1 {
		h = world.ChunkHeight - 1
	}

	sample := world.SurfaceSample{Height: h, Base: s.palette.Stone}
	switch {
	case h < p.WaterLevel:
		// Ocean floor.
		sample.Top = s.palette.Sand
		sample.Filler = s.palette.Sand
	case h < p.WaterLevel+3:
		// Beach band just above the waterline.
		sample.Top = s.palette.Sand
		sample.Filler = s.palette.Sand
	case h > p.SnowHeight && ero < p.SnowErosionMax:
		// Snow-capped peaks.
		sample.Top = s.palette.Snow
		sample.Filler = s.palette.Stone
	case ero < p.StoneErosionMax && cont > p.StoneContinentalMin:
		// Exposed mountain stone.
		sample.Top = s.palette.Stone
		sample.Filler = s.palette.Stone
	default:
		sample.Top = s.palette.Grass
		sample.Filler = s.palette.Dirt
	}
	return sample
}
