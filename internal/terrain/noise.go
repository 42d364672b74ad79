package terrain

import (
	"github.com/larspensjo/Go-simplex-noise/simplexnoise"
)

// The simplex package has a fixed gradient table, so seeding is done by
// translating each layer into its own region of noise space. Offsets are
// derived from the seed with a SplitMix64-style hash, stable across runs.

func hashSeed(seed int64, layer uint64) uint64 {
	v := uint64(seed) + layer*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// layerOffset maps a seed and layer index to a translation in noise space.
func layerOffset(seed int64, layer uint64) (float64, float64) {
	h := hashSeed(seed, layer)
	// Keep offsets large enough to decorrelate layers but small enough
	// that float64 precision at noise frequencies is not an issue.
	ox := float64(h&0xFFFFF) - 0x7FFFF
	oz := float64((h>>20)&0xFFFFF) - 0x7FFFF
	return ox, oz
}

// fbm2 sums octaves of 2D simplex noise. Result is in about [-1,1].
func fbm2(x, z float64, octaves int, persistence, lacunarity float64) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * simplexnoise.Noise2(x*freq, z*freq)
		norm += amp
		amp *= persistence
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// fbm01 is fbm2 remapped to [0,1].
func fbm01(x, z float64, octaves int, persistence, lacunarity float64) float64 {
	return 0.5 + 0.5*fbm2(x, z, octaves, persistence, lacunarity)
}
