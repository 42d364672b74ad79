package world

import "testing"

// flatSampler returns the same column everywhere.
type flatSampler struct {
	height int
	top    BlockID
	filler BlockID
	base   BlockID
}

func (f flatSampler) SampleColumn(worldX, worldZ int) SurfaceSample {
	return SurfaceSample{Height: f.height, Top: f.top, Filler: f.filler, Base: f.base}
}

func TestChunkAccessorsAreTotal(t *testing.T) {
	c := NewChunk(ChunkCoord{})

	// Out-of-range reads are air, never a panic.
	for _, p := range [][3]int{
		{-1, 0, 0}, {ChunkSizeX, 0, 0},
		{0, -1, 0}, {0, ChunkHeight, 0},
		{0, 0, -1}, {0, 0, ChunkSizeZ},
		{-100, -100, -100}, {1000, 1000, 1000},
	} {
		if got := c.GetBlock(p[0], p[1], p[2]); got != BlockIDAir {
			t.Errorf("GetBlock(%v) = %d, want air", p, got)
		}
	}

	// Out-of-range writes are dropped.
	c.SetBlock(-1, 0, 0, 5)
	c.SetBlock(0, ChunkHeight, 0, 5)
	for x := 0; x < ChunkSizeX; x++ {
		for y := 0; y < ChunkHeight; y++ {
			for z := 0; z < ChunkSizeZ; z++ {
				if c.GetBlock(x, y, z) != BlockIDAir {
					t.Fatalf("out-of-range write leaked into (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestChunkSetBlockMarksDirty(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetClean()
	c.SetBlock(1, 2, 3, 7)
	if !c.IsDirty() {
		t.Fatal("SetBlock did not mark the chunk dirty")
	}

	// Writing the same value again is a no-op.
	c.SetClean()
	c.SetBlock(1, 2, 3, 7)
	if c.IsDirty() {
		t.Fatal("identical write marked the chunk dirty")
	}
}

func TestGenerateLayering(t *testing.T) {
	const top, grass, dirt, stone = 60, BlockID(1), BlockID(2), BlockID(3)
	c := NewChunk(ChunkCoord{X: 2, Z: -3})
	c.Generate(flatSampler{height: top, top: grass, filler: dirt, base: stone})

	cases := []struct {
		y    int
		want BlockID
	}{
		{top + 1, BlockIDAir},
		{ChunkHeight - 1, BlockIDAir},
		{top, grass},
		{top - 1, dirt},
		{top - 3, dirt},
		{top - 4, stone},
		{0, stone},
	}
	for _, tt := range cases {
		if got := c.GetBlock(5, tt.y, 9); got != tt.want {
			t.Errorf("y=%d: got block %d, want %d", tt.y, got, tt.want)
		}
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	sampler := flatSampler{height: 40, top: 1, filler: 2, base: 3}
	a := NewChunk(ChunkCoord{X: 1, Z: 1})
	a.Generate(sampler)

	// Scribble over the grid, then regenerate; every cell must be
	// rewritten back to the sampler's output.
	b := NewChunk(ChunkCoord{X: 1, Z: 1})
	b.Generate(sampler)
	for x := 0; x < ChunkSizeX; x++ {
		for z := 0; z < ChunkSizeZ; z++ {
			b.SetBlock(x, 100, z, 9)
		}
	}
	b.Generate(sampler)

	for x := 0; x < ChunkSizeX; x++ {
		for y := 0; y < ChunkHeight; y++ {
			for z := 0; z < ChunkSizeZ; z++ {
				if a.GetBlock(x, y, z) != b.GetBlock(x, y, z) {
					t.Fatalf("regenerated grid diverges at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestGenerateClampsHeight(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.Generate(flatSampler{height: ChunkHeight + 50, top: 1, filler: 2, base: 3})
	if got := c.GetBlock(0, ChunkHeight-1, 0); got != 1 {
		t.Fatalf("clamped surface block = %d, want 1", got)
	}
}
