package world

import "sync/atomic"

const (
	// Chunk dimensions. A chunk is a full-height column of the world.
	ChunkSizeX  = 16
	ChunkSizeZ  = 16
	ChunkHeight = 128
	fillerDepth = 3 // blocks of filler material beneath the surface block
)

// ColumnSampler produces a surface description for a world column. It must
// be pure: safe to call concurrently, deterministic for a fixed seed and
// parameter set.
type ColumnSampler interface {
	SampleColumn(worldX, worldZ int) SurfaceSample
}

// SurfaceSample describes one terrain column: the surface height and the
// materials to layer below it.
type SurfaceSample struct {
	Height int
	Top    BlockID
	Filler BlockID
	Base   BlockID
}

// Chunk owns the dense block grid for one column of the world plus its
// render bookkeeping. Block accessors are total: out-of-range coordinates
// read as air and writes to them are dropped.
//
// The dirty flag is atomic because generation workers, meshing workers
// and the consumer thread all touch it; the block grid itself is handed
// between stages through the pipeline queues.
//
// Chunks enter the store empty and are filled by Generate on a worker.
// The populated flag, set after the last grid write, is the only safe
// signal for other goroutines that the grid may be read: cross-chunk
// lookups against an unpopulated chunk must read air instead.
type Chunk struct {
	Coord  ChunkCoord
	blocks [ChunkSizeX][ChunkHeight][ChunkSizeZ]BlockID

	dirty       atomic.Bool
	populated   atomic.Bool
	vertexCount int // vertices in the uploaded mesh, 0 = nothing to draw
}

// NewChunk creates an empty (all air) chunk at the given coordinate.
func NewChunk(coord ChunkCoord) *Chunk {
	c := &Chunk{Coord: coord}
	c.dirty.Store(true)
	return c
}

// GetBlock returns the block at local coordinates, air when out of range.
func (c *Chunk) GetBlock(x, y, z int) BlockID {
	if x < 0 || x >= ChunkSizeX || y < 0 || y >= ChunkHeight || z < 0 || z >= ChunkSizeZ {
		return BlockIDAir
	}
	return c.blocks[x][y][z]
}

// SetBlock sets the block at local coordinates and marks the chunk dirty.
// Out-of-range writes are dropped.
func (c *Chunk) SetBlock(x, y, z int, id BlockID) {
	if x < 0 || x >= ChunkSizeX || y < 0 || y >= ChunkHeight || z < 0 || z >= ChunkSizeZ {
		return
	}
	if c.blocks[x][y][z] != id {
		c.blocks[x][y][z] = id
		c.dirty.Store(true)
	}
}

// IsAir reports whether the block at local coordinates is air.
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.GetBlock(x, y, z) == BlockIDAir
}

// IsDirty reports whether the chunk needs a remesh.
func (c *Chunk) IsDirty() bool {
	return c.dirty.Load()
}

// MarkDirty requests a future remesh, e.g. after an external edit.
func (c *Chunk) MarkDirty() {
	c.dirty.Store(true)
}

// SetClean clears the dirty flag after the mesh has been rebuilt.
func (c *Chunk) SetClean() {
	c.dirty.Store(false)
}

// IsPopulated reports whether Generate has finished filling the grid.
func (c *Chunk) IsPopulated() bool {
	return c.populated.Load()
}

// VertexCount returns the vertex count of the uploaded mesh.
func (c *Chunk) VertexCount() int {
	return c.vertexCount
}

// SetVertexCount records the size of the uploaded mesh.
func (c *Chunk) SetVertexCount(n int) {
	c.vertexCount = n
}

// WorldOrigin returns the world position of the chunk's (0,0,0) block.
func (c *Chunk) WorldOrigin() (int, int, int) {
	return c.Coord.WorldOrigin()
}

// Generate fills the whole grid from the sampler. Every cell is written,
// so generating twice with the same sampler yields an identical grid.
// The populated flag is set only after the last write, so concurrent
// readers gated on IsPopulated never observe a half-filled grid.
func (c *Chunk) Generate(sampler ColumnSampler) {
	baseX, _, baseZ := c.WorldOrigin()
	for x := 0; x < ChunkSizeX; x++ {
		for z := 0; z < ChunkSizeZ; z++ {
			s := sampler.SampleColumn(baseX+x, baseZ+z)
			top := s.Height
			if top >= ChunkHeight {
				top = ChunkHeight - 1
			}
			for y := 0; y < ChunkHeight; y++ {
				var id BlockID
				switch {
				case y > top:
					id = BlockIDAir
				case y == top:
					id = s.Top
				case y >= top-fillerDepth:
					id = s.Filler
				default:
					id = s.Base
				}
				c.blocks[x][y][z] = id
			}
		}
	}
	c.dirty.Store(true)
	c.populated.Store(true)
}
