package world

import (
	"sync"
)

// ChunkStore is the chunk collection: coordinate -> chunk under one mutex.
// Lookups never create; insertion and removal are explicit so the caller
// (the streaming pipeline) stays in charge of chunk lifecycle.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[ChunkCoord]*Chunk)}
}

// Chunk returns the chunk at the given coordinate, or nil.
func (cs *ChunkStore) Chunk(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	c := cs.chunks[coord]
	cs.mu.RUnlock()
	return c
}

// Has reports whether a chunk exists at the given coordinate.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return ok
}

// Add inserts a chunk unless its coordinate is already occupied. Returns
// the resident chunk, which is the existing one on collision.
func (cs *ChunkStore) Add(c *Chunk) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if existing, ok := cs.chunks[c.Coord]; ok {
		return existing
	}
	cs.chunks[c.Coord] = c
	return c
}

// Replace swaps in a regenerated chunk for an already-resident
// coordinate. Returns the inserted chunk, or nil when the coordinate was
// evicted in the meantime. Readers holding the old chunk keep a complete
// grid; they never observe the new one mid-write.
func (cs *ChunkStore) Replace(c *Chunk) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[c.Coord]; !ok {
		return nil
	}
	cs.chunks[c.Coord] = c
	return c
}

// Remove deletes the chunk at the given coordinate. Returns true if a
// chunk was present.
func (cs *ChunkStore) Remove(coord ChunkCoord) bool {
	cs.mu.Lock()
	_, ok := cs.chunks[coord]
	delete(cs.chunks, coord)
	cs.mu.Unlock()
	return ok
}

// Len returns the number of resident chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	n := len(cs.chunks)
	cs.mu.RUnlock()
	return n
}

// Coords returns the coordinates of all resident chunks.
func (cs *ChunkStore) Coords() []ChunkCoord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]ChunkCoord, 0, len(cs.chunks))
	for coord := range cs.chunks {
		out = append(out, coord)
	}
	return out
}

// Get returns the block at world coordinates, air when no chunk is
// resident there. Chunks still being generated also read as air: the
// grid may not be read before the generator publishes it.
func (cs *ChunkStore) Get(wx, wy, wz int) BlockID {
	c := cs.Chunk(ChunkCoordAt(wx, wz))
	if c == nil || !c.IsPopulated() {
		return BlockIDAir
	}
	return c.GetBlock(floorMod(wx, ChunkSizeX), wy, floorMod(wz, ChunkSizeZ))
}

// IsAir reports whether the block at world coordinates is air.
func (cs *ChunkStore) IsAir(wx, wy, wz int) bool {
	return cs.Get(wx, wy, wz) == BlockIDAir
}

// Set writes a block at world coordinates if its chunk is resident, and
// marks neighbour chunks dirty when a border block changes so their
// meshes pick up the new face visibility. Writes into chunks still being
// generated are dropped; the generator owns the grid until it finishes.
func (cs *ChunkStore) Set(wx, wy, wz int, id BlockID) {
	c := cs.Chunk(ChunkCoordAt(wx, wz))
	if c == nil || !c.IsPopulated() {
		return
	}
	lx := floorMod(wx, ChunkSizeX)
	lz := floorMod(wz, ChunkSizeZ)
	c.SetBlock(lx, wy, lz, id)

	if lx == 0 {
		cs.markDirtyAt(wx-1, wz)
	} else if lx == ChunkSizeX-1 {
		cs.markDirtyAt(wx+1, wz)
	}
	if lz == 0 {
		cs.markDirtyAt(wx, wz-1)
	} else if lz == ChunkSizeZ-1 {
		cs.markDirtyAt(wx, wz+1)
	}
}

func (cs *ChunkStore) markDirtyAt(wx, wz int) {
	if nb := cs.Chunk(ChunkCoordAt(wx, wz)); nb != nil {
		nb.MarkDirty()
	}
}

// EvictOutside removes every chunk farther than radius (in chunk-grid
// units, Euclidean) from the center coordinate and returns the removed
// coordinates so the caller can release their render resources.
func (cs *ChunkStore) EvictOutside(center ChunkCoord, radius int) []ChunkCoord {
	var evicted []ChunkCoord
	cs.mu.Lock()
	for coord := range cs.chunks {
		dx := coord.X - center.X
		dz := coord.Z - center.Z
		if dx*dx+dz*dz > radius*radius {
			delete(cs.chunks, coord)
			evicted = append(evicted, coord)
		}
	}
	cs.mu.Unlock()
	return evicted
}
