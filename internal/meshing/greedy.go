package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/registry"
	"voxelstream/internal/world"
)

// Greedy surface meshing: for each of the six face orientations, build a
// per-layer 2D visibility mask and merge runs of same-material visible
// cells into the fewest axis-aligned rectangles. A cell is visible iff
// its block is opaque and the block it faces is not; no face is ever
// emitted between two opaque blocks or between two non-opaque blocks.

// faceNormals matches the world.BlockFace order.
var faceNormals = [world.FaceCount]mgl32.Vec3{
	{0, 1, 0},  // top
	{0, -1, 0}, // bottom
	{0, 0, -1}, // north
	{0, 0, 1},  // south
	{1, 0, 0},  // east
	{-1, 0, 0}, // west
}

// faceAmbient is the constant per-quad ambient term: a cheap stand-in for
// real ambient occlusion that still separates the face orientations.
var faceAmbient = [world.FaceCount]float32{1.0, 0.55, 0.8, 0.8, 0.72, 0.72}

// faceTemplate holds unit-cube corner selectors per face, two CCW
// triangles each, front side facing along the outward normal.
var faceTemplate = [world.FaceCount][6]mgl32.Vec3{
	{ // top (Y+)
		{1, 1, 1}, {1, 1, 0}, {0, 1, 0},
		{0, 1, 0}, {0, 1, 1}, {1, 1, 1},
	},
	{ // bottom (Y-)
		{0, 0, 0}, {1, 0, 0}, {1, 0, 1},
		{1, 0, 1}, {0, 0, 1}, {0, 0, 0},
	},
	{ // north (Z-)
		{1, 0, 0}, {0, 0, 0}, {0, 1, 0},
		{0, 1, 0}, {1, 1, 0}, {1, 0, 0},
	},
	{ // south (Z+)
		{1, 1, 1}, {0, 1, 1}, {0, 0, 1},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1},
	},
	{ // east (X+)
		{1, 1, 1}, {1, 0, 1}, {1, 0, 0},
		{1, 0, 0}, {1, 1, 0}, {1, 1, 1},
	},
	{ // west (X-)
		{0, 1, 1}, {0, 1, 0}, {0, 0, 0},
		{0, 0, 0}, {0, 0, 1}, {0, 1, 1},
	},
}

type maskCell struct {
	id      world.BlockID
	visible bool
}

// BuildChunkMesh emits the merged visible faces of one chunk as
// chunk-local vertices. The neighbor callback settles visibility across
// chunk borders; a nil callback treats everything outside the chunk as
// air.
func BuildChunkMesh(c *world.Chunk, reg *registry.Registry, neighbor NeighborFunc) []Vertex {
	if c == nil {
		return nil
	}
	if chunkIsEmpty(c) {
		return nil
	}

	baseX, baseY, baseZ := c.WorldOrigin()
	blockAt := func(x, y, z int) world.BlockID {
		if x >= 0 && x < world.ChunkSizeX && y >= 0 && y < world.ChunkHeight && z >= 0 && z < world.ChunkSizeZ {
			return c.GetBlock(x, y, z)
		}
		if neighbor == nil {
			return world.BlockIDAir
		}
		return neighbor(baseX+x, baseY+y, baseZ+z)
	}

	verts := make([]Vertex, 0, 1024)

	// Top/bottom: layers along Y, mask is X by Z.
	{
		const w, h = world.ChunkSizeX, world.ChunkSizeZ
		mask := make([]maskCell, w*h)
		for y := 0; y < world.ChunkHeight; y++ {
			fillMask(mask, w, h, reg, func(mx, mz int) (world.BlockID, world.BlockID) {
				return blockAt(mx, y, mz), blockAt(mx, y+1, mz)
			})
			greedyScan2D(mask, w, h, func(mx, mz, qw, qh int, id world.BlockID) {
				verts = emitQuad(verts, reg, world.FaceTop, y, mx, mz, qw, qh, id)
			})
			fillMask(mask, w, h, reg, func(mx, mz int) (world.BlockID, world.BlockID) {
				return blockAt(mx, y, mz), blockAt(mx, y-1, mz)
			})
			greedyScan2D(mask, w, h, func(mx, mz, qw, qh int, id world.BlockID) {
				verts = emitQuad(verts, reg, world.FaceBottom, y, mx, mz, qw, qh, id)
			})
		}
	}

	// North/south: layers along Z, mask is X by Y.
	{
		const w, h = world.ChunkSizeX, world.ChunkHeight
		mask := make([]maskCell, w*h)
		for z := 0; z < world.ChunkSizeZ; z++ {
			fillMask(mask, w, h, reg, func(mx, my int) (world.BlockID, world.BlockID) {
				return blockAt(mx, my, z), blockAt(mx, my, z+1)
			})
			greedyScan2D(mask, w, h, func(mx, my, qw, qh int, id world.BlockID) {
				verts = emitQuad(verts, reg, world.FaceSouth, z, mx, my, qw, qh, id)
			})
			fillMask(mask, w, h, reg, func(mx, my int) (world.BlockID, world.BlockID) {
				return blockAt(mx, my, z), blockAt(mx, my, z-1)
			})
			greedyScan2D(mask, w, h, func(mx, my, qw, qh int, id world.BlockID) {
				verts = emitQuad(verts, reg, world.FaceNorth, z, mx, my, qw, qh, id)
			})
		}
	}

	// East/west: layers along X, mask is Z by Y.
	{
		const w, h = world.ChunkSizeZ, world.ChunkHeight
		mask := make([]maskCell, w*h)
		for x := 0; x < world.ChunkSizeX; x++ {
			fillMask(mask, w, h, reg, func(mz, my int) (world.BlockID, world.BlockID) {
				return blockAt(x, my, mz), blockAt(x+1, my, mz)
			})
			greedyScan2D(mask, w, h, func(mz, my, qw, qh int, id world.BlockID) {
				verts = emitQuad(verts, reg, world.FaceEast, x, mz, my, qw, qh, id)
			})
			fillMask(mask, w, h, reg, func(mz, my int) (world.BlockID, world.BlockID) {
				return blockAt(x, my, mz), blockAt(x-1, my, mz)
			})
			greedyScan2D(mask, w, h, func(mz, my, qw, qh int, id world.BlockID) {
				verts = emitQuad(verts, reg, world.FaceWest, x, mz, my, qw, qh, id)
			})
		}
	}

	return verts
}

func chunkIsEmpty(c *world.Chunk) bool {
	for x := 0; x < world.ChunkSizeX; x++ {
		for y := 0; y < world.ChunkHeight; y++ {
			for z := 0; z < world.ChunkSizeZ; z++ {
				if c.GetBlock(x, y, z) != world.BlockIDAir {
					return false
				}
			}
		}
	}
	return true
}

// fillMask rebuilds the layer mask. sample returns the cell block and the
// block it faces, in mask coordinates.
func fillMask(mask []maskCell, w, h int, reg *registry.Registry, sample func(mu, mv int) (world.BlockID, world.BlockID)) {
	for mv := 0; mv < h; mv++ {
		for mu := 0; mu < w; mu++ {
			cur, facing := sample(mu, mv)
			cell := &mask[mv*w+mu]
			cell.id = cur
			cell.visible = reg.IsOpaque(cur) && !reg.IsOpaque(facing)
		}
	}
}

// greedyScan2D merges the mask into rectangles: width is always fully
// extended before height is attempted, so output is deterministic for a
// fixed mask. Consumed cells are cleared in place.
func greedyScan2D(mask []maskCell, w, h int, emit func(mu, mv, qw, qh int, id world.BlockID)) {
	for mv := 0; mv < h; mv++ {
		for mu := 0; mu < w; {
			cell := &mask[mv*w+mu]
			if !cell.visible {
				mu++
				continue
			}
			id := cell.id

			qw := 1
			for mu+qw < w {
				next := &mask[mv*w+mu+qw]
				if !next.visible || next.id != id {
					break
				}
				qw++
			}

			qh := 1
		grow:
			for mv+qh < h {
				for k := 0; k < qw; k++ {
					rc := &mask[(mv+qh)*w+mu+k]
					if !rc.visible || rc.id != id {
						break grow
					}
				}
				qh++
			}

			for dv := 0; dv < qh; dv++ {
				for du := 0; du < qw; du++ {
					mask[(mv+dv)*w+mu+du].visible = false
				}
			}

			emit(mu, mv, qw, qh, id)
			mu += qw
		}
	}
}

// emitQuad maps a merged mask rectangle into six vertices. One UV rect is
// stretched over the whole quad; there is no per-block tiling.
func emitQuad(verts []Vertex, reg *registry.Registry, face world.BlockFace, layer, mu, mv, qw, qh int, id world.BlockID) []Vertex {
	uv := reg.FaceUV(id, face)
	normal := faceNormals[face]
	ambient := faceAmbient[face]

	for _, corner := range faceTemplate[face] {
		var pos mgl32.Vec3
		var uf, vf float32

		switch face {
		case world.FaceTop, world.FaceBottom:
			// plane at layer (or layer+1 for top), mask u along X, v along Z
			py := float32(layer)
			if face == world.FaceTop {
				py = float32(layer + 1)
			}
			pos = mgl32.Vec3{
				float32(mu) + corner.X()*float32(qw),
				py,
				float32(mv) + corner.Z()*float32(qh),
			}
			uf, vf = corner.X(), corner.Z()
		case world.FaceNorth, world.FaceSouth:
			// plane at layer (or layer+1 for south), u along X, v along Y
			pz := float32(layer)
			if face == world.FaceSouth {
				pz = float32(layer + 1)
			}
			pos = mgl32.Vec3{
				float32(mu) + corner.X()*float32(qw),
				float32(mv) + corner.Y()*float32(qh),
				pz,
			}
			uf, vf = corner.X(), corner.Y()
		default: // east/west
			// plane at layer (or layer+1 for east), u along Z, v along Y
			px := float32(layer)
			if face == world.FaceEast {
				px = float32(layer + 1)
			}
			pos = mgl32.Vec3{
				px,
				float32(mv) + corner.Y()*float32(qh),
				float32(mu) + corner.Z()*float32(qw),
			}
			uf, vf = corner.Z(), corner.Y()
		}

		verts = append(verts, Vertex{
			Position: pos,
			Normal:   normal,
			UV: mgl32.Vec2{
				uv.MinU + (uv.MaxU-uv.MinU)*uf,
				uv.MinV + (uv.MaxV-uv.MinV)*vf,
			},
			AO: ambient,
		})
	}
	return verts
}
