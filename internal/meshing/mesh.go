package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/world"
)

// Vertex is one mesh vertex: chunk-local position, axis-aligned unit
// normal, atlas texture coordinate and a constant ambient term.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	AO       float32
}

// VertexStride is the number of float32 per vertex when interleaved
// (pos.xyz + normal.xyz + uv.st + ao).
const VertexStride = 9

// NeighborFunc resolves a block at absolute world coordinates, for faces
// at chunk borders. Positions outside the loaded world resolve to air.
type NeighborFunc func(wx, wy, wz int) world.BlockID

// Flatten interleaves vertices into a float32 slice for buffer upload.
func Flatten(verts []Vertex) []float32 {
	out := make([]float32, 0, len(verts)*VertexStride)
	for _, v := range verts {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
			v.AO,
		)
	}
	return out
}
