package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/meshing"
	"voxelstream/internal/profiling"
	"voxelstream/internal/world"
)

// chunkBuffers is one resident chunk's GPU state.
type chunkBuffers struct {
	vao         uint32
	vbo         uint32
	vertexCount int32
}

// ChunkRenderer owns the GPU side of the pipeline: one VAO/VBO pair per
// uploaded chunk, keyed by coordinate. All methods must run on the thread
// that owns the GL context; the pipeline guarantees that by calling Upload
// and Release only from its consumer thread.
type ChunkRenderer struct {
	shader *Shader
	atlas  *Atlas
	meshes map[world.ChunkCoord]*chunkBuffers

	// Sun direction for the diffuse term, normalized in the shader.
	SunDirection mgl32.Vec3
}

// NewChunkRenderer wires the chunk shader and texture atlas.
func NewChunkRenderer(shader *Shader, atlas *Atlas) *ChunkRenderer {
	return &ChunkRenderer{
		shader:       shader,
		atlas:        atlas,
		meshes:       make(map[world.ChunkCoord]*chunkBuffers),
		SunDirection: mgl32.Vec3{0.5, 1.0, 0.3},
	}
}

// Upload replaces the GPU mesh for a chunk. An empty vertex slice frees the
// old buffers and leaves nothing to draw.
func (r *ChunkRenderer) Upload(coord world.ChunkCoord, verts []meshing.Vertex) {
	defer profiling.Track("renderer.upload")()

	if old, ok := r.meshes[coord]; ok {
		deleteBuffers(old)
		delete(r.meshes, coord)
	}
	if len(verts) == 0 {
		return
	}

	data := meshing.Flatten(verts)
	cb := &chunkBuffers{vertexCount: int32(len(verts))}
	gl.GenVertexArrays(1, &cb.vao)
	gl.GenBuffers(1, &cb.vbo)

	gl.BindVertexArray(cb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, cb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, gl.PtrOffset(8*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes[coord] = cb
}

// Release frees a chunk's GPU buffers. Safe to call for coordinates that
// were never uploaded.
func (r *ChunkRenderer) Release(coord world.ChunkCoord) {
	if cb, ok := r.meshes[coord]; ok {
		deleteBuffers(cb)
		delete(r.meshes, coord)
	}
}

// Draw renders every uploaded chunk whose bounding box crosses the view
// frustum. Mesh vertices are chunk-local, so each chunk gets a translation
// model matrix to its world origin.
func (r *ChunkRenderer) Draw(proj, view mgl32.Mat4) {
	defer profiling.Track("renderer.draw")()

	r.shader.Use()
	r.shader.SetMatrix4("projection", &proj[0])
	r.shader.SetMatrix4("view", &view[0])
	r.shader.SetVector3("sunDir", r.SunDirection.X(), r.SunDirection.Y(), r.SunDirection.Z())
	r.shader.SetInt("atlasTexture", 0)
	r.atlas.Bind(0)

	planes := extractFrustumPlanes(proj.Mul4(view))
	for coord, cb := range r.meshes {
		ox, oy, oz := coord.WorldOrigin()
		min := mgl32.Vec3{float32(ox), float32(oy), float32(oz)}
		max := min.Add(mgl32.Vec3{world.ChunkSizeX, world.ChunkHeight, world.ChunkSizeZ})
		if !aabbInFrustum(min, max, planes) {
			continue
		}
		model := mgl32.Translate3D(min.X(), min.Y(), min.Z())
		r.shader.SetMatrix4("model", &model[0])
		gl.BindVertexArray(cb.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, cb.vertexCount)
	}
	gl.BindVertexArray(0)
}

// MeshCount reports how many chunks currently have GPU meshes.
func (r *ChunkRenderer) MeshCount() int {
	return len(r.meshes)
}

// Cleanup frees all GPU buffers.
func (r *ChunkRenderer) Cleanup() {
	for _, cb := range r.meshes {
		deleteBuffers(cb)
	}
	r.meshes = make(map[world.ChunkCoord]*chunkBuffers)
}

func deleteBuffers(cb *chunkBuffers) {
	if cb.vbo != 0 {
		gl.DeleteBuffers(1, &cb.vbo)
	}
	if cb.vao != 0 {
		gl.DeleteVertexArrays(1, &cb.vao)
	}
}
