package pipeline

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/meshing"
	"voxelstream/internal/profiling"
	"voxelstream/internal/registry"
	"voxelstream/internal/world"
)

// Backend receives finished chunk meshes. The GL renderer implements it;
// tests substitute a recording fake. Upload and Release are only ever
// called from the consumer thread that owns the GL context.
type Backend interface {
	Upload(coord world.ChunkCoord, verts []meshing.Vertex)
	Release(coord world.ChunkCoord)
	Draw(proj, view mgl32.Mat4)
}

// Options tunes the streaming pipeline.
type Options struct {
	LoadRadius     int // chunks requested around the viewer
	EvictRadius    int // chunks unloaded beyond this; must exceed LoadRadius
	GenWorkers     int
	MeshWorkers    int
	UploadsPerTick int // backend uploads consumed per Update call
}

// Pipeline streams chunks around a moving viewpoint: generation workers
// fill block grids, meshing workers build vertex data, and the consumer
// thread (the caller of Update) performs the backend uploads. A chunk
// coordinate is tracked in the pending set from the moment it is requested
// until its mesh has been uploaded, so it sits in at most one queue at a
// time and is never double-requested.
type Pipeline struct {
	store   *world.ChunkStore
	reg     *registry.Registry
	backend Backend
	opts    Options

	surfaceMu sync.RWMutex
	surface   world.ColumnSampler

	genQueue    *coordQueue
	meshQueue   *coordQueue
	uploadQueue *resultQueue

	pendingMu sync.Mutex
	pending   map[world.ChunkCoord]struct{}

	wg sync.WaitGroup
}

// New starts the worker pools and returns a running pipeline.
func New(store *world.ChunkStore, reg *registry.Registry, surface world.ColumnSampler, backend Backend, opts Options) *Pipeline {
	if opts.GenWorkers < 1 {
		opts.GenWorkers = 1
	}
	if opts.MeshWorkers < 1 {
		opts.MeshWorkers = 1
	}
	if opts.UploadsPerTick < 1 {
		opts.UploadsPerTick = 1
	}
	if opts.EvictRadius <= opts.LoadRadius {
		opts.EvictRadius = opts.LoadRadius + 2
	}
	p := &Pipeline{
		store:       store,
		reg:         reg,
		backend:     backend,
		opts:        opts,
		surface:     surface,
		genQueue:    newCoordQueue(),
		meshQueue:   newCoordQueue(),
		uploadQueue: newResultQueue(),
		pending:     make(map[world.ChunkCoord]struct{}),
	}
	for i := 0; i < opts.GenWorkers; i++ {
		p.wg.Add(1)
		go p.genWorker()
	}
	for i := 0; i < opts.MeshWorkers; i++ {
		p.wg.Add(1)
		go p.meshWorker()
	}
	return p
}

// Update advances the pipeline one frame: evicts chunks far from the
// viewpoint, requests missing ones inside the load radius, re-queues dirty
// resident chunks for remeshing, and consumes up to UploadsPerTick finished
// meshes. Must be called from the thread that owns the backend.
func (p *Pipeline) Update(viewpoint mgl32.Vec3) {
	defer profiling.Track("pipeline.update")()

	center := world.ChunkCoordAt(int(math.Floor(float64(viewpoint.X()))), int(math.Floor(float64(viewpoint.Z()))))

	for _, coord := range p.store.EvictOutside(center, p.opts.EvictRadius) {
		p.backend.Release(coord)
		p.dropPending(coord)
	}

	r := p.opts.LoadRadius
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if dx*dx+dz*dz > r*r {
				continue
			}
			p.request(world.ChunkCoord{X: center.X + dx, Z: center.Z + dz})
		}
	}

	p.requeueDirty()
	p.drainUploads()
}

// request enqueues a coordinate for generation unless it is already
// resident or already in flight.
func (p *Pipeline) request(coord world.ChunkCoord) {
	if p.store.Has(coord) {
		return
	}
	if !p.addPending(coord) {
		return
	}
	// The placeholder marks residency; it reads as air until the
	// generation worker swaps the filled grid in.
	p.store.Add(world.NewChunk(coord))
	p.genQueue.Push(coord)
}

// requeueDirty sends resident chunks whose meshes are stale back through
// the meshing stage. Edits and cross-chunk border writes land here.
func (p *Pipeline) requeueDirty() {
	for _, coord := range p.store.Coords() {
		c := p.store.Chunk(coord)
		if c == nil || !c.IsDirty() {
			continue
		}
		if !p.addPending(coord) {
			continue
		}
		p.meshQueue.Push(coord)
	}
}

// drainUploads hands at most UploadsPerTick finished meshes to the backend.
// Results for chunks evicted while their mesh was in flight are discarded.
func (p *Pipeline) drainUploads() {
	defer profiling.Track("pipeline.upload")()
	for i := 0; i < p.opts.UploadsPerTick; i++ {
		res, ok := p.uploadQueue.TryPop()
		if !ok {
			return
		}
		c := p.store.Chunk(res.coord)
		if c == nil {
			p.dropPending(res.coord)
			continue
		}
		p.backend.Upload(res.coord, res.verts)
		c.SetVertexCount(len(res.verts))
		p.dropPending(res.coord)
	}
}

func (p *Pipeline) genWorker() {
	defer p.wg.Done()
	for {
		coord, ok := p.genQueue.Pop()
		if !ok {
			return
		}
		if !p.store.Has(coord) {
			p.dropPending(coord)
			continue
		}
		// Generate into a private chunk and swap it in whole. The
		// resident chunk's grid is never written here, so meshing
		// workers reading it through the store cross-chunk lookup
		// cannot observe a partial fill.
		fresh := world.NewChunk(coord)
		fresh.Generate(p.currentSurface())
		if p.store.Replace(fresh) == nil {
			p.dropPending(coord)
			continue
		}
		p.meshQueue.Push(coord)
	}
}

func (p *Pipeline) meshWorker() {
	defer p.wg.Done()
	for {
		coord, ok := p.meshQueue.Pop()
		if !ok {
			return
		}
		c := p.store.Chunk(coord)
		if c == nil {
			p.dropPending(coord)
			continue
		}
		// Claim the dirty flag before building so an edit racing with
		// the build triggers another remesh.
		c.SetClean()
		verts := meshing.BuildChunkMesh(c, p.reg, p.store.Get)
		if !p.store.Has(coord) {
			p.dropPending(coord)
			continue
		}
		p.uploadQueue.Push(meshResult{coord: coord, verts: verts})
	}
}

// Render draws every uploaded chunk through the backend.
func (p *Pipeline) Render(proj, view mgl32.Mat4) {
	defer profiling.Track("pipeline.render")()
	p.backend.Draw(proj, view)
}

// GetBlock reads a block at world coordinates; air outside resident chunks.
func (p *Pipeline) GetBlock(wx, wy, wz int) world.BlockID {
	return p.store.Get(wx, wy, wz)
}

// SetBlock edits a block at world coordinates. The owning chunk and any
// bordering neighbors are marked dirty and picked up by the next Update.
func (p *Pipeline) SetBlock(wx, wy, wz int, id world.BlockID) {
	p.store.Set(wx, wy, wz, id)
}

// ReloadAll regenerates every resident chunk, optionally with a new column
// sampler. Queued work is discarded first so stale coordinates never race
// the reload; results from chunks mid-stage converge because each coordinate
// is also re-queued from scratch.
func (p *Pipeline) ReloadAll(surface world.ColumnSampler) {
	p.genQueue.Clear()
	p.meshQueue.Clear()
	p.uploadQueue.Clear()
	if surface != nil {
		p.surfaceMu.Lock()
		p.surface = surface
		p.surfaceMu.Unlock()
	}
	p.pendingMu.Lock()
	p.pending = make(map[world.ChunkCoord]struct{})
	p.pendingMu.Unlock()
	for _, coord := range p.store.Coords() {
		p.addPending(coord)
		p.genQueue.Push(coord)
	}
}

// Close shuts down both worker pools and blocks until they exit. Finished
// results still queued are dropped; the backend is not touched.
func (p *Pipeline) Close() {
	p.genQueue.Close()
	p.meshQueue.Close()
	p.wg.Wait()
	p.uploadQueue.Clear()
}

// Store exposes the chunk store for collision queries and diagnostics.
func (p *Pipeline) Store() *world.ChunkStore {
	return p.store
}

// PendingCount reports coordinates currently in flight.
func (p *Pipeline) PendingCount() int {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	return len(p.pending)
}

func (p *Pipeline) currentSurface() world.ColumnSampler {
	p.surfaceMu.RLock()
	defer p.surfaceMu.RUnlock()
	return p.surface
}

// addPending marks a coordinate as in flight; false if it already was.
func (p *Pipeline) addPending(coord world.ChunkCoord) bool {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	if _, ok := p.pending[coord]; ok {
		return false
	}
	p.pending[coord] = struct{}{}
	return true
}

func (p *Pipeline) dropPending(coord world.ChunkCoord) {
	p.pendingMu.Lock()
	delete(p.pending, coord)
	p.pendingMu.Unlock()
}
