package pipeline

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/meshing"
	"voxelstream/internal/registry"
	"voxelstream/internal/world"
)

// fakeBackend records uploads and releases. The pipeline only calls it
// from the Update goroutine, mirroring the GL threading contract, so no
// locking is needed here.
type fakeBackend struct {
	uploads  map[world.ChunkCoord]int
	releases map[world.ChunkCoord]int
	draws    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		uploads:  make(map[world.ChunkCoord]int),
		releases: make(map[world.ChunkCoord]int),
	}
}

func (f *fakeBackend) Upload(coord world.ChunkCoord, verts []meshing.Vertex) {
	f.uploads[coord]++
}

func (f *fakeBackend) Release(coord world.ChunkCoord) {
	f.releases[coord]++
}

func (f *fakeBackend) Draw(proj, view mgl32.Mat4) {
	f.draws++
}

type flatSampler struct{ height int }

func (f flatSampler) SampleColumn(worldX, worldZ int) world.SurfaceSample {
	return world.SurfaceSample{Height: f.height, Top: 1, Filler: 1, Base: 1}
}

// yieldingSampler stretches generation out so meshing overlaps it.
type yieldingSampler struct{ height int }

func (y yieldingSampler) SampleColumn(worldX, worldZ int) world.SurfaceSample {
	runtime.Gosched()
	return world.SurfaceSample{Height: y.height, Top: 1, Filler: 1, Base: 1}
}

// gateSampler blocks every column until the gate channel is closed.
type gateSampler struct {
	gate   chan struct{}
	height int
}

func (g gateSampler) SampleColumn(worldX, worldZ int) world.SurfaceSample {
	<-g.gate
	return world.SurfaceSample{Height: g.height, Top: 1, Filler: 1, Base: 1}
}

type stubUVs struct{}

func (stubUVs) UVRect(name string) (registry.UVRect, bool) {
	return registry.UVRect{MaxU: 1, MaxV: 1}, true
}

func testRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.json")
	doc := `{"blocks":[{"id":1,"name":"stone","textures":{"all":"stone"}}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := registry.Load(path, stubUVs{})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func newTestPipeline(t *testing.T, backend Backend, opts Options) *Pipeline {
	t.Helper()
	p := New(world.NewChunkStore(), testRegistry(t), flatSampler{height: 30}, backend, opts)
	t.Cleanup(p.Close)
	return p
}

// pumpUntil drives Update at a fixed viewpoint until cond holds or the
// deadline passes.
func pumpUntil(t *testing.T, p *Pipeline, viewpoint mgl32.Vec3, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		p.Update(viewpoint)
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("pipeline did not reach the expected state in time")
}

// discSize counts chunk coordinates within Euclidean radius r.
func discSize(r int) int {
	n := 0
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if dx*dx+dz*dz <= r*r {
				n++
			}
		}
	}
	return n
}

func TestStreamsChunksAroundViewpoint(t *testing.T) {
	backend := newFakeBackend()
	p := newTestPipeline(t, backend, Options{
		LoadRadius: 2, EvictRadius: 4, GenWorkers: 2, MeshWorkers: 2, UploadsPerTick: 4,
	})

	want := discSize(2)
	pumpUntil(t, p, mgl32.Vec3{8, 64, 8}, func() bool {
		return len(backend.uploads) == want && p.PendingCount() == 0
	})

	if p.Store().Len() != want {
		t.Fatalf("resident chunks = %d, want %d", p.Store().Len(), want)
	}
	// Stationary viewpoint, no edits: every chunk uploads exactly once.
	for coord, n := range backend.uploads {
		if n != 1 {
			t.Fatalf("chunk %v uploaded %d times, want 1", coord, n)
		}
		c := p.Store().Chunk(coord)
		if c == nil {
			t.Fatalf("uploaded chunk %v not resident", coord)
		}
		if c.VertexCount() == 0 {
			t.Fatalf("chunk %v uploaded with no vertices", coord)
		}
	}
	if len(backend.releases) != 0 {
		t.Fatalf("%d releases without any eviction", len(backend.releases))
	}
}

// Oversized worker pools and a sampler that yields on every column keep
// generation and meshing overlapping across neighboring chunks. Run with
// the race detector to guard the cross-chunk lookups against chunks whose
// grids are still being filled.
func TestConcurrentGenerationAndNeighborMeshing(t *testing.T) {
	backend := newFakeBackend()
	p := New(world.NewChunkStore(), testRegistry(t), yieldingSampler{height: 30}, backend, Options{
		LoadRadius: 3, EvictRadius: 5, GenWorkers: 8, MeshWorkers: 8, UploadsPerTick: 16,
	})
	t.Cleanup(p.Close)

	want := discSize(3)
	pumpUntil(t, p, mgl32.Vec3{8, 64, 8}, func() bool {
		return len(backend.uploads) == want && p.PendingCount() == 0
	})

	for coord, n := range backend.uploads {
		if n != 1 {
			t.Fatalf("chunk %v uploaded %d times, want 1", coord, n)
		}
	}
	if got := p.GetBlock(0, 30, 0); got != 1 {
		t.Fatalf("surface block = %d, want 1", got)
	}
	if got := p.GetBlock(0, 31, 0); got != world.BlockIDAir {
		t.Fatalf("block above surface = %d, want air", got)
	}
}

func TestEvictionReleasesBackendMeshes(t *testing.T) {
	backend := newFakeBackend()
	p := newTestPipeline(t, backend, Options{
		LoadRadius: 1, EvictRadius: 3, GenWorkers: 1, MeshWorkers: 1, UploadsPerTick: 8,
	})

	origin := mgl32.Vec3{0, 64, 0}
	pumpUntil(t, p, origin, func() bool {
		return len(backend.uploads) == discSize(1) && p.PendingCount() == 0
	})
	oldCoords := p.Store().Coords()

	// Jump far enough that every old chunk leaves the evict radius.
	far := mgl32.Vec3{1000, 64, 1000}
	pumpUntil(t, p, far, func() bool {
		return len(backend.releases) == len(oldCoords) && p.PendingCount() == 0
	})

	for _, coord := range oldCoords {
		if p.Store().Has(coord) {
			t.Fatalf("chunk %v still resident after moving away", coord)
		}
		if backend.releases[coord] != 1 {
			t.Fatalf("chunk %v released %d times, want 1", coord, backend.releases[coord])
		}
	}
	// The new neighborhood streamed in around the new viewpoint.
	center := world.ChunkCoordAt(1000, 1000)
	if !p.Store().Has(center) {
		t.Fatal("no chunk at the new viewpoint")
	}
}

// Evicting a coordinate whose generation is still queued or blocked must
// not let the late completion re-insert it or reach the backend.
func TestEvictionWhileGenerationInFlight(t *testing.T) {
	backend := newFakeBackend()
	gate := make(chan struct{})
	p := New(world.NewChunkStore(), testRegistry(t), gateSampler{gate: gate, height: 30}, backend, Options{
		LoadRadius: 1, EvictRadius: 3, GenWorkers: 1, MeshWorkers: 1, UploadsPerTick: 8,
	})
	t.Cleanup(p.Close)
	// Runs before p.Close: a failure mid-test must not leave the worker
	// blocked on the gate.
	t.Cleanup(func() {
		select {
		case <-gate:
		default:
			close(gate)
		}
	})

	// Request the origin neighborhood. The single worker blocks inside
	// the sampler on its first chunk; the rest of the disc stays queued.
	p.Update(mgl32.Vec3{0, 64, 0})
	oldCoords := p.Store().Coords()
	if len(oldCoords) != discSize(1) {
		t.Fatalf("requested %d chunks, want %d", len(oldCoords), discSize(1))
	}

	// Jump away before any generation can complete. Every origin chunk
	// is evicted while its work is queued or in flight.
	p.Update(mgl32.Vec3{1000, 64, 1000})
	for _, coord := range oldCoords {
		if p.Store().Has(coord) {
			t.Fatalf("chunk %v still resident after moving away", coord)
		}
	}

	close(gate)
	pumpUntil(t, p, mgl32.Vec3{1000, 64, 1000}, func() bool {
		return len(backend.uploads) == discSize(1) && p.PendingCount() == 0
	})

	for _, coord := range oldCoords {
		if p.Store().Has(coord) {
			t.Fatalf("evicted chunk %v reappeared", coord)
		}
		if n := backend.uploads[coord]; n != 0 {
			t.Fatalf("evicted chunk %v uploaded %d times, want 0", coord, n)
		}
	}
}

func TestEditTriggersRemesh(t *testing.T) {
	backend := newFakeBackend()
	p := newTestPipeline(t, backend, Options{
		LoadRadius: 1, EvictRadius: 3, GenWorkers: 1, MeshWorkers: 1, UploadsPerTick: 8,
	})

	viewpoint := mgl32.Vec3{8, 64, 8}
	pumpUntil(t, p, viewpoint, func() bool {
		return len(backend.uploads) == discSize(1) && p.PendingCount() == 0
	})

	coord := world.ChunkCoordAt(8, 8)
	if before := p.GetBlock(8, 80, 8); before != world.BlockIDAir {
		t.Fatalf("block above terrain = %d, want air", before)
	}
	p.SetBlock(8, 80, 8, 1)
	if got := p.GetBlock(8, 80, 8); got != 1 {
		t.Fatalf("SetBlock did not stick: got %d", got)
	}

	pumpUntil(t, p, viewpoint, func() bool {
		return backend.uploads[coord] >= 2 && p.PendingCount() == 0
	})
}

func TestReloadAllRegeneratesResidentChunks(t *testing.T) {
	backend := newFakeBackend()
	p := newTestPipeline(t, backend, Options{
		LoadRadius: 1, EvictRadius: 3, GenWorkers: 2, MeshWorkers: 1, UploadsPerTick: 8,
	})

	viewpoint := mgl32.Vec3{0, 64, 0}
	pumpUntil(t, p, viewpoint, func() bool {
		return len(backend.uploads) == discSize(1) && p.PendingCount() == 0
	})
	resident := p.Store().Len()

	// Swap to a taller world; every resident chunk must be regenerated
	// against the new sampler.
	p.ReloadAll(flatSampler{height: 90})
	pumpUntil(t, p, viewpoint, func() bool {
		if p.PendingCount() != 0 {
			return false
		}
		for _, coord := range p.Store().Coords() {
			if backend.uploads[coord] < 2 {
				return false
			}
		}
		return true
	})

	if p.Store().Len() != resident {
		t.Fatalf("resident count changed across reload: %d -> %d", resident, p.Store().Len())
	}
	if got := p.GetBlock(0, 90, 0); got != 1 {
		t.Fatalf("block at new surface height = %d, want 1", got)
	}
	if got := p.GetBlock(0, 91, 0); got != world.BlockIDAir {
		t.Fatalf("block above new surface = %d, want air", got)
	}
}

func TestRenderDelegatesToBackend(t *testing.T) {
	backend := newFakeBackend()
	p := newTestPipeline(t, backend, Options{
		LoadRadius: 1, EvictRadius: 3, GenWorkers: 1, MeshWorkers: 1, UploadsPerTick: 1,
	})

	p.Render(mgl32.Ident4(), mgl32.Ident4())
	if backend.draws != 1 {
		t.Fatalf("draws = %d, want 1", backend.draws)
	}
}

func TestCloseStopsWorkers(t *testing.T) {
	backend := newFakeBackend()
	p := New(world.NewChunkStore(), testRegistry(t), flatSampler{height: 30}, backend, Options{
		LoadRadius: 2, EvictRadius: 4, GenWorkers: 3, MeshWorkers: 2, UploadsPerTick: 2,
	})
	p.Update(mgl32.Vec3{}) // seed some work

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Close did not return; workers stuck")
	}
}
