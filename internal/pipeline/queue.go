package pipeline

import (
	"sync"

	"voxelstream/internal/meshing"
	"voxelstream/internal/world"
)

// coordQueue is an unbounded FIFO of chunk coordinates shared between the
// consumer thread and a worker pool. Workers block in Pop until an item
// arrives or the queue is closed. A plain mutex and condition variable keep
// Clear and Close exact: after Clear returns, nothing queued before the call
// will be handed to a worker.
type coordQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []world.ChunkCoord
	closed bool
}

func newCoordQueue() *coordQueue {
	q := &coordQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a coordinate and wakes one waiting worker. Pushes after
// Close are dropped.
func (q *coordQueue) Push(coord world.ChunkCoord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, coord)
	q.cond.Signal()
}

// Pop blocks until an item is available or the queue is closed. The second
// return value is false only on shutdown.
func (q *coordQueue) Pop() (world.ChunkCoord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return world.ChunkCoord{}, false
	}
	coord := q.items[0]
	q.items = q.items[1:]
	return coord, true
}

// Clear discards all queued coordinates.
func (q *coordQueue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// Close wakes every blocked worker; subsequent Pops return false once the
// backlog is drained.
func (q *coordQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Len reports the current backlog size.
func (q *coordQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// meshResult is a finished mesh waiting for the consumer thread to hand it
// to the render backend.
type meshResult struct {
	coord world.ChunkCoord
	verts []meshing.Vertex
}

// resultQueue carries finished meshes from the meshing workers to the
// consumer thread. The consumer never blocks on it: it drains with TryPop
// up to its per-tick upload budget.
type resultQueue struct {
	mu    sync.Mutex
	items []meshResult
}

func newResultQueue() *resultQueue {
	return &resultQueue{}
}

func (q *resultQueue) Push(res meshResult) {
	q.mu.Lock()
	q.items = append(q.items, res)
	q.mu.Unlock()
}

// TryPop returns the oldest result without blocking.
func (q *resultQueue) TryPop() (meshResult, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return meshResult{}, false
	}
	res := q.items[0]
	q.items = q.items[1:]
	return res, true
}

func (q *resultQueue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

func (q *resultQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
