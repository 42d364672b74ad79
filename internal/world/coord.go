package world

// ChunkCoord identifies one chunk column in the chunk grid. Y is kept for
// future vertical chunking but is always 0 while chunks span the full
// world height.
type ChunkCoord struct {
	X, Y, Z int
}

// floorDiv divides rounding toward negative infinity. Plain integer
// division truncates toward zero, which maps world x=-1 to chunk 0
// instead of chunk -1.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns the remainder paired with floorDiv, always in [0, b).
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ChunkCoordAt returns the coordinate of the chunk containing the given
// world block position.
func ChunkCoordAt(wx, wz int) ChunkCoord {
	return ChunkCoord{X: floorDiv(wx, ChunkSizeX), Z: floorDiv(wz, ChunkSizeZ)}
}

// WorldOrigin returns the world position of the chunk's (0,0,0) block.
func (cc ChunkCoord) WorldOrigin() (int, int, int) {
	return cc.X * ChunkSizeX, 0, cc.Z * ChunkSizeZ
}
