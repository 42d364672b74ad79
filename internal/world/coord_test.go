package world

import "testing"

func TestChunkCoordAtNegativeCoordinates(t *testing.T) {
	tests := []struct {
		wx, wz int
		want   ChunkCoord
	}{
		{0, 0, ChunkCoord{X: 0, Z: 0}},
		{15, 15, ChunkCoord{X: 0, Z: 0}},
		{16, 0, ChunkCoord{X: 1, Z: 0}},
		{-1, -1, ChunkCoord{X: -1, Z: -1}},
		{-16, -16, ChunkCoord{X: -1, Z: -1}},
		{-17, -17, ChunkCoord{X: -2, Z: -2}},
		{31, -33, ChunkCoord{X: 1, Z: -3}},
	}
	for _, tt := range tests {
		got := ChunkCoordAt(tt.wx, tt.wz)
		if got != tt.want {
			t.Errorf("ChunkCoordAt(%d,%d) = %v, want %v", tt.wx, tt.wz, got, tt.want)
		}
	}
}

func TestFloorModAlwaysNonNegative(t *testing.T) {
	for a := -64; a <= 64; a++ {
		m := floorMod(a, ChunkSizeX)
		if m < 0 || m >= ChunkSizeX {
			t.Fatalf("floorMod(%d,%d) = %d, want in [0,%d)", a, ChunkSizeX, m, ChunkSizeX)
		}
		// floorDiv and floorMod must reconstruct the input.
		if floorDiv(a, ChunkSizeX)*ChunkSizeX+m != a {
			t.Fatalf("floorDiv/floorMod of %d do not reconstruct the input", a)
		}
	}
}

func TestWorldOrigin(t *testing.T) {
	ox, oy, oz := (ChunkCoord{X: -2, Z: 3}).WorldOrigin()
	if ox != -32 || oy != 0 || oz != 48 {
		t.Fatalf("WorldOrigin = (%d,%d,%d), want (-32,0,48)", ox, oy, oz)
	}
}
