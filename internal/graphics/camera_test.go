package graphics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraPitchClamp(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1280, 720)
	c.Rotate(0, 500)
	if c.Pitch != 89 {
		t.Fatalf("pitch %v, want clamp at 89", c.Pitch)
	}
	c.Rotate(0, -500)
	if c.Pitch != -89 {
		t.Fatalf("pitch %v, want clamp at -89", c.Pitch)
	}
}

func TestCameraFrontIsUnit(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1280, 720)
	for _, rot := range [][2]float32{{0, 0}, {45, 30}, {-120, -60}, {300, 89}} {
		c.Yaw, c.Pitch = rot[0], rot[1]
		if l := c.Front().Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Fatalf("front length %v at yaw=%v pitch=%v", l, rot[0], rot[1])
		}
	}
}

func TestCameraMoveForward(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1280, 720) // yaw -90 looks down -Z
	c.Move(10, 0, 0)
	if c.Position.Z() > -9.9 {
		t.Fatalf("moved to %v, want about 10 units along -Z", c.Position)
	}
	if math.Abs(float64(c.Position.X())) > 0.1 {
		t.Fatalf("forward move drifted on X: %v", c.Position)
	}
}
