package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-flying viewpoint. The streaming pipeline follows its
// position; the renderer culls against its matrices.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32 // degrees, -90 looks down -Z
	Pitch    float32 // degrees, clamped to avoid gimbal flip

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera places a camera at pos looking down -Z.
func NewCamera(pos mgl32.Vec3, width, height int) *Camera {
	return &Camera{
		Position:    pos,
		Yaw:         -90,
		AspectRatio: float32(width) / float32(height),
		FOV:         70,
		NearPlane:   0.1,
		FarPlane:    600,
	}
}

// Front returns the normalized view direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right returns the normalized right vector.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Move translates the camera: forward along the view direction, right along
// the strafe axis, up along world Y.
func (c *Camera) Move(forward, right, up float32) {
	c.Position = c.Position.Add(c.Front().Mul(forward))
	c.Position = c.Position.Add(c.Right().Mul(right))
	c.Position = c.Position.Add(mgl32.Vec3{0, up, 0})
}

// Rotate applies mouse deltas in degrees and clamps pitch.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ViewMatrix returns the look-at view matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}
