// Package camera provides the interactive orbit camera used by the
// viewer.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/scene"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center mgl32.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     0.1,
		MaxDistance:     1000.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	offset := mgl32.Vec3{
		c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY),
		c.Distance * math32.Sin(c.RotationX),
		c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY),
	}
	return c.Center.Add(offset)
}

// Pose returns the camera-to-world transform expected by the
// renderer.
func (c *OrbitCamera) Pose() mgl32.Mat4 {
	return c.ViewMatrix().Inv()
}

// ViewMatrix returns the world-to-view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dir := mgl32.Vec3{math32.Sin(c.RotationY), 0, math32.Cos(c.RotationY)}
	rightDir := mgl32.Vec3{math32.Cos(c.RotationY), 0, -math32.Sin(c.RotationY)}

	// Negate forward so moving forward goes into the scene.
	c.Center = c.Center.
		Add(dir.Mul(-forward * speed)).
		Add(rightDir.Mul(right * speed))
	c.Center[1] += up * speed
}

// FitToBounds adjusts center and distance to frame the given box.
func (c *OrbitCamera) FitToBounds(box scene.BoundingBox) {
	if box.Empty() {
		return
	}
	c.Center = box.Center()
	c.Distance = box.Size().Len() * 1.2
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
