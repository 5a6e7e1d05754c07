package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is either a perspective or an orthographic camera. The camera
// pose (camera-to-world transform) is supplied separately by the scene
// owner.
type Camera interface {
	ProjectionMatrix(aspectRatio float32) mgl32.Mat4
	NearClip() float32
	FarClip() float32
}

// PerspectiveCamera projects with a vertical field of view.
type PerspectiveCamera struct {
	Object

	// FieldOfView is the angle of the smaller viewport dimension in
	// radians.
	FieldOfView float32
	Near        float32
	Far         float32
}

// NewPerspectiveCamera creates a perspective camera with a 40 degree
// field of view.
func NewPerspectiveCamera() *PerspectiveCamera {
	return &PerspectiveCamera{
		FieldOfView: mgl32.DegToRad(40),
		Near:        0.01,
		Far:         1.0e4,
	}
}

// Fovy returns the vertical field of view for the given aspect ratio.
// FieldOfView spans the smaller viewport dimension, so wide viewports
// keep it vertical and tall viewports widen it.
func (c *PerspectiveCamera) Fovy(aspectRatio float32) float32 {
	if aspectRatio >= 1 {
		return c.FieldOfView
	}
	return 2 * math32.Atan(math32.Tan(c.FieldOfView/2)/aspectRatio)
}

// ProjectionMatrix implements Camera.
func (c *PerspectiveCamera) ProjectionMatrix(aspectRatio float32) mgl32.Mat4 {
	return mgl32.Perspective(c.Fovy(aspectRatio), aspectRatio, c.Near, c.Far)
}

// NearClip implements Camera.
func (c *PerspectiveCamera) NearClip() float32 { return c.Near }

// FarClip implements Camera.
func (c *PerspectiveCamera) FarClip() float32 { return c.Far }

// OrthographicCamera projects with an explicit view volume.
type OrthographicCamera struct {
	Object

	// Height of the view volume along the smaller viewport dimension.
	Height float32
	Near   float32
	Far    float32
}

// NewOrthographicCamera creates an orthographic camera with a unit
// view height.
func NewOrthographicCamera() *OrthographicCamera {
	return &OrthographicCamera{Height: 1, Near: 0.01, Far: 1.0e4}
}

// ViewVolume returns the left/right/bottom/top extents for the given
// aspect ratio.
func (c *OrthographicCamera) ViewVolume(aspectRatio float32) (left, right, bottom, top float32) {
	h := c.Height / 2
	w := h
	if aspectRatio >= 1 {
		w = h * aspectRatio
	} else {
		h = w / aspectRatio
	}
	return -w, w, -h, h
}

// ProjectionMatrix implements Camera.
func (c *OrthographicCamera) ProjectionMatrix(aspectRatio float32) mgl32.Mat4 {
	left, right, bottom, top := c.ViewVolume(aspectRatio)
	return mgl32.Ortho(left, right, bottom, top, c.Near, c.Far)
}

// NearClip implements Camera.
func (c *OrthographicCamera) NearClip() float32 { return c.Near }

// FarClip implements Camera.
func (c *OrthographicCamera) FarClip() float32 { return c.Far }
