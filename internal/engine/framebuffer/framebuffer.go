// Package framebuffer provides the off-screen render target used by
// picking passes: renderbuffer color and depth attachments sized to
// the viewport, with single-pixel readback.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// PickTarget is an off-screen framebuffer the picking pass renders ID
// colors into. Buffers are (re)allocated lazily when the viewport size
// changes.
type PickTarget struct {
	fbo          uint32
	colorBuffer  uint32
	depthBuffer  uint32
	width        int32
	height       int32
	resizeNeeded bool
}

// NewPickTarget creates an empty pick target; buffers are allocated on
// first Bind.
func NewPickTarget() *PickTarget {
	return &PickTarget{width: 1, height: 1, resizeNeeded: true}
}

// SetSize records the viewport size; buffers are reallocated on the
// next Bind when it changed.
func (t *PickTarget) SetSize(width, height int32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width != t.width || height != t.height {
		t.width = width
		t.height = height
		t.resizeNeeded = true
	}
}

// Bind makes the pick target the current framebuffer, allocating or
// resizing its buffers as needed.
func (t *PickTarget) Bind() error {
	if t.fbo == 0 {
		gl.GenFramebuffers(1, &t.fbo)
		t.resizeNeeded = true
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	if t.resizeNeeded {
		if t.colorBuffer != 0 {
			gl.DeleteRenderbuffers(1, &t.colorBuffer)
		}
		gl.GenRenderbuffers(1, &t.colorBuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, t.colorBuffer)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, t.width, t.height)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.colorBuffer)

		if t.depthBuffer != 0 {
			gl.DeleteRenderbuffers(1, &t.depthBuffer)
		}
		gl.GenRenderbuffers(1, &t.depthBuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, t.depthBuffer)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depthBuffer)

		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			return fmt.Errorf("pick framebuffer incomplete: 0x%x", status)
		}
		t.resizeNeeded = false
	}

	return nil
}

// Unbind restores the default framebuffer.
func (t *PickTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixel returns the RGBA color at (x, y) as floats in [0,1].
func (t *PickTarget) ReadPixel(x, y int32) [4]float32 {
	var color [4]float32
	gl.ReadPixels(x, y, 1, 1, gl.RGBA, gl.FLOAT, gl.Ptr(&color[0]))
	return color
}

// ReadDepth returns the normalized depth at (x, y).
func (t *PickTarget) ReadDepth(x, y int32) float32 {
	var depth float32
	gl.ReadPixels(x, y, 1, 1, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&depth))
	return depth
}

// Size returns the current buffer dimensions.
func (t *PickTarget) Size() (width, height int32) {
	return t.width, t.height
}

// Destroy releases the GPU resources of the pick target.
func (t *PickTarget) Destroy() {
	if t.fbo != 0 {
		gl.DeleteRenderbuffers(1, &t.colorBuffer)
		gl.DeleteRenderbuffers(1, &t.depthBuffer)
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
		t.colorBuffer = 0
		t.depthBuffer = 0
	}
}
