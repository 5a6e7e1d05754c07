package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// MinLineWidthForPicking widens thin lines during pick rendering so
// they remain clickable.
const MinLineWidthForPicking = 5.0

// glState caches the GL fixed-function state the renderer toggles per
// node, so redundant driver calls are skipped. Each value is only
// trusted once its flag is set.
type glState struct {
	cullFaceValid  bool
	cullFace       bool
	pointSizeValid bool
	pointSize      float32
	lineWidthValid bool
	lineWidth      float32
}

// reset invalidates the cache. Called at the start of every frame and
// whenever an external extension may have touched the GL state.
func (s *glState) reset() {
	s.cullFaceValid = false
	s.pointSizeValid = false
	s.lineWidthValid = false
}

func (s *glState) setCullFace(on bool) {
	if s.cullFaceValid && s.cullFace == on {
		return
	}
	if on {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	s.cullFace = on
	s.cullFaceValid = true
}

func (s *glState) setPointSize(size float32) {
	if s.pointSizeValid && s.pointSize == size {
		return
	}
	gl.PointSize(size)
	s.pointSize = size
	s.pointSizeValid = true
}

func (s *glState) setLineWidth(width float32) {
	if s.lineWidthValid && s.lineWidth == width {
		return
	}
	gl.LineWidth(width)
	s.lineWidth = width
	s.lineWidthValid = true
}
