package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/rovergraph/scenegl/internal/engine/shader"
	"github.com/rovergraph/scenegl/internal/scene"
)

// EncodePickColor maps a pick ID to the RGB color the picking pass
// rasterizes: 8 bits per channel, low byte in red.
func EncodePickColor(id int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(id&0xff) / 255.0,
		float32((id>>8)&0xff) / 255.0,
		float32((id>>16)&0xff) / 255.0,
	}
}

// DecodePickID recovers the pick ID from a read-back pixel. The
// cleared background decodes to zero, which is never a valid ID.
func DecodePickID(color [4]float32) int {
	r := int(color[0]*255 + 0.5)
	g := int(color[1]*255 + 0.5)
	b := int(color[2]*255 + 0.5)
	return r | g<<8 | b<<16
}

// pushPickNode records the node on the traversal path and allocates a
// pick ID for it. Outside picking passes it is a no-op returning zero.
// Every push must be paired with popPickNode.
func (r *Renderer) pushPickNode(n scene.Node) int {
	if !r.isPicking {
		return 0
	}
	r.currentPath = append(r.currentPath, n)
	path := make([]scene.Node, len(r.currentPath))
	copy(path, r.currentPath)
	r.paths = append(r.paths, path)
	return len(r.paths) - 1
}

func (r *Renderer) popPickNode() {
	if r.isPicking {
		r.currentPath = r.currentPath[:len(r.currentPath)-1]
	}
}

// setPickColor uploads the ID color for the next draw. Only meaningful
// while a solid color program is active.
func (r *Renderer) setPickColor(id int) {
	if p, ok := r.currentProgram.(*shader.SolidColorProgram); ok {
		p.SetColor(EncodePickColor(id))
	}
}

// Pick renders an ID-colored frame into the off-screen target,
// scissored to the queried pixel, and reads it back. On a hit it
// returns the full scene path from the root to the picked drawable and
// the world-space point under the pixel. Coordinates are in viewport
// space with the origin at the bottom-left.
func (r *Renderer) Pick(x, y int32) (found bool, path []scene.Node, point mgl32.Vec3) {
	if !r.initialized || r.camera == nil || r.root == nil {
		return false, nil, mgl32.Vec3{}
	}

	// Reset the path arena; index 0 stays reserved as "no pick".
	r.paths = r.paths[:1]
	r.currentPath = r.currentPath[:0]

	r.pickTarget.SetSize(r.viewportWidth, r.viewportHeight)
	if err := r.pickTarget.Bind(); err != nil {
		r.log.Error("pick target unavailable", zap.Error(err))
		return false, nil, mgl32.Vec3{}
	}
	gl.Viewport(0, 0, r.viewportWidth, r.viewportHeight)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(x, y, 1, 1)

	r.state.reset()
	r.cache.BeginFrame(true)
	r.renderScene(true)
	r.cache.EndFrame()

	gl.Disable(gl.SCISSOR_TEST)
	pixel := r.pickTarget.ReadPixel(x, y)
	depth := r.pickTarget.ReadDepth(x, y)
	r.pickTarget.Unbind()
	gl.Viewport(r.viewportX, r.viewportY, r.viewportWidth, r.viewportHeight)

	id := DecodePickID(pixel)
	if id <= 0 || id >= len(r.paths) {
		return false, nil, mgl32.Vec3{}
	}

	win := mgl32.Vec3{float32(x), float32(y), depth}
	point, err := mgl32.UnProject(win, r.view, r.proj,
		0, 0, int(r.viewportWidth), int(r.viewportHeight))
	if err != nil {
		r.log.Warn("pick unproject failed", zap.Error(err))
		point = mgl32.Vec3{}
	}
	return true, r.paths[id], point
}
