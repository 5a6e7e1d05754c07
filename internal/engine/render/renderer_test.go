package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovergraph/scenegl/internal/scene"
)

func newTestRenderer(root *scene.Group) *Renderer {
	return New(root)
}

func TestHandlerTableComplete(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	for kind := 0; kind < scene.NumNodeKinds; kind++ {
		assert.NotNil(t, r.handlers[kind], "kind %d has no handler", kind)
	}
}

func transparentShape(alpha float32) *scene.Shape {
	m := scene.NewMesh()
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)
	s := scene.NewShape(m)
	s.Material = scene.NewMaterial()
	s.Material.Transparency = alpha
	return s
}

func TestTransparentShapesDeferredInOrder(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	a := transparentShape(0.3)
	b := transparentShape(0.7)
	modelA := mgl32.Translate3D(1, 0, 0)
	modelB := mgl32.Translate3D(0, 2, 0)

	r.renderShape(a, modelA)
	r.renderShape(b, modelB)

	require.Len(t, r.transparent, 2)
	assert.Same(t, a, r.transparent[0].shape)
	assert.Same(t, b, r.transparent[1].shape)
	assert.Equal(t, modelA, r.transparent[0].model)
	assert.Equal(t, modelB, r.transparent[1].model)
}

func TestShadowPassSkipsTransparentShapes(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	// Transparent shapes cast no shadows: during a shadow pass they
	// are neither drawn (which would need a GL context) nor deferred.
	r.isShadowPass = true
	r.renderShape(transparentShape(0.5), mgl32.Ident4())
	assert.Empty(t, r.transparent)
}

func TestShadowPassSkipsSimplifiedGroups(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	g := scene.NewSimplifiedRenderingGroup()
	// An opaque child would be drawn through GL if the subtree were
	// traversed; the handler must return before reaching it.
	g.AddChild(transparentShape(0))

	r.isShadowPass = true
	assert.NotPanics(t, func() { r.renderSimplifiedGroup(g, mgl32.Ident4()) })
	assert.Empty(t, r.transparent)
}

func TestOutlineLineWidth(t *testing.T) {
	assert.Equal(t, float32(3), outlineLineWidth(0), "default base width is one pixel")
	assert.Equal(t, float32(3), outlineLineWidth(1))
	assert.Equal(t, float32(5), outlineLineWidth(2))
	assert.Equal(t, float32(3), outlineLineWidth(-4))
}

func TestEmptyShapeSkipped(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	s := scene.NewShape(scene.NewMesh())
	s.Material = scene.NewMaterial()
	s.Material.Transparency = 0.5

	r.renderShape(s, mgl32.Ident4())
	assert.Empty(t, r.transparent)

	s.Mesh = nil
	assert.NotPanics(t, func() { r.renderShape(s, mgl32.Ident4()) })
}

func TestSceneBounds(t *testing.T) {
	root := scene.NewGroup()

	box := scene.NewMesh()
	box.Vertices = []mgl32.Vec3{{-1, -1, -1}, {1, 1, 1}, {1, -1, -1}}
	box.AddTriangle(0, 1, 2)

	tf := scene.NewTransformM(mgl32.Translate3D(10, 0, 0))
	tf.AddChild(scene.NewShape(box))
	root.AddChild(tf)

	r := newTestRenderer(root)
	defer DefaultRegistry().unregister(r)

	b := r.sceneBounds()
	assert.InDelta(t, 9, b.Min.X(), 1e-5)
	assert.InDelta(t, 11, b.Max.X(), 1e-5)
	assert.InDelta(t, -1, b.Min.Y(), 1e-5)
	assert.InDelta(t, 1, b.Max.Y(), 1e-5)
}

func TestSceneBoundsSkipsSwitchedOff(t *testing.T) {
	root := scene.NewGroup()

	near := scene.NewPointSet()
	near.Vertices = []mgl32.Vec3{{1, 1, 1}, {-1, -1, -1}}
	root.AddChild(near)

	sw := scene.NewSwitch()
	far := scene.NewPointSet()
	far.Vertices = []mgl32.Vec3{{100, 100, 100}}
	sw.AddChild(far)
	sw.SetTurnedOn(false)
	root.AddChild(sw)

	r := newTestRenderer(root)
	defer DefaultRegistry().unregister(r)

	b := r.sceneBounds()
	assert.InDelta(t, 1, b.Max.X(), 1e-5, "switched-off subtrees are excluded")

	sw.SetTurnedOn(true)
	b = r.sceneBounds()
	assert.InDelta(t, 100, b.Max.X(), 1e-5)
}

func TestSceneBoundsEmptyFallback(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	b := r.sceneBounds()
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, b.Max)
}

func TestSceneBoundsCompositeGroups(t *testing.T) {
	root := scene.NewGroup()
	og := scene.NewOutlineGroup()
	ls := scene.NewLineSet()
	ls.Vertices = []mgl32.Vec3{{0, 0, 0}, {0, 5, 0}}
	ls.AddLine(0, 1)
	og.AddChild(ls)
	root.AddChild(og)

	r := newTestRenderer(root)
	defer DefaultRegistry().unregister(r)

	b := r.sceneBounds()
	assert.InDelta(t, 5, b.Max.Y(), 1e-5)
}

func TestEnableShadowOfLight(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	r.EnableShadowOfLight(0, true)
	r.EnableShadowOfLight(2, true)
	r.EnableShadowOfLight(0, true) // duplicate is ignored
	assert.Equal(t, []int{0, 2}, r.shadowLightIndices)

	r.EnableShadowOfLight(0, false)
	assert.Equal(t, []int{2}, r.shadowLightIndices)

	r.EnableShadowOfLight(5, false) // removing an absent index is a no-op
	assert.Equal(t, []int{2}, r.shadowLightIndices)

	r.ClearShadows()
	assert.Empty(t, r.shadowLightIndices)
}

func TestRegistryExtensions(t *testing.T) {
	reg := &Registry{}

	r := New(scene.NewGroup())
	defer DefaultRegistry().unregister(r)
	reg.register(r)
	defer reg.unregister(r)

	var targets []*Renderer
	reg.AddExtension(func(target *Renderer) {
		targets = append(targets, target)
	})

	// Extensions are queued and run at the renderer's next frame
	// start; drain stands in for the frame start here.
	r.drainExtensions()
	assert.Equal(t, []*Renderer{r}, targets)

	// A renderer registered later receives previously added extensions.
	r2 := New(scene.NewGroup())
	defer DefaultRegistry().unregister(r2)
	reg.register(r2)
	defer reg.unregister(r2)
	r2.drainExtensions()
	assert.Equal(t, []*Renderer{r, r2}, targets)
}

func TestLightingModeSetters(t *testing.T) {
	r := newTestRenderer(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	r.SetLightingMode(MinimumLighting)
	assert.Equal(t, MinimumLighting, r.lightingMode)

	r.SetFog(scene.NewFog())
	r.fogChanged = false
	r.SetLightingMode(FullLighting)
	assert.True(t, r.fogChanged, "mode change re-uploads fog state")
}
