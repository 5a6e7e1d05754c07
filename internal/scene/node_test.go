package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupChildren(t *testing.T) {
	g := NewGroup()
	a := NewGroup()
	b := NewTransform()

	g.AddChild(a)
	g.AddChild(b)
	require.Equal(t, 2, g.NumChildren())

	assert.True(t, g.RemoveChild(a))
	assert.Equal(t, 1, g.NumChildren())
	assert.Same(t, Node(b), g.Children()[0])

	assert.False(t, g.RemoveChild(a), "removing twice must report absence")
}

func TestSwitch(t *testing.T) {
	s := NewSwitch()
	assert.True(t, s.IsTurnedOn(), "switches start on")
	s.SetTurnedOn(false)
	assert.False(t, s.IsTurnedOn())
}

func TestNodeKinds(t *testing.T) {
	nodes := []Node{
		NewGroup(),
		NewTransform(),
		NewSwitch(),
		NewUnpickableGroup(),
		NewShape(NewMesh()),
		NewPointSet(),
		NewLineSet(),
		NewOverlay(),
		NewOutlineGroup(),
		NewSimplifiedRenderingGroup(),
	}
	require.Len(t, nodes, NumNodeKinds)

	seen := make(map[NodeKind]bool)
	for _, n := range nodes {
		k := n.Kind()
		assert.False(t, seen[k], "kind %d reported twice", k)
		assert.GreaterOrEqual(t, int(k), 0)
		assert.Less(t, int(k), NumNodeKinds)
		seen[k] = true
	}
}

func TestMeshBoundingBox(t *testing.T) {
	m := NewMesh()
	m.Vertices = []mgl32.Vec3{{-1, 0, 2}, {3, -2, 0}, {0, 5, -4}}

	b := m.BoundingBox()
	assert.Equal(t, mgl32.Vec3{-1, -2, -4}, b.Min)
	assert.Equal(t, mgl32.Vec3{3, 5, 2}, b.Max)

	// Bounds are cached until invalidated.
	m.Vertices = append(m.Vertices, mgl32.Vec3{10, 10, 10})
	assert.Equal(t, mgl32.Vec3{3, 5, 2}, m.BoundingBox().Max)
	m.InvalidateBounds()
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, m.BoundingBox().Max)
}

func TestEmptyMeshBoundingBox(t *testing.T) {
	assert.True(t, NewMesh().BoundingBox().Empty())
}

func TestBoundingBoxExtend(t *testing.T) {
	b := EmptyBoundingBox()
	assert.True(t, b.Empty())

	b.Extend(mgl32.Vec3{1, 2, 3})
	assert.False(t, b.Empty())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Center())

	b.Extend(mgl32.Vec3{-1, 0, 1})
	assert.Equal(t, mgl32.Vec3{-1, 0, 1}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Max)
}

func TestMeshTriangles(t *testing.T) {
	m := NewMesh()
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(2, 1, 3)

	require.Equal(t, 2, m.NumTriangles())
	i0, i1, i2 := m.Triangle(1)
	assert.Equal(t, [3]int32{2, 1, 3}, [3]int32{i0, i1, i2})
}

func TestShapeTransparency(t *testing.T) {
	s := NewShape(NewMesh())
	assert.Zero(t, s.Transparency(), "shape without material is opaque")

	s.Material = NewMaterial()
	s.Material.Transparency = 0.25
	assert.InDelta(t, 0.25, s.Transparency(), 1e-6)
}

func TestLineSet(t *testing.T) {
	l := NewLineSet()
	l.AddLine(0, 1)
	l.AddLine(2, 3)

	require.Equal(t, 2, l.NumLines())
	v0, v1 := l.Line(1)
	assert.Equal(t, int32(2), v0)
	assert.Equal(t, int32(3), v1)
}

func TestPerspectiveCameraFovy(t *testing.T) {
	c := NewPerspectiveCamera()

	wide := c.Fovy(2.0)
	assert.InDelta(t, float64(c.FieldOfView), float64(wide), 1e-6,
		"landscape aspect keeps the configured field of view vertical")

	tall := c.Fovy(0.5)
	assert.Greater(t, tall, wide,
		"portrait aspect widens the vertical field of view")
}

func TestOrthographicViewVolume(t *testing.T) {
	c := NewOrthographicCamera()
	c.Height = 2

	left, right, bottom, top := c.ViewVolume(2.0)
	assert.InDelta(t, -2, left, 1e-6)
	assert.InDelta(t, 2, right, 1e-6)
	assert.InDelta(t, -1, bottom, 1e-6)
	assert.InDelta(t, 1, top, 1e-6)
}
