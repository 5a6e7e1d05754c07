package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovergraph/scenegl/internal/scene"
)

func TestPackNormalRoundTrip(t *testing.T) {
	vectors := []mgl32.Vec3{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		mgl32.Vec3{1, 1, 1}.Normalize(),
		mgl32.Vec3{-0.3, 0.8, -0.5}.Normalize(),
		mgl32.Vec3{0.7, -0.7, 0.1}.Normalize(),
		mgl32.Vec3{-0.999, 0.02, 0.04}.Normalize(),
	}
	const tolerance = 1.0 / 511
	for _, v := range vectors {
		got := UnpackNormal(PackNormal(v))
		for i := 0; i < 3; i++ {
			assert.InDelta(t, v[i], got[i], tolerance, "component %d of %v", i, v)
		}
	}
}

func TestPackNormalAxisBits(t *testing.T) {
	// x occupies the low 10 bits.
	assert.Equal(t, uint32(511), PackNormal(mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, uint32(511)<<10, PackNormal(mgl32.Vec3{0, 1, 0}))
	assert.Equal(t, uint32(511)<<20, PackNormal(mgl32.Vec3{0, 0, 1}))
	// -1 encodes as sign bit plus the smallest magnitude above the
	// anchor.
	assert.Equal(t, uint32(513), PackNormal(mgl32.Vec3{-1, 0, 0}))
}

func TestPackNormalTinyNegativeComponents(t *testing.T) {
	// A component just below zero must decode near zero. Truncating
	// before the sign anchor is added would wrap it to -1.
	v := mgl32.Vec3{-0.0005, 1, 0}.Normalize()
	got := UnpackNormal(PackNormal(v))
	assert.InDelta(t, v.X(), got.X(), 1.0/511)
	assert.InDelta(t, v.Y(), got.Y(), 1.0/510)
}

func TestFloat32ToHalf(t *testing.T) {
	cases := []struct {
		in   float32
		want uint16
	}{
		{0, 0},
		{1.0, 0x3c00},
		{-2.0, 0xc000},
		{0.5, 0x3800},
		{65504, 0x7bff},
		{1e7, 0x7bff},  // overflow clamps to the largest finite half
		{1e-8, 0x0000}, // subnormal range flushes to zero
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Float32ToHalf(c.in), "Float32ToHalf(%v)", c.in)
	}
}

func TestWrapTexCoord(t *testing.T) {
	assert.Equal(t, float32(0.25), wrapTexCoord(0.25))
	assert.Equal(t, float32(0), wrapTexCoord(0))
	assert.Equal(t, float32(1), wrapTexCoord(1))
	assert.InDelta(t, 0.25, wrapTexCoord(1.25), 1e-6)
	assert.InDelta(t, 0.75, wrapTexCoord(-0.25), 1e-6)
	assert.InDelta(t, 0.5, wrapTexCoord(-3.5), 1e-6)
}

func TestTriangleNormal(t *testing.T) {
	n := TriangleNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 0, n.X(), 1e-6)
	assert.InDelta(t, 0, n.Y(), 1e-6)
	assert.InDelta(t, 1, n.Z(), 1e-6)
}

func triangleMesh() *scene.Mesh {
	m := scene.NewMesh()
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)
	return m
}

func TestExpandNormalsFlat(t *testing.T) {
	m := triangleMesh()
	normals, ok := expandNormals(m, false)
	require.True(t, ok)
	require.Len(t, normals, 3)
	for _, n := range normals {
		assert.InDelta(t, 1, n.Z(), 1e-6)
	}
}

func TestExpandNormalsSmoothFallsBackToFlat(t *testing.T) {
	// Smooth shading on a mesh without normals must still produce
	// usable face normals instead of failing.
	m := triangleMesh()
	normals, ok := expandNormals(m, true)
	require.True(t, ok)
	require.Len(t, normals, 3)
	assert.InDelta(t, 1, normals[0].Z(), 1e-6)
}

func TestExpandNormalsSmooth(t *testing.T) {
	m := triangleMesh()
	m.Normals = []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	normals, ok := expandNormals(m, true)
	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, normals)

	// Per-corner normal indices override the vertex mapping.
	m.NormalIndices = []int32{2, 2, 2}
	normals, ok = expandNormals(m, true)
	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}, normals)
}

func TestExpandNormalsEmptyMesh(t *testing.T) {
	_, ok := expandNormals(scene.NewMesh(), false)
	assert.False(t, ok)
}

func TestTexCoordMatrixTranslation(t *testing.T) {
	tt := &scene.TextureTransform{Translation: mgl32.Vec2{0.5, -0.25}}
	m := texCoordMatrix(tt)
	uv := m.Mul3x1(mgl32.Vec3{0.1, 0.2, 1}).Vec2()
	assert.InDelta(t, 0.6, uv.X(), 1e-6)
	assert.InDelta(t, -0.05, uv.Y(), 1e-6)
}

func TestTexCoordMatrixZeroScale(t *testing.T) {
	// A zero-valued transform must behave as identity, not collapse
	// every coordinate to the origin.
	m := texCoordMatrix(&scene.TextureTransform{})
	uv := m.Mul3x1(mgl32.Vec3{0.3, 0.7, 1}).Vec2()
	assert.InDelta(t, 0.3, uv.X(), 1e-6)
	assert.InDelta(t, 0.7, uv.Y(), 1e-6)
}

func TestTexCoordMatrixScaleWithCenter(t *testing.T) {
	tt := &scene.TextureTransform{
		Scale:  mgl32.Vec2{2, 2},
		Center: mgl32.Vec2{0.5, 0.5},
	}
	// Coordinates shift by the center, scale, then shift back:
	// uv' = S(uv + c) - c.
	m := texCoordMatrix(tt)
	uv := m.Mul3x1(mgl32.Vec3{0, 0, 1}).Vec2()
	assert.InDelta(t, 0.5, uv.X(), 1e-6)
	assert.InDelta(t, 0.5, uv.Y(), 1e-6)

	uv = m.Mul3x1(mgl32.Vec3{1, 1, 1}).Vec2()
	assert.InDelta(t, 2.5, uv.X(), 1e-6)
	assert.InDelta(t, 2.5, uv.Y(), 1e-6)
}

func TestQuantizeColor(t *testing.T) {
	assert.Equal(t, byte(0), quantizeColor(-0.5))
	assert.Equal(t, byte(0), quantizeColor(0))
	assert.Equal(t, byte(127), quantizeColor(0.5))
	assert.Equal(t, byte(255), quantizeColor(1))
	assert.Equal(t, byte(255), quantizeColor(2))
}

func TestExpandColors(t *testing.T) {
	m := triangleMesh()
	m.Colors = []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	assert.Equal(t, []byte{255, 0, 0, 0, 255, 0, 0, 0, 255}, expandColors(m))

	m.ColorIndices = []int32{1, 1, 1}
	assert.Equal(t, []byte{0, 255, 0, 0, 255, 0, 0, 255, 0}, expandColors(m))
}

func TestExpandVertices(t *testing.T) {
	m := triangleMesh()
	m.Vertices = append(m.Vertices, mgl32.Vec3{2, 2, 2})
	m.AddTriangle(0, 2, 3)

	out := expandVertices(m)
	require.Len(t, out, 6)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, out[5])
}

func TestBuildNormalVisualization(t *testing.T) {
	m := triangleMesh()
	normals, ok := expandNormals(m, false)
	require.True(t, ok)

	lines := buildNormalVisualization(m, normals, 0.5)
	assert.Len(t, lines.Vertices, 6, "two endpoints per face-vertex")
	assert.Equal(t, 3, lines.NumLines())

	// The second endpoint of each segment lies along the normal.
	tip := lines.Vertices[1]
	assert.InDelta(t, 0.5, tip.Z(), 1e-6)
	require.NotNil(t, lines.Material)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, lines.Material.DiffuseColor)
}
