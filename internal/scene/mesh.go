package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box around a mesh.
type BoundingBox struct {
	Min, Max mgl32.Vec3
}

// Empty reports whether the box contains no volume.
func (b BoundingBox) Empty() bool {
	return b.Min.X() > b.Max.X()
}

// Center returns the box center.
func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// EmptyBoundingBox returns a box that Extend treats as containing
// nothing.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{-1, -1, -1}}
}

// Extend grows the box to contain p.
func (b *BoundingBox) Extend(p mgl32.Vec3) {
	if b.Empty() {
		b.Min, b.Max = p, p
		return
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

// Mesh is indexed triangle geometry. Vertices are referenced three at
// a time by TriangleVertices. Normals, colors and texture coordinates
// are optional; when their index lists are empty they share the vertex
// indices, otherwise one index is given per face-vertex (corner).
type Mesh struct {
	Object

	Vertices         []mgl32.Vec3
	TriangleVertices []int32

	Normals       []mgl32.Vec3
	NormalIndices []int32

	Colors       []mgl32.Vec3
	ColorIndices []int32

	TexCoords       []mgl32.Vec2
	TexCoordIndices []int32

	// Solid marks closed geometry eligible for back-face culling.
	Solid bool

	bbox      BoundingBox
	bboxValid bool
}

// NewMesh creates an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// NumTriangles returns the triangle count.
func (m *Mesh) NumTriangles() int {
	return len(m.TriangleVertices) / 3
}

// Triangle returns the three vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (int32, int32, int32) {
	return m.TriangleVertices[i*3], m.TriangleVertices[i*3+1], m.TriangleVertices[i*3+2]
}

// AddTriangle appends one triangle by vertex indices.
func (m *Mesh) AddTriangle(v0, v1, v2 int32) {
	m.TriangleVertices = append(m.TriangleVertices, v0, v1, v2)
	m.bboxValid = false
}

// HasVertices reports whether any vertices exist.
func (m *Mesh) HasVertices() bool { return len(m.Vertices) > 0 }

// HasNormals reports whether precomputed normals exist.
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }

// HasColors reports whether per-vertex colors exist.
func (m *Mesh) HasColors() bool { return len(m.Colors) > 0 }

// HasTexCoords reports whether texture coordinates exist.
func (m *Mesh) HasTexCoords() bool { return len(m.TexCoords) > 0 }

// BoundingBox returns the axis-aligned bounds of the vertex array,
// recomputing it lazily after geometry mutations.
func (m *Mesh) BoundingBox() BoundingBox {
	if !m.bboxValid {
		m.bbox = computeBounds(m.Vertices)
		m.bboxValid = true
	}
	return m.bbox
}

// InvalidateBounds forces a bounding box recompute on next access.
// Callers mutating Vertices in place must call it before NotifyUpdate.
func (m *Mesh) InvalidateBounds() {
	m.bboxValid = false
}

func computeBounds(vertices []mgl32.Vec3) BoundingBox {
	if len(vertices) == 0 {
		return BoundingBox{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{-1, -1, -1}}
	}
	min := vertices[0]
	max := vertices[0]
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], v[i])
			max[i] = math32.Max(max[i], v[i])
		}
	}
	return BoundingBox{Min: min, Max: max}
}
