package render

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/scene"
)

// Vertex stream encodings. Compact variants trade precision for
// bandwidth; decode paths must invert them exactly.
const (
	useShortVertices          = false
	usePackedNormals          = true
	useHalfFloatTexCoords     = false
	useUnsignedShortTexCoords = false
)

// PackNormal encodes a unit vector into the GL_INT_2_10_10_10_REV
// layout: one sign bit and nine magnitude bits per axis, x in the low
// bits.
func PackNormal(v mgl32.Vec3) uint32 {
	var word uint32
	for i := 2; i >= 0; i-- {
		c := v[i]
		var sign uint32
		if c < 0 {
			sign = 1
		}
		// The sign anchor is added before the single truncation so
		// tiny negative components round toward the anchor instead of
		// wrapping to -1.
		word = word<<10 | sign<<9 | uint32(c*511+float32(sign)*512)&511
	}
	return word
}

// UnpackNormal exactly inverts PackNormal.
func UnpackNormal(packed uint32) mgl32.Vec3 {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		if packed&512 != 0 {
			v[i] = float32(int32(packed&511)-512) / 512.0
		} else {
			v[i] = float32(packed&511) / 511.0
		}
		packed >>= 10
	}
	return v
}

// Float32ToHalf converts to IEEE 754 half precision, flushing
// subnormals to zero and clamping overflow to the largest finite half.
func Float32ToHalf(value float32) uint16 {
	x := math.Float32bits(value)
	e := x & 0x7f800000
	if e == 0 || e < 0x38800000 {
		return 0
	} else if e > 0x47000000 {
		return 0x7bff
	}
	return uint16((x>>16)&0x8000 | (x&0x7fffffff)>>13-0x1c000)
}

// wrapTexCoord maps a repeating texture coordinate into [0,1].
func wrapTexCoord(v float32) float32 {
	if v < 0 || v > 1 {
		return v - math32.Floor(v)
	}
	return v
}

// TriangleNormal returns the face normal of the triangle (p0, p1, p2)
// with counter-clockwise winding.
func TriangleNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// expandVertices flattens indexed mesh positions into one position per
// face-vertex.
func expandVertices(mesh *scene.Mesh) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, len(mesh.TriangleVertices))
	for _, vi := range mesh.TriangleVertices {
		out = append(out, mesh.Vertices[vi])
	}
	return out
}

// expandNormals builds one normal per face-vertex. Flat shading
// replicates each face normal three times; smooth shading consumes the
// mesh's precomputed normals through the vertex or per-corner index
// list, falling back to flat normals when the mesh carries none. ok is
// false only for meshes without triangles.
func expandNormals(mesh *scene.Mesh, smooth bool) (normals []mgl32.Vec3, ok bool) {
	total := len(mesh.TriangleVertices)
	if total == 0 {
		return nil, false
	}

	if !smooth || !mesh.HasNormals() {
		normals = make([]mgl32.Vec3, 0, total)
		for i := 0; i < mesh.NumTriangles(); i++ {
			i0, i1, i2 := mesh.Triangle(i)
			n := TriangleNormal(mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2])
			normals = append(normals, n, n, n)
		}
		return normals, true
	}

	normals = make([]mgl32.Vec3, 0, total)
	if len(mesh.NormalIndices) == 0 {
		for _, vi := range mesh.TriangleVertices {
			normals = append(normals, mesh.Normals[vi])
		}
	} else {
		for _, ni := range mesh.NormalIndices {
			normals = append(normals, mesh.Normals[ni])
		}
	}
	return normals, true
}

// texCoordMatrix builds the affine transform applied to texture
// coordinates: scale and rotation about the transform center, then
// translation.
func texCoordMatrix(tt *scene.TextureTransform) mgl32.Mat3 {
	c := tt.Center
	scale := tt.Scale
	if scale == (mgl32.Vec2{}) {
		scale = mgl32.Vec2{1, 1}
	}
	return mgl32.Translate2D(-c.X(), -c.Y()).
		Mul3(mgl32.Scale2D(scale.X(), scale.Y())).
		Mul3(mgl32.HomogRotate2D(tt.Rotation)).
		Mul3(mgl32.Translate2D(c.X(), c.Y())).
		Mul3(mgl32.Translate2D(tt.Translation.X(), tt.Translation.Y()))
}

// expandTexCoords flattens texture coordinates per face-vertex,
// applying the optional texture transform first.
func expandTexCoords(mesh *scene.Mesh, texture *scene.Texture) []mgl32.Vec2 {
	src := mesh.TexCoords
	if texture.Transform != nil {
		m := texCoordMatrix(texture.Transform)
		src = make([]mgl32.Vec2, len(mesh.TexCoords))
		for i, uv := range mesh.TexCoords {
			src[i] = m.Mul3x1(uv.Vec3(1)).Vec2()
		}
	}

	out := make([]mgl32.Vec2, 0, len(mesh.TriangleVertices))
	if len(mesh.TexCoordIndices) == 0 {
		for _, vi := range mesh.TriangleVertices {
			out = append(out, src[vi])
		}
	} else {
		for _, ti := range mesh.TexCoordIndices {
			out = append(out, src[ti])
		}
	}
	return out
}

// expandColors flattens per-vertex colors into 8-bit RGB per
// face-vertex.
func expandColors(mesh *scene.Mesh) []byte {
	out := make([]byte, 0, len(mesh.TriangleVertices)*3)
	appendColor := func(c mgl32.Vec3) {
		out = append(out, quantizeColor(c.X()), quantizeColor(c.Y()), quantizeColor(c.Z()))
	}
	if len(mesh.ColorIndices) == 0 {
		for _, vi := range mesh.TriangleVertices {
			appendColor(mesh.Colors[vi])
		}
	} else {
		for _, ci := range mesh.ColorIndices {
			appendColor(mesh.Colors[ci])
		}
	}
	return out
}

func quantizeColor(c float32) byte {
	v := c * 255
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}

// buildNormalVisualization creates the line set that draws one normal
// direction segment per face-vertex.
func buildNormalVisualization(mesh *scene.Mesh, normals []mgl32.Vec3, length float32) *scene.LineSet {
	lines := scene.NewLineSet()
	material := scene.NewMaterial()
	material.DiffuseColor = mgl32.Vec3{0, 1, 0}
	lines.Material = material

	vertexIndex := int32(0)
	for _, vi := range mesh.TriangleVertices {
		v := mesh.Vertices[vi]
		lines.Vertices = append(lines.Vertices, v, v.Add(normals[vertexIndex].Mul(length)))
		lines.AddLine(vertexIndex*2, vertexIndex*2+1)
		vertexIndex++
	}
	return lines
}

// writeMeshVertices encodes the mesh into the resource's buffers:
// positions, normals, optional texture coordinates (only when texture
// sampling is active) and optional per-vertex colors.
func (r *Renderer) writeMeshVertices(mesh *scene.Mesh, resource *VertexResource, texture *scene.Texture) {
	total := len(mesh.TriangleVertices)
	resource.numVertices = int32(total)
	if total == 0 {
		return
	}

	if useShortVertices {
		r.writeVerticesShort(mesh, resource)
	} else {
		r.writeVerticesFloat(mesh, resource)
	}

	normals, ok := expandNormals(mesh, r.defaultSmoothShading)
	if ok {
		if usePackedNormals {
			packed := make([]uint32, len(normals))
			for i, n := range normals {
				packed[i] = PackNormal(n)
			}
			buffer := resource.newBuffer()
			withVertexArrayLock(func() {
				gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
				gl.VertexAttribPointer(1, 4, gl.INT_2_10_10_10_REV, true, 0, nil)
			})
			gl.BufferData(gl.ARRAY_BUFFER, len(packed)*4, gl.Ptr(packed), gl.STATIC_DRAW)
		} else {
			buffer := resource.newBuffer()
			withVertexArrayLock(func() {
				gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
				gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, nil)
			})
			gl.BufferData(gl.ARRAY_BUFFER, len(normals)*3*4, gl.Ptr(normals), gl.STATIC_DRAW)
		}
		gl.EnableVertexAttribArray(1)

		if r.normalVisualizationLength > 0 {
			resource.normalVisualization = buildNormalVisualization(mesh, normals, r.normalVisualizationLength)
		}
	}

	if texture != nil && mesh.HasTexCoords() {
		r.writeTexCoords(mesh, resource, texture)
	}

	if mesh.HasColors() {
		colors := expandColors(mesh)
		buffer := resource.newBuffer()
		withVertexArrayLock(func() {
			gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
			gl.VertexAttribPointer(3, 3, gl.UNSIGNED_BYTE, true, 0, nil)
		})
		gl.BufferData(gl.ARRAY_BUFFER, len(colors), gl.Ptr(colors), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(3)
	}
}

// writePlotVertices uploads point/line vertices for the solid color
// program: positions on attribute 0 and, when present, 8-bit colors on
// attribute 1.
func (r *Renderer) writePlotVertices(plot *scene.Plot, resource *VertexResource, vertices []mgl32.Vec3) {
	resource.numVertices = int32(len(vertices))
	if len(vertices) == 0 {
		return
	}

	buffer := resource.newBuffer()
	withVertexArrayLock(func() {
		gl.BindVertexArray(resource.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)
	})
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*3*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	resource.localTransform = nil

	if !plot.HasColors() {
		return
	}
	colors := make([]byte, 0, len(vertices)*3)
	colorAt := func(i int) mgl32.Vec3 {
		if len(plot.ColorIndices) > 0 {
			return plot.Colors[plot.ColorIndices[i]]
		}
		if i < len(plot.Colors) {
			return plot.Colors[i]
		}
		return plot.Colors[len(plot.Colors)-1]
	}
	for i := range vertices {
		c := colorAt(i)
		colors = append(colors, quantizeColor(c.X()), quantizeColor(c.Y()), quantizeColor(c.Z()))
	}
	colorBuffer := resource.newBuffer()
	withVertexArrayLock(func() {
		gl.BindBuffer(gl.ARRAY_BUFFER, colorBuffer)
		gl.VertexAttribPointer(1, 3, gl.UNSIGNED_BYTE, true, 0, nil)
	})
	gl.BufferData(gl.ARRAY_BUFFER, len(colors), gl.Ptr(colors), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
}

// writeVerticesFloat uploads full-precision positions.
func (r *Renderer) writeVerticesFloat(mesh *scene.Mesh, resource *VertexResource) {
	vertices := expandVertices(mesh)
	buffer := resource.newBuffer()
	withVertexArrayLock(func() {
		gl.BindVertexArray(resource.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)
	})
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*3*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	resource.localTransform = nil
}

// writeVerticesShort normalizes positions into the mesh bounding box
// and uploads them as int16, storing the inverse mapping as the
// resource's local transform.
func (r *Renderer) writeVerticesShort(mesh *scene.Mesh, resource *VertexResource) {
	bbox := mesh.BoundingBox()
	c := bbox.Center()
	hs := bbox.Size().Mul(0.5)
	for i := 0; i < 3; i++ {
		if hs[i] <= 0 {
			hs[i] = 1
		}
	}

	local := mgl32.Translate3D(c.X(), c.Y(), c.Z()).Mul4(mgl32.Scale3D(hs.X(), hs.Y(), hs.Z()))
	resource.localTransform = &local

	scaled := make([]int16, 0, len(mesh.TriangleVertices)*3)
	for _, vi := range mesh.TriangleVertices {
		v := mesh.Vertices[vi]
		for i := 0; i < 3; i++ {
			scaled = append(scaled, int16(32767*(v[i]-c[i])/hs[i]))
		}
	}

	buffer := resource.newBuffer()
	withVertexArrayLock(func() {
		gl.BindVertexArray(resource.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
		gl.VertexAttribPointer(0, 3, gl.SHORT, true, 0, nil)
	})
	gl.BufferData(gl.ARRAY_BUFFER, len(scaled)*2, gl.Ptr(scaled), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
}

// writeTexCoords uploads texture coordinates in the configured
// encoding. Compact encodings wrap repeating coordinates into [0,1]
// before quantization.
func (r *Renderer) writeTexCoords(mesh *scene.Mesh, resource *VertexResource, texture *scene.Texture) {
	coords := expandTexCoords(mesh, texture)
	buffer := resource.newBuffer()

	switch {
	case useHalfFloatTexCoords:
		data := make([]uint16, 0, len(coords)*2)
		for _, uv := range coords {
			data = append(data, Float32ToHalf(wrapTexCoord(uv.X())), Float32ToHalf(wrapTexCoord(uv.Y())))
		}
		withVertexArrayLock(func() {
			gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
			gl.VertexAttribPointer(2, 2, gl.HALF_FLOAT, false, 0, nil)
		})
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)

	case useUnsignedShortTexCoords:
		data := make([]uint16, 0, len(coords)*2)
		for _, uv := range coords {
			data = append(data, uint16(65535*wrapTexCoord(uv.X())), uint16(65535*wrapTexCoord(uv.Y())))
		}
		withVertexArrayLock(func() {
			gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
			gl.VertexAttribPointer(2, 2, gl.UNSIGNED_SHORT, true, 0, nil)
		})
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)

	default:
		withVertexArrayLock(func() {
			gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
			gl.VertexAttribPointer(2, 2, gl.FLOAT, false, 0, nil)
		})
		gl.BufferData(gl.ARRAY_BUFFER, len(coords)*2*4, gl.Ptr(coords), gl.STATIC_DRAW)
	}
	gl.EnableVertexAttribArray(2)
}
