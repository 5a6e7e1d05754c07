package scene

import "github.com/go-gl/mathgl/mgl32"

// Material holds surface shading parameters.
type Material struct {
	Object

	AmbientIntensity float32
	DiffuseColor     mgl32.Vec3
	EmissiveColor    mgl32.Vec3
	SpecularColor    mgl32.Vec3
	Shininess        float32

	// Transparency in [0,1]; values above zero defer the shape to the
	// transparent pass.
	Transparency float32
}

// NewMaterial creates a material with the renderer's default shading
// parameters.
func NewMaterial() *Material {
	return &Material{
		AmbientIntensity: 1.0,
		DiffuseColor:     mgl32.Vec3{0.8, 0.8, 0.8},
		Shininess:        0.2,
	}
}

// Image is caller-owned pixel data in row-major order with 1-4
// interleaved byte channels.
type Image struct {
	Object

	Width, Height int
	Channels      int
	Pixels        []byte
}

// Empty reports whether the image holds no pixels.
func (im *Image) Empty() bool {
	return im == nil || len(im.Pixels) == 0 || im.Width <= 0 || im.Height <= 0
}

// TextureTransform is an affine transform applied to texture
// coordinates about Center before quantization.
type TextureTransform struct {
	Center      mgl32.Vec2
	Rotation    float32 // radians
	Scale       mgl32.Vec2
	Translation mgl32.Vec2
}

// Texture binds an image with sampling parameters to a shape.
type Texture struct {
	Object

	Image     *Image
	RepeatS   bool
	RepeatT   bool
	Transform *TextureTransform
}

// NewTexture creates a repeating texture for the given image.
func NewTexture(img *Image) *Texture {
	return &Texture{Image: img, RepeatS: true, RepeatT: true}
}

// Shape is a drawable mesh with optional material and texture.
type Shape struct {
	Object

	Mesh     *Mesh
	Material *Material
	Texture  *Texture
}

// NewShape creates a shape around the given mesh.
func NewShape(mesh *Mesh) *Shape {
	return &Shape{Mesh: mesh}
}

// Kind implements Node.
func (s *Shape) Kind() NodeKind { return KindShape }

// Transparency returns the material transparency, zero when no
// material is set.
func (s *Shape) Transparency() float32 {
	if s.Material == nil {
		return 0
	}
	return s.Material.Transparency
}

// Plot is shared vertex/color state of point and line primitives.
type Plot struct {
	Object

	Vertices     []mgl32.Vec3
	Colors       []mgl32.Vec3
	ColorIndices []int32
	Material     *Material
}

// HasVertices reports whether the plot holds any vertices.
func (p *Plot) HasVertices() bool { return len(p.Vertices) > 0 }

// HasColors reports whether per-vertex colors exist.
func (p *Plot) HasColors() bool { return len(p.Colors) > 0 }

// PointSet draws its vertices as points.
type PointSet struct {
	Plot

	// PointSize in pixels; zero or less uses the renderer default.
	PointSize float32
}

// NewPointSet creates an empty point set.
func NewPointSet() *PointSet {
	return &PointSet{}
}

// Kind implements Node.
func (p *PointSet) Kind() NodeKind { return KindPointSet }

// LineSet draws indexed line segments between its vertices.
type LineSet struct {
	Plot

	// LineVertices holds two vertex indices per line.
	LineVertices []int32

	// LineWidth in pixels; zero or less uses the renderer default.
	LineWidth float32
}

// NewLineSet creates an empty line set.
func NewLineSet() *LineSet {
	return &LineSet{}
}

// Kind implements Node.
func (l *LineSet) Kind() NodeKind { return KindLineSet }

// NumLines returns the line segment count.
func (l *LineSet) NumLines() int { return len(l.LineVertices) / 2 }

// Line returns the two vertex indices of line i.
func (l *LineSet) Line(i int) (int32, int32) {
	return l.LineVertices[i*2], l.LineVertices[i*2+1]
}

// AddLine appends one line segment by vertex indices.
func (l *LineSet) AddLine(v0, v1 int32) {
	l.LineVertices = append(l.LineVertices, v0, v1)
}
