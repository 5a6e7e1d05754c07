package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/scene"
)

// buildDemoScene assembles a scene exercising most node kinds: solid
// and transparent shapes, a textured quad, plots, an outline group and
// an unpickable axes gizmo.
func buildDemoScene() (*scene.Group, scene.BoundingBox) {
	root := scene.NewGroup()

	// Ground plane.
	ground := scene.NewShape(makePlane(10, 10))
	ground.Material = scene.NewMaterial()
	ground.Material.DiffuseColor = mgl32.Vec3{0.5, 0.5, 0.5}
	root.AddChild(ground)

	// Red box with a silhouette outline.
	outline := scene.NewOutlineGroup()
	outline.Color = mgl32.Vec3{1, 1, 0}
	outline.LineWidth = 3
	boxT := scene.NewTransformM(mgl32.Translate3D(-1.5, 0.5, 0))
	box := scene.NewShape(makeBox(1, 1, 1))
	box.Material = scene.NewMaterial()
	box.Material.DiffuseColor = mgl32.Vec3{0.8, 0.1, 0.1}
	boxT.AddChild(box)
	outline.AddChild(boxT)
	root.AddChild(outline)

	// Smooth-shaded sphere.
	sphereT := scene.NewTransformM(mgl32.Translate3D(0, 0.6, -1.5))
	sphere := scene.NewShape(makeSphere(0.6, 24, 32))
	sphere.Material = scene.NewMaterial()
	sphere.Material.DiffuseColor = mgl32.Vec3{0.1, 0.7, 0.2}
	sphere.Material.SpecularColor = mgl32.Vec3{0.4, 0.4, 0.4}
	sphere.Material.Shininess = 0.5
	sphereT.AddChild(sphere)
	root.AddChild(sphereT)

	// Half-transparent blue box; drawn in the deferred pass.
	glassT := scene.NewTransformM(mgl32.Translate3D(1.5, 0.5, 0))
	glass := scene.NewShape(makeBox(1, 1, 1))
	glass.Material = scene.NewMaterial()
	glass.Material.DiffuseColor = mgl32.Vec3{0.2, 0.3, 0.9}
	glass.Material.Transparency = 0.5
	glassT.AddChild(glass)
	root.AddChild(glassT)

	// Checkerboard-textured quad.
	quadT := scene.NewTransformM(mgl32.Translate3D(0, 0.75, 1.8))
	quad := scene.NewShape(makeTexturedQuad(1.5, 1.5))
	quad.Material = scene.NewMaterial()
	quad.Texture = scene.NewTexture(makeCheckerImage(64, 8))
	quad.Texture.RepeatS = true
	quad.Texture.RepeatT = true
	quadT.AddChild(quad)
	root.AddChild(quadT)

	// Colored point ring.
	points := scene.NewPointSet()
	points.PointSize = 4
	for i := 0; i < 64; i++ {
		a := float32(i) / 64 * 2 * math32.Pi
		points.Vertices = append(points.Vertices,
			mgl32.Vec3{2.5 * math32.Cos(a), 1.5, 2.5 * math32.Sin(a)})
		points.Colors = append(points.Colors,
			mgl32.Vec3{0.5 + 0.5*math32.Cos(a), 0.5 + 0.5*math32.Sin(a), 1})
	}
	root.AddChild(points)

	// Axes gizmo, excluded from picking.
	axes := scene.NewUnpickableGroup()
	axes.AddChild(makeAxes(1.5))
	root.AddChild(axes)

	bounds := scene.EmptyBoundingBox()
	bounds.Extend(mgl32.Vec3{-5, 0, -5})
	bounds.Extend(mgl32.Vec3{5, 2.5, 5})
	return root, bounds
}

// makePlane builds a ground quad in the XZ plane centered at the
// origin.
func makePlane(width, depth float32) *scene.Mesh {
	m := scene.NewMesh()
	hw, hd := width/2, depth/2
	m.Vertices = []mgl32.Vec3{
		{-hw, 0, -hd}, {hw, 0, -hd}, {hw, 0, hd}, {-hw, 0, hd},
	}
	m.AddTriangle(0, 2, 1)
	m.AddTriangle(0, 3, 2)
	return m
}

// makeBox builds a closed axis-aligned box centered at the origin.
func makeBox(sx, sy, sz float32) *scene.Mesh {
	m := scene.NewMesh()
	x, y, z := sx/2, sy/2, sz/2
	m.Vertices = []mgl32.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	quads := [][4]int32{
		{4, 5, 6, 7}, // front
		{1, 0, 3, 2}, // back
		{5, 1, 2, 6}, // right
		{0, 4, 7, 3}, // left
		{7, 6, 2, 3}, // top
		{0, 1, 5, 4}, // bottom
	}
	for _, q := range quads {
		m.AddTriangle(q[0], q[1], q[2])
		m.AddTriangle(q[0], q[2], q[3])
	}
	m.Solid = true
	return m
}

// makeSphere builds a UV sphere with per-vertex normals for smooth
// shading.
func makeSphere(radius float32, rings, sectors int) *scene.Mesh {
	m := scene.NewMesh()
	for r := 0; r <= rings; r++ {
		phi := float32(r) / float32(rings) * math32.Pi
		for s := 0; s <= sectors; s++ {
			theta := float32(s) / float32(sectors) * 2 * math32.Pi
			n := mgl32.Vec3{
				math32.Sin(phi) * math32.Cos(theta),
				math32.Cos(phi),
				math32.Sin(phi) * math32.Sin(theta),
			}
			m.Vertices = append(m.Vertices, n.Mul(radius))
			m.Normals = append(m.Normals, n)
		}
	}
	stride := int32(sectors + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			i0 := int32(r)*stride + int32(s)
			i1 := i0 + stride
			m.AddTriangle(i0, i1, i0+1)
			m.AddTriangle(i0+1, i1, i1+1)
		}
	}
	m.Solid = true
	return m
}

// makeTexturedQuad builds a vertical quad with texture coordinates.
func makeTexturedQuad(width, height float32) *scene.Mesh {
	m := scene.NewMesh()
	hw, hh := width/2, height/2
	m.Vertices = []mgl32.Vec3{
		{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0},
	}
	m.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(0, 2, 3)
	return m
}

// makeCheckerImage generates an RGB checkerboard of the given size and
// cell count.
func makeCheckerImage(size, cells int) *scene.Image {
	img := &scene.Image{
		Width:    size,
		Height:   size,
		Channels: 3,
		Pixels:   make([]byte, size*size*3),
	}
	cell := size / cells
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(40)
			if (x/cell+y/cell)%2 == 0 {
				v = 220
			}
			i := (y*size + x) * 3
			img.Pixels[i] = v
			img.Pixels[i+1] = v
			img.Pixels[i+2] = v
		}
	}
	return img
}

// makeAxes builds RGB axis lines of the given length.
func makeAxes(length float32) *scene.LineSet {
	axes := scene.NewLineSet()
	axes.LineWidth = 2
	axes.Vertices = []mgl32.Vec3{
		{0, 0.01, 0}, {length, 0.01, 0},
		{0, 0.01, 0}, {0, length, 0},
		{0, 0.01, 0}, {0, 0.01, length},
	}
	axes.Colors = []mgl32.Vec3{
		{1, 0, 0}, {1, 0, 0},
		{0, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {0, 0, 1},
	}
	axes.AddLine(0, 1)
	axes.AddLine(2, 3)
	axes.AddLine(4, 5)
	return axes
}
