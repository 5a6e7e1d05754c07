package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/scene"
)

// CameraForLight constructs the shadow camera for a shadow-casting
// light: an orthographic camera for directional lights sized to the
// shadowed volume, a perspective camera for spot lights. Point lights
// have no single shadow camera and yield ok == false.
//
// pose is the light-to-world transform; bounds is the world-space box
// the shadows must cover. The returned pose is the camera-to-world
// transform.
func CameraForLight(light *scene.Light, pose mgl32.Mat4, bounds scene.BoundingBox) (camera scene.Camera, cameraPose mgl32.Mat4, ok bool) {
	switch light.Type {
	case scene.DirectionalLight:
		return directionalShadowCamera(pose, bounds)
	case scene.SpotLight:
		cam := scene.NewPerspectiveCamera()
		cam.FieldOfView = 2 * light.CutOffAngle
		cam.Near = 0.01
		cam.Far = farForBounds(pose, bounds)
		return cam, pose, true
	default:
		return nil, mgl32.Ident4(), false
	}
}

func directionalShadowCamera(pose mgl32.Mat4, bounds scene.BoundingBox) (scene.Camera, mgl32.Mat4, bool) {
	center := bounds.Center()
	radius := bounds.Size().Len() / 2
	if radius <= 0 {
		radius = 1
	}

	// Light shines along -Z of its pose; back the camera out of the
	// shadowed volume along +Z.
	dir := pose.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
	distance := 2 * radius
	eye := center.Add(dir.Mul(distance))

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(eye, center, up)

	cam := scene.NewOrthographicCamera()
	cam.Height = 2 * radius * 1.1 // padding against edge artifacts
	cam.Near = 0.1
	cam.Far = distance + radius*1.1

	return cam, view.Inv(), true
}

// farForBounds returns a far clip distance covering bounds as seen
// from the light position.
func farForBounds(pose mgl32.Mat4, bounds scene.BoundingBox) float32 {
	lightPos := pose.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	d := bounds.Center().Sub(lightPos).Len() + bounds.Size().Len()/2
	if d < 1 {
		d = 1
	}
	return d
}
