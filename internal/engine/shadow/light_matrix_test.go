package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovergraph/scenegl/internal/scene"
)

func unitBounds() scene.BoundingBox {
	b := scene.EmptyBoundingBox()
	b.Extend(mgl32.Vec3{-1, -1, -1})
	b.Extend(mgl32.Vec3{1, 1, 1})
	return b
}

func TestCameraForDirectionalLight(t *testing.T) {
	light := scene.NewDirectionalLight()
	// Pose looking straight down: light shines along -Y.
	pose := mgl32.LookAtV(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}).Inv()

	cam, camPose, ok := CameraForLight(light, pose, unitBounds())
	require.True(t, ok)

	ortho, isOrtho := cam.(*scene.OrthographicCamera)
	require.True(t, isOrtho, "directional lights use an orthographic shadow camera")

	radius := unitBounds().Size().Len() / 2
	assert.InDelta(t, 2*radius*1.1, ortho.Height, 1e-5, "frustum padded around the scene radius")
	assert.Greater(t, ortho.Far, ortho.Near)

	// The camera backs out of the volume against the light direction.
	eye := camPose.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.InDelta(t, 2*radius, eye.Y(), 1e-4)
	assert.InDelta(t, 0, eye.X(), 1e-4)
	assert.InDelta(t, 0, eye.Z(), 1e-4)
}

func TestCameraForSpotLight(t *testing.T) {
	light := &scene.Light{
		Type:        scene.SpotLight,
		On:          true,
		CutOffAngle: 0.5,
	}
	pose := mgl32.Translate3D(0, 10, 0)

	cam, camPose, ok := CameraForLight(light, pose, unitBounds())
	require.True(t, ok)

	persp, isPersp := cam.(*scene.PerspectiveCamera)
	require.True(t, isPersp, "spot lights use a perspective shadow camera")
	assert.InDelta(t, 1.0, persp.FieldOfView, 1e-6, "field of view spans the full cone")
	assert.Equal(t, pose, camPose, "spot shadow camera sits at the light")

	// Far plane reaches past the shadowed volume.
	radius := unitBounds().Size().Len() / 2
	assert.InDelta(t, 10+radius, persp.Far, 1e-4)
}

func TestCameraForPointLight(t *testing.T) {
	_, _, ok := CameraForLight(scene.NewPointLight(), mgl32.Ident4(), unitBounds())
	assert.False(t, ok, "point lights have no single shadow camera")
}
