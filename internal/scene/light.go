package scene

import "github.com/go-gl/mathgl/mgl32"

// LightType selects the light model.
type LightType int

const (
	DirectionalLight LightType = iota
	PointLight
	SpotLight
)

// Light is a scene light source. Its pose (light-to-world transform)
// is supplied by the scene owner alongside the light; directional
// lights shine along the pose's -Z axis.
type Light struct {
	Object

	Type      LightType
	On        bool
	Color     mgl32.Vec3
	Intensity float32

	// AmbientIntensity scales the light's contribution to ambient
	// shading, usually 0.
	AmbientIntensity float32

	// Point/spot attenuation.
	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32

	// Spot cone angles in radians.
	BeamWidth   float32
	CutOffAngle float32
}

// NewDirectionalLight creates an enabled white directional light.
func NewDirectionalLight() *Light {
	return &Light{
		Type:      DirectionalLight,
		On:        true,
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
	}
}

// NewPointLight creates an enabled white point light with no falloff.
func NewPointLight() *Light {
	return &Light{
		Type:                PointLight,
		On:                  true,
		Color:               mgl32.Vec3{1, 1, 1},
		Intensity:           1,
		ConstantAttenuation: 1,
	}
}

// Fog attenuates fragments toward a color with distance. The last fog
// in the scene wins; nil disables fog.
type Fog struct {
	Object

	Color              mgl32.Vec3
	VisibilityDistance float32
}

// NewFog creates a gray fog with unbounded visibility.
func NewFog() *Fog {
	return &Fog{Color: mgl32.Vec3{0.5, 0.5, 0.5}}
}
