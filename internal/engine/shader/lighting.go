package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/engine/shader/glsl"
	"github.com/rovergraph/scenegl/internal/scene"
)

// LightingProgram is a Program that consumes scene lights.
type LightingProgram interface {
	Program

	// MaxNumLights is the shader-imposed light cap.
	MaxNumLights() int

	// SetLight uploads one light. pose is the light-to-world transform
	// and view the world-to-view matrix. Returns false when the program
	// cannot represent the light, in which case the slot stays free.
	SetLight(index int, light *scene.Light, pose, view mgl32.Mat4, castsShadow bool) bool

	// SetNumLights commits how many light slots were filled.
	SetNumLights(n int)

	// SetFog uploads fog parameters; nil disables fog.
	SetFog(fog *scene.Fog)
}

// lightDirection returns the view-space direction towards a
// directional light shining along the -Z axis of its pose.
func lightDirection(pose, view mgl32.Mat4) mgl32.Vec3 {
	d := view.Mul4(pose).Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	return d.Vec3().Normalize()
}

// lightPosition returns the view-space position of a point/spot light.
func lightPosition(pose, view mgl32.Mat4) mgl32.Vec3 {
	return view.Mul4(pose).Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// MinimumLightingProgram is a cheap diffuse-only program used by the
// MinimumLighting mode and SimplifiedRenderingGroup subtrees.
type MinimumLightingProgram struct {
	id uint32

	locMVP          int32
	locNormalMatrix int32
	locNumLights    int32
	locDirections   [minimumLightingMaxLights]int32
	locIntensities  [minimumLightingMaxLights]int32
	locDiffuseColor int32
}

const minimumLightingMaxLights = 2

// NewMinimumLightingProgram creates an uninitialized minimum lighting
// program.
func NewMinimumLightingProgram() *MinimumLightingProgram {
	return &MinimumLightingProgram{}
}

// Initialize implements Program.
func (p *MinimumLightingProgram) Initialize() error {
	id, err := CompileProgram(glsl.MinimumLightingVertexShader, glsl.MinimumLightingFragmentShader)
	if err != nil {
		return err
	}
	p.id = id
	p.locMVP = GetUniform(id, "uMVP")
	p.locNormalMatrix = GetUniform(id, "uNormalMatrix")
	p.locNumLights = GetUniform(id, "uNumLights")
	p.locDiffuseColor = GetUniform(id, "uDiffuseColor")
	for i := 0; i < minimumLightingMaxLights; i++ {
		p.locDirections[i] = GetUniform(id, fmt.Sprintf("uLightDirections[%d]", i))
		p.locIntensities[i] = GetUniform(id, fmt.Sprintf("uLightIntensities[%d]", i))
	}
	return nil
}

// Activate implements Program.
func (p *MinimumLightingProgram) Activate() {
	gl.UseProgram(p.id)
}

// Deactivate implements Program.
func (p *MinimumLightingProgram) Deactivate() {}

// SetTransform implements Program.
func (p *MinimumLightingProgram) SetTransform(pv, view, model mgl32.Mat4, local *mgl32.Mat4) {
	m := modelMatrix(model, local)
	uniformMat4(p.locMVP, pv.Mul4(m))
	uniformMat3(p.locNormalMatrix, normalMatrix(view.Mul4(m)))
}

// SetMaterial implements Program.
func (p *MinimumLightingProgram) SetMaterial(m *scene.Material) {
	if m != nil {
		uniformVec3(p.locDiffuseColor, m.DiffuseColor)
	}
}

// MaxNumLights implements LightingProgram.
func (p *MinimumLightingProgram) MaxNumLights() int { return minimumLightingMaxLights }

// SetLight implements LightingProgram. Only directional lights are
// representable.
func (p *MinimumLightingProgram) SetLight(index int, light *scene.Light, pose, view mgl32.Mat4, castsShadow bool) bool {
	if light.Type != scene.DirectionalLight {
		return false
	}
	uniformVec3(p.locDirections[index], lightDirection(pose, view))
	uniformVec3(p.locIntensities[index], light.Color.Mul(light.Intensity))
	return true
}

// SetNumLights implements LightingProgram.
func (p *MinimumLightingProgram) SetNumLights(n int) {
	gl.Uniform1i(p.locNumLights, int32(n))
}

// SetFog implements LightingProgram. The minimum program ignores fog.
func (p *MinimumLightingProgram) SetFog(fog *scene.Fog) {}

// PhongShadowProgram implements full Phong lighting with texturing,
// per-vertex colors, fog and up to MaxShadows shadow maps.
type PhongShadowProgram struct {
	id uint32

	locMVP          int32
	locModelView    int32
	locNormalMatrix int32
	locNumLights    int32
	lightLocs       [phongMaxLights]phongLightLocations

	locNumShadows         int32
	locShadowAntiAliasing int32
	locShadowMatrices     [MaxShadows]int32
	locShadowLightIndex   [MaxShadows]int32

	locDiffuseColor  int32
	locAmbientColor  int32
	locSpecularColor int32
	locEmissionColor int32
	locShininess     int32
	locAlpha         int32

	locTexture            int32
	locTextureEnabled     int32
	locVertexColorEnabled int32

	locFogEnabled int32
	locFogColor   int32
	locFogEnd     int32

	shadowMapProgram *ShadowMapProgram

	// Per-shadow bias*lightPV matrices, folded with the model matrix
	// on every SetTransform.
	shadowViewProjections [MaxShadows]mgl32.Mat4
	numShadows            int

	antiAliasing bool
}

type phongLightLocations struct {
	position             int32
	intensity            int32
	ambientIntensity     int32
	constantAttenuation  int32
	linearAttenuation    int32
	quadraticAttenuation int32
	direction            int32
	beamWidth            int32
	cutOffAngle          int32
}

const phongMaxLights = 10

// MaxShadows is the maximum number of simultaneous shadow maps
// supported by the full-lighting shader.
const MaxShadows = 2

// shadowBias maps clip space [-1,1] onto texture space [0,1].
var shadowBias = mgl32.Mat4{
	0.5, 0, 0, 0,
	0, 0.5, 0, 0,
	0, 0, 0.5, 0,
	0.5, 0.5, 0.5, 1,
}

// NewPhongShadowProgram creates an uninitialized full lighting
// program.
func NewPhongShadowProgram() *PhongShadowProgram {
	return &PhongShadowProgram{
		shadowMapProgram: NewShadowMapProgram(),
		antiAliasing:     true,
	}
}

// Initialize implements Program. It also initializes the nested shadow
// map generation program.
func (p *PhongShadowProgram) Initialize() error {
	if err := p.shadowMapProgram.Initialize(); err != nil {
		return fmt.Errorf("shadow map program: %w", err)
	}

	id, err := CompileProgram(glsl.PhongShadowVertexShader, glsl.PhongShadowFragmentShader)
	if err != nil {
		return err
	}
	p.id = id

	p.locMVP = GetUniform(id, "uMVP")
	p.locModelView = GetUniform(id, "uModelView")
	p.locNormalMatrix = GetUniform(id, "uNormalMatrix")
	p.locNumLights = GetUniform(id, "uNumLights")
	for i := 0; i < phongMaxLights; i++ {
		l := &p.lightLocs[i]
		prefix := fmt.Sprintf("uLights[%d].", i)
		l.position = GetUniform(id, prefix+"position")
		l.intensity = GetUniform(id, prefix+"intensity")
		l.ambientIntensity = GetUniform(id, prefix+"ambientIntensity")
		l.constantAttenuation = GetUniform(id, prefix+"constantAttenuation")
		l.linearAttenuation = GetUniform(id, prefix+"linearAttenuation")
		l.quadraticAttenuation = GetUniform(id, prefix+"quadraticAttenuation")
		l.direction = GetUniform(id, prefix+"direction")
		l.beamWidth = GetUniform(id, prefix+"beamWidth")
		l.cutOffAngle = GetUniform(id, prefix+"cutOffAngle")
	}

	p.locNumShadows = GetUniform(id, "uNumShadows")
	p.locShadowAntiAliasing = GetUniform(id, "uShadowAntiAliasing")
	for i := 0; i < MaxShadows; i++ {
		p.locShadowMatrices[i] = GetUniform(id, fmt.Sprintf("uShadowMatrices[%d]", i))
		p.locShadowLightIndex[i] = GetUniform(id, fmt.Sprintf("uShadows[%d].lightIndex", i))
	}

	p.locDiffuseColor = GetUniform(id, "uDiffuseColor")
	p.locAmbientColor = GetUniform(id, "uAmbientColor")
	p.locSpecularColor = GetUniform(id, "uSpecularColor")
	p.locEmissionColor = GetUniform(id, "uEmissionColor")
	p.locShininess = GetUniform(id, "uShininess")
	p.locAlpha = GetUniform(id, "uAlpha")

	p.locTexture = GetUniform(id, "uTexture")
	p.locTextureEnabled = GetUniform(id, "uTextureEnabled")
	p.locVertexColorEnabled = GetUniform(id, "uVertexColorEnabled")

	p.locFogEnabled = GetUniform(id, "uFogEnabled")
	p.locFogColor = GetUniform(id, "uFogColor")
	p.locFogEnd = GetUniform(id, "uFogEnd")

	// Fixed texture units: 0 for the material texture, 1..MaxShadows
	// for shadow map samplers.
	gl.UseProgram(id)
	gl.Uniform1i(p.locTexture, 0)
	for i := 0; i < MaxShadows; i++ {
		loc := GetUniform(id, fmt.Sprintf("uShadows[%d].shadowMap", i))
		gl.Uniform1i(loc, int32(1+i))
	}
	gl.UseProgram(0)

	return nil
}

// ShadowMapProgram returns the nested depth-only program used for
// shadow map generation passes.
func (p *PhongShadowProgram) ShadowMapProgram() *ShadowMapProgram {
	return p.shadowMapProgram
}

// Activate implements Program.
func (p *PhongShadowProgram) Activate() {
	gl.UseProgram(p.id)
	uniformBool(p.locShadowAntiAliasing, p.antiAliasing)
}

// Deactivate implements Program.
func (p *PhongShadowProgram) Deactivate() {}

// SetTransform implements Program.
func (p *PhongShadowProgram) SetTransform(pv, view, model mgl32.Mat4, local *mgl32.Mat4) {
	m := modelMatrix(model, local)
	modelView := view.Mul4(m)
	uniformMat4(p.locMVP, pv.Mul4(m))
	uniformMat4(p.locModelView, modelView)
	uniformMat3(p.locNormalMatrix, normalMatrix(modelView))
	for i := 0; i < p.numShadows; i++ {
		uniformMat4(p.locShadowMatrices[i], p.shadowViewProjections[i].Mul4(m))
	}
}

// SetMaterial implements Program.
func (p *PhongShadowProgram) SetMaterial(m *scene.Material) {
	if m == nil {
		return
	}
	uniformVec3(p.locDiffuseColor, m.DiffuseColor)
	uniformVec3(p.locAmbientColor, m.DiffuseColor.Mul(m.AmbientIntensity))
	uniformVec3(p.locSpecularColor, m.SpecularColor)
	uniformVec3(p.locEmissionColor, m.EmissiveColor)
	gl.Uniform1f(p.locShininess, m.Shininess)
	gl.Uniform1f(p.locAlpha, 1-m.Transparency)
}

// MaxNumLights implements LightingProgram.
func (p *PhongShadowProgram) MaxNumLights() int { return phongMaxLights }

// SetLight implements LightingProgram.
func (p *PhongShadowProgram) SetLight(index int, light *scene.Light, pose, view mgl32.Mat4, castsShadow bool) bool {
	l := &p.lightLocs[index]
	intensity := light.Color.Mul(light.Intensity)

	switch light.Type {
	case scene.DirectionalLight:
		d := lightDirection(pose, view)
		gl.Uniform4f(l.position, d.X(), d.Y(), d.Z(), 0)
		gl.Uniform1f(l.cutOffAngle, 0)
	case scene.PointLight, scene.SpotLight:
		pos := lightPosition(pose, view)
		gl.Uniform4f(l.position, pos.X(), pos.Y(), pos.Z(), 1)
		gl.Uniform1f(l.constantAttenuation, light.ConstantAttenuation)
		gl.Uniform1f(l.linearAttenuation, light.LinearAttenuation)
		gl.Uniform1f(l.quadraticAttenuation, light.QuadraticAttenuation)
		if light.Type == scene.SpotLight {
			uniformVec3(l.direction, lightDirection(pose, view).Mul(-1))
			gl.Uniform1f(l.beamWidth, light.BeamWidth)
			gl.Uniform1f(l.cutOffAngle, light.CutOffAngle)
		} else {
			gl.Uniform1f(l.cutOffAngle, 0)
		}
	default:
		return false
	}

	uniformVec3(l.intensity, intensity)
	uniformVec3(l.ambientIntensity, light.Color.Mul(light.Intensity*light.AmbientIntensity))
	return true
}

// SetNumLights implements LightingProgram.
func (p *PhongShadowProgram) SetNumLights(n int) {
	gl.Uniform1i(p.locNumLights, int32(n))
}

// SetFog implements LightingProgram.
func (p *PhongShadowProgram) SetFog(fog *scene.Fog) {
	if fog == nil || fog.VisibilityDistance <= 0 {
		uniformBool(p.locFogEnabled, false)
		return
	}
	uniformBool(p.locFogEnabled, true)
	uniformVec3(p.locFogColor, fog.Color)
	gl.Uniform1f(p.locFogEnd, fog.VisibilityDistance)
}

// SetShadowMapViewProjection records the bias-corrected
// view-projection matrix of shadow slot index, applied to every
// subsequent SetTransform.
func (p *PhongShadowProgram) SetShadowMapViewProjection(index int, lightPV mgl32.Mat4) {
	p.shadowViewProjections[index] = shadowBias.Mul4(lightPV)
}

// SetShadowLightIndex binds shadow slot index to the given light slot.
func (p *PhongShadowProgram) SetShadowLightIndex(index, lightIndex int) {
	gl.Uniform1i(p.locShadowLightIndex[index], int32(lightIndex))
}

// SetNumShadows commits the number of generated shadow maps.
func (p *PhongShadowProgram) SetNumShadows(n int) {
	p.numShadows = n
	gl.Uniform1i(p.locNumShadows, int32(n))
}

// SetTextureEnabled toggles texture sampling for the next draw.
func (p *PhongShadowProgram) SetTextureEnabled(on bool) {
	uniformBool(p.locTextureEnabled, on)
}

// SetVertexColorEnabled toggles per-vertex color input for the next
// draw.
func (p *PhongShadowProgram) SetVertexColorEnabled(on bool) {
	uniformBool(p.locVertexColorEnabled, on)
}

// SetShadowAntiAliasing toggles 3x3 percentage-closer filtering.
func (p *PhongShadowProgram) SetShadowAntiAliasing(on bool) {
	p.antiAliasing = on
}
