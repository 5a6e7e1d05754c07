package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/engine/shader/glsl"
	"github.com/rovergraph/scenegl/internal/scene"
)

// Program is one renderer shader program. Programs are compiled once
// at renderer initialization and switched by the pass scheduler.
type Program interface {
	// Initialize compiles and links the program and resolves uniform
	// locations. A failure is fatal to renderer startup.
	Initialize() error

	Activate()
	Deactivate()

	// SetTransform uploads the matrices for the next draw. local is an
	// optional per-resource correction matrix appended after model
	// (used for normalized vertex encodings).
	SetTransform(pv, view, model mgl32.Mat4, local *mgl32.Mat4)

	// SetMaterial applies material colors where the program supports
	// them.
	SetMaterial(m *scene.Material)
}

// modelMatrix folds the optional per-resource correction into the
// model matrix.
func modelMatrix(model mgl32.Mat4, local *mgl32.Mat4) mgl32.Mat4 {
	if local != nil {
		return model.Mul4(*local)
	}
	return model
}

func uniformMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func uniformMat3(loc int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func uniformVec3(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v.X(), v.Y(), v.Z())
}

func uniformBool(loc int32, on bool) {
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(loc, v)
}

// normalMatrix returns the inverse-transpose of the upper-left 3x3 of
// the modelview matrix.
func normalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}

// SolidColorProgram renders unlit flat color. It serves the NoLighting
// and SolidColor lighting modes, plot rendering and picking.
type SolidColorProgram struct {
	id uint32

	locMVP            int32
	locColor          int32
	locColorPerVertex int32

	color           mgl32.Vec3
	colorUploaded   bool
	colorChangeable bool
}

// NewSolidColorProgram creates an uninitialized solid color program.
func NewSolidColorProgram() *SolidColorProgram {
	return &SolidColorProgram{colorChangeable: true}
}

// Initialize implements Program.
func (p *SolidColorProgram) Initialize() error {
	id, err := CompileProgram(glsl.SolidColorVertexShader, glsl.SolidColorFragmentShader)
	if err != nil {
		return err
	}
	p.id = id
	p.locMVP = GetUniform(id, "uMVP")
	p.locColor = GetUniform(id, "uColor")
	p.locColorPerVertex = GetUniform(id, "uColorPerVertex")
	return nil
}

// Activate implements Program.
func (p *SolidColorProgram) Activate() {
	gl.UseProgram(p.id)
	p.colorUploaded = false
}

// Deactivate implements Program.
func (p *SolidColorProgram) Deactivate() {}

// SetTransform implements Program.
func (p *SolidColorProgram) SetTransform(pv, view, model mgl32.Mat4, local *mgl32.Mat4) {
	uniformMat4(p.locMVP, pv.Mul4(modelMatrix(model, local)))
}

// SetMaterial implements Program. The material's diffuse color is used
// unless the color has been pinned with SetColorChangeable(false).
func (p *SolidColorProgram) SetMaterial(m *scene.Material) {
	if m != nil {
		p.SetColor(m.DiffuseColor)
	}
}

// SetColor sets the flat draw color.
func (p *SolidColorProgram) SetColor(c mgl32.Vec3) {
	if !p.colorChangeable {
		return
	}
	if !p.colorUploaded || c != p.color {
		uniformVec3(p.locColor, c)
		p.color = c
		p.colorUploaded = true
	}
}

// SetColorChangeable pins or unpins the current color against
// SetColor/SetMaterial calls. Used by outline rendering.
func (p *SolidColorProgram) SetColorChangeable(on bool) {
	p.colorChangeable = on
}

// EnableColorArray toggles per-vertex color input.
func (p *SolidColorProgram) EnableColorArray(on bool) {
	uniformBool(p.locColorPerVertex, on)
}

// ShadowMapProgram renders depth-only geometry for shadow map
// generation.
type ShadowMapProgram struct {
	id     uint32
	locMVP int32
}

// NewShadowMapProgram creates an uninitialized shadow map program.
func NewShadowMapProgram() *ShadowMapProgram {
	return &ShadowMapProgram{}
}

// Initialize implements Program.
func (p *ShadowMapProgram) Initialize() error {
	id, err := CompileProgram(glsl.ShadowMapVertexShader, glsl.ShadowMapFragmentShader)
	if err != nil {
		return err
	}
	p.id = id
	p.locMVP = GetUniform(id, "uMVP")
	return nil
}

// Activate implements Program.
func (p *ShadowMapProgram) Activate() {
	gl.UseProgram(p.id)
}

// Deactivate implements Program.
func (p *ShadowMapProgram) Deactivate() {}

// SetTransform implements Program.
func (p *ShadowMapProgram) SetTransform(pv, view, model mgl32.Mat4, local *mgl32.Mat4) {
	uniformMat4(p.locMVP, pv.Mul4(modelMatrix(model, local)))
}

// SetMaterial implements Program. Depth-only rendering has no material.
func (p *ShadowMapProgram) SetMaterial(m *scene.Material) {}
