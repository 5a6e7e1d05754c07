// Package render implements the scene graph renderer: multi-pass
// scheduling (shadow maps, main pass, deferred transparent pass,
// picking), a generational GPU resource cache, mesh encoding and GL
// state tracking. All rendering methods must run on the thread owning
// the GL context.
package render

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/rovergraph/scenegl/internal/engine/framebuffer"
	"github.com/rovergraph/scenegl/internal/engine/shader"
	"github.com/rovergraph/scenegl/internal/engine/shadow"
	"github.com/rovergraph/scenegl/internal/scene"
)

// LightingMode selects the shader program family for the main pass.
type LightingMode int

const (
	// FullLighting is Phong shading with textures, fog and shadows.
	FullLighting LightingMode = iota
	// MinimumLighting is diffuse-only directional lighting.
	MinimumLighting
	// NoLighting draws flat per-material color.
	NoLighting
	// SolidColorLighting draws everything in one uniform color.
	SolidColorLighting
)

// PolygonMode selects triangle rasterization for the main pass.
type PolygonMode int

const (
	FillMode PolygonMode = iota
	LineMode
	PointMode
)

// CullingMode controls back-face culling of mesh triangles.
type CullingMode int

const (
	// CullingEnabled culls back faces of meshes marked Solid.
	CullingEnabled CullingMode = iota
	// CullingDisabled never culls.
	CullingDisabled
	// CullingForced culls regardless of the Solid flag.
	CullingForced
)

// LightInfo is one scene light with its light-to-world pose, ordered
// by the scene owner.
type LightInfo struct {
	Light *scene.Light
	Pose  mgl32.Mat4
}

type nodeHandler func(*Renderer, scene.Node, mgl32.Mat4)

// deferredShape is one transparent draw postponed to the transparent
// pass, replayed in insertion order.
type deferredShape struct {
	shape  *scene.Shape
	model  mgl32.Mat4
	pickID int
}

// Renderer draws one scene graph into the current GL context.
type Renderer struct {
	log *zap.Logger
	out io.Writer

	root *scene.Group

	camera     scene.Camera
	cameraPose mgl32.Mat4

	lights    []LightInfo
	headlight *scene.Light

	fog        *scene.Fog
	fogSub     scene.Subscription
	fogChanged bool

	viewportX, viewportY          int32
	viewportWidth, viewportHeight int32

	backgroundColor mgl32.Vec3
	defaultColor    mgl32.Vec3

	lightingMode LightingMode
	polygonMode  PolygonMode
	cullingMode  CullingMode
	upsideDown   bool

	defaultSmoothShading      bool
	defaultPointSize          float32
	defaultLineWidth          float32
	normalVisualizationLength float32

	// Shadow configuration: scene light indices selected for shadow
	// casting, in selection order.
	shadowLightIndices []int
	shadowMapSize      int32
	shadowMaps         [shader.MaxShadows]*shadow.Map
	// activeShadowLights maps shadow slot -> scene light index for the
	// maps generated this frame.
	activeShadowLights []int

	cache *ResourceCache
	state glState

	solidProgram   *shader.SolidColorProgram
	noLightProgram *shader.SolidColorProgram
	minimumProgram *shader.MinimumLightingProgram
	phongProgram   *shader.PhongShadowProgram

	currentProgram  shader.Program
	currentLighting shader.LightingProgram
	programStack    []programState

	handlers [scene.NumNodeKinds]nodeHandler

	// Frame state.
	proj         mgl32.Mat4
	projView     mgl32.Mat4
	view         mgl32.Mat4
	isShadowPass bool
	isPicking    bool
	transparent  []deferredShape

	// Picking state (see picking.go).
	pickTarget  *framebuffer.PickTarget
	paths       [][]scene.Node
	currentPath []scene.Node

	initialized bool
	registry    *Registry

	extMu      sync.Mutex
	extensions []func(*Renderer)
}

type programState struct {
	program  shader.Program
	lighting shader.LightingProgram
}

// Option configures a Renderer at construction.
type Option func(*Renderer)

// WithLogger sets the structured logger. The default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithShadowMapSize overrides the shadow map resolution.
func WithShadowMapSize(size int32) Option {
	return func(r *Renderer) { r.shadowMapSize = size }
}

// New creates a renderer for the scene rooted at root and registers it
// with the process-wide registry. Init must be called on the GL thread
// before rendering.
func New(root *scene.Group, opts ...Option) *Renderer {
	headlight := scene.NewDirectionalLight()
	headlight.On = true

	r := &Renderer{
		log:                  zap.NewNop(),
		out:                  os.Stderr,
		root:                 root,
		cameraPose:           mgl32.Ident4(),
		backgroundColor:      mgl32.Vec3{0.1, 0.1, 0.3},
		defaultColor:         mgl32.Vec3{1, 1, 1},
		defaultSmoothShading: true,
		defaultPointSize:     1,
		defaultLineWidth:     1,
		shadowMapSize:        shadow.DefaultResolution,
		headlight:            headlight,
		cache:                NewResourceCache(),
		solidProgram:         shader.NewSolidColorProgram(),
		noLightProgram:       shader.NewSolidColorProgram(),
		minimumProgram:       shader.NewMinimumLightingProgram(),
		phongProgram:         shader.NewPhongShadowProgram(),
		pickTarget:           framebuffer.NewPickTarget(),
		paths:                [][]scene.Node{nil},
		registry:             DefaultRegistry(),
	}

	r.handlers = [scene.NumNodeKinds]nodeHandler{
		scene.KindGroup:                    (*Renderer).renderGroup,
		scene.KindTransform:                (*Renderer).renderTransform,
		scene.KindSwitch:                   (*Renderer).renderSwitch,
		scene.KindUnpickableGroup:          (*Renderer).renderUnpickableGroup,
		scene.KindShape:                    (*Renderer).renderShape,
		scene.KindPointSet:                 (*Renderer).renderPointSet,
		scene.KindLineSet:                  (*Renderer).renderLineSet,
		scene.KindOverlay:                  (*Renderer).renderOverlay,
		scene.KindOutlineGroup:             (*Renderer).renderOutlineGroup,
		scene.KindSimplifiedRenderingGroup: (*Renderer).renderSimplifiedGroup,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.registry.register(r)
	return r
}

// Init compiles and links all shader programs. A failure is fatal: the
// driver info log goes to the configured output writer and the
// renderer must not be used.
func (r *Renderer) Init() error {
	type namedProgram struct {
		name string
		prog shader.Program
	}
	programs := []namedProgram{
		{"solid color", r.solidProgram},
		{"no lighting", r.noLightProgram},
		{"minimum lighting", r.minimumProgram},
		{"phong shadow", r.phongProgram},
	}
	for _, p := range programs {
		if err := p.prog.Initialize(); err != nil {
			fmt.Fprintf(r.out, "shader program %q: %v\n", p.name, err)
			r.log.Error("shader program initialization failed",
				zap.String("program", p.name), zap.Error(err))
			return fmt.Errorf("initialize %s program: %w", p.name, err)
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	r.initialized = true
	r.log.Info("renderer initialized",
		zap.Int32("shadowMapSize", r.shadowMapSize))
	return nil
}

// SetOutput redirects human-readable diagnostics such as shader
// compile logs.
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

// SetViewport sets the target viewport in window coordinates.
func (r *Renderer) SetViewport(x, y, width, height int32) {
	r.viewportX, r.viewportY = x, y
	r.viewportWidth, r.viewportHeight = width, height
	gl.Viewport(x, y, width, height)
}

// SetCamera sets the projection camera and its camera-to-world pose
// for subsequent frames.
func (r *Renderer) SetCamera(camera scene.Camera, pose mgl32.Mat4) {
	r.camera = camera
	r.cameraPose = pose
}

// SetLights replaces the ordered scene light list. Shadow light
// indices refer to positions in this list.
func (r *Renderer) SetLights(lights []LightInfo) {
	r.lights = lights
}

// HeadLight returns the built-in camera-attached light. It fills
// remaining light slots when the scene lights do not exhaust the
// shader's capacity.
func (r *Renderer) HeadLight() *scene.Light {
	return r.headlight
}

// SetFog sets the active fog; nil disables it. Later calls win, and
// fog parameter updates re-upload lazily.
func (r *Renderer) SetFog(fog *scene.Fog) {
	if r.fog == fog {
		return
	}
	r.fogSub.Cancel()
	r.fog = fog
	r.fogChanged = true
	if fog != nil {
		r.fogSub = fog.Subscribe(func() { r.fogChanged = true })
	}
}

// SetLightingMode selects the main pass program family.
func (r *Renderer) SetLightingMode(mode LightingMode) {
	if r.lightingMode != mode {
		r.lightingMode = mode
		r.fogChanged = true
	}
}

// SetBackFaceCullingMode controls triangle back-face culling.
func (r *Renderer) SetBackFaceCullingMode(mode CullingMode) {
	r.cullingMode = mode
}

// SetPolygonMode selects fill, wireframe or point rasterization.
func (r *Renderer) SetPolygonMode(mode PolygonMode) {
	r.polygonMode = mode
}

// SetUpsideDown flips the rendered image vertically.
func (r *Renderer) SetUpsideDown(on bool) {
	r.upsideDown = on
}

// SetBackgroundColor sets the clear color of visible frames.
func (r *Renderer) SetBackgroundColor(c mgl32.Vec3) {
	r.backgroundColor = c
}

// SetDefaultColor sets the color used when a drawable has no material.
func (r *Renderer) SetDefaultColor(c mgl32.Vec3) {
	r.defaultColor = c
}

// SetDefaultPointSize sets the point size for point sets that do not
// specify one.
func (r *Renderer) SetDefaultPointSize(size float32) {
	r.defaultPointSize = size
}

// SetDefaultLineWidth sets the line width for line sets that do not
// specify one.
func (r *Renderer) SetDefaultLineWidth(width float32) {
	r.defaultLineWidth = width
}

// SetDefaultSmoothShading toggles smooth shading for meshes. Cached
// vertex streams encode the choice, so changing it clears the cache.
func (r *Renderer) SetDefaultSmoothShading(on bool) {
	if r.defaultSmoothShading != on {
		r.defaultSmoothShading = on
		r.cache.RequestClear()
	}
}

// ShowNormalVectors enables drawing of normal direction lines of the
// given length; zero or negative disables. Changing the length clears
// the cache so the lines are regenerated.
func (r *Renderer) ShowNormalVectors(length float32) {
	if r.normalVisualizationLength != length {
		r.normalVisualizationLength = length
		r.cache.RequestClear()
	}
}

// EnableShadowOfLight selects or deselects scene light index as a
// shadow caster. At most shader.MaxShadows casters are honored per
// frame, in selection order.
func (r *Renderer) EnableShadowOfLight(index int, on bool) {
	for i, existing := range r.shadowLightIndices {
		if existing == index {
			if !on {
				r.shadowLightIndices = append(r.shadowLightIndices[:i], r.shadowLightIndices[i+1:]...)
			}
			return
		}
	}
	if on {
		r.shadowLightIndices = append(r.shadowLightIndices, index)
	}
}

// ClearShadows deselects all shadow casters.
func (r *Renderer) ClearShadows() {
	r.shadowLightIndices = r.shadowLightIndices[:0]
}

// SetShadowAntiAliasing toggles shadow edge filtering.
func (r *Renderer) SetShadowAntiAliasing(on bool) {
	r.phongProgram.SetShadowAntiAliasing(on)
}

// EnableUnusedResourceCheck toggles the per-frame eviction sweep of
// GPU resources whose scene objects are gone.
func (r *Renderer) EnableUnusedResourceCheck(on bool) {
	r.cache.SetUnusedResourceCheck(on)
}

// RequestClearResources schedules all cached GPU resources to be
// released at the start of the next frame.
func (r *Renderer) RequestClearResources() {
	r.cache.RequestClear()
}

// queueExtension records fn for execution at the start of the next
// frame, on the rendering thread.
func (r *Renderer) queueExtension(fn func(*Renderer)) {
	r.extMu.Lock()
	r.extensions = append(r.extensions, fn)
	r.extMu.Unlock()
}

func (r *Renderer) drainExtensions() {
	r.extMu.Lock()
	pending := r.extensions
	r.extensions = nil
	r.extMu.Unlock()
	for _, fn := range pending {
		fn(r)
	}
}

// Render draws one visible frame: shadow passes, main pass and the
// deferred transparent pass. Must run on the GL thread.
func (r *Renderer) Render() {
	r.drainExtensions()
	r.state.reset()
	r.cache.BeginFrame(false)
	r.renderScene(false)
	r.cache.EndFrame()
}

// Flush forces submission of buffered GL commands.
func (r *Renderer) Flush() {
	gl.Flush()
}

// Dispose drops all cached GPU handles without GL calls and removes
// the renderer from the registry. For teardown after the GL context is
// gone; otherwise call RequestClearResources and render a final frame
// first.
func (r *Renderer) Dispose() {
	r.fogSub.Cancel()
	r.cache.DiscardAll()
	r.registry.unregister(r)
	r.log.Info("renderer disposed")
}

// renderScene runs the frame's passes with the current camera.
func (r *Renderer) renderScene(picking bool) {
	if !r.initialized || r.camera == nil || r.root == nil {
		return
	}
	r.isPicking = picking
	r.transparent = r.transparent[:0]

	aspect := float32(1)
	if r.viewportHeight > 0 {
		aspect = float32(r.viewportWidth) / float32(r.viewportHeight)
	}
	proj := r.camera.ProjectionMatrix(aspect)
	if r.upsideDown && !picking {
		proj = mgl32.Scale3D(1, -1, 1).Mul4(proj)
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
	r.proj = proj
	r.view = r.cameraPose.Inv()
	r.projView = proj.Mul4(r.view)

	numShadows := 0
	if !picking && r.lightingMode == FullLighting {
		numShadows = r.renderShadowMaps()
	}

	r.beginMainPass(numShadows)
	r.renderNode(r.root, mgl32.Ident4())
	r.renderTransparentObjects()

	if !picking && r.polygonMode != FillMode {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	r.isPicking = false
}

// renderShadowMaps generates one depth map per selected shadow light
// and returns how many were produced. Off lights and lights without a
// valid shadow camera are skipped.
func (r *Renderer) renderShadowMaps() int {
	r.activeShadowLights = r.activeShadowLights[:0]
	if len(r.shadowLightIndices) == 0 {
		return 0
	}

	bounds := r.sceneBounds()
	prog := r.phongProgram.ShadowMapProgram()
	r.setProgram(prog, nil)
	prog.Activate()
	r.isShadowPass = true

	slot := 0
	for _, lightIndex := range r.shadowLightIndices {
		if slot >= shader.MaxShadows {
			break
		}
		if lightIndex < 0 || lightIndex >= len(r.lights) {
			continue
		}
		li := r.lights[lightIndex]
		if li.Light == nil || !li.Light.On {
			continue
		}
		cam, pose, ok := shadow.CameraForLight(li.Light, li.Pose, bounds)
		if !ok {
			continue
		}

		sm := r.shadowMaps[slot]
		if sm == nil {
			sm = shadow.NewMap(r.shadowMapSize)
			if sm == nil {
				r.log.Error("shadow map framebuffer incomplete",
					zap.Int("light", lightIndex))
				continue
			}
			r.shadowMaps[slot] = sm
		}
		sm.Bind()
		gl.Clear(gl.DEPTH_BUFFER_BIT)

		lightPV := cam.ProjectionMatrix(1).Mul4(pose.Inv())
		saved := r.projView
		r.projView = lightPV
		r.renderNode(r.root, mgl32.Ident4())
		r.projView = saved
		sm.Unbind()

		r.phongProgram.SetShadowMapViewProjection(slot, lightPV)
		r.activeShadowLights = append(r.activeShadowLights, lightIndex)
		slot++
	}

	r.isShadowPass = false
	gl.Viewport(r.viewportX, r.viewportY, r.viewportWidth, r.viewportHeight)
	return slot
}

// beginMainPass clears the target and activates the program family of
// the current lighting mode, uploading lights, fog and shadow
// bindings.
func (r *Renderer) beginMainPass(numShadows int) {
	if r.isPicking {
		gl.ClearColor(0, 0, 0, 1)
	} else {
		c := r.backgroundColor
		gl.ClearColor(c.X(), c.Y(), c.Z(), 1)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	if !r.isPicking && r.polygonMode != FillMode {
		mode := uint32(gl.LINE)
		if r.polygonMode == PointMode {
			mode = gl.POINT
		}
		gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	}

	switch {
	case r.isPicking:
		r.setProgram(r.noLightProgram, nil)
		r.noLightProgram.Activate()
		r.noLightProgram.EnableColorArray(false)

	case r.lightingMode == NoLighting:
		r.setProgram(r.noLightProgram, nil)
		r.noLightProgram.Activate()
		r.noLightProgram.EnableColorArray(false)

	case r.lightingMode == SolidColorLighting:
		r.setProgram(r.solidProgram, nil)
		r.solidProgram.Activate()
		r.solidProgram.EnableColorArray(false)
		r.solidProgram.SetColor(r.defaultColor)

	case r.lightingMode == MinimumLighting:
		r.setProgram(r.minimumProgram, r.minimumProgram)
		r.minimumProgram.Activate()
		r.renderLights(r.minimumProgram)

	default: // FullLighting
		r.setProgram(r.phongProgram, r.phongProgram)
		r.phongProgram.Activate()
		r.phongProgram.SetNumShadows(numShadows)
		for slot := 0; slot < numShadows; slot++ {
			r.shadowMaps[slot].BindTexture(uint32(1 + slot))
		}
		gl.ActiveTexture(gl.TEXTURE0)
		r.renderLights(r.phongProgram)
		if r.fogChanged {
			r.phongProgram.SetFog(r.fog)
			r.fogChanged = false
		}
	}
}

// renderLights uploads scene lights up to the program's capacity, in
// order, and fills a remaining slot with the headlight. Shadow slots
// are rebound to the uploaded light indices.
func (r *Renderer) renderLights(prog shader.LightingProgram) {
	max := prog.MaxNumLights()
	n := 0
	for i, li := range r.lights {
		if n >= max {
			break
		}
		if li.Light == nil || !li.Light.On {
			continue
		}
		casts := false
		for _, lightIndex := range r.activeShadowLights {
			if lightIndex == i {
				casts = true
				break
			}
		}
		if prog.SetLight(n, li.Light, li.Pose, r.view, casts) {
			if casts && prog == shader.LightingProgram(r.phongProgram) {
				for slot, lightIndex := range r.activeShadowLights {
					if lightIndex == i {
						r.phongProgram.SetShadowLightIndex(slot, n)
					}
				}
			}
			n++
		}
	}
	if n < max && r.headlight.On {
		if prog.SetLight(n, r.headlight, r.cameraPose, r.view, false) {
			n++
		}
	}
	prog.SetNumLights(n)
}

// renderTransparentObjects replays deferred draws in insertion order
// with blending on and depth writes off. Picking frames replay them
// with pick colors and no blend state changes.
func (r *Renderer) renderTransparentObjects() {
	if len(r.transparent) == 0 {
		return
	}
	if !r.isPicking {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	}
	for _, d := range r.transparent {
		r.drawShape(d.shape, d.model, d.pickID)
	}
	if !r.isPicking {
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	r.transparent = r.transparent[:0]
}

// RenderNode dispatches one node through the kind handler table.
// Extensions may call it to draw custom subtrees mid-frame.
func (r *Renderer) RenderNode(n scene.Node, model mgl32.Mat4) {
	r.renderNode(n, model)
}

func (r *Renderer) renderNode(n scene.Node, model mgl32.Mat4) {
	if h := r.handlers[n.Kind()]; h != nil {
		h(r, n, model)
	}
}

// setProgram switches the active program pointers without touching GL;
// callers activate as needed.
func (r *Renderer) setProgram(p shader.Program, lighting shader.LightingProgram) {
	r.currentProgram = p
	r.currentLighting = lighting
}

// pushProgram activates p for a subtree; popProgram restores the
// previous one.
func (r *Renderer) pushProgram(p shader.Program, lighting shader.LightingProgram) {
	r.programStack = append(r.programStack, programState{r.currentProgram, r.currentLighting})
	r.setProgram(p, lighting)
	p.Activate()
}

func (r *Renderer) popProgram() {
	top := r.programStack[len(r.programStack)-1]
	r.programStack = r.programStack[:len(r.programStack)-1]
	r.setProgram(top.program, top.lighting)
	if top.program != nil {
		top.program.Activate()
	}
}

func (r *Renderer) renderGroup(n scene.Node, model mgl32.Mat4) {
	g := n.(*scene.Group)
	r.pushPickNode(n)
	r.renderChildren(g, model)
	r.popPickNode()
}

func (r *Renderer) renderChildren(g *scene.Group, model mgl32.Mat4) {
	for _, child := range g.Children() {
		r.renderNode(child, model)
	}
}

func (r *Renderer) renderTransform(n scene.Node, model mgl32.Mat4) {
	t := n.(*scene.Transform)
	r.pushPickNode(n)
	r.renderChildren(&t.Group, model.Mul4(t.M))
	r.popPickNode()
}

func (r *Renderer) renderSwitch(n scene.Node, model mgl32.Mat4) {
	s := n.(*scene.Switch)
	if !s.IsTurnedOn() {
		return
	}
	r.pushPickNode(n)
	r.renderChildren(&s.Group, model)
	r.popPickNode()
}

// renderUnpickableGroup renders its subtree in visible frames only;
// picking passes skip it entirely.
func (r *Renderer) renderUnpickableGroup(n scene.Node, model mgl32.Mat4) {
	if r.isPicking {
		return
	}
	u := n.(*scene.UnpickableGroup)
	r.renderChildren(&u.Group, model)
}

// renderShape draws a mesh shape, deferring transparent ones to the
// transparent pass with their pick identity captured.
func (r *Renderer) renderShape(n scene.Node, model mgl32.Mat4) {
	shape := n.(*scene.Shape)
	mesh := shape.Mesh
	if mesh == nil || !mesh.HasVertices() || len(mesh.TriangleVertices) == 0 {
		return
	}

	id := r.pushPickNode(n)
	if shape.Transparency() > 0 {
		// Transparent shapes cast no shadows; in visible passes they
		// are deferred to the transparent pass.
		if !r.isShadowPass {
			r.transparent = append(r.transparent, deferredShape{shape, model, id})
		}
	} else {
		r.drawShape(shape, model, id)
	}
	r.popPickNode()
}

// drawShape performs the actual draw of a shape's mesh with the
// current program.
func (r *Renderer) drawShape(shape *scene.Shape, model mgl32.Mat4, pickID int) {
	mesh := shape.Mesh

	textureActive := false
	if !r.isPicking && !r.isShadowPass {
		if shape.Texture != nil && mesh.HasTexCoords() {
			textureActive = r.renderTexture(shape.Texture)
		}
		if p, ok := r.currentProgram.(*shader.PhongShadowProgram); ok {
			p.SetTextureEnabled(textureActive)
			p.SetVertexColorEnabled(mesh.HasColors())
		}
		material := shape.Material
		if material == nil {
			material = defaultMaterial(r.defaultColor)
		}
		r.currentProgram.SetMaterial(material)
	} else if r.isPicking {
		r.setPickColor(pickID)
	}

	res := r.vertexResource(mesh)
	if !res.isValid() {
		var texture *scene.Texture
		if textureActive {
			texture = shape.Texture
		}
		r.writeMeshVertices(mesh, res, texture)
		if !res.isValid() {
			return
		}
	}

	if r.cullingMode == CullingForced || (r.cullingMode == CullingEnabled && mesh.Solid) {
		r.state.setCullFace(true)
	} else {
		r.state.setCullFace(false)
	}

	r.currentProgram.SetTransform(r.projView, r.view, model, res.localTransform)
	gl.BindVertexArray(res.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, res.numVertices)

	if res.normalVisualization != nil && !r.isPicking && !r.isShadowPass {
		r.drawLineSet(res.normalVisualization, model, 0)
	}
}

// vertexResource returns the cached vertex resource of a mesh or plot,
// creating it on first use.
func (r *Renderer) vertexResource(obj subscriber) *VertexResource {
	res := r.cache.GetOrCreate(obj.Handle(), func() Resource {
		return newVertexResource(obj)
	})
	return res.(*VertexResource)
}

func defaultMaterial(color mgl32.Vec3) *scene.Material {
	m := scene.NewMaterial()
	m.DiffuseColor = color
	return m
}

// renderPointSet draws a point set with the solid color program.
func (r *Renderer) renderPointSet(n scene.Node, model mgl32.Mat4) {
	ps := n.(*scene.PointSet)
	if !ps.HasVertices() {
		return
	}
	size := ps.PointSize
	if size <= 0 {
		size = r.defaultPointSize
	}
	if r.isPicking && size < MinLineWidthForPicking {
		size = MinLineWidthForPicking
	}

	id := r.pushPickNode(n)
	r.state.setPointSize(size)
	r.drawPlot(&ps.Plot, model, id, gl.POINTS, func(res *VertexResource) {
		r.writePlotVertices(&ps.Plot, res, ps.Vertices)
	})
	r.popPickNode()
}

// renderLineSet draws a line set with the solid color program.
func (r *Renderer) renderLineSet(n scene.Node, model mgl32.Mat4) {
	ls := n.(*scene.LineSet)
	if !ls.HasVertices() || ls.NumLines() == 0 {
		return
	}
	id := r.pushPickNode(n)
	r.drawLineSet(ls, model, id)
	r.popPickNode()
}

func (r *Renderer) drawLineSet(ls *scene.LineSet, model mgl32.Mat4, pickID int) {
	width := ls.LineWidth
	if width <= 0 {
		width = r.defaultLineWidth
	}
	if r.isPicking && width < MinLineWidthForPicking {
		width = MinLineWidthForPicking
	}
	r.state.setLineWidth(width)
	r.drawPlot(&ls.Plot, model, pickID, gl.LINES, func(res *VertexResource) {
		vertices := make([]mgl32.Vec3, 0, len(ls.LineVertices))
		for _, vi := range ls.LineVertices {
			vertices = append(vertices, ls.Vertices[vi])
		}
		r.writePlotVertices(&ls.Plot, res, vertices)
	})
}

// drawPlot draws point/line primitives through the solid color
// program, honoring per-vertex colors when present.
func (r *Renderer) drawPlot(plot *scene.Plot, model mgl32.Mat4, pickID int, primitive uint32, write func(*VertexResource)) {
	usingSolid := false
	if !r.isPicking {
		if _, ok := r.currentProgram.(*shader.SolidColorProgram); !ok {
			r.pushProgram(r.solidProgram, nil)
			usingSolid = true
		}
	}

	prog, _ := r.currentProgram.(*shader.SolidColorProgram)
	if r.isPicking {
		r.setPickColor(pickID)
	} else if prog != nil {
		prog.EnableColorArray(plot.HasColors())
		if plot.Material != nil {
			prog.SetColor(plot.Material.DiffuseColor)
		} else if !plot.HasColors() {
			prog.SetColor(r.defaultColor)
		}
	}

	res := r.vertexResource(plot)
	if !res.isValid() {
		write(res)
	}
	if res.isValid() {
		r.state.setCullFace(false)
		r.currentProgram.SetTransform(r.projView, r.view, model, res.localTransform)
		gl.BindVertexArray(res.vao)
		gl.DrawArrays(primitive, 0, res.numVertices)
	}

	if prog != nil && !r.isPicking {
		prog.EnableColorArray(false)
	}
	if usingSolid {
		r.popProgram()
	}
}

// renderOverlay draws its subtree in screen space with an orthographic
// projection from the overlay's view volume callback.
func (r *Renderer) renderOverlay(n scene.Node, model mgl32.Mat4) {
	if r.isShadowPass {
		return
	}
	o := n.(*scene.Overlay)

	vv := o.ViewVolume(int(r.viewportWidth), int(r.viewportHeight))
	savedPV, savedView := r.projView, r.view
	r.projView = mgl32.Ortho(vv.Left, vv.Right, vv.Bottom, vv.Top, vv.ZNear, vv.ZFar)
	r.view = mgl32.Ident4()

	gl.Disable(gl.DEPTH_TEST)
	if !r.isPicking {
		r.pushProgram(r.solidProgram, nil)
		r.solidProgram.EnableColorArray(false)
		r.solidProgram.SetColor(r.defaultColor)
	}

	r.pushPickNode(n)
	r.renderChildren(&o.Group, mgl32.Ident4())
	r.popPickNode()

	if !r.isPicking {
		r.popProgram()
	}
	gl.Enable(gl.DEPTH_TEST)
	r.projView, r.view = savedPV, savedView
}

// renderOutlineGroup draws its subtree normally while marking the
// stencil, then redraws it in wireframe where the stencil is clear to
// produce a silhouette outline.
func (r *Renderer) renderOutlineGroup(n scene.Node, model mgl32.Mat4) {
	o := n.(*scene.OutlineGroup)
	if r.isPicking || r.isShadowPass {
		r.pushPickNode(n)
		r.renderChildren(&o.Group, model)
		r.popPickNode()
		return
	}

	// Each group marks a freshly cleared stencil so nested or sibling
	// outlines do not suppress one another.
	gl.ClearStencil(0)
	gl.Clear(gl.STENCIL_BUFFER_BIT)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilFunc(gl.ALWAYS, 1, 0xff)
	gl.StencilOp(gl.KEEP, gl.REPLACE, gl.REPLACE)
	r.renderChildren(&o.Group, model)

	gl.StencilFunc(gl.NOTEQUAL, 1, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
	gl.Disable(gl.DEPTH_TEST)

	r.pushProgram(r.solidProgram, nil)
	r.solidProgram.EnableColorArray(false)
	r.solidProgram.SetColor(o.Color)
	r.solidProgram.SetColorChangeable(false)
	r.state.setLineWidth(outlineLineWidth(o.LineWidth))
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)

	r.renderChildren(&o.Group, model)

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	r.solidProgram.SetColorChangeable(true)
	r.popProgram()
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.STENCIL_TEST)
}

// outlineLineWidth widens the silhouette so it stays visible around
// the stencil-masked interior; zero or less falls back to a one pixel
// base width.
func outlineLineWidth(width float32) float32 {
	if width <= 0 {
		width = 1
	}
	return width*2 + 1
}

// renderSimplifiedGroup renders its subtree with the minimum lighting
// program when full lighting is active. The subtree is excluded from
// shadow map generation.
func (r *Renderer) renderSimplifiedGroup(n scene.Node, model mgl32.Mat4) {
	if r.isShadowPass {
		return
	}
	s := n.(*scene.SimplifiedRenderingGroup)

	simplify := !r.isPicking && r.currentProgram == shader.Program(r.phongProgram)
	if simplify {
		r.pushProgram(r.minimumProgram, r.minimumProgram)
		r.renderLights(r.minimumProgram)
	}

	r.pushPickNode(n)
	r.renderChildren(&s.Group, model)
	r.popPickNode()

	if simplify {
		r.popProgram()
	}
}

// sceneBounds computes the world-space bounds of all mesh and plot
// geometry, used to size directional shadow volumes.
func (r *Renderer) sceneBounds() scene.BoundingBox {
	box := scene.EmptyBoundingBox()
	if r.root != nil {
		accumulateBounds(r.root, mgl32.Ident4(), &box)
	}
	if box.Empty() {
		box.Extend(mgl32.Vec3{-1, -1, -1})
		box.Extend(mgl32.Vec3{1, 1, 1})
	}
	return box
}

func accumulateBounds(n scene.Node, model mgl32.Mat4, box *scene.BoundingBox) {
	switch node := n.(type) {
	case *scene.Shape:
		if node.Mesh != nil {
			extendByBox(box, node.Mesh.BoundingBox(), model)
		}
	case *scene.PointSet:
		extendByVertices(box, node.Vertices, model)
	case *scene.LineSet:
		extendByVertices(box, node.Vertices, model)
	case *scene.Overlay:
		// Screen-space content casts no shadows.
	case *scene.Switch:
		if node.IsTurnedOn() {
			for _, child := range node.Children() {
				accumulateBounds(child, model, box)
			}
		}
	case *scene.Transform:
		for _, child := range node.Children() {
			accumulateBounds(child, model.Mul4(node.M), box)
		}
	case *scene.Group:
		for _, child := range node.Children() {
			accumulateBounds(child, model, box)
		}
	default:
		if g, ok := groupOf(n); ok {
			for _, child := range g.Children() {
				accumulateBounds(child, model, box)
			}
		}
	}
}

// groupOf extracts the embedded Group of composite group nodes.
func groupOf(n scene.Node) (*scene.Group, bool) {
	switch node := n.(type) {
	case *scene.UnpickableGroup:
		return &node.Group, true
	case *scene.OutlineGroup:
		return &node.Group, true
	case *scene.SimplifiedRenderingGroup:
		return &node.Group, true
	}
	return nil, false
}

func extendByBox(box *scene.BoundingBox, b scene.BoundingBox, model mgl32.Mat4) {
	if b.Empty() {
		return
	}
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			corner[0] = b.Max.X()
		}
		if i&2 != 0 {
			corner[1] = b.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = b.Max.Z()
		}
		box.Extend(model.Mul4x1(corner.Vec4(1)).Vec3())
	}
}

func extendByVertices(box *scene.BoundingBox, vertices []mgl32.Vec3, model mgl32.Mat4) {
	for _, v := range vertices {
		box.Extend(model.Mul4x1(v.Vec4(1)).Vec3())
	}
}
