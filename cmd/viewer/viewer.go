package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/rovergraph/scenegl/internal/config"
	"github.com/rovergraph/scenegl/internal/engine/camera"
	"github.com/rovergraph/scenegl/internal/engine/render"
	"github.com/rovergraph/scenegl/internal/engine/window"
	"github.com/rovergraph/scenegl/internal/logger"
	"github.com/rovergraph/scenegl/internal/scene"
)

// viewer owns the window, renderer and interaction state of the demo
// application.
type viewer struct {
	cfg      *config.Config
	win      *window.Window
	renderer *render.Renderer

	root  *scene.Group
	persp *scene.PerspectiveCamera
	orbit *camera.OrbitCamera

	width, height int32

	dragging    bool
	dragMoved   bool
	normalsOn   bool
	wireframeOn bool
	mode        render.LightingMode
}

func newViewer(cfg *config.Config) (*viewer, error) {
	win, err := window.New(window.Config{
		Title:      "SceneGL Viewer",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Log:        logger.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		win.Close()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	root, bounds := buildDemoScene()

	r := render.New(root,
		render.WithLogger(logger.Log),
		render.WithShadowMapSize(int32(cfg.Renderer.ShadowMapSize)),
	)
	if err := r.Init(); err != nil {
		win.Close()
		return nil, fmt.Errorf("initialize renderer: %w", err)
	}

	mode := lightingMode(cfg.Renderer.Lighting)
	r.SetLightingMode(mode)
	r.SetShadowAntiAliasing(cfg.Renderer.ShadowAntiAliasing)
	r.SetDefaultSmoothShading(cfg.Renderer.SmoothShading)
	r.SetDefaultPointSize(cfg.Renderer.DefaultPointSize)
	r.SetDefaultLineWidth(cfg.Renderer.DefaultLineWidth)
	bg := cfg.Renderer.BackgroundColor
	r.SetBackgroundColor(mgl32.Vec3{bg[0], bg[1], bg[2]})

	sun := scene.NewDirectionalLight()
	sun.On = true
	sun.Intensity = 0.8
	sun.AmbientIntensity = 0.1
	// Aim the sun down at an angle; lights shine along their pose -Z.
	sunPose := mgl32.LookAtV(mgl32.Vec3{4, 6, 4}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}).Inv()
	r.SetLights([]render.LightInfo{{Light: sun, Pose: sunPose}})
	r.EnableShadowOfLight(0, true)

	persp := scene.NewPerspectiveCamera()
	orbit := camera.NewOrbitCamera()
	orbit.FitToBounds(bounds)

	w, h := win.GetSize()
	v := &viewer{
		cfg:      cfg,
		win:      win,
		renderer: r,
		root:     root,
		persp:    persp,
		orbit:    orbit,
		width:    int32(w),
		height:   int32(h),
		mode:     mode,
	}
	r.SetViewport(0, 0, v.width, v.height)
	return v, nil
}

func lightingMode(name string) render.LightingMode {
	switch name {
	case "minimum":
		return render.MinimumLighting
	case "none":
		return render.NoLighting
	case "solid":
		return render.SolidColorLighting
	default:
		return render.FullLighting
	}
}

func (v *viewer) run() error {
	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED {
					v.width, v.height = e.Data1, e.Data2
					v.renderer.SetViewport(0, 0, v.width, v.height)
				}

			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					if e.State == sdl.PRESSED {
						v.dragging = true
						v.dragMoved = false
					} else {
						v.dragging = false
						if !v.dragMoved {
							v.pick(e.X, e.Y)
						}
					}
				}

			case *sdl.MouseMotionEvent:
				if v.dragging {
					v.dragMoved = true
					v.orbit.HandleDrag(float32(e.XRel), float32(e.YRel))
				}

			case *sdl.MouseWheelEvent:
				v.orbit.HandleZoom(float32(e.Y))

			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN {
					v.handleKey(e.Keysym.Sym)
				}
			}
		}

		v.renderer.SetCamera(v.persp, v.orbit.Pose())
		v.renderer.Render()
		v.win.SwapBuffers()
	}
	return nil
}

func (v *viewer) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_l:
		v.mode = (v.mode + 1) % 4
		v.renderer.SetLightingMode(v.mode)
		logger.Log.Info("lighting mode changed", zap.Int("mode", int(v.mode)))
	case sdl.K_n:
		v.normalsOn = !v.normalsOn
		if v.normalsOn {
			v.renderer.ShowNormalVectors(0.05)
		} else {
			v.renderer.ShowNormalVectors(0)
		}
	case sdl.K_w:
		v.wireframeOn = !v.wireframeOn
		if v.wireframeOn {
			v.renderer.SetPolygonMode(render.LineMode)
		} else {
			v.renderer.SetPolygonMode(render.FillMode)
		}
	case sdl.K_s:
		v.renderer.ClearShadows()
	case sdl.K_UP:
		v.orbit.HandleMovement(1, 0, 0)
	case sdl.K_DOWN:
		v.orbit.HandleMovement(-1, 0, 0)
	case sdl.K_LEFT:
		v.orbit.HandleMovement(0, -1, 0)
	case sdl.K_RIGHT:
		v.orbit.HandleMovement(0, 1, 0)
	}
}

// pick resolves the scene path under a window pixel and logs it. SDL
// reports y from the top, the renderer expects it from the bottom.
func (v *viewer) pick(x, y int32) {
	found, path, point := v.renderer.Pick(x, v.height-y-1)
	if !found {
		logger.Log.Info("pick: nothing hit")
		return
	}
	kinds := make([]string, len(path))
	for i, n := range path {
		kinds[i] = kindName(n.Kind())
	}
	logger.Log.Info("picked",
		zap.Strings("path", kinds),
		zap.Float32s("point", point[:]),
	)
}

func kindName(k scene.NodeKind) string {
	switch k {
	case scene.KindGroup:
		return "group"
	case scene.KindTransform:
		return "transform"
	case scene.KindSwitch:
		return "switch"
	case scene.KindUnpickableGroup:
		return "unpickable"
	case scene.KindShape:
		return "shape"
	case scene.KindPointSet:
		return "points"
	case scene.KindLineSet:
		return "lines"
	case scene.KindOverlay:
		return "overlay"
	case scene.KindOutlineGroup:
		return "outline"
	case scene.KindSimplifiedRenderingGroup:
		return "simplified"
	}
	return "unknown"
}

func (v *viewer) close() {
	if v.renderer != nil {
		// Release GPU resources while the context is still alive.
		v.renderer.RequestClearResources()
		v.renderer.Render()
		v.renderer.Dispose()
	}
	if v.win != nil {
		v.win.Close()
	}
}
