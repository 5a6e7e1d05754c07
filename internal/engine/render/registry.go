package render

import (
	"sync"
)

// vertexArrayMu serializes vertex array object setup across renderers.
// Some drivers corrupt attribute bindings when BindVertexArray and
// VertexAttribPointer run concurrently on separate contexts, so every
// VAO mutation in this package goes through withVertexArrayLock.
var vertexArrayMu sync.Mutex

func withVertexArrayLock(fn func()) {
	vertexArrayMu.Lock()
	defer vertexArrayMu.Unlock()
	fn()
}

// Registry tracks every live Renderer in the process and fans
// extension functions out to them. Extensions registered before a
// renderer exists are delivered when it registers.
type Registry struct {
	mu         sync.Mutex
	renderers  []*Renderer
	extensions []func(*Renderer)
}

// defaultRegistry is the process-wide instance used by New.
var defaultRegistry = &Registry{}

// DefaultRegistry returns the registry all renderers join on creation.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// AddExtension queues fn for execution on every current and future
// renderer. It runs during the renderer's next frame, on its rendering
// goroutine.
func (g *Registry) AddExtension(fn func(*Renderer)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.extensions = append(g.extensions, fn)
	for _, r := range g.renderers {
		r.queueExtension(fn)
	}
}

func (g *Registry) register(r *Renderer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renderers = append(g.renderers, r)
	for _, fn := range g.extensions {
		r.queueExtension(fn)
	}
}

func (g *Registry) unregister(r *Renderer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, existing := range g.renderers {
		if existing == r {
			g.renderers = append(g.renderers[:i], g.renderers[i+1:]...)
			return
		}
	}
}
