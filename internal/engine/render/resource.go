package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/rovergraph/scenegl/internal/scene"
)

// Resource is a cached GPU-side representation of one scene object.
// Resources are exclusively owned by the cache that created them.
type Resource interface {
	// Release frees the GPU handles. Must run on the context thread.
	// Idempotent.
	Release()

	// Discard drops the handles without GL calls, for teardown when no
	// context is current.
	Discard()
}

const maxVertexBuffers = 4

// VertexResource holds the flat GPU vertex streams of one mesh or
// plot. A subscription on the source object invalidates the resource
// (vertex count reset to zero) without freeing its handles; the next
// use rewrites the buffers in place.
type VertexResource struct {
	vao         uint32
	vbos        [maxVertexBuffers]uint32
	numBuffers  int
	numVertices int32

	// localTransform corrects normalized vertex encodings back to
	// model space; nil for float encodings.
	localTransform *mgl32.Mat4

	// normalVisualization holds generated normal direction lines when
	// the feature is enabled.
	normalVisualization *scene.LineSet

	sub scene.Subscription
}

// subscriber is the part of a scene object a vertex resource needs:
// identity plus update notification.
type subscriber interface {
	Handle() scene.Handle
	Subscribe(fn func()) scene.Subscription
}

// newVertexResource creates a resource bound to obj's update
// notification.
func newVertexResource(obj subscriber) *VertexResource {
	r := &VertexResource{}
	r.sub = obj.Subscribe(func() {
		// Invalidate only; buffers are rewritten on next use.
		r.numVertices = 0
	})
	gl.GenVertexArrays(1, &r.vao)
	return r
}

// isValid reports whether the buffers hold drawable data. Stale
// buffers of an invalidated resource are deleted on the way.
func (r *VertexResource) isValid() bool {
	if r.numVertices > 0 {
		return true
	}
	if r.numBuffers > 0 {
		r.deleteBuffers()
	}
	return false
}

// newBuffer generates and registers one more vertex buffer.
func (r *VertexResource) newBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	r.vbos[r.numBuffers] = buffer
	r.numBuffers++
	return buffer
}

func (r *VertexResource) deleteBuffers() {
	if r.numBuffers > 0 {
		gl.DeleteBuffers(int32(r.numBuffers), &r.vbos[0])
		for i := range r.vbos {
			r.vbos[i] = 0
		}
		r.numBuffers = 0
	}
	r.numVertices = 0
}

// Release implements Resource.
func (r *VertexResource) Release() {
	r.sub.Cancel()
	r.deleteBuffers()
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

// Discard implements Resource.
func (r *VertexResource) Discard() {
	r.sub.Cancel()
	r.vao = 0
	for i := range r.vbos {
		r.vbos[i] = 0
	}
	r.numBuffers = 0
	r.numVertices = 0
}

// TextureResource holds the GPU texture of one scene image. Dimensions
// and channel count are tracked so an updated image of the same shape
// reuses the allocation.
type TextureResource struct {
	loaded       bool
	updateNeeded bool
	textureID    uint32
	samplerID    uint32
	width        int
	height       int
	channels     int

	sub scene.Subscription
}

// newTextureResource creates a resource bound to the image's update
// notification.
func newTextureResource(img *scene.Image) *TextureResource {
	r := &TextureResource{}
	r.sub = img.Subscribe(func() {
		r.updateNeeded = true
	})
	return r
}

// Release implements Resource.
func (r *TextureResource) Release() {
	r.sub.Cancel()
	if r.loaded {
		if r.textureID != 0 {
			gl.DeleteTextures(1, &r.textureID)
			r.textureID = 0
		}
		if r.samplerID != 0 {
			gl.DeleteSamplers(1, &r.samplerID)
			r.samplerID = 0
		}
		r.loaded = false
	}
}

// Discard implements Resource.
func (r *TextureResource) Discard() {
	r.sub.Cancel()
	r.textureID = 0
	r.samplerID = 0
	r.loaded = false
}
