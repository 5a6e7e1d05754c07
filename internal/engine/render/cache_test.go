package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovergraph/scenegl/internal/scene"
)

type fakeResource struct {
	released  int
	discarded int
}

func (f *fakeResource) Release() { f.released++ }
func (f *fakeResource) Discard() { f.discarded++ }

func getFake(c *ResourceCache, h scene.Handle) *fakeResource {
	return c.GetOrCreate(h, func() Resource { return &fakeResource{} }).(*fakeResource)
}

func TestCacheIdentity(t *testing.T) {
	c := NewResourceCache()

	c.BeginFrame(false)
	a := getFake(c, 1)
	assert.Same(t, a, getFake(c, 1), "same handle yields same resource within a frame")
	c.EndFrame()

	c.BeginFrame(false)
	assert.Same(t, a, getFake(c, 1), "touched resources survive across frames")
	c.EndFrame()

	assert.Zero(t, a.released)
}

func TestCacheEvictsUntouched(t *testing.T) {
	c := NewResourceCache()

	c.BeginFrame(false)
	a := getFake(c, 1)
	b := getFake(c, 2)
	c.EndFrame()

	// b is not used this frame; it must be released at frame end.
	c.BeginFrame(false)
	assert.Same(t, a, getFake(c, 1))
	c.EndFrame()

	assert.Zero(t, a.released)
	assert.Equal(t, 1, b.released)

	c.BeginFrame(false)
	_, ok := c.Lookup(2)
	assert.False(t, ok, "evicted resource must be gone")
}

func TestCachePickingFramesDoNotEvict(t *testing.T) {
	c := NewResourceCache()

	c.BeginFrame(false)
	a := getFake(c, 1)
	c.EndFrame()

	// A picking frame that touches nothing must not count as disuse.
	c.BeginFrame(true)
	c.EndFrame()

	c.BeginFrame(false)
	assert.Same(t, a, getFake(c, 1), "resource must survive picking frames")
	c.EndFrame()
	assert.Zero(t, a.released)
}

func TestCacheRequestClear(t *testing.T) {
	c := NewResourceCache()

	c.BeginFrame(false)
	a := getFake(c, 1)
	c.EndFrame()

	c.RequestClear()
	assert.Zero(t, a.released, "clear is deferred to the next frame start")

	c.BeginFrame(false)
	assert.Equal(t, 1, a.released)
	b := getFake(c, 1)
	assert.NotSame(t, a, b, "cleared handle gets a fresh resource")
	c.EndFrame()
}

func TestCacheUnusedCheckDisabled(t *testing.T) {
	c := NewResourceCache()
	c.SetUnusedResourceCheck(false)

	c.BeginFrame(false)
	a := getFake(c, 1)
	c.EndFrame()

	// Several frames without touching a; nothing may be evicted.
	for i := 0; i < 3; i++ {
		c.BeginFrame(false)
		c.EndFrame()
	}

	c.BeginFrame(false)
	assert.Same(t, a, getFake(c, 1))
	c.EndFrame()
	assert.Zero(t, a.released)
}

func TestCacheDiscardAll(t *testing.T) {
	c := NewResourceCache()

	c.BeginFrame(false)
	a := getFake(c, 1)
	b := getFake(c, 2)
	c.EndFrame()

	c.DiscardAll()
	assert.Equal(t, 1, a.discarded)
	assert.Equal(t, 1, b.discarded)
	assert.Zero(t, a.released, "teardown must not issue GL releases")

	c.BeginFrame(false)
	_, ok := c.Lookup(1)
	require.False(t, ok)
}

func TestCacheLookupPrefersNextGeneration(t *testing.T) {
	c := NewResourceCache()

	c.BeginFrame(false)
	a := getFake(c, 1)
	c.EndFrame()

	// Between frames the promoted generation is the valid one.
	got, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Same(t, a, got)
}
