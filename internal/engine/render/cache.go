package render

import "github.com/rovergraph/scenegl/internal/scene"

// ResourceCache maps scene object handles to GPU resources across
// frames with amortized eviction. Two generations alternate: every
// resource looked up during a frame is carried into the next
// generation, and whatever is left in the outgoing one at frame end
// is released. Resources of removed scene objects therefore disappear
// one frame after their last use without any explicit deletion
// protocol.
type ResourceCache struct {
	maps         [2]map[scene.Handle]Resource
	currentIndex int

	hasValidNext   bool
	clearRequested bool

	// checkEnabled is the sticky configuration flag; checking is its
	// per-frame incarnation (disabled during picking passes).
	checkEnabled bool
	checking     bool
}

// NewResourceCache creates an empty cache with eviction enabled.
func NewResourceCache() *ResourceCache {
	return &ResourceCache{
		maps: [2]map[scene.Handle]Resource{
			make(map[scene.Handle]Resource),
			make(map[scene.Handle]Resource),
		},
		checkEnabled: true,
	}
}

func (c *ResourceCache) current() map[scene.Handle]Resource {
	return c.maps[c.currentIndex]
}

func (c *ResourceCache) next() map[scene.Handle]Resource {
	return c.maps[1-c.currentIndex]
}

// RequestClear schedules both generations to be dropped at the start
// of the next frame.
func (c *ResourceCache) RequestClear() {
	c.clearRequested = true
}

// SetUnusedResourceCheck enables or disables the eviction sweep.
func (c *ResourceCache) SetUnusedResourceCheck(on bool) {
	if !on {
		// Entries are shared with the current generation, so dropping
		// the next map releases nothing.
		clear(c.next())
	}
	c.checkEnabled = on
}

// BeginFrame services a pending clear request and promotes the prior
// next generation to current. Eviction accounting is suspended for
// picking frames.
func (c *ResourceCache) BeginFrame(picking bool) {
	c.checking = c.checkEnabled && !picking

	if c.clearRequested {
		c.releaseAll()
		c.hasValidNext = false
		c.checking = false
		c.clearRequested = false
	}
	if c.hasValidNext {
		c.currentIndex = 1 - c.currentIndex
		c.hasValidNext = false
	}
}

// EndFrame runs the eviction sweep: resources left untouched in the
// outgoing generation are released, and the populated next generation
// becomes eligible for promotion.
func (c *ResourceCache) EndFrame() {
	if !c.checking {
		return
	}
	cur, next := c.current(), c.next()
	for h, r := range cur {
		if _, touched := next[h]; !touched {
			r.Release()
		}
	}
	clear(cur)
	c.hasValidNext = true
}

// GetOrCreate returns the resource cached for the handle, creating and
// registering one otherwise. The entry is carried into the next
// generation when eviction accounting is active.
func (c *ResourceCache) GetOrCreate(h scene.Handle, create func() Resource) Resource {
	cur := c.current()
	r, ok := cur[h]
	if !ok {
		r = create()
		cur[h] = r
	}
	if c.checking {
		c.next()[h] = r
	}
	return r
}

// Lookup returns the cached resource without touch accounting,
// preferring the next generation when one is being populated.
func (c *ResourceCache) Lookup(h scene.Handle) (Resource, bool) {
	if c.hasValidNext {
		if r, ok := c.next()[h]; ok {
			return r, true
		}
	}
	r, ok := c.current()[h]
	return r, ok
}

// releaseAll frees every resource in both generations exactly once.
func (c *ResourceCache) releaseAll() {
	seen := make(map[Resource]struct{})
	for i := range c.maps {
		for _, r := range c.maps[i] {
			if _, dup := seen[r]; !dup {
				seen[r] = struct{}{}
				r.Release()
			}
		}
		clear(c.maps[i])
	}
}

// DiscardAll drops all cached handles without GL calls. Used at
// renderer teardown when the GL context may be gone.
func (c *ResourceCache) DiscardAll() {
	for i := range c.maps {
		for _, r := range c.maps[i] {
			r.Discard()
		}
		clear(c.maps[i])
	}
}
