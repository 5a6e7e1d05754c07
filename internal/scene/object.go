// Package scene defines the renderer-facing scene graph data model:
// node variants, meshes, materials, lights and cameras. Scene objects
// are owned by the caller; the renderer holds non-owning references
// plus change-notification subscriptions.
package scene

import (
	"sync"
	"sync/atomic"
)

// Handle is a stable process-wide identifier issued to every scene
// object at creation. GPU resource caches key on handles instead of
// pointers, so resource lifetime never depends on object addresses.
type Handle uint64

var handleCounter atomic.Uint64

// Object is the embeddable base of every scene object. It carries the
// identity handle and the update-notification subscriber list.
type Object struct {
	handleOnce sync.Once
	handle     Handle

	mu          sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// Handle returns the object's identity handle, issuing one on first use.
func (o *Object) Handle() Handle {
	o.handleOnce.Do(func() {
		o.handle = Handle(handleCounter.Add(1))
	})
	return o.handle
}

// Subscription is a cancellation token for an update subscription.
type Subscription struct {
	obj *Object
	id  int
}

// Subscribe registers fn to be called on every NotifyUpdate. The
// returned token cancels the subscription; the object keeps no other
// reference to the subscriber.
func (o *Object) Subscribe(fn func()) Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subscribers == nil {
		o.subscribers = make(map[int]func())
	}
	o.nextSubID++
	id := o.nextSubID
	o.subscribers[id] = fn
	return Subscription{obj: o, id: id}
}

// Cancel removes the subscription. Safe to call on a zero token or
// more than once.
func (s Subscription) Cancel() {
	if s.obj == nil {
		return
	}
	s.obj.mu.Lock()
	delete(s.obj.subscribers, s.id)
	s.obj.mu.Unlock()
}

// NotifyUpdate synchronously invokes all subscribers. Callers invoke
// it after mutating the object's data.
func (o *Object) NotifyUpdate() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.subscribers))
	for _, fn := range o.subscribers {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
