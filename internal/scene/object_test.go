package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleStableAndUnique(t *testing.T) {
	a := NewGroup()
	b := NewGroup()

	assert.Equal(t, a.Handle(), a.Handle(), "handle must be stable per object")
	assert.NotEqual(t, a.Handle(), b.Handle(), "handles must be unique across objects")
	assert.NotZero(t, a.Handle())
}

func TestSubscribeNotify(t *testing.T) {
	m := NewMesh()

	calls := 0
	sub := m.Subscribe(func() { calls++ })

	m.NotifyUpdate()
	m.NotifyUpdate()
	assert.Equal(t, 2, calls)

	sub.Cancel()
	m.NotifyUpdate()
	assert.Equal(t, 2, calls, "cancelled subscription must not fire")
}

func TestSubscribeMultiple(t *testing.T) {
	m := NewMesh()

	var got []int
	s1 := m.Subscribe(func() { got = append(got, 1) })
	m.Subscribe(func() { got = append(got, 2) })

	m.NotifyUpdate()
	assert.ElementsMatch(t, []int{1, 2}, got)

	s1.Cancel()
	got = nil
	m.NotifyUpdate()
	assert.Equal(t, []int{2}, got)
}

func TestCancelIsIdempotent(t *testing.T) {
	m := NewMesh()
	sub := m.Subscribe(func() {})
	sub.Cancel()
	assert.NotPanics(t, sub.Cancel)
}
