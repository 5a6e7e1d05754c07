package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovergraph/scenegl/internal/scene"
)

func TestPickColorRoundTrip(t *testing.T) {
	for _, id := range []int{1, 2, 255, 256, 257, 65535, 65536, 123456} {
		c := EncodePickColor(id)
		pixel := [4]float32{c.X(), c.Y(), c.Z(), 1}
		assert.Equal(t, id, DecodePickID(pixel), "id %d", id)
	}
}

func TestDecodePickIDBackground(t *testing.T) {
	// The cleared framebuffer is black, which must never decode to a
	// valid ID.
	assert.Equal(t, 0, DecodePickID([4]float32{0, 0, 0, 1}))
}

func TestDecodePickIDQuantization(t *testing.T) {
	// Values read back from an 8-bit framebuffer are k/255 with small
	// driver rounding error; decoding must snap to the nearest level.
	assert.Equal(t, 7, DecodePickID([4]float32{7.0/255 + 0.001, 0, 0, 1}))
	assert.Equal(t, 7, DecodePickID([4]float32{7.0/255 - 0.001, 0, 0, 1}))
}

func TestPushPickNodeRecordsAncestry(t *testing.T) {
	r := New(scene.NewGroup())
	defer DefaultRegistry().unregister(r)
	r.isPicking = true

	g := scene.NewGroup()
	tf := scene.NewTransform()
	s := scene.NewShape(scene.NewMesh())

	idG := r.pushPickNode(g)
	idT := r.pushPickNode(tf)
	r.popPickNode()
	idS := r.pushPickNode(s)
	r.popPickNode()
	r.popPickNode()

	// Index 0 is reserved; IDs are positive and ordered by traversal.
	assert.Equal(t, 1, idG)
	assert.Equal(t, 2, idT)
	assert.Equal(t, 3, idS)

	require.Len(t, r.paths, 4)
	assert.Nil(t, r.paths[0])
	assert.Equal(t, []scene.Node{g}, r.paths[idG])
	assert.Equal(t, []scene.Node{g, tf}, r.paths[idT])
	assert.Equal(t, []scene.Node{g, s}, r.paths[idS])
	assert.Empty(t, r.currentPath)
}

func TestPushPickNodeOutsidePicking(t *testing.T) {
	r := New(scene.NewGroup())
	defer DefaultRegistry().unregister(r)

	id := r.pushPickNode(scene.NewGroup())
	r.popPickNode()
	assert.Zero(t, id)
	assert.Len(t, r.paths, 1, "no paths recorded outside picking passes")
}
