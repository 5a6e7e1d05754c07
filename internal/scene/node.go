package scene

import "github.com/go-gl/mathgl/mgl32"

// NodeKind identifies the concrete variant of a Node. The renderer
// dispatches through a dense table indexed by kind, so the values must
// stay contiguous.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindTransform
	KindSwitch
	KindUnpickableGroup
	KindShape
	KindPointSet
	KindLineSet
	KindOverlay
	KindOutlineGroup
	KindSimplifiedRenderingGroup

	NumNodeKinds int = iota
)

// Node is the interface of every scene graph node.
type Node interface {
	Kind() NodeKind
	Handle() Handle
	Subscribe(fn func()) Subscription
	NotifyUpdate()
}

// Group is an ordered container of child nodes.
type Group struct {
	Object
	children []Node
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Kind implements Node.
func (g *Group) Kind() NodeKind { return KindGroup }

// AddChild appends a child node.
func (g *Group) AddChild(n Node) {
	g.children = append(g.children, n)
}

// RemoveChild removes the first occurrence of n. Removal is not
// signalled to renderers; cached resources for the subtree are
// reclaimed by the eviction sweep.
func (g *Group) RemoveChild(n Node) bool {
	for i, c := range g.children {
		if c == n {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns the child list. Callers must not retain it across
// mutations.
func (g *Group) Children() []Node {
	return g.children
}

// NumChildren returns the number of children.
func (g *Group) NumChildren() int { return len(g.children) }

// Transform applies an affine transform to its subtree.
type Transform struct {
	Group
	M mgl32.Mat4
}

// NewTransform creates a transform node with the identity matrix.
func NewTransform() *Transform {
	return &Transform{M: mgl32.Ident4()}
}

// NewTransformM creates a transform node with the given matrix.
func NewTransformM(m mgl32.Mat4) *Transform {
	return &Transform{M: m}
}

// Kind implements Node.
func (t *Transform) Kind() NodeKind { return KindTransform }

// Switch renders its subtree only while turned on.
type Switch struct {
	Group
	on bool
}

// NewSwitch creates a switch node, initially on.
func NewSwitch() *Switch {
	return &Switch{on: true}
}

// Kind implements Node.
func (s *Switch) Kind() NodeKind { return KindSwitch }

// IsTurnedOn reports whether the subtree is rendered.
func (s *Switch) IsTurnedOn() bool { return s.on }

// SetTurnedOn switches the subtree on or off.
func (s *Switch) SetTurnedOn(on bool) {
	s.on = on
}

// UnpickableGroup renders its subtree normally but excludes it from
// picking passes.
type UnpickableGroup struct {
	Group
}

// NewUnpickableGroup creates an unpickable group.
func NewUnpickableGroup() *UnpickableGroup {
	return &UnpickableGroup{}
}

// Kind implements Node.
func (u *UnpickableGroup) Kind() NodeKind { return KindUnpickableGroup }

// ViewVolume is the orthographic volume an overlay is projected with.
type ViewVolume struct {
	Left, Right, Bottom, Top float32
	ZNear, ZFar              float32
}

// Overlay renders its subtree in screen-space with an orthographic
// projection computed from the viewport size.
type Overlay struct {
	Group

	// CalcViewVolume maps the current viewport size to the overlay's
	// projection volume. Nil yields a unit volume.
	CalcViewVolume func(viewportWidth, viewportHeight int) ViewVolume
}

// NewOverlay creates an overlay group.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Kind implements Node.
func (o *Overlay) Kind() NodeKind { return KindOverlay }

// ViewVolume returns the overlay's projection volume for the given
// viewport size.
func (o *Overlay) ViewVolume(width, height int) ViewVolume {
	if o.CalcViewVolume != nil {
		return o.CalcViewVolume(width, height)
	}
	return ViewVolume{Left: -1, Right: 1, Bottom: -1, Top: 1, ZNear: -1, ZFar: 1}
}

// OutlineGroup draws its subtree normally and then overdraws a
// silhouette outline around it.
type OutlineGroup struct {
	Group
	Color     mgl32.Vec3
	LineWidth float32
}

// NewOutlineGroup creates an outline group with a default red outline.
func NewOutlineGroup() *OutlineGroup {
	return &OutlineGroup{Color: mgl32.Vec3{1, 0, 0}, LineWidth: 1}
}

// Kind implements Node.
func (o *OutlineGroup) Kind() NodeKind { return KindOutlineGroup }

// SimplifiedRenderingGroup renders its subtree with minimum lighting
// regardless of the renderer's lighting mode, and is skipped in shadow
// map generation.
type SimplifiedRenderingGroup struct {
	Group
}

// NewSimplifiedRenderingGroup creates a simplified rendering group.
func NewSimplifiedRenderingGroup() *SimplifiedRenderingGroup {
	return &SimplifiedRenderingGroup{}
}

// Kind implements Node.
func (s *SimplifiedRenderingGroup) Kind() NodeKind { return KindSimplifiedRenderingGroup }
