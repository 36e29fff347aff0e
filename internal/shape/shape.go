// Package shape is the editable shape tree: shapes, their snapshots, the
// kind registry and the manager that owns every live shape.
package shape

import (
	"github.com/planform/planform/backend-go/internal/geom"
)

// MinSize is the smallest width or height a shape may have.
const MinSize = 10.0

// Kind names a registered shape type.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindArc       Kind = "arc"
	KindPolygon   Kind = "polygon"
	KindContainer Kind = "container"
	KindTemplate  Kind = "template"
)

// Transform is a shape's placement. X and Y are the centre, relative to the
// parent container's centre and in the parent's unrotated frame for nested
// shapes. Rotation is in radians.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// Position returns the stored centre.
func (t Transform) Position() geom.Point {
	return geom.Point{X: t.X, Y: t.Y}
}

// Metadata travels with a shape through snapshots and instructions.
type Metadata struct {
	Version   int64  `json:"version"`
	LabelText string `json:"labelText,omitempty"`
}

// Shape is a live node in the tree. It is owned by a Manager and is not safe
// for concurrent use.
type Shape struct {
	id        string
	kind      Kind
	container bool
	transform Transform
	params    Params
	metadata  Metadata

	parent   *Shape
	children []*Shape
}

func (s *Shape) ID() string              { return s.id }
func (s *Shape) Kind() Kind              { return s.kind }
func (s *Shape) IsContainer() bool       { return s.container }
func (s *Shape) Transform() Transform    { return s.transform }
func (s *Shape) Metadata() Metadata      { return s.metadata }
func (s *Shape) Parent() *Shape          { return s.parent }
func (s *Shape) Param(key string) any    { return s.params[key] }
func (s *Shape) Params() Params          { return s.params.Clone() }
func (s *Shape) Children() []*Shape      { return append([]*Shape(nil), s.children...) }
func (s *Shape) ChildIndex(c *Shape) int { return indexOf(s.children, c) }

// SetTransform replaces the whole transform.
func (s *Shape) SetTransform(t Transform) {
	s.transform = t
	s.metadata.Version++
}

// SetPosition moves the stored centre.
func (s *Shape) SetPosition(x, y float64) {
	t := s.transform
	t.X, t.Y = x, y
	s.SetTransform(t)
}

// SetSize sets width and height.
func (s *Shape) SetSize(w, h float64) {
	t := s.transform
	t.Width, t.Height = w, h
	s.SetTransform(t)
}

// SetRotation sets the stored rotation in radians.
func (s *Shape) SetRotation(r float64) {
	t := s.transform
	t.Rotation = r
	s.SetTransform(t)
}

// SetParam sets a type parameter.
func (s *Shape) SetParam(key string, v any) {
	if s.params == nil {
		s.params = Params{}
	}
	s.params[key] = v
	s.metadata.Version++
}

// SetLabelText records the label text carried in metadata.
func (s *Shape) SetLabelText(text string) {
	s.metadata.LabelText = text
}

// LocalMatrix maps the shape's own frame into its parent's frame.
func (s *Shape) LocalMatrix() geom.Matrix2D {
	return geom.Placement(s.transform.X, s.transform.Y, s.transform.Rotation)
}

// WorldMatrix maps the shape's own frame into world space.
func (s *Shape) WorldMatrix() geom.Matrix2D {
	if s.parent == nil {
		return s.LocalMatrix()
	}
	return s.parent.WorldMatrix().Multiply(s.LocalMatrix())
}

// Center is the world-space centre.
func (s *Shape) Center() geom.Point {
	return s.WorldMatrix().Origin()
}

// WorldRotation is the sum of the shape's rotation and every ancestor's.
func (s *Shape) WorldRotation() float64 {
	r := s.transform.Rotation
	for p := s.parent; p != nil; p = p.parent {
		r += p.transform.Rotation
	}
	return r
}

// SetWorldCenter moves the shape so that its world centre lands on p.
func (s *Shape) SetWorldCenter(p geom.Point) {
	local := p
	if s.parent != nil {
		local = s.parent.WorldMatrix().Invert().Apply(p)
	}
	s.SetPosition(local.X, local.Y)
}

// SetWorldRotation turns the shape so that its world rotation becomes r.
func (s *Shape) SetWorldRotation(r float64) {
	if s.parent != nil {
		r -= s.parent.WorldRotation()
	}
	s.SetRotation(r)
}

// Boundary returns the eight world-space handle points.
func (s *Shape) Boundary() Boundary {
	return boundaryFor(s.WorldMatrix(), s.transform.Width, s.transform.Height)
}

// Bounds is the axis-aligned box around the boundary points.
func (s *Shape) Bounds() geom.Rect {
	return geom.BoundsOf(s.Boundary().All()...)
}

// ContainsPoint reports whether the world point p lies inside the shape's
// rotated rectangle.
func (s *Shape) ContainsPoint(p geom.Point) bool {
	local := s.WorldMatrix().Invert().Apply(p)
	const slack = 1e-9
	return local.X >= -s.transform.Width/2-slack && local.X <= s.transform.Width/2+slack &&
		local.Y >= -s.transform.Height/2-slack && local.Y <= s.transform.Height/2+slack
}

// Walk calls fn for s and then each descendant in pre-order.
func (s *Shape) Walk(fn func(*Shape)) {
	fn(s)
	for _, c := range s.children {
		c.Walk(fn)
	}
}

func (s *Shape) insertChild(index int, c *Shape) {
	c.parent = s
	if index < 0 || index >= len(s.children) {
		s.children = append(s.children, c)
		return
	}
	s.children = append(s.children, nil)
	copy(s.children[index+1:], s.children[index:])
	s.children[index] = c
}

func (s *Shape) removeChild(c *Shape) {
	if i := indexOf(s.children, c); i >= 0 {
		s.children = append(s.children[:i], s.children[i+1:]...)
		c.parent = nil
	}
}

func indexOf(list []*Shape, s *Shape) int {
	for i, c := range list {
		if c == s {
			return i
		}
	}
	return -1
}
