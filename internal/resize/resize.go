// Package resize turns a dragged handle into a new centre and size for a
// possibly rotated shape.
package resize

import (
	"errors"

	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

var ErrUnknownHandle = errors.New("unknown resize handle")

// Fixed carries the dimension an edge handle must keep.
type Fixed struct {
	Width  float64
	Height float64
}

// Request is one resize frame. Boundary is the shape's world boundary when
// the drag started, so the anchor does not drift between frames.
type Request struct {
	Handle   Handle
	Boundary shape.Boundary
	Target   geom.Point
	Rotation float64
	Fixed    Fixed
}

// Result is the world centre and size to apply.
type Result struct {
	Center geom.Point
	Width  float64
	Height float64
}

// Compute resolves a resize frame. It returns false when the result would
// make either dimension smaller than shape.MinSize; the caller then leaves
// the shape untouched.
func Compute(req Request) (Result, bool) {
	self, anchor, sx, sy, ok := req.Handle.layout(req.Boundary)
	if !ok {
		return Result{}, false
	}

	target := req.Target
	if req.Handle.IsEdge() {
		target = geom.NearestPointOnLine(anchor, self, target)
	}

	center := geom.Midpoint(anchor, target)
	a := geom.RotateAround(anchor, center, -req.Rotation)
	t := geom.RotateAround(target, center, -req.Rotation)

	width := req.Fixed.Width
	if sx != 0 {
		width = sx * (t.X - a.X)
	}
	height := req.Fixed.Height
	if sy != 0 {
		height = sy * (t.Y - a.Y)
	}

	if width < shape.MinSize || height < shape.MinSize {
		return Result{}, false
	}
	return Result{Center: center, Width: width, Height: height}, true
}
