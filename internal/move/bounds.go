package move

import (
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

// CheckRequest asks whether a shape whose boundary extends Extent around its
// centre fits inside Viewport when centred on Target.
type CheckRequest struct {
	Seq      uint64
	ShapeID  string
	Extent   geom.Rect
	Target   geom.Point
	Viewport geom.Rect
}

// CheckResult answers a CheckRequest.
type CheckResult struct {
	Seq     uint64
	ShapeID string
	Target  geom.Point
	OK      bool
}

// Check evaluates req. It is a pure function so it can run on any goroutine.
func Check(req CheckRequest) CheckResult {
	moved := geom.Rect{
		X:      req.Target.X + req.Extent.X,
		Y:      req.Target.Y + req.Extent.Y,
		Width:  req.Extent.Width,
		Height: req.Extent.Height,
	}
	return CheckResult{
		Seq:     req.Seq,
		ShapeID: req.ShapeID,
		Target:  req.Target,
		OK:      req.Viewport.ContainsRect(moved),
	}
}

// ExtentOf returns s's axis-aligned bounds relative to its world centre.
func ExtentOf(s *shape.Shape) geom.Rect {
	b := s.Bounds()
	c := s.Center()
	b.X -= c.X
	b.Y -= c.Y
	return b
}
