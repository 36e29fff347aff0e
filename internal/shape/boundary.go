package shape

import "github.com/planform/planform/backend-go/internal/geom"

// Boundary holds the four corners and four edge midpoints of a shape in
// world space. Top is toward negative y in the shape's own frame.
type Boundary struct {
	TopLeft      geom.Point `json:"topLeft"`
	TopCenter    geom.Point `json:"topCenter"`
	TopRight     geom.Point `json:"topRight"`
	RightCenter  geom.Point `json:"rightCenter"`
	BottomRight  geom.Point `json:"bottomRight"`
	BottomCenter geom.Point `json:"bottomCenter"`
	BottomLeft   geom.Point `json:"bottomLeft"`
	LeftCenter   geom.Point `json:"leftCenter"`
}

// All lists the points clockwise from the top-left corner.
func (b Boundary) All() []geom.Point {
	return []geom.Point{
		b.TopLeft, b.TopCenter, b.TopRight, b.RightCenter,
		b.BottomRight, b.BottomCenter, b.BottomLeft, b.LeftCenter,
	}
}

// BoundaryOf computes the boundary of a top-level transform.
func BoundaryOf(t Transform) Boundary {
	return boundaryFor(geom.Placement(t.X, t.Y, t.Rotation), t.Width, t.Height)
}

func boundaryFor(m geom.Matrix2D, w, h float64) Boundary {
	hw, hh := w/2, h/2
	at := func(x, y float64) geom.Point { return m.Apply(geom.Pt(x, y)) }
	return Boundary{
		TopLeft:      at(-hw, -hh),
		TopCenter:    at(0, -hh),
		TopRight:     at(hw, -hh),
		RightCenter:  at(hw, 0),
		BottomRight:  at(hw, hh),
		BottomCenter: at(0, hh),
		BottomLeft:   at(-hw, hh),
		LeftCenter:   at(-hw, 0),
	}
}
