package resize

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

// Handle is one of the eight resize handles.
type Handle int

const (
	TopLeft Handle = iota
	TopCenter
	TopRight
	RightCenter
	BottomRight
	BottomCenter
	BottomLeft
	LeftCenter
)

// Handles lists every handle in boundary order.
var Handles = []Handle{TopLeft, TopCenter, TopRight, RightCenter, BottomRight, BottomCenter, BottomLeft, LeftCenter}

var handleNames = map[Handle]string{
	TopLeft:      "topLeft",
	TopCenter:    "topCenter",
	TopRight:     "topRight",
	RightCenter:  "rightCenter",
	BottomRight:  "bottomRight",
	BottomCenter: "bottomCenter",
	BottomLeft:   "bottomLeft",
	LeftCenter:   "leftCenter",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Handle(%d)", int(h))
}

// ParseHandle is the inverse of Handle.String.
func ParseHandle(name string) (Handle, error) {
	for h, n := range handleNames {
		if n == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHandle, name)
}

// IsEdge reports whether h sits on an edge midpoint.
func (h Handle) IsEdge() bool {
	switch h {
	case TopCenter, RightCenter, BottomCenter, LeftCenter:
		return true
	default:
		return false
	}
}

// layout returns the handle's own point, its anchor (the opposite corner or
// edge centre), and the local direction of the handle from the centre. A
// zero direction marks the axis an edge handle leaves alone.
func (h Handle) layout(b shape.Boundary) (self, anchor geom.Point, sx, sy float64, ok bool) {
	switch h {
	case TopLeft:
		return b.TopLeft, b.BottomRight, -1, -1, true
	case TopCenter:
		return b.TopCenter, b.BottomCenter, 0, -1, true
	case TopRight:
		return b.TopRight, b.BottomLeft, 1, -1, true
	case RightCenter:
		return b.RightCenter, b.LeftCenter, 1, 0, true
	case BottomRight:
		return b.BottomRight, b.TopLeft, 1, 1, true
	case BottomCenter:
		return b.BottomCenter, b.TopCenter, 0, 1, true
	case BottomLeft:
		return b.BottomLeft, b.TopRight, -1, 1, true
	case LeftCenter:
		return b.LeftCenter, b.RightCenter, -1, 0, true
	default:
		return geom.Point{}, geom.Point{}, 0, 0, false
	}
}

// Anchor returns the point that stays fixed while h is dragged.
func (h Handle) Anchor(b shape.Boundary) geom.Point {
	_, a, _, _, _ := h.layout(b)
	return a
}

// HandleBox is the square hit area drawn around a handle.
type HandleBox struct {
	Handle Handle    `json:"handle"`
	Box    geom.Rect `json:"box"`
}

// Boxes returns a size×size box centred on every boundary point.
func Boxes(b shape.Boundary, size float64) []HandleBox {
	pts := b.All()
	out := make([]HandleBox, len(Handles))
	for i, h := range Handles {
		out[i] = HandleBox{Handle: h, Box: geom.RectAround(pts[i], size, size)}
	}
	return out
}

// HitTest returns the first handle whose box contains p.
func HitTest(boxes []HandleBox, p geom.Point) (Handle, bool) {
	for _, hb := range boxes {
		if hb.Box.Contains(p) {
			return hb.Handle, true
		}
	}
	return 0, false
}

func (h Handle) MarshalText() ([]byte, error) {
	if _, ok := handleNames[h]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, int(h))
	}
	return []byte(h.String()), nil
}

func (h *Handle) UnmarshalText(b []byte) error {
	parsed, err := ParseHandle(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
