package preview

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/planform/planform/backend-go/internal/shape"
)

var (
	fallbackFill   = colorful.Color{R: 0x3d / 255.0, G: 0x85 / 255.0, B: 0xc6 / 255.0}
	containerColor = colorful.Color{R: 0.55, G: 0.55, B: 0.55}
)

// ParseColor accepts a packed 0xRRGGBB number or a "#rrggbb" string.
func ParseColor(v any) (colorful.Color, error) {
	if s, ok := v.(string); ok {
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return c, nil
	}
	f, ok := shape.ToFloat64(v)
	if !ok || f < 0 || f > 0xffffff {
		return colorful.Color{}, fmt.Errorf("unsupported color %v", v)
	}
	n := uint32(f)
	return colorful.Color{
		R: float64(n>>16&0xff) / 255,
		G: float64(n>>8&0xff) / 255,
		B: float64(n&0xff) / 255,
	}, nil
}

// fillOf returns the fill colour of params, falling back to the default fill
// when it is missing or malformed.
func fillOf(params shape.Params) colorful.Color {
	v, ok := params["color"]
	if !ok {
		return fallbackFill
	}
	c, err := ParseColor(v)
	if err != nil {
		return fallbackFill
	}
	return c
}

// outlineOf darkens fill for the shape's stroke.
func outlineOf(fill colorful.Color) colorful.Color {
	return fill.BlendLab(colorful.Color{}, 0.35).Clamped()
}
