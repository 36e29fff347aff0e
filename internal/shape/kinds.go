package shape

import (
	"fmt"
)

// Instruction tags of the built-in kinds.
const (
	CommandRectangle      = "CREATE_RECTANGLE"
	CommandEllipse        = "CREATE_ELLIPSE"
	CommandArc            = "CREATE_ARC"
	CommandPolygon        = "CREATE_POLYGON"
	CommandBeginContainer = "BEGIN_CONTAINER"
	CommandGeneric        = "CREATE_GENERIC"
)

const (
	defaultFill    = 0x3d85c6
	minArcRadius   = 5.0
	minPolygonSize = 3
)

// RegisterBuiltins registers rectangle, ellipse, arc, polygon, container and
// template on r.
func RegisterBuiltins(r *Registry) error {
	defs := []Definition{
		{Kind: KindRectangle, Command: CommandRectangle, New: newFilled},
		{Kind: KindEllipse, Command: CommandEllipse, New: newFilled},
		{
			Kind:    KindArc,
			Command: CommandArc,
			FieldMap: map[string]string{
				"radius":     "arcRadius",
				"startAngle": "arcStartAngle",
				"endAngle":   "arcEndAngle",
			},
			New: newArc,
		},
		{
			Kind:     KindPolygon,
			Command:  CommandPolygon,
			FieldMap: map[string]string{"points": "polygonPoints"},
			New:      newPolygon,
		},
		{Kind: KindContainer, Command: CommandBeginContainer, Priority: 1, Container: true},
		{Kind: KindTemplate, Command: CommandBeginContainer, Container: true, New: newTemplate},
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func newFilled(_ Transform, params Params) (Params, error) {
	out := params.Clone()
	if _, ok := out["color"]; !ok {
		out = mergeParams(out, Params{"color": defaultFill})
	}
	return out, nil
}

func newArc(t Transform, params Params) (Params, error) {
	out, _ := newFilled(t, params)
	if r, ok := out.Float("radius"); ok && r < minArcRadius {
		return nil, fmt.Errorf("%w: arc radius %v below %v", ErrInvalidParams, r, minArcRadius)
	}
	for _, key := range []string{"startAngle", "endAngle"} {
		v, ok := out.Float(key)
		if !ok {
			continue
		}
		if v < 0 || v > 360 {
			return nil, fmt.Errorf("%w: %s %v outside 0..360", ErrInvalidParams, key, v)
		}
	}
	return out, nil
}

func newPolygon(t Transform, params Params) (Params, error) {
	out, _ := newFilled(t, params)
	raw, ok := out["points"]
	if !ok {
		return out, nil
	}
	pts, err := flatPoints(raw)
	if err != nil {
		return nil, err
	}
	if len(pts)%2 != 0 || len(pts)/2 < minPolygonSize {
		return nil, fmt.Errorf("%w: polygon needs at least %d x,y pairs", ErrInvalidParams, minPolygonSize)
	}
	out["points"] = pts
	return out, nil
}

func newTemplate(_ Transform, params Params) (Params, error) {
	out := params.Clone()
	if out == nil {
		out = Params{}
	}
	if id, ok := out["templateId"]; ok {
		if _, isString := id.(string); !isString {
			return nil, fmt.Errorf("%w: templateId must be a string", ErrInvalidParams)
		}
	}
	return out, nil
}

// flatPoints accepts a flat [x1, y1, x2, y2, ...] list as []float64 or as a
// decoded []any.
func flatPoints(v any) ([]float64, error) {
	switch t := v.(type) {
	case []float64:
		return append([]float64(nil), t...), nil
	case []any:
		out := make([]float64, 0, len(t))
		for _, e := range t {
			f, ok := toFloat64(e)
			if !ok {
				return nil, fmt.Errorf("%w: polygon point %v is not a number", ErrInvalidParams, e)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: polygon points must be a list", ErrInvalidParams)
	}
}

// PolygonPoints returns the vertices of a polygon's "points" parameter,
// relative to the shape centre.
func PolygonPoints(params Params) ([]float64, error) {
	raw, ok := params["points"]
	if !ok {
		return nil, nil
	}
	return flatPoints(raw)
}
