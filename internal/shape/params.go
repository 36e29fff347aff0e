package shape

import "maps"

// Params are the kind-specific parameters of a shape (colour, radius,
// polygon points and so on).
type Params map[string]any

// Clone returns a deep copy of p. Nested slices and maps are copied too.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Float reads a numeric parameter.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return toFloat64(v)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []float64:
		return append([]float64(nil), t...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case Params:
		return t.Clone()
	default:
		return v
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToFloat64 converts the numeric types that appear in decoded parameters.
func ToFloat64(v any) (float64, bool) {
	return toFloat64(v)
}

func mergeParams(dst, src Params) Params {
	if dst == nil {
		dst = Params{}
	}
	maps.Copy(dst, src)
	return dst
}
