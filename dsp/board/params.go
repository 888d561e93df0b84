package board

import (
	"math"
	"sort"
)

// Params holds the serialisable parameters of one module.
type Params struct {
	Kind string
	Num  map[string]float64
	Vec  map[string][]float64
	Str  map[string]string
}

// NewParams returns empty parameters for kind.
func NewParams(kind string) Params {
	return Params{
		Kind: kind,
		Num:  map[string]float64{},
		Vec:  map[string][]float64{},
		Str:  map[string]string{},
	}
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// Float returns a required finite numeric parameter.
func (p Params) Float(key string) (float64, error) {
	v, ok := p.Num[key]
	if !ok {
		return 0, invalidParam(p.Kind, key, "missing")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidParam(p.Kind, key, "not finite: %v", v)
	}
	return v, nil
}

// Int returns a required integral parameter.
func (p Params) Int(key string) (int, error) {
	v, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, invalidParam(p.Kind, key, "not an integer: %v", v)
	}
	if math.Abs(v) > math.MaxInt32 {
		return 0, invalidParam(p.Kind, key, "out of range: %v", v)
	}
	return int(v), nil
}

// IntOr returns an optional integral parameter.
func (p Params) IntOr(key string, def int) (int, error) {
	if _, ok := p.Num[key]; !ok {
		return def, nil
	}
	return p.Int(key)
}

// Slots returns an optional slot count in [0, MaxSlots].
func (p Params) Slots(key string, def int) (int, error) {
	n, err := p.IntOr(key, def)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxSlots {
		return 0, invalidParam(p.Kind, key, "outside [0,%d]: %d", MaxSlots, n)
	}
	return n, nil
}

// Floats returns a required vector parameter.
func (p Params) Floats(key string) ([]float64, error) {
	v, ok := p.Vec[key]
	if !ok {
		return nil, invalidParam(p.Kind, key, "missing")
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, invalidParam(p.Kind, key, "element %d not finite: %v", i, x)
		}
	}
	return append([]float64(nil), v...), nil
}

// GetStr returns a string parameter, or def if missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}
	return def
}

// Keys returns every parameter name in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.Num)+len(p.Vec)+len(p.Str))
	for k := range p.Num {
		keys = append(keys, k)
	}
	for k := range p.Vec {
		keys = append(keys, k)
	}
	for k := range p.Str {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseParams converts decoded JSON values into Params.
func parseParams(kind string, raw map[string]any) (Params, error) {
	p := NewParams(kind)

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			p.Num[k] = t
		case bool:
			if t {
				p.Num[k] = 1
			} else {
				p.Num[k] = 0
			}
		case string:
			p.Str[k] = t
		case []any:
			vec := make([]float64, len(t))
			for i, e := range t {
				f, ok := e.(float64)
				if !ok {
					return Params{}, invalidParam(kind, k, "element %d is %T, want number", i, e)
				}
				vec[i] = f
			}
			p.Vec[k] = vec
		default:
			return Params{}, invalidParam(kind, k, "unsupported value %T", v)
		}
	}

	return p, nil
}

// raw flattens p for JSON encoding.
func (p Params) raw() map[string]any {
	out := make(map[string]any, len(p.Num)+len(p.Vec)+len(p.Str))
	for k, v := range p.Num {
		out[k] = v
	}
	for k, v := range p.Vec {
		out[k] = v
	}
	for k, v := range p.Str {
		out[k] = v
	}
	return out
}
