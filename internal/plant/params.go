package plant

import "fmt"

// paramFloat extracts a required numeric parameter. JSON numbers decode to
// float64 through map[string]any, so this also accepts ints from callers
// that built the map directly (as tests do).
func paramFloat(params map[string]any, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", ErrBadParameters, key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: parameter %q is not numeric", ErrBadParameters, key)
	}
}

func paramFloatOr(params map[string]any, key string, def float64) float64 {
	v, err := paramFloat(params, key)
	if err != nil {
		return def
	}
	return v
}

func paramFloatSlice(params map[string]any, key string) ([]float64, error) {
	v, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing parameter %q", ErrBadParameters, key)
	}
	raw, ok := v.([]any)
	if !ok {
		if f, ok := v.([]float64); ok {
			return f, nil
		}
		return nil, fmt.Errorf("%w: parameter %q is not an array", ErrBadParameters, key)
	}
	out := make([]float64, len(raw))
	for i, item := range raw {
		n, ok := item.(float64)
		if !ok {
			if in, ok := item.(int); ok {
				n = float64(in)
			} else {
				return nil, fmt.Errorf("%w: parameter %q has a non-numeric element", ErrBadParameters, key)
			}
		}
		out[i] = n
	}
	return out, nil
}

func paramBoolArray5(params map[string]any, key string) ([5]bool, error) {
	var out [5]bool
	v, ok := params[key]
	if !ok {
		return out, fmt.Errorf("%w: missing parameter %q", ErrBadParameters, key)
	}
	raw, ok := v.([]any)
	if !ok || len(raw) != 5 {
		return out, fmt.Errorf("%w: parameter %q must be a 5-element array", ErrBadParameters, key)
	}
	for i, item := range raw {
		b, _ := item.(bool)
		out[i] = b
	}
	return out, nil
}

func paramBoolArray2(params map[string]any, key string) ([2]bool, error) {
	var out [2]bool
	v, ok := params[key]
	if !ok {
		return out, fmt.Errorf("%w: missing parameter %q", ErrBadParameters, key)
	}
	raw, ok := v.([]any)
	if !ok || len(raw) != 2 {
		return out, fmt.Errorf("%w: parameter %q must be a 2-element array", ErrBadParameters, key)
	}
	for i, item := range raw {
		b, _ := item.(bool)
		out[i] = b
	}
	return out, nil
}

func paramBoolArray4(params map[string]any, key string) ([4]bool, error) {
	var out [4]bool
	v, ok := params[key]
	if !ok {
		return out, fmt.Errorf("%w: missing parameter %q", ErrBadParameters, key)
	}
	raw, ok := v.([]any)
	if !ok || len(raw) != 4 {
		return out, fmt.Errorf("%w: parameter %q must be a 4-element array", ErrBadParameters, key)
	}
	for i, item := range raw {
		b, _ := item.(bool)
		out[i] = b
	}
	return out, nil
}

func paramBoolOr(params map[string]any, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}
