package resolve

import "reflect"

// deepEqual compares two decoded YAML/JSON values structurally. The
// state tree is always built out of nil, bool, float64, string,
// []interface{} and map[string]interface{}, so reflect.DeepEqual's
// generic structural comparison is exactly what eqfilter needs; there
// is no domain-specific equality (numeric tolerance, key ordering...)
// to layer on top of it.
func deepEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// deepCloneState recursively copies a state tree so a caller can hand
// it to a mutating or aliasing-prone traversal without risking the
// original. Mirrors the clone the reference implementation takes of
// its current state (a serde_json::Value) before every input-source
// resolution.
func deepCloneState(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCloneState(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCloneState(val)
		}
		return out
	default:
		return v
	}
}

func deepCloneMap(m map[string]interface{}) map[string]interface{} {
	return deepCloneState(m).(map[string]interface{})
}
