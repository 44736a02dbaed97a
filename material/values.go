package material

import (
	"sort"

	"github.com/j-cube/hdospray/asset"
	"github.com/j-cube/hdospray/types"
)

// Convert a scalar parameter value to float32.
func toFloat(v interface{}) (float32, bool) {
	switch t := v.(type) {
	case float32:
		return t, true
	case float64:
		return float32(t), true
	case int:
		return float32(t), true
	case []float32:
		if len(t) == 1 {
			return t[0], true
		}
	}
	return 0, false
}

// Convert a color parameter value to a Vec3.
func toVec3(v interface{}) (types.Vec3, bool) {
	switch t := v.(type) {
	case types.Vec3:
		return t, true
	case types.Vec4:
		return t.Vec3(), true
	case []float32:
		if len(t) >= 3 {
			return types.XYZ(t[0], t[1], t[2]), true
		}
	case []float64:
		if len(t) >= 3 {
			return types.XYZ(float32(t[0]), float32(t[1]), float32(t[2])), true
		}
	case []interface{}:
		return listToVec3(t)
	}
	return types.Vec3{}, false
}

func listToVec3(list []interface{}) (types.Vec3, bool) {
	var out types.Vec3
	if len(list) < 3 {
		return out, false
	}
	for i := 0; i < 3; i++ {
		f, ok := toFloat(list[i])
		if !ok {
			return out, false
		}
		out[i] = f
	}
	return out, true
}

// Convert a scale parameter value to a Vec4.
func toVec4(v interface{}) (types.Vec4, bool) {
	switch t := v.(type) {
	case types.Vec4:
		return t, true
	case []float32:
		if len(t) >= 4 {
			return types.XYZW(t[0], t[1], t[2], t[3]), true
		}
	case []interface{}:
		if len(t) < 4 {
			break
		}
		var out types.Vec4
		for i := 0; i < 4; i++ {
			f, ok := toFloat(t[i])
			if !ok {
				return types.Vec4{}, false
			}
			out[i] = f
		}
		return out, true
	}
	return types.Vec4{}, false
}

// Extract the resolved path from an asset parameter.
func toAssetPath(v interface{}) (string, bool) {
	switch t := v.(type) {
	case asset.Path:
		return t.String(), !t.Empty()
	case *asset.Path:
		if t == nil {
			return "", false
		}
		return t.String(), !t.Empty()
	case string:
		return t, t != ""
	}
	return "", false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
