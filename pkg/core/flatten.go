package core

import "fmt"

// Flatten converts a nested JSON object into a single-level map with dotted
// keys ("object_attributes.source_branch"). Arrays keep their original value
// under the plain key and are additionally indexed element by element.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	for key, value := range data {
		flattenInto(out, key, value)
	}
	return out
}

func flattenInto(out map[string]any, path string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			flattenInto(out, fmt.Sprintf("%s.%s", path, key), child)
		}
	case []any:
		out[path] = typed
		for i, child := range typed {
			flattenInto(out, fmt.Sprintf("%s[%d]", path, i), child)
		}
	default:
		out[path] = value
	}
}
