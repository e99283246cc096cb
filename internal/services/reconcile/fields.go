package reconcile

import (
	"encoding/json"
	"strconv"
	"strings"
)

// stringField reads a scalar payload value as trimmed text. Objects, arrays and null
// read as empty.
func stringField(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	return scalarString(payload[key])
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		if len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	}
	return ""
}

func objectField(payload map[string]any, key string) map[string]any {
	if payload == nil {
		return nil
	}
	obj, _ := payload[key].(map[string]any)
	return obj
}
