package validate

import "strings"

// Required reports whether every value has non-blank content. No values is false.
func Required(values ...string) bool {
	if len(values) == 0 {
		return false
	}
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return false
		}
	}
	return true
}
