package assertion

import (
	"fmt"
	"strconv"
	"strings"
)

// Coerce aligns a declared expected value with the runtime type of the
// actual result, so that a YAML declaration written as a string can still
// match a function returning a bool or a number. Each target type has an
// explicit parser; there is no blind casting. When no rule applies the
// expected value passes through unchanged. The second return is false only
// when a parse was attempted and failed, which callers treat as advisory,
// never fatal.
func Coerce(expected, actual any) (any, bool) {
	switch actual.(type) {
	case bool:
		if s, ok := expected.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true, true
			case "false":
				return false, true
			}
			return expected, false
		}

	case string:
		switch expected.(type) {
		case string:
			return expected, true
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return fmt.Sprintf("%v", expected), true
		}

	default:
		if isIntegerKind(actual) {
			switch e := expected.(type) {
			case string:
				if i, err := strconv.ParseInt(strings.TrimSpace(e), 10, 64); err == nil {
					return int(i), true
				}
				return expected, false
			case float64:
				return int(e), true
			case float32:
				return int(e), true
			}
		}

		if isFloatKind(actual) {
			if s, ok := expected.(string); ok {
				if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					return f, true
				}
				return expected, false
			}
			if f, ok := toFloat64(expected); ok {
				return f, true
			}
		}
	}

	return expected, true
}

func isIntegerKind(val any) bool {
	switch val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isFloatKind(val any) bool {
	switch val.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}
