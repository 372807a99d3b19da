package assertion

import (
	"strconv"
	"strings"
)

// ParseLiteral interprets a string as a literal value: booleans, null,
// integers, floats, quoted strings and flat bracketed sequences of those.
// Anything else comes back unchanged. Nothing is ever evaluated.
func ParseLiteral(s string) any {
	t := strings.TrimSpace(s)

	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	case "null", "none", "~":
		return nil
	}

	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}

	if len(t) >= 2 && (t[0] == '\'' || t[0] == '"') && t[len(t)-1] == t[0] {
		return t[1 : len(t)-1]
	}

	if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
		inner := strings.TrimSpace(t[1 : len(t)-1])
		// Flat sequences only; nesting is not literal enough.
		if strings.ContainsAny(inner, "[]") {
			return s
		}
		if inner == "" {
			return []any{}
		}

		parts := strings.Split(inner, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			out = append(out, ParseLiteral(part))
		}
		return out
	}

	return s
}
