// Package assertion evaluates declared assertions against dispatched results.
package assertion

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind identifies one of the supported assertion predicates.
type Kind string

// The closed set of assertion kinds accepted in declarations.
const (
	Equal        Kind = "assertEqual"
	NotEqual     Kind = "assertNotEqual"
	True         Kind = "assertTrue"
	False        Kind = "assertFalse"
	In           Kind = "assertIn"
	NotIn        Kind = "assertNotIn"
	Greater      Kind = "assertGreater"
	GreaterEqual Kind = "assertGreaterEqual"
	Less         Kind = "assertLess"
	LessEqual    Kind = "assertLessEqual"
)

// ErrUnknownKind is returned when an assertion name is not recognized.
var ErrUnknownKind = errors.New("unknown assertion")

var kinds = []Kind{
	Equal,
	NotEqual,
	True,
	False,
	In,
	NotIn,
	Greater,
	GreaterEqual,
	Less,
	LessEqual,
}

// Kinds returns every supported assertion kind, in documentation order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind validates an assertion name from a declaration.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// NeedsExpected reports whether a kind compares against a declared
// expected value. assertTrue and assertFalse only inspect the actual.
func (k Kind) NeedsExpected() bool {
	return k != True && k != False
}

// Outcome is the evaluation of one assertion. Detail is empty on a pass
// and holds the failure diagnostic otherwise.
type Outcome struct {
	Passed bool
	Detail string
}

func pass() Outcome {
	return Outcome{Passed: true}
}

func fail(format string, args ...any) Outcome {
	return Outcome{Detail: fmt.Sprintf(format, args...)}
}

// Evaluate applies a kind to an expected and actual value. For the ordering
// kinds the expected value is the left operand, so assertGreater passes
// when expected > actual. Evaluate never panics; incomparable operands
// yield a failed Outcome describing the mismatch.
func Evaluate(kind Kind, expected, actual any) Outcome {
	switch kind {
	case Equal:
		if equalValues(expected, actual) {
			return pass()
		}
		return fail("%v is not equal to %v", expected, actual)

	case NotEqual:
		if !equalValues(expected, actual) {
			return pass()
		}
		return fail("%v is equal to %v", expected, actual)

	case True:
		if b, ok := actual.(bool); ok && b {
			return pass()
		}
		return fail("%v not True", actual)

	case False:
		return evaluateFalse(actual)

	case In:
		found, ok := contains(actual, expected)
		if !ok {
			return fail("cannot test membership in %T", actual)
		}
		if found {
			return pass()
		}
		return fail("%v not found in %v", expected, actual)

	case NotIn:
		found, ok := contains(actual, expected)
		if !ok {
			return fail("cannot test membership in %T", actual)
		}
		if !found {
			return pass()
		}
		return fail("%v unexpectedly found in %v", expected, actual)

	case Greater, GreaterEqual, Less, LessEqual:
		return evaluateOrdering(kind, expected, actual)

	default:
		return fail("unknown assertion %q", kind)
	}
}

// evaluateFalse passes only for a canonical bool false. A string actual is
// first normalized through the literal parser, so a function returning the
// string "False" still satisfies the assertion.
func evaluateFalse(actual any) Outcome {
	if s, ok := actual.(string); ok {
		actual = ParseLiteral(s)
	}

	if b, ok := actual.(bool); ok && !b {
		return pass()
	}
	return fail("%v not False", actual)
}

// evaluateOrdering compares expected against actual with the kind's
// operator. Numbers order numerically across integer and float kinds,
// strings order lexically, anything else cannot be ordered.
func evaluateOrdering(kind Kind, expected, actual any) Outcome {
	var cmp int

	expectedNum, expectedIsNum := toFloat64(expected)
	actualNum, actualIsNum := toFloat64(actual)

	switch {
	case expectedIsNum && actualIsNum:
		switch {
		case expectedNum < actualNum:
			cmp = -1
		case expectedNum > actualNum:
			cmp = 1
		}
	default:
		expectedStr, expectedIsStr := expected.(string)
		actualStr, actualIsStr := actual.(string)
		if !expectedIsStr || !actualIsStr {
			return fail("cannot order %T and %T", expected, actual)
		}
		cmp = strings.Compare(expectedStr, actualStr)
	}

	switch kind {
	case Greater:
		if cmp > 0 {
			return pass()
		}
		return fail("%v not greater than %v", expected, actual)
	case GreaterEqual:
		if cmp >= 0 {
			return pass()
		}
		return fail("%v not greater than or equal to %v", expected, actual)
	case Less:
		if cmp < 0 {
			return pass()
		}
		return fail("%v not less than %v", expected, actual)
	case LessEqual:
		if cmp <= 0 {
			return pass()
		}
		return fail("%v not less than or equal to %v", expected, actual)
	default:
		return fail("unknown ordering assertion %q", kind)
	}
}

// equalValues reports generic equality over decoded YAML values. Numbers
// compare by value across integer and float kinds (1 equals 1.0),
// containers compare element-wise, everything else by deep equality.
func equalValues(a, b any) bool {
	if af, ok := toFloat64(a); ok {
		bf, bok := toFloat64(b)
		return bok && af == bf
	}

	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, exists := bv[k]
			if !exists || !equalValues(v, bvv) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// contains reports whether element is a member of container: a substring
// of a string, an element of a sequence, or a key of a map. The second
// return is false when the container type supports no membership test.
func contains(container, element any) (found, ok bool) {
	if s, isStr := container.(string); isStr {
		sub, isSubStr := element.(string)
		if !isSubStr {
			sub = fmt.Sprintf("%v", element)
		}
		return strings.Contains(s, sub), true
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if equalValues(element, rv.Index(i).Interface()) {
				return true, true
			}
		}
		return false, true
	case reflect.Map:
		for _, key := range rv.MapKeys() {
			if equalValues(element, key.Interface()) {
				return true, true
			}
		}
		return false, true
	default:
		return false, false
	}
}

// toFloat64 attempts to convert a value to float64 for numeric comparisons.
func toFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
