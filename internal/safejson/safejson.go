// Package safejson parses untrusted structured text into typed values. Parsing
// alone is not trust: input is screened for prototype-pollution markers before
// the decoder runs, and decoded values only cross the boundary after a
// caller-supplied shape predicate accepts them.
package safejson

import (
	"math"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"bookvault/internal/result"
	"bookvault/internal/sanitize"
)

// maxDepth bounds the deep walk. Exceeding it is a rejection, not a stack
// fault; adversarial nesting must not be able to reach the runtime's limits.
const maxDepth = 10

// pollutionMarkers are literal substrings that denote prototype or constructor
// manipulation, rejected before parsing. The decoder itself has no prototype
// chain, but values decoded here may be re-serialized for consumers that do.
// The colon-suffixed forms match key position only: a string value equal to
// "prototype" must round-trip, and a serialized string value cannot contain
// an unescaped quote-colon sequence. __proto__ is rejected wherever it
// appears. The deep walk's key gate covers spellings this scan misses.
var pollutionMarkers = []string{
	`__proto__`,
	`"constructor":`,
	`"prototype":`,
}

var safeKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Parse decodes text into T and accepts the value only if pred returns true.
// A predicate failure reports a schema violation without leaking the value.
func Parse[T any](text string, pred func(T) bool) result.Result[T] {
	for _, marker := range pollutionMarkers {
		if strings.Contains(text, marker) {
			return result.Errf[T](result.KindSecurityViolation, "input contains forbidden pattern %s", marker)
		}
	}

	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return result.Errf[T](result.KindParseFailure, "malformed input: %v", err)
	}
	if pred != nil && !pred(value) {
		return result.Err[T](result.KindSchemaViolation, "parsed value does not match expected shape")
	}
	return result.Ok(value)
}

// ValidateUntrustedObject deep-validates an already-parsed value: keys must be
// alphanumeric/underscore/hyphen/dot, string leaves are display-sanitized,
// non-finite numbers and leaves of unrecognized type are dropped. A single
// malformed leaf never fails the whole document; a forbidden key always does.
func ValidateUntrustedObject(value any) result.Result[any] {
	cleaned, keep, err := walkValue(value, 0)
	if err != nil {
		return result.Err[any](err.Kind, err.Message)
	}
	if !keep {
		return result.Err[any](result.KindSchemaViolation, "document contains no usable values")
	}
	return result.Ok(cleaned)
}

// walkValue returns the cleaned value, whether it should be kept, and a
// document-fatal error for forbidden keys or excessive depth.
func walkValue(v any, depth int) (any, bool, *result.Error) {
	if depth > maxDepth {
		return nil, false, &result.Error{Kind: result.KindSecurityViolation, Message: "nesting exceeds depth limit"}
	}

	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, child := range val {
			if !safeKeyPattern.MatchString(key) {
				return nil, false, &result.Error{Kind: result.KindSecurityViolation, Message: "forbidden key " + key}
			}
			if key == "__proto__" || key == "constructor" || key == "prototype" {
				return nil, false, &result.Error{Kind: result.KindSecurityViolation, Message: "forbidden key " + key}
			}
			cleaned, keep, err := walkValue(child, depth+1)
			if err != nil {
				return nil, false, err
			}
			if keep {
				out[key] = cleaned
			}
		}
		return out, true, nil

	case []any:
		out := make([]any, 0, len(val))
		for _, child := range val {
			cleaned, keep, err := walkValue(child, depth+1)
			if err != nil {
				return nil, false, err
			}
			if keep {
				out = append(out, cleaned)
			}
		}
		return out, true, nil

	case string:
		safe := sanitize.Display(val)
		if !safe.OK() {
			return nil, false, nil
		}
		return safe.Value().String(), true, nil

	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, false, nil
		}
		return val, true, nil

	case int, int64:
		return val, true, nil

	case bool:
		return val, true, nil

	default:
		// Unrecognized leaf types (nil included) are dropped, not fatal.
		return nil, false, nil
	}
}
