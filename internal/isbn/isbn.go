// Package isbn validates ISBN-10 and ISBN-13 identifiers, checksum included.
// The only way to obtain an ISBN value is through Validate, so holding one is
// proof the identifier passed both the structural and arithmetic checks.
package isbn

import (
	"strings"

	"bookvault/internal/result"
	"bookvault/internal/sanitize"
)

// ISBN is a validated book identifier, hyphens and whitespace stripped.
type ISBN struct {
	value string
}

func (i ISBN) String() string { return i.value }

// IsZero reports whether the value was never validated.
func (i ISBN) IsZero() bool { return i.value == "" }

// Validate checks a raw identifier string. Formatting hyphens and spaces are
// permitted; anything else that survives entity decoding is a security error,
// not merely an invalid identifier.
func Validate(raw string) result.Result[ISBN] {
	encoded := sanitize.Display(raw)
	if !encoded.OK() {
		return result.Err[ISBN](encoded.Kind(), encoded.Err().Message)
	}
	decoded := sanitize.DecodeEntities(encoded.Value().String())

	var digits strings.Builder
	for _, r := range decoded {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == 'X' || r == 'x':
			digits.WriteRune('X')
		case r == '-' || r == ' ' || r == '\t':
			// Formatting only.
		default:
			return result.Errf[ISBN](result.KindSecurityViolation, "disallowed character %q in identifier", r)
		}
	}

	normalized := digits.String()
	switch len(normalized) {
	case 10:
		if !validISBN10(normalized) {
			return result.Err[ISBN](result.KindInvalidInput, "ISBN-10 checksum mismatch")
		}
	case 13:
		if !validISBN13(normalized) {
			return result.Err[ISBN](result.KindInvalidInput, "ISBN-13 checksum mismatch")
		}
	default:
		return result.Errf[ISBN](result.KindInvalidInput, "identifier must be 10 or 13 digits, got %d", len(normalized))
	}
	return result.Ok(ISBN{value: normalized})
}

// validISBN10 weights digit i by (10-i) over the first nine digits. The check
// digit may be the literal X, worth ten.
func validISBN10(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		if s[i] == 'X' {
			return false
		}
		sum += int(s[i]-'0') * (10 - i)
	}
	want := (11 - sum%11) % 11
	if s[9] == 'X' {
		return want == 10
	}
	return want == int(s[9]-'0')
}

// validISBN13 alternates weights 1,3 over the first twelve digits.
func validISBN13(s string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		if s[i] == 'X' {
			return false
		}
		d := int(s[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	if s[12] == 'X' {
		return false
	}
	return (10-sum%10)%10 == int(s[12]-'0')
}
