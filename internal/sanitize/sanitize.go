// Package sanitize converts arbitrary text into context-safe forms: HTML-entity
// encoding for display, markdown-safe encoding, filename and path sanitization,
// and URL validation. Every transform is allow-list or encoding based and
// iterates to a fixed point, so re-sanitizing its own output is a no-op.
//
// Outputs are branded types constructible only inside this package; holding a
// SafeText or SafeFileName is proof the value went through the corresponding
// sanitizer.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"bookvault/internal/result"
)

const (
	// maxPasses bounds every fixed-point loop. Adversarial input that keeps
	// changing after this many passes is rejected rather than looped on.
	maxPasses = 5

	maxDisplayLen  = 50000
	maxMarkdownLen = 100000
)

// SafeText is display-safe text: NFC-normalized and entity-encoded.
type SafeText struct {
	value string
}

func (t SafeText) String() string { return t.value }

// SafeMarkdown is text safe to embed in a markdown document without
// rendering raw HTML.
type SafeMarkdown struct {
	value string
}

func (t SafeMarkdown) String() string { return t.value }

// displayEntities maps every character with special meaning in markup to its
// entity form. Encode-don't-filter: stripping patterns is provably incomplete,
// encoding is not.
var displayEntities = map[rune]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#x27;",
	'/':  "&#x2F;",
	'`':  "&#x60;",
	'=':  "&#x3D;",
	'{':  "&#x7B;",
	'}':  "&#x7D;",
	'(':  "&#x28;",
	')':  "&#x29;",
	'[':  "&#x5B;",
	']':  "&#x5D;",
	'\\': "&#x5C;",
	'|':  "&#x7C;",
	'^':  "&#x5E;",
	'~':  "&#x7E;",
	'$':  "&#x24;",
	'%':  "&#x25;",
	'+':  "&#x2B;",
	':':  "&#x3A;",
	';':  "&#x3B;",
	'?':  "&#x3F;",
	'@':  "&#x40;",
	'#':  "&#x23;",
}

// markdownEntities is the smaller set that stops raw HTML and code fences from
// rendering while keeping the text readable.
var markdownEntities = map[rune]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#x27;",
	'`':  "&#x60;",
}

// Display sanitizes text for HTML display contexts. The encoding pass skips
// characters already inside an entity, so the transform is idempotent and the
// fixed-point loop terminates on the second pass for honest input.
func Display(text string) result.Result[SafeText] {
	encoded, err := encodeToFixedPoint(text, displayEntities, maxDisplayLen)
	if err != nil {
		return result.Err[SafeText](err.Kind, err.Message)
	}
	return result.Ok(SafeText{value: encoded})
}

// Markdown sanitizes text for embedding in markdown note bodies. Same
// machinery as Display with a smaller entity set and a longer length ceiling.
func Markdown(text string) result.Result[SafeMarkdown] {
	encoded, err := encodeToFixedPoint(text, markdownEntities, maxMarkdownLen)
	if err != nil {
		return result.Err[SafeMarkdown](err.Kind, err.Message)
	}
	return result.Ok(SafeMarkdown{value: encoded})
}

func encodeToFixedPoint(text string, entities map[rune]string, maxLen int) (string, *result.Error) {
	if !utf8.ValidString(text) {
		return "", &result.Error{Kind: result.KindInvalidInput, Message: "input is not valid UTF-8"}
	}
	if utf8.RuneCountInString(text) > maxLen {
		return "", &result.Error{Kind: result.KindInvalidInput, Message: "input exceeds length ceiling"}
	}

	current := norm.NFC.String(text)
	for i := 0; i < maxPasses; i++ {
		next := encodePass(current, entities)
		if next == current {
			return current, nil
		}
		current = next
	}
	// One more application must be a no-op before we trust the output.
	if encodePass(current, entities) != current {
		return "", &result.Error{Kind: result.KindSecurityViolation, Message: "encoding did not converge"}
	}
	return current, nil
}

// encodePass encodes every special character not already part of an entity.
func encodePass(s string, entities map[rune]string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '&' {
			if n := entityLen(s[i:]); n > 0 {
				b.WriteString(s[i : i+n])
				i += n
				continue
			}
		}
		if ent, ok := entities[r]; ok {
			b.WriteString(ent)
		} else {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

// entityLen returns the length of the HTML entity starting at s[0], or 0 when
// s does not start with one. Recognizes &name;, &#123; and &#xAB; forms.
func entityLen(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}
	i := 1
	if s[i] == '#' {
		i++
		hex := false
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			hex = true
			i++
		}
		start := i
		for i < len(s) && i-start < 8 && isEntityDigit(s[i], hex) {
			i++
		}
		if i == start {
			return 0
		}
	} else {
		start := i
		for i < len(s) && i-start < 12 && isAlnum(s[i]) {
			i++
		}
		if i == start {
			return 0
		}
	}
	if i < len(s) && s[i] == ';' {
		return i + 1
	}
	return 0
}

func isEntityDigit(c byte, hex bool) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if !hex {
		return false
	}
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
