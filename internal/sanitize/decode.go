package sanitize

import (
	"strconv"
	"strings"
)

// namedEntities are decoded before numeric forms. &amp; is deliberately
// absent: decoding it early would turn "&amp;lt;" into "&lt;" and then "<"
// within a single pass, un-nesting layers in the wrong order.
var namedEntities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"quot": '"',
	"apos": '\'',
}

// DecodeEntities reverses entity encoding, iterating to a fixed point so that
// nested encodings ("&amp;#x3C;") fully unwrap. Within each pass the ampersand
// entity is processed last to avoid double-unescaping. Output after maxPasses
// is returned as-is; callers that need a guarantee compare against one more
// application.
func DecodeEntities(text string) string {
	current := text
	for i := 0; i < maxPasses; i++ {
		next := decodePass(current)
		if next == current {
			return current
		}
		current = next
	}
	return current
}

func decodePass(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		n := entityLen(s[i:])
		if n == 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		body := s[i+1 : i+n-1]
		if r, ok := decodeEntityBody(body); ok {
			b.WriteRune(r)
		} else {
			b.WriteString(s[i : i+n])
		}
		i += n
	}
	out := b.String()
	// Ampersand last, and only once the other entities of this pass are done.
	return strings.ReplaceAll(out, "&amp;", "&")
}

func decodeEntityBody(body string) (rune, bool) {
	if body == "" || body == "amp" {
		return 0, false
	}
	if body[0] == '#' {
		num := body[1:]
		base := 10
		if len(num) > 0 && (num[0] == 'x' || num[0] == 'X') {
			num = num[1:]
			base = 16
		}
		v, err := strconv.ParseInt(num, base, 32)
		if err != nil || v <= 0 || v > 0x10FFFF {
			return 0, false
		}
		return rune(v), true
	}
	if r, ok := namedEntities[body]; ok {
		return r, true
	}
	return 0, false
}
