package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "The Name of the Wind",
			expected: "The Name of the Wind",
		},
		{
			name:     "encodes angle brackets",
			input:    "<script>",
			expected: "&lt;script&gt;",
		},
		{
			name:     "encodes ampersand",
			input:    "Tom & Jerry",
			expected: "Tom &amp; Jerry",
		},
		{
			name:     "encodes quotes and apostrophes",
			input:    `O'Brien says "hi"`,
			expected: "O&#x27;Brien says &quot;hi&quot;",
		},
		{
			name:     "encodes attribute injection characters",
			input:    "<img src=x onerror=alert(1)>",
			expected: "&lt;img src&#x3D;x onerror&#x3D;alert&#x28;1&#x29;&gt;",
		},
		{
			name:     "encodes punctuation with markup meaning",
			input:    "50% off: deal?",
			expected: "50&#x25; off&#x3A; deal&#x3F;",
		},
		{
			name:     "already encoded input is preserved",
			input:    "&lt;b&gt;",
			expected: "&lt;b&gt;",
		},
		{
			name:     "unicode passes through",
			input:    "Pamiętnik znaleziony w wannie",
			expected: "Pamiętnik znaleziony w wannie",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Display(tt.input)
			require.True(t, res.OK(), "Display(%q) failed: %v", tt.input, res.Err())
			assert.Equal(t, tt.expected, res.Value().String())
		})
	}
}

func TestDisplayIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"<script>alert('xss')</script>",
		"a&b&amp;c",
		`{"json": [1, 2]}`,
		"path/to/file?q=1#frag",
		"~`^|\\$%+;@=",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Display(input)
			require.True(t, first.OK())
			second := Display(first.Value().String())
			require.True(t, second.OK())
			assert.Equal(t, first.Value().String(), second.Value().String())
		})
	}
}

func TestDisplayNormalizesUnicode(t *testing.T) {
	// Decomposed e + combining acute composes to a single rune.
	res := Display("café")
	require.True(t, res.OK())
	assert.Equal(t, "café", res.Value().String())
}

func TestDisplayRejectsOversizedInput(t *testing.T) {
	res := Display(strings.Repeat("a", maxDisplayLen+1))
	require.False(t, res.OK())
	assert.Equal(t, "invalid_input", string(res.Kind()))
}

func TestDisplayRejectsInvalidUTF8(t *testing.T) {
	res := Display(string([]byte{0xff, 0xfe}))
	require.False(t, res.OK())
	assert.Equal(t, "invalid_input", string(res.Kind()))
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "html cannot render",
			input:    "<b>bold</b>",
			expected: "&lt;b&gt;bold&lt;/b&gt;",
		},
		{
			name:     "markdown emphasis stays readable",
			input:    "a *really* good_book",
			expected: "a *really* good_book",
		},
		{
			name:     "code fences are encoded",
			input:    "```sh",
			expected: "&#x60;&#x60;&#x60;sh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Markdown(tt.input)
			require.True(t, res.OK())
			assert.Equal(t, tt.expected, res.Value().String())
		})
	}
}

func TestMarkdownAcceptsLongerInputThanDisplay(t *testing.T) {
	text := strings.Repeat("a", maxDisplayLen+1)
	require.False(t, Display(text).OK())
	require.True(t, Markdown(text).OK())
}

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"named entity", "&lt;", "<"},
		{"decimal entity", "&#60;", "<"},
		{"hex entity", "&#x3C;", "<"},
		{"ampersand last", "&amp;lt;", "<"},
		{"double nested", "&amp;amp;lt;", "<"},
		{"plain text", "no entities here", "no entities here"},
		{"bare ampersand", "a & b", "a & b"},
		{"unknown named entity kept", "&bogus;", "&bogus;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeEntities(tt.input))
		})
	}
}

func TestDisplayThenDecodeRoundTrips(t *testing.T) {
	inputs := []string{"<b>", "Tom & Jerry", "a=b(c)[d]"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			encoded := Display(input)
			require.True(t, encoded.OK())
			assert.Equal(t, input, DecodeEntities(encoded.Value().String()))
		})
	}
}
