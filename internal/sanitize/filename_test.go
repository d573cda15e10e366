package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes invalid characters",
			input:    `file<>:"/\|?*name`,
			expected: "filename",
		},
		{
			name:     "strips traversal sequences",
			input:    "../../etc/passwd",
			expected: "etcpasswd",
		},
		{
			name:     "collapses fragmented traversal",
			input:    "name./.",
			expected: "name",
		},
		{
			name:     "removes control characters",
			input:    "file\x00\x1bname",
			expected: "filename",
		},
		{
			name:     "collapses whitespace",
			input:    "file   name\twith\nspaces",
			expected: "file name with spaces",
		},
		{
			name:     "trims leading and trailing dots",
			input:    "..hidden..",
			expected: "hidden",
		},
		{
			name:     "prefixes reserved device names",
			input:    "CON",
			expected: "file_CON",
		},
		{
			name:     "prefixes reserved device name with extension",
			input:    "con.md",
			expected: "file_con.md",
		},
		{
			name:     "prefixes numbered device names",
			input:    "COM1",
			expected: "file_COM1",
		},
		{
			name:     "neutralizes executable extensions",
			input:    "setup.exe",
			expected: "setup.exe.txt",
		},
		{
			name:     "neutralizes shell scripts",
			input:    "run.sh",
			expected: "run.sh.txt",
		},
		{
			name:     "falls back for empty result",
			input:    "...",
			expected: "Untitled",
		},
		{
			name:     "keeps unicode titles",
			input:    "Pamiętnik znaleziony w wannie",
			expected: "Pamiętnik znaleziony w wannie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FileName(tt.input)
			require.True(t, res.OK(), "FileName(%q) failed: %v", tt.input, res.Err())
			assert.Equal(t, tt.expected, res.Value().String())
		})
	}
}

func TestFileNameRejectsEmptyInput(t *testing.T) {
	res := FileName("")
	require.False(t, res.OK())
	assert.Equal(t, "invalid_input", string(res.Kind()))
}

func TestFileNameTruncatesLongNames(t *testing.T) {
	res := FileName(strings.Repeat("a", 500))
	require.True(t, res.OK())
	assert.Len(t, res.Value().String(), maxFileNameLen)
}

// Truncation at the length cap must not undo the other rewrites: a cut that
// lands on an extension or a dot has to leave a name that sanitizes to itself.
func TestFileNameTruncationBoundary(t *testing.T) {
	t.Run("executable extension at the cap stays neutralized", func(t *testing.T) {
		res := FileName(strings.Repeat("a", 196) + ".exe")
		require.True(t, res.OK())
		out := res.Value().String()
		assert.True(t, strings.HasSuffix(out, ".txt"), "got %q", out)
		assert.False(t, strings.HasSuffix(out, ".exe"))
	})

	t.Run("executable extension cut off by truncation is re-detected", func(t *testing.T) {
		res := FileName(strings.Repeat("a", 196) + ".exercise")
		require.True(t, res.OK())
		out := res.Value().String()
		assert.True(t, strings.HasSuffix(out, ".exe.txt"), "got %q", out)
	})

	t.Run("dot landing on the cut point is trimmed", func(t *testing.T) {
		res := FileName(strings.Repeat("a", 199) + ".bcd")
		require.True(t, res.OK())
		out := res.Value().String()
		assert.Equal(t, strings.Repeat("a", 199), out)
	})

	t.Run("device name with overlong tail keeps its prefix", func(t *testing.T) {
		res := FileName("CON." + strings.Repeat("a", 250))
		require.True(t, res.OK())
		out := res.Value().String()
		assert.True(t, strings.HasPrefix(out, "file_CON."), "got %q", out)
		assert.LessOrEqual(t, len([]rune(out)), maxFileNameLen)
	})

	t.Run("outputs around the cap are fixed points", func(t *testing.T) {
		inputs := []string{
			strings.Repeat("a", 196) + ".exe",
			strings.Repeat("a", 196) + ".exercise",
			strings.Repeat("a", 199) + ".bcd",
			strings.Repeat("a", 200) + ".exe",
			"CON." + strings.Repeat("a", 250),
			strings.Repeat("b", 198) + ". x",
		}
		for _, input := range inputs {
			res := FileName(input)
			require.True(t, res.OK())
			out := res.Value().String()
			again := FileName(out)
			require.True(t, again.OK())
			assert.Equal(t, out, again.Value().String(), "re-sanitizing must be a no-op for %q", input)
		}
	})
}

// Every output must be separator-free and a fixed point of the sanitizer.
func TestFileNameSafetyProperties(t *testing.T) {
	inputs := []string{
		"normal name",
		"../../../etc/shadow",
		`..\..\windows\system32`,
		". . /. . /secret",
		"a/b\\c/d",
		"....//....//x",
		"trailing dots...",
		"#tags [and] (parens)",
		"mixed\x00control\x1fchars",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			res := FileName(input)
			require.True(t, res.OK())
			out := res.Value().String()

			assert.NotContains(t, out, "/")
			assert.NotContains(t, out, "\\")
			assert.NotContains(t, out, "..")

			again := FileName(out)
			require.True(t, again.OK())
			assert.Equal(t, out, again.Value().String(), "re-sanitizing must be a no-op")
		})
	}
}
