package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"bookvault/internal/result"
)

// SafeFileName is a filename with path separators, traversal sequences,
// reserved characters and device names removed.
type SafeFileName struct {
	value string
}

func (f SafeFileName) String() string { return f.value }

const (
	maxFileNameLen      = 200
	fallbackFileName    = "Untitled"
	reservedNamePrefix  = "file_"
	neutralizedExtSuffix = ".txt"
)

var (
	// Characters invalid in filenames on most filesystems.
	reservedFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Multiple spaces to collapse.
	multipleSpaces = regexp.MustCompile(`\s+`)

	// Windows device names, matched against the portion before the first dot.
	reservedDeviceNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}

	executableExtensions = map[string]bool{
		".exe": true, ".bat": true, ".cmd": true, ".com": true, ".scr": true,
		".js": true, ".vbs": true, ".jar": true, ".ps1": true, ".sh": true,
		".msi": true, ".dll": true,
	}
)

// FileName sanitizes a name for use as a single vault filename. The stripping
// pass runs to a fixed point: removing one forbidden fragment can butt two
// halves of another together ("." + "." + "/" collapsing into ".."), so a
// single pass is never trusted.
func FileName(name string) result.Result[SafeFileName] {
	if name == "" {
		return result.Err[SafeFileName](result.KindInvalidInput, "empty filename")
	}
	if !utf8.ValidString(name) {
		return result.Err[SafeFileName](result.KindInvalidInput, "filename is not valid UTF-8")
	}

	current := strings.TrimSpace(name)
	converged := false
	for i := 0; i < maxPasses; i++ {
		next := stripPass(current)
		if next == current {
			converged = true
			break
		}
		current = next
	}
	if !converged && stripPass(current) != current {
		return result.Err[SafeFileName](result.KindSecurityViolation, "filename sanitization did not converge")
	}

	// Truncation sits between the rewrites: cutting at the length cap can
	// leave a trailing dot or re-expose an executable extension, so the
	// extension check must see the truncated name. The device-name check
	// looks at the portion before the first dot, which truncation never
	// changes.
	current = rewriteReservedName(current)
	if utf8.RuneCountInString(current) > maxFileNameLen {
		runes := []rune(current)
		current = strings.Trim(string(runes[:maxFileNameLen]), " .")
	}
	current = neutralizeExecutable(current)

	if current == "" {
		current = fallbackFileName
	}
	return result.Ok(SafeFileName{value: current})
}

func stripPass(name string) string {
	// Path separators and traversal fragments first.
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = strings.ReplaceAll(name, "..", ".")

	// Control characters and null bytes. Whitespace-like controls become
	// spaces so words do not fuse together.
	name = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	name = reservedFileChars.ReplaceAllString(name, "")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	return name
}

func rewriteReservedName(name string) string {
	base := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		base = name[:i]
	}
	if reservedDeviceNames[strings.ToUpper(base)] {
		return reservedNamePrefix + name
	}
	return name
}

func neutralizeExecutable(name string) string {
	lower := strings.ToLower(name)
	for ext := range executableExtensions {
		if strings.HasSuffix(lower, ext) {
			return name + neutralizedExtSuffix
		}
	}
	return name
}
