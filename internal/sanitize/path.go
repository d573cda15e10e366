package sanitize

import (
	"strings"
	"unicode"

	"bookvault/internal/result"
)

// ValidatedFilePath is a vault-relative path with no traversal, absolute
// prefix, or control characters.
type ValidatedFilePath struct {
	value string
}

func (p ValidatedFilePath) String() string { return p.value }

const maxFilePathLen = 260

// ValidateFilePath accepts only well-formed vault-relative paths. Unlike
// FileName it never rewrites: a path that needs fixing is a path we reject.
func ValidateFilePath(path string) result.Result[ValidatedFilePath] {
	if path == "" {
		return result.Err[ValidatedFilePath](result.KindInvalidInput, "empty path")
	}
	if len(path) > maxFilePathLen {
		return result.Err[ValidatedFilePath](result.KindInvalidInput, "path exceeds length ceiling")
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return result.Err[ValidatedFilePath](result.KindSecurityViolation, "absolute paths are not allowed")
	}
	if len(path) >= 2 && path[1] == ':' && isASCIILetter(path[0]) {
		return result.Err[ValidatedFilePath](result.KindSecurityViolation, "drive-letter paths are not allowed")
	}
	if strings.Contains(path, "..") {
		return result.Err[ValidatedFilePath](result.KindSecurityViolation, "parent-directory references are not allowed")
	}
	if strings.Contains(path, "//") || strings.Contains(path, "\\\\") {
		return result.Err[ValidatedFilePath](result.KindSecurityViolation, "doubled separators are not allowed")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return result.Err[ValidatedFilePath](result.KindSecurityViolation, "control characters are not allowed")
		}
	}
	return result.Ok(ValidatedFilePath{value: path})
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
