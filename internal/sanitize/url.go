package sanitize

import (
	"net"
	"net/url"
	"strings"

	"bookvault/internal/result"
)

// ValidatedURL is a URL that passed the scheme allow-list and host checks.
type ValidatedURL struct {
	value string
}

func (u ValidatedURL) String() string { return u.value }

// allowedSchemes is an allow-list. A block-list of bad schemes can never be
// complete (javascript:, data:, vbscript:, and whatever comes next).
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// ValidateURL accepts a URL only if its scheme is allow-listed, it carries no
// embedded credentials, and its host is not a loopback, private, or link-local
// address. Only literal hosts are inspected; DNS resolution would make this a
// suspending operation.
func ValidateURL(raw string) result.Result[ValidatedURL] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return result.Err[ValidatedURL](result.KindInvalidInput, "empty URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return result.Errf[ValidatedURL](result.KindInvalidInput, "malformed URL: %v", err)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return result.Errf[ValidatedURL](result.KindSecurityViolation, "scheme %q is not allowed", u.Scheme)
	}
	if u.User != nil {
		return result.Err[ValidatedURL](result.KindSecurityViolation, "embedded credentials are not allowed")
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return result.Err[ValidatedURL](result.KindInvalidInput, "URL has no host")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return result.Err[ValidatedURL](result.KindSecurityViolation, "loopback host is not allowed")
	}
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return result.Errf[ValidatedURL](result.KindSecurityViolation, "host %s is in a restricted range", host)
		}
	}

	return result.Ok(ValidatedURL{value: u.String()})
}
