package utils

import (
	"net/url"
	"strings"
)

// ValidateURL accepts absolute http(s) URLs and same-origin paths ("/x").
// Anything else (javascript:, data:, protocol-relative //host, bare words)
// is rejected so it can never end up in an href or src attribute.
func ValidateURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if strings.HasPrefix(s, "/") {
		if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
			return "", false
		}
		if _, err := url.Parse(s); err != nil {
			return "", false
		}
		return s, true
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return "", false
	}
	return s, true
}

// IsAbsoluteHTTP reports whether s starts with http:// or https://.
func IsAbsoluteHTTP(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// JoinBaseURL prefixes a relative path with base, keeping exactly one slash between them.
func JoinBaseURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
