// Package profile derives canonical profile handles from free-text URL fields.
package profile

import (
	"regexp"
	"strings"
)

// handlePattern matches linkedin.com/in/<handle> where the handle runs up to
// the next path segment or query string. The handle may contain unicode.
var handlePattern = regexp.MustCompile(`linkedin\.com/in/([^/?]+)`)

// ExtractHandle returns the public profile handle embedded in a free-text URL
// field. The field may hold a bare handle URL, a URL with trailing slash or
// query string, or arbitrary text containing a profile URL; the first match
// wins. Returns ok=false when no handle can be extracted.
func ExtractHandle(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	m := handlePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}
