package validation

import (
	"regexp"
	"strings"
)

// SessionIDPattern matches crawl session ids: UUIDs or legacy millisecond
// timestamps.
var SessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)

// NormalizeCrawlURL prefixes https:// unless the input already starts with
// http:// or https://. The input is otherwise passed through untouched,
// surrounding whitespace included; blank input yields "".
func NormalizeCrawlURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// ValidateSessionID checks that an id taken from a URL or request is
// well-formed before it is looked up.
func ValidateSessionID(id string) bool {
	return SessionIDPattern.MatchString(id)
}
