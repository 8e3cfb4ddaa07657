// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observe

import "regexp"

var (
	// Matches "Bearer <token>" wherever it appears: tokens leak into logs
	// through upstream error strings and echoed request dumps.
	bearerRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// Key/value forms such as api_key=..., x-api-key: ... and token=...
	// in URLs and error messages.
	keyKVRe = regexp.MustCompile(`(?i)\b(x-api-key|api[_-]?key|token)\b\s*[:=]\s*[^\s&"']+`)
)

// Redact removes credential-bearing substrings from a log or error string.
// Safe to call on any message, including upstream error text.
func Redact(s string) string {
	if s == "" {
		return ""
	}
	out := bearerRe.ReplaceAllString(s, "Bearer <redacted>")
	out = keyKVRe.ReplaceAllString(out, "$1=<redacted>")
	return out
}
