// Package sanitize implements a best-effort blocklist sanitizer for untrusted
// string input. Removal runs to a fixpoint so a dangerous token re-formed by
// the removal of an inner match is caught too. It is used as a write gate in
// front of the store, never as the sole security boundary.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	iframeBlockRe  = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`)
	jsSchemeRe     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)

	sqlKeywordRe   = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION)\b`)
	sqlCommentRe   = regexp.MustCompile(`(--|/\*|\*/|;)`)
	sqlTautologyRe = regexp.MustCompile(`(?i)\b(OR|AND)\s+\d+\s*=\s*\d+`)

	dangerPatterns = []*regexp.Regexp{sqlKeywordRe, sqlCommentRe, sqlTautologyRe}

	strictHTMLPolicy = bluemonday.StrictPolicy()
)

// Clean removes script and iframe blocks, javascript: scheme prefixes and
// inline event-handler attributes from s, then trims surrounding whitespace.
// The removal set repeats until the string stops changing, so nested payloads
// like "<scr<script>x</script>ipt>" cannot re-form a live tag. Clean is
// idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	for {
		next := scriptBlockRe.ReplaceAllString(s, "")
		next = iframeBlockRe.ReplaceAllString(next, "")
		next = jsSchemeRe.ReplaceAllString(next, "")
		next = eventHandlerRe.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// CleanValue sanitizes v recursively: strings are cleaned, slices are cleaned
// element-wise, maps have both keys and values cleaned. Any other type passes
// through unchanged.
func CleanValue(v interface{}) interface{} {
	switch value := v.(type) {
	case string:
		return Clean(value)
	case []interface{}:
		cleaned := make([]interface{}, len(value))
		for i, item := range value {
			cleaned[i] = CleanValue(item)
		}
		return cleaned
	case []string:
		cleaned := make([]string, len(value))
		for i, item := range value {
			cleaned[i] = Clean(item)
		}
		return cleaned
	case map[string]interface{}:
		cleaned := make(map[string]interface{}, len(value))
		for key, item := range value {
			cleaned[Clean(key)] = CleanValue(item)
		}
		return cleaned
	default:
		return v
	}
}

// IsSafePattern reports whether s is free of SQL keyword, comment and
// tautology patterns. This is a defense-in-depth heuristic applied before
// writes; queries themselves are always parameterised.
func IsSafePattern(s string) bool {
	for _, pattern := range dangerPatterns {
		if pattern.MatchString(s) {
			return false
		}
	}
	return true
}

// StripHTML removes every HTML element from s, keeping only text content.
// Used for free-text comment bodies where no markup is allowed at all.
func StripHTML(s string) string {
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(s))
}
