// Package deptmatch reconciles inconsistently formatted department names.
// Admin-entered survey departments and student-entered profile departments
// drift ("B.Com (General)" vs "bcom general"); matching is tiered so the
// loosest rule only applies when stricter ones fail.
package deptmatch

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	strippedRe   = regexp.MustCompile(`[().]`)
	alnumOnlyRe  = regexp.MustCompile(`[^a-z0-9]`)
)

// Normalize canonicalizes a department name: lowercased, trimmed, internal
// whitespace collapsed, parentheses and periods removed, underscores
// converted to spaces.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strippedRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Match reports whether two department names refer to the same department.
// Tiers, first hit wins:
//  1. normalized equality
//  2. equality after stripping every non-alphanumeric character
//  3. substring containment either direction, only when both cleaned names
//     are at least four characters (short abbreviations produce false
//     positives otherwise)
func Match(a, b string) bool {
	normA := Normalize(a)
	normB := Normalize(b)
	if normA == "" || normB == "" {
		return false
	}

	if normA == normB {
		return true
	}

	cleanA := alnumOnlyRe.ReplaceAllString(normA, "")
	cleanB := alnumOnlyRe.ReplaceAllString(normB, "")
	if cleanA == cleanB && cleanA != "" {
		return true
	}

	if len(cleanA) >= 4 && len(cleanB) >= 4 {
		if strings.Contains(cleanA, cleanB) || strings.Contains(cleanB, cleanA) {
			return true
		}
	}

	return false
}
