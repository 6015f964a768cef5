package service

import (
	"math"
	"strings"
)

// foldKey canonicalizes a uniqueness key: case-folded and trimmed. The
// database unique indexes operate on these keys, so "A@B.edu" and "a@b.edu"
// collide by construction.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
