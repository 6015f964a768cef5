package ident

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGeneratorNextUnique(t *testing.T) {
	gen := New()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := gen.Next()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id: %s", id)
		seen[id] = struct{}{}
	}
}

func TestGeneratorNextUniqueWithFrozenClock(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	gen := &Generator{
		now:    func() time.Time { return fixed },
		random: func() int64 { return 42 },
	}

	first := gen.Next()
	second := gen.Next()
	require.NotEqual(t, first, second)
}

func TestGeneratorNextShape(t *testing.T) {
	gen := New()
	parts := strings.Split(gen.Next(), "_")
	require.Len(t, parts, 3)
	require.NotEmpty(t, parts[0])
	require.NotEmpty(t, parts[1])
	require.Equal(t, "1", parts[2])
}
