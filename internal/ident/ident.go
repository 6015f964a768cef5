package ident

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"
)

// Generator produces collision-resistant string identifiers. Uniqueness is
// guaranteed within a single process by a monotonic counter; wall-clock
// milliseconds and a random base-36 suffix keep identifiers sortable and
// hard to guess. No cross-process guarantee is made.
type Generator struct {
	counter atomic.Uint64
	now     func() time.Time
	random  func() int64
}

// New constructs a generator backed by the system clock.
func New() *Generator {
	return &Generator{
		now:    time.Now,
		random: rand.Int63,
	}
}

// Next returns a fresh identifier of the form <millis>_<base36 random>_<counter>.
func (g *Generator) Next() string {
	millis := g.now().UnixMilli()
	suffix := strconv.FormatInt(g.random(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	count := g.counter.Add(1)

	return fmt.Sprintf("%d_%s_%d", millis, suffix, count)
}
