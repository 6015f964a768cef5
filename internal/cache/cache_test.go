package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, 5*time.Minute, zerolog.Nop()), server
}

func TestCacheRoundTripWithinTTL(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	written := []string{"alpha", "beta"}
	store.Set(ctx, "surveys", written)

	var read []string
	require.True(t, store.Get(ctx, "surveys", &read))
	require.Equal(t, written, read)
}

func TestCacheExpiresAndPurges(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "users", []string{"a"})

	current := time.Now()
	store.now = func() time.Time { return current.Add(5 * time.Minute) }

	var read []string
	require.False(t, store.Get(ctx, "users", &read))

	// Lazy expiry removes the underlying key, not just the logical entry.
	require.False(t, server.Exists(keyPrefix+"users"))
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, server.Set(keyPrefix+"questions", "{not json"))

	var read []string
	require.False(t, store.Get(ctx, "questions", &read))
}

func TestCacheInvalidate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "departments", []string{"BCA"})
	store.Invalidate(ctx, "departments")

	var read []string
	require.False(t, store.Get(ctx, "departments", &read))
}

func TestCacheClearAll(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "surveys", []string{"s"})
	store.Set(ctx, "users", []string{"u"})
	require.NoError(t, server.Set("unrelated", "kept"))

	store.ClearAll(ctx)

	var read []string
	require.False(t, store.Get(ctx, "surveys", &read))
	require.False(t, store.Get(ctx, "users", &read))
	require.True(t, server.Exists("unrelated"))
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store
	ctx := context.Background()

	store.Set(ctx, "surveys", []string{"s"})
	var read []string
	require.False(t, store.Get(ctx, "surveys", &read))
	store.Invalidate(ctx, "surveys")
	store.ClearAll(ctx)
}
