package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	_, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	sess := New("u1")
	sess.Phase = PhaseSummary
	sess.Ratings["sleep"] = 4
	sess.Ratings["stress"] = 2
	sess.Lowest = []string{"stress", "sleep"}
	sess.Concern = "always tired"
	require.NoError(t, store.Put(ctx, sess))

	got, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PhaseSummary, got.Phase)
	assert.Equal(t, map[string]int{"sleep": 4, "stress": 2}, got.Ratings)
	assert.Equal(t, []string{"stress", "sleep"}, got.Lowest)
	assert.Equal(t, "always tired", got.Concern)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	sess := New("u1")
	sess.Phase = PhaseIntro
	require.NoError(t, store.Put(ctx, sess))
	require.NoError(t, store.Delete(ctx, "u1"))

	_, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	a := New("a")
	a.Phase = PhaseRating
	b := New("b")
	b.Phase = PhaseConfirm
	require.NoError(t, store.Put(ctx, a))
	require.NoError(t, store.Put(ctx, b))

	gotA, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	gotB, ok, err := store.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, PhaseRating, gotA.Phase)
	assert.Equal(t, PhaseConfirm, gotB.Phase)
}
