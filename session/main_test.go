package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "none", PhaseNone.String())
	assert.Equal(t, "rating", PhaseRating.String())
	assert.Equal(t, "confirm", PhaseConfirm.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	sess := New("u1")
	sess.Phase = PhaseRating
	sess.PillarIndex = 3
	sess.Ratings["sleep"] = 4
	require.NoError(t, store.Put(ctx, sess))

	got, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PhaseRating, got.Phase)
	assert.Equal(t, 3, got.PillarIndex)
	assert.Equal(t, 4, got.Ratings["sleep"])

	require.NoError(t, store.Delete(ctx, "u1"))
	_, ok, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDeleteUnknownUser(t *testing.T) {
	assert.NoError(t, NewMemoryStore().Delete(context.Background(), "nobody"))
}
