package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideMissThenHit(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *map[string]int) func() error {
		return func() error {
			fetches++
			*dest = map[string]int{"te_entendo": 2, "forca": 1}
			return nil
		}
	}

	var counts map[string]int
	require.NoError(t, Aside(ctx, ReactionCountsKey(42), &counts, ReactionCountsTTL, fetch(&counts)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 2, counts["te_entendo"])

	// Second read is served from the cache.
	var cached map[string]int
	require.NoError(t, Aside(ctx, ReactionCountsKey(42), &cached, ReactionCountsTTL, fetch(&cached)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, counts, cached)
}

func TestAsideFetchError(t *testing.T) {
	withMiniredis(t)

	var dest int
	err := Aside(context.Background(), PostKey(1), &dest, PostTTL, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAsideExpiry(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *int) func() error {
		return func() error {
			fetches++
			*dest = fetches
			return nil
		}
	}

	var v int
	require.NoError(t, Aside(ctx, KarmaScoreKey(7), &v, KarmaScoreTTL, fetch(&v)))
	require.Equal(t, 1, v)

	mr.FastForward(KarmaScoreTTL + time.Second)

	require.NoError(t, Aside(ctx, KarmaScoreKey(7), &v, KarmaScoreTTL, fetch(&v)))
	assert.Equal(t, 2, v)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	var v string
	require.NoError(t, SetJSON(ctx, PostKey(9), "cached", PostTTL))
	found, err := GetJSON(ctx, PostKey(9), &v)
	require.NoError(t, err)
	require.True(t, found)

	InvalidatePost(ctx, 9)

	found, err = GetJSON(ctx, PostKey(9), &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilClientDegradesToFetch(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, PostKey(1), new(int))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, PostKey(1), 10, PostTTL))

	fetches := 0
	var v int
	require.NoError(t, Aside(ctx, PostKey(1), &v, PostTTL, func() error {
		fetches++
		v = 99
		return nil
	}))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 99, v)
}
