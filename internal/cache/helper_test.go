package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prev := client
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	t.Run("miss returns false", func(t *testing.T) {
		var out cachedUser
		found, err := GetJSON(ctx, "missing", &out)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("round trip", func(t *testing.T) {
		in := cachedUser{ID: 7, Name: "albert"}
		require.NoError(t, SetJSON(ctx, UserKey(7), in, UserTTL))

		var out cachedUser
		found, err := GetJSON(ctx, UserKey(7), &out)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, in, out)
	})
}

func TestGetSetJSONNilClient(t *testing.T) {
	prev := client
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })
	ctx := context.Background()

	var out cachedUser
	found, err := GetJSON(ctx, "whatever", &out)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "whatever", cachedUser{}, time.Minute))
}

func TestAside(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	t.Run("miss calls fetch and populates cache", func(t *testing.T) {
		calls := 0
		var out cachedUser
		err := Aside(ctx, UserKey(1), &out, UserTTL, func() error {
			calls++
			out = cachedUser{ID: 1, Name: "berta"}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "berta", out.Name)

		// Second call must be served from cache
		var out2 cachedUser
		err = Aside(ctx, UserKey(1), &out2, UserTTL, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, out, out2)
	})

	t.Run("fetch error propagates without caching", func(t *testing.T) {
		var out cachedUser
		fetchErr := errors.New("db down")
		err := Aside(ctx, UserKey(2), &out, UserTTL, func() error { return fetchErr })
		assert.ErrorIs(t, err, fetchErr)
		assert.False(t, mr.Exists(UserKey(2)))
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		var out cachedUser
		require.NoError(t, Aside(ctx, UserLocationKey(3), &out, UserLocationTTL, func() error {
			out = cachedUser{ID: 3}
			return nil
		}))

		mr.FastForward(UserLocationTTL + time.Second)

		var again cachedUser
		found, err := GetJSON(ctx, UserLocationKey(3), &again)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}
