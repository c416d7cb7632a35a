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

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type fakeSettings struct {
	CanBeFollowed bool `json:"can_be_followed"`
}

func TestAside(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *fakeSettings) func() error {
		return func() error {
			calls++
			dest.CanBeFollowed = true
			return nil
		}
	}

	var first fakeSettings
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.True(t, first.CanBeFollowed)
	assert.Equal(t, 1, calls)

	t.Run("SecondReadHitsCache", func(t *testing.T) {
		var second fakeSettings
		require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
		assert.True(t, second.CanBeFollowed)
		assert.Equal(t, 1, calls)
	})

	t.Run("InvalidateForcesRefetch", func(t *testing.T) {
		Invalidate(ctx, "k")

		var third fakeSettings
		require.NoError(t, Aside(ctx, "k", &third, time.Minute, fetch(&third)))
		assert.Equal(t, 2, calls)
	})

	t.Run("FetchErrorPropagates", func(t *testing.T) {
		boom := errors.New("boom")
		var dest fakeSettings
		err := Aside(ctx, "other", &dest, time.Minute, func() error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestAsideWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	calls := 0
	var dest fakeSettings
	fetch := func() error {
		calls++
		dest.CanBeFollowed = true
		return nil
	}
	require.NoError(t, Aside(ctx, "k", &dest, time.Minute, fetch))
	require.NoError(t, Aside(ctx, "k", &dest, time.Minute, fetch))
	assert.Equal(t, 2, calls)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "privacy:42", PrivacySettingsKey(42))
	assert.Equal(t, "pagevis:7", PageVisibilityKey(7))
	assert.Equal(t, "blocked:1:2", BlockedKey(1, 2))
}
