package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should return stored values until deleted", func(t *testing.T) {
		store := NewMemory(0)
		require.NoError(t, store.Set(ctx, "orders:1", []byte("one"), 0))

		got, err := store.Get(ctx, "orders:1")
		require.NoError(t, err)
		assert.Equal(t, []byte("one"), got)

		require.NoError(t, store.Delete(ctx, "orders:1"))
		_, err = store.Get(ctx, "orders:1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("should copy values in and out", func(t *testing.T) {
		store := NewMemory(0)
		value := []byte("abc")
		require.NoError(t, store.Set(ctx, "k", value, 0))
		value[0] = 'x'

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))

		got[1] = 'y'
		again, _ := store.Get(ctx, "k")
		assert.Equal(t, "abc", string(again))
	})

	t.Run("should expire entries lazily", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		store := NewMemory(time.Minute)
		store.now = func() time.Time { return now }

		require.NoError(t, store.Set(ctx, "default", []byte("a"), 0))
		require.NoError(t, store.Set(ctx, "short", []byte("b"), time.Second))

		now = now.Add(2 * time.Second)
		_, err := store.Get(ctx, "short")
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = store.Get(ctx, "default")
		assert.NoError(t, err)
		assert.Equal(t, 1, store.Len())

		now = now.Add(time.Minute)
		_, err = store.Get(ctx, "default")
		assert.ErrorIs(t, err, ErrCacheMiss)
		assert.Zero(t, store.Len())
	})

	t.Run("should require a key", func(t *testing.T) {
		assert.Error(t, NewMemory(0).Set(ctx, "", []byte("v"), 0))
	})
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	store := Noop()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, store.Delete(ctx, "k"))
}
