package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbenoit/sift/storage"
)

func TestMemstore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a", []byte("hello")))
		value, err := store.GetRange(ctx, "a", 1, 3)
		require.NoError(t, err)
		assert.Equal(t, []byte("ell"), value)
	})
	t.Run("size", func(t *testing.T) {
		size, err := store.Size(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(5), size)
	})
	t.Run("out of bounds range", func(t *testing.T) {
		_, err := store.GetRange(ctx, "a", 3, 10)
		assert.ErrorIs(t, err, storage.ErrInvalidRange)
	})
	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a"))
		_, err := store.GetRange(ctx, "a", 0, 1)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
		_, err = store.Size(ctx, "a")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}
