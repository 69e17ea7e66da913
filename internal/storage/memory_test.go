package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_SetAndGet(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cart_guest", []byte(`[{"id":1}]`)))

	got, err := kv.Get(ctx, "cart_guest")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), got)
}

func TestMemoryKV_GetMissing(t *testing.T) {
	kv := NewMemoryKV()

	_, err := kv.Get(context.Background(), "cart_42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKV_Delete(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cart_1", []byte("[]")))
	require.NoError(t, kv.Delete(ctx, "cart_1"))

	_, err := kv.Get(ctx, "cart_1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error
	require.NoError(t, kv.Delete(ctx, "cart_1"))
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", original))
	original[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[0] = 'y'
	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
