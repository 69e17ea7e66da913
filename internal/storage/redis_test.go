package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisKV instance
func setupTestRedis(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisKV(client), mr
}

func TestRedisKV_SetAndGet(t *testing.T) {
	kv, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cart_7", []byte(`[{"id":5,"quantity":3}]`)))

	got, err := kv.Get(ctx, "cart_7")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":5,"quantity":3}]`), got)
}

func TestRedisKV_GetMissing(t *testing.T) {
	kv, _ := setupTestRedis(t)

	_, err := kv.Get(context.Background(), "cart_nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisKV_Delete(t *testing.T) {
	kv, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set("cart_guest", "[]")
	require.NoError(t, kv.Delete(ctx, "cart_guest"))

	assert.False(t, mr.Exists("cart_guest"))
}

func TestRedisKV_NoExpiry(t *testing.T) {
	kv, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cart_9", []byte("[]")))
	assert.Equal(t, int64(0), int64(mr.TTL("cart_9")))
}
