package store_test

import (
	"context"
	"testing"

	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis starts an in-memory Redis and returns a KV bound to it.
func setupTestRedis(t *testing.T) (*store.RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := store.ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return store.NewRedisKV(client, "busbooking:"), mr
}

func TestRedisKV_UsesPrefixedKeys(t *testing.T) {
	kv, mr := setupTestRedis(t)

	require.NoError(t, kv.Set(context.Background(), "routes", []byte("[]")))

	got, err := mr.Get("busbooking:routes")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestRedisKV_GetMissingKey(t *testing.T) {
	kv, _ := setupTestRedis(t)

	_, err := kv.Get(context.Background(), "customers")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedisKV_NullStringFallsBackToSeed(t *testing.T) {
	kv, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("busbooking:routes", "null"))
	c := newCollections(t, kv)

	routes := store.Load[models.Route](context.Background(), c, store.Routes)

	require.NotEmpty(t, routes)
	assert.Equal(t, "R1001", routes[0].RouteID)
}

func TestConnectRedis_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client, err := store.ConnectRedis(context.Background(), addr, "", 0)

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestRedisKV_ErrorIsNotNotFound(t *testing.T) {
	kv, mr := setupTestRedis(t)
	mr.SetError("READONLY")
	defer mr.SetError("")

	_, err := kv.Get(context.Background(), "routes")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, redis.Nil)
}
