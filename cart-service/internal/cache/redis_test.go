package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis server and returns a RedisStorage instance
func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	storage := NewRedisStorage(client, "", ttl)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return storage, mr, cleanup
}

func TestLoad_Success(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	items := []cart.CartItem{
		{ServiceID: 1, Quantity: 2, Service: catalog.Service{ID: 1, Title: "Audit"}},
		{ServiceID: 2, Quantity: 3, Service: catalog.Service{ID: 2, Title: "SEO"}},
	}
	data, _ := json.Marshal(items)
	mr.Set(cart.StorageKey, string(data))

	result, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ServiceID)
	assert.Equal(t, "SEO", result[1].Service.Title)
}

func TestLoad_Missing(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	result, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLoad_InvalidJSON(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	require.NoError(t, mr.Set(cart.StorageKey, `[{"serviceId":1,`))

	_, err := storage.Load(context.Background())
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestSave_Success(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	err := storage.Save(context.Background(), []cart.CartItem{{ServiceID: 10, Quantity: 5}})
	require.NoError(t, err)

	stored, err := mr.Get(cart.StorageKey)
	require.NoError(t, err)

	var items []cart.CartItem
	require.NoError(t, json.Unmarshal([]byte(stored), &items))
	assert.Len(t, items, 1)
	assert.Equal(t, time.Duration(0), mr.TTL(cart.StorageKey))
}

func TestSave_EmptyCartIsArray(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	require.NoError(t, storage.Save(context.Background(), nil))

	stored, err := mr.Get(cart.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)
}

func TestSave_WithTTL(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t, 24*time.Hour)
	defer cleanup()

	require.NoError(t, storage.Save(context.Background(), []cart.CartItem{}))

	ttl := mr.TTL(cart.StorageKey)
	assert.True(t, ttl >= 24*time.Hour, "TTL should be at least base TTL")
	assert.True(t, ttl < 25*time.Hour, "TTL should be base + max jitter")
}

func TestProfileKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	storage := NewRedisStorage(client, "alice", 0)
	require.NoError(t, storage.Save(context.Background(), []cart.CartItem{}))

	assert.True(t, mr.Exists("consultpro_cart:alice"))
}

func TestStoreRoundTripOverRedis(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t, 0)
	defer cleanup()
	ctx := context.Background()

	s := cart.NewStore(ctx, storage, zap.NewNop())
	s.AddItem(ctx, catalog.Service{ID: 3, Price: catalog.Float(80)}, 2, cart.SelectedOptions{})

	restored := cart.NewStore(ctx, storage, zap.NewNop())
	assert.Equal(t, 2, restored.ItemCount())
}
