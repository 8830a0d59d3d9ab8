package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/redis/go-redis/v9"
)

// NewRedisStorage keeps the cart of one storefront profile in Redis. A zero
// ttl keeps the cart until it is overwritten.
func NewRedisStorage(client *redis.Client, profile string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client:  client,
		key:     cacheKey(profile),
		baseTTL: ttl,
	}
}

type RedisStorage struct {
	client  *redis.Client
	key     string
	baseTTL time.Duration
}

// Load returns nil items when the key does not exist.
func (r RedisStorage) Load(ctx context.Context) ([]cart.CartItem, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []cart.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return items, nil
}

func (r RedisStorage) Save(ctx context.Context, items []cart.CartItem) error {
	if items == nil {
		items = []cart.CartItem{}
	}
	jsonCart, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, r.key, string(jsonCart), r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl spreads expiries so carts saved together do not all lapse together.
func (r RedisStorage) ttl() time.Duration {
	if r.baseTTL <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Intn(60)) * time.Minute
	return r.baseTTL + jitter
}

func cacheKey(profile string) string {
	if profile == "" {
		return cart.StorageKey
	}
	return fmt.Sprintf("%s:%s", cart.StorageKey, profile)
}
