package redisrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/iftm/client-service/internal/domain"
)

var ErrCacheMiss = errors.New("client not cached")

// RedisClientCache holds single-client lookups keyed by ID.
type RedisClientCache struct {
	client   *redis.Client
	cacheTTL time.Duration
}

func NewRedisClientCache(client *redis.Client, cacheTTL time.Duration) *RedisClientCache {
	return &RedisClientCache{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (r *RedisClientCache) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	key := r.clientKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	var client domain.Client
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client: %w", err)
	}

	return &client, nil
}

func (r *RedisClientCache) Save(ctx context.Context, client *domain.Client) error {
	key := r.clientKey(client.ID)

	data, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("failed to marshal client: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}

	return nil
}

func (r *RedisClientCache) Delete(ctx context.Context, id int64) error {
	key := r.clientKey(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (r *RedisClientCache) clientKey(id int64) string {
	return fmt.Sprintf("client:%d", id)
}
