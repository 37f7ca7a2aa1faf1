package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepository is a thin JSON struct cache over Redis, used by the
// catalog read path. Misses and marshal failures are reported, not fatal;
// callers fall back to MongoDB.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

func (r *CacheRepository) SaveStruct(ctx context.Context, key string, model any, ttl time.Duration) error {
	val, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	return nil
}

func (r *CacheRepository) GetStruct(ctx context.Context, key string, model any) error {
	encoded, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("error getting struct from cache: %w", err)
	}
	return json.Unmarshal(encoded, model)
}

func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}
