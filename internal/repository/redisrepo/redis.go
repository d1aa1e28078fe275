package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

func Get[T any](rdb *redis.Client, ctx context.Context, key string) (*T, error) {
	raw, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}

	return &value, nil
}

func SetJSON(rdb *redis.Client, ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, key, raw, expiration).Err()
}

func Del(rdb *redis.Client, ctx context.Context, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}
