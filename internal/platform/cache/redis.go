package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis backs webhook event dedup and shared rate-limit windows so that
// several API replicas agree on both.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(url string, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if prefix == "" {
		prefix = "creatorhub"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// Reserve claims key for ttl. It returns false when the key was already claimed.
func (r *Redis) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key("dedup", key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis reserve: %w", err)
	}
	return ok, nil
}

// Release drops a reservation so the key can be processed again.
func (r *Redis) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key("dedup", key)).Err(); err != nil {
		return fmt.Errorf("redis release: %w", err)
	}
	return nil
}

// Incr counts a hit in a fixed window and returns the running count.
func (r *Redis) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := r.key("ratelimit", key)
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, fmt.Errorf("redis expire: %w", err)
		}
	}
	return count, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(kind string, key string) string {
	return r.prefix + ":" + kind + ":" + key
}
