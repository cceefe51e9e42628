package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hpungsan/jobdork/internal/errors"
)

// KeyPrefix namespaces jobdork keys inside a shared Redis database.
const KeyPrefix = "jobdork:"

// Redis stores values as plain strings under KeyPrefix+key, without expiry.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis at redisURL (redis://host:port/db) and pings it.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("store: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	return data, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
