package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the Cache interface. Errors are
// logged and treated as misses so a flaky Redis never breaks a request.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an already-connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedis(client), nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] redis get %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[WARN] redis set %s: %v", key, err)
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
