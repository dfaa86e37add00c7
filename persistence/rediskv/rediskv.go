// Package rediskv implements the snapshot key-value slot on Redis, for
// deployments that keep the snapshot off the local filesystem.
package rediskv

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sessionlens/sessionlens/domain"
)

// KV adapts a Redis client to the persistence.KV interface.
type KV struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &KV{client: client}, nil
}

func (kv *KV) Get(key string) (string, bool, error) {
	val, err := kv.client.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (kv *KV) Set(key, value string) error {
	err := kv.client.Set(context.Background(), key, value, 0).Err()
	if err != nil && strings.Contains(err.Error(), "OOM") {
		// Redis rejects writes with "OOM command not allowed" when it hits
		// its maxmemory limit.
		return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
	}
	return err
}

func (kv *KV) Remove(key string) error {
	return kv.client.Del(context.Background(), key).Err()
}

// Close releases the underlying client.
func (kv *KV) Close() error {
	return kv.client.Close()
}
