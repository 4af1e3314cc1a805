package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Game state operations (Redis-backed). Progress never expires.

func (r *RedisStorage) SaveState(ctx context.Context, key string, data []byte) error {
	cmd := r.client.Set(ctx, key, data, 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save game state", "key", key, "error", err)
		return fmt.Errorf("failed to save game state: %w", err)
	}

	r.logger.Debug("Game state saved", "key", key, "bytes", len(data))
	return nil
}

func (r *RedisStorage) LoadState(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Info("No saved game state", "key", key)
			return nil, nil
		}
		r.logger.Error("Failed to load game state", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
