package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

func NewRedisClient(cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.", zap.String("addr", cfg.Redis.Addr))
	return rdb, nil
}

type redisBackend struct {
	rdb *redis.Client
}

func NewRedisBackend(rdb *redis.Client) storage.Backend {
	return &redisBackend{rdb: rdb}
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (b *redisBackend) Remove(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
