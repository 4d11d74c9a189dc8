package persistence

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Connections holds whatever clients NewBackend opened so the caller can close them
// and reuse the pool for other tables.
type Connections struct {
	Redis *redis.Client
	DB    *pgxpool.Pool
}

func (c *Connections) Close() {
	if c.Redis != nil {
		c.Redis.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

func NewBackend(cfg config.Config, log logger.Logger) (storage.Backend, *Connections, error) {
	conns := &Connections{}

	switch cfg.Storage.Backend {
	case "", BackendMemory:
		log.Warn("Using in-memory storage, data will not survive a restart")
		return NewMemoryBackend(), conns, nil
	case BackendRedis:
		rdb, err := NewRedisClient(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		conns.Redis = rdb
		return NewRedisBackend(rdb), conns, nil
	case BackendPostgres:
		pool, err := NewPostgresPool(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		conns.DB = pool
		return NewPostgresBackend(pool), conns, nil
	}

	log.Error("Unknown storage backend", nil, zap.String("backend", cfg.Storage.Backend))
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
