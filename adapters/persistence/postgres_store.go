package persistence

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func NewPostgresPool(cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}

type postgresBackend struct {
	db *pgxpool.Pool
}

// NewPostgresBackend stores values in the kv_entries table.
func NewPostgresBackend(db *pgxpool.Pool) storage.Backend {
	return &postgresBackend{db: db}
}

func (b *postgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.Select("value").
		From("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build kv select: %w", err)
	}

	var value []byte
	if err := b.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return value, nil
}

func (b *postgresBackend) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := psql.Insert("kv_entries").
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build kv upsert: %w", err)
	}

	if _, err := b.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert key %s: %w", key, err)
	}
	return nil
}

func (b *postgresBackend) Remove(ctx context.Context, key string) error {
	query, args, err := psql.Delete("kv_entries").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build kv delete: %w", err)
	}
	if _, err := b.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
