package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

// ErrAlreadyArchived is returned when an entry id is already in the archive. Kafka
// delivers at least once, so the worker treats it as success.
var ErrAlreadyArchived = errors.New("activity entry already archived")

// ActivityArchive is the durable tail of the bounded activity log.
type ActivityArchive struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewActivityArchive(db *pgxpool.Pool, log logger.Logger) *ActivityArchive {
	return &ActivityArchive{db: db, logger: log}
}

func (a *ActivityArchive) Archive(ctx context.Context, e activity.Entry) error {
	data := e.Data
	if data == nil {
		data = map[string]any{}
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal activity data: %w", err)
	}

	query, args, err := psql.Insert("activity_archive").
		Columns("id", "action", "data", "user_agent", "ip", "occurred_at").
		Values(e.ID, e.Action, dataBytes, e.UserAgent, e.IP, e.Timestamp.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build archive insert: %w", err)
	}

	if _, err := a.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyArchived
		}
		a.logger.Error("Failed to archive activity entry", err, zap.String("entry_id", e.ID))
		return fmt.Errorf("failed to archive activity entry: %w", err)
	}
	return nil
}

// Recent returns up to limit archived entries, newest first. An empty action matches
// every action.
func (a *ActivityArchive) Recent(ctx context.Context, action string, limit int) ([]activity.Entry, error) {
	builder := psql.Select("id", "action", "data", "user_agent", "ip", "occurred_at").
		From("activity_archive").
		OrderBy("occurred_at DESC").
		Limit(uint64(limit))
	if action != "" {
		builder = builder.Where("action = ?", action)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build archive query: %w", err)
	}

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity archive: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		e, err := scanArchivedEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive rows: %w", err)
	}
	return entries, nil
}

func scanArchivedEntry(row pgx.Row) (*activity.Entry, error) {
	var (
		e         activity.Entry
		dataBytes []byte
	)
	if err := row.Scan(&e.ID, &e.Action, &dataBytes, &e.UserAgent, &e.IP, &e.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to scan archived entry: %w", err)
	}
	if len(dataBytes) > 0 {
		if err := json.Unmarshal(dataBytes, &e.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal archived data: %w", err)
		}
	}
	return &e, nil
}
