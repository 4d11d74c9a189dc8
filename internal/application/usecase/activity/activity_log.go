package activity

import (
	"context"
	"encoding/json"
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/adapters/metrics"
	"github.com/khoahotran/cv-portfolio/internal/application/service"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	StorageKey = "adminActivityLog"

	DefaultMaxEntries   = 1000
	DefaultQueryLimit   = 100
	DefaultRetention    = 7 * 24 * time.Hour
	unknownExporterName = "unknown"
)

var errNothingToPrune = errors.New("nothing to prune")

type requestInfoKey struct{}

type requestInfo struct {
	userAgent string
	ip        string
}

// WithRequestInfo attaches the caller's user agent and address to ctx so entries
// appended under it record them.
func WithRequestInfo(ctx context.Context, userAgent, ip string) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, requestInfo{userAgent: userAgent, ip: ip})
}

func requestInfoFrom(ctx context.Context) requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(requestInfo)
	return info
}

// Recorder is the narrow view other use cases need.
type Recorder interface {
	Append(ctx context.Context, action string, data map[string]any) (activity.Entry, error)
}

type Options struct {
	MaxEntries   int
	DefaultLimit int
}

// Log is the bounded audit log. The whole log is one JSON array in the store, oldest
// entry first.
type Log struct {
	store        *storage.Store
	publisher    service.EventPublisher
	logger       logger.Logger
	maxEntries   int
	defaultLimit int
	now          func() time.Time
}

func NewLog(store *storage.Store, publisher service.EventPublisher, log logger.Logger, opts Options) *Log {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultQueryLimit
	}
	return &Log{
		store:        store,
		publisher:    publisher,
		logger:       log,
		maxEntries:   opts.MaxEntries,
		defaultLimit: opts.DefaultLimit,
		now:          time.Now,
	}
}

func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Append records action and trims the log to the newest MaxEntries entries. The
// read-append-trim-write cycle runs under the log key's lock.
func (l *Log) Append(ctx context.Context, action string, data map[string]any) (activity.Entry, error) {
	if data == nil {
		data = map[string]any{}
	}
	info := requestInfoFrom(ctx)
	entry := activity.Entry{
		ID:        uuid.NewString(),
		Action:    action,
		Data:      data,
		Timestamp: l.now().UTC(),
		UserAgent: info.userAgent,
		IP:        info.ip,
	}

	var entries []activity.Entry
	err := l.store.Update(ctx, StorageKey, &entries, func(bool) error {
		entries = append(entries, entry)
		if over := len(entries) - l.maxEntries; over > 0 {
			entries = entries[over:]
		}
		return nil
	})
	if err != nil {
		l.logger.Error("Failed to append activity", err, zap.String("action", action))
		return activity.Entry{}, err
	}

	metrics.ActivityEntriesTotal.WithLabelValues(action).Inc()

	if l.publisher != nil {
		go func() {
			if err := l.publisher.PublishActivityEvent(context.Background(), entry); err != nil {
				l.logger.Error("Failed to publish activity event", err, zap.String("entry_id", entry.ID))
			}
		}()
	}
	return entry, nil
}

// All returns every retained entry, oldest first.
func (l *Log) All(ctx context.Context) []activity.Entry {
	var entries []activity.Entry
	if !l.store.Get(ctx, StorageKey, &entries) || entries == nil {
		return []activity.Entry{}
	}
	return entries
}

// Query returns up to limit entries, most recent first. A limit of zero or less uses
// the configured default.
func (l *Log) Query(ctx context.Context, limit int) []activity.Entry {
	if limit <= 0 {
		limit = l.defaultLimit
	}
	entries := l.All(ctx)
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]activity.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// PruneOlderThan drops entries older than now-d and returns how many were removed.
func (l *Log) PruneOlderThan(ctx context.Context, d time.Duration) (int, error) {
	cutoff := l.now().UTC().Add(-d)
	removed := 0

	var entries []activity.Entry
	err := l.store.Update(ctx, StorageKey, &entries, func(found bool) error {
		if !found {
			return errNothingToPrune
		}
		kept := entries[:0]
		for _, e := range entries {
			if e.OlderThan(cutoff) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if removed == 0 {
			return errNothingToPrune
		}
		entries = kept
		return nil
	})
	if errors.Is(err, errNothingToPrune) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	l.logger.Info("Pruned activity log", zap.Int("removed", removed), zap.Duration("retention", d))
	return removed, nil
}

type SystemInfo struct {
	UserAgent string `json:"userAgent,omitempty"`
	Platform  string `json:"platform"`
	GoVersion string `json:"goVersion"`
}

type ExportBundle struct {
	ExportDate  time.Time        `json:"exportDate"`
	ExportedBy  string           `json:"exportedBy"`
	ActivityLog []activity.Entry `json:"activityLog"`
	SystemInfo  SystemInfo       `json:"systemInfo"`
}

// Export renders the retained log, most recent first, as indented JSON and records a
// data_export entry.
func (l *Log) Export(ctx context.Context, exportedBy string) ([]byte, error) {
	if exportedBy == "" {
		exportedBy = unknownExporterName
	}
	entries := l.Query(ctx, l.maxEntries)
	bundle := ExportBundle{
		ExportDate:  l.now().UTC(),
		ExportedBy:  exportedBy,
		ActivityLog: entries,
		SystemInfo: SystemInfo{
			UserAgent: requestInfoFrom(ctx).userAgent,
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			GoVersion: runtime.Version(),
		},
	}

	out, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode activity export", err)
	}

	if _, err := l.Append(ctx, activity.ActionDataExport, map[string]any{"recordCount": len(entries)}); err != nil {
		l.logger.Warn("Export succeeded but could not be logged", zap.Error(err))
	}
	return out, nil
}
