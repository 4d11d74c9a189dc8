package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultCheckInterval = time.Minute
)

// Watchdog ends the admin session after a period without tracked activity.
type Watchdog struct {
	gate     *Gate
	logger   logger.Logger
	idle     time.Duration
	interval time.Duration
	now      func() time.Time

	mu           sync.Mutex
	lastActivity time.Time
}

func NewWatchdog(gate *Gate, idle, interval time.Duration, log logger.Logger) *Watchdog {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Watchdog{
		gate:         gate,
		logger:       log,
		idle:         idle,
		interval:     interval,
		now:          time.Now,
		lastActivity: time.Now(),
	}
}

func (w *Watchdog) WithClock(now func() time.Time) *Watchdog {
	w.now = now
	w.mu.Lock()
	w.lastActivity = now()
	w.mu.Unlock()
	return w
}

// Touch records user activity.
func (w *Watchdog) Touch() {
	w.mu.Lock()
	w.lastActivity = w.now()
	w.mu.Unlock()
}

func (w *Watchdog) LastActivity() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActivity
}

// Check runs one inactivity check and reports whether it ended the session.
// Idle time counts from the later of the last tracked activity and the session's login.
func (w *Watchdog) Check(ctx context.Context) bool {
	session, ok := w.gate.CurrentSession(ctx)
	if !ok {
		return false
	}
	last := w.LastActivity()
	if session.IssuedAt.After(last) {
		last = session.IssuedAt
	}
	idleFor := w.now().Sub(last)
	if idleFor <= w.idle {
		return false
	}
	if err := w.gate.ForceLogout(ctx); err != nil {
		w.logger.Error("Failed to end idle session", err)
		return false
	}
	w.logger.Info("Admin session ended after inactivity", zap.Duration("idle", idleFor))
	return true
}

// Run checks every interval until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}
