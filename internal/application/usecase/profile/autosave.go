package profile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/formstate"
	"github.com/khoahotran/cv-portfolio/pkg/debounce"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	DefaultAutosaveDelay = 2 * time.Second
	autosaveTimeout      = 10 * time.Second
)

type pendingSave struct {
	debouncer *debounce.Debouncer
	mu        sync.Mutex
	record    *profile.Record
}

// AutoSaver persists the latest edit of each locale once edits have paused for the
// configured delay. Every locale has exactly one timer and each Schedule restarts it.
type AutoSaver struct {
	uc     *ProfileUseCase
	delay  time.Duration
	logger logger.Logger

	// OnSave, when set, is called after every autosave attempt.
	OnSave func(locale i18n.Locale, err error)

	mu      sync.Mutex
	pending map[i18n.Locale]*pendingSave
}

func NewAutoSaver(uc *ProfileUseCase, delay time.Duration, log logger.Logger) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &AutoSaver{
		uc:      uc,
		delay:   delay,
		logger:  log,
		pending: make(map[i18n.Locale]*pendingSave),
	}
}

func (a *AutoSaver) slot(locale i18n.Locale) *pendingSave {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pending[locale]
	if !ok {
		p = &pendingSave{}
		p.debouncer = debounce.New(a.delay, func() { a.save(locale, p) })
		a.pending[locale] = p
	}
	return p
}

// Schedule records r as the latest state of locale and restarts its timer.
func (a *AutoSaver) Schedule(locale i18n.Locale, r *profile.Record) {
	p := a.slot(locale)
	p.mu.Lock()
	p.record = r
	p.mu.Unlock()
	p.debouncer.Trigger()
}

func (a *AutoSaver) ScheduleSurface(locale i18n.Locale, s *formstate.Surface) {
	a.Schedule(locale, formstate.Collect(s))
}

func (a *AutoSaver) save(locale i18n.Locale, p *pendingSave) {
	p.mu.Lock()
	r := p.record
	p.record = nil
	p.mu.Unlock()
	if r == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()

	_, err := a.uc.ExecuteSaveProfile(ctx, SaveProfileInput{Locale: locale, Profile: r, Trigger: TriggerAutosave})
	if err != nil {
		a.logger.Warn("Autosave failed", zap.String("locale", locale.String()), zap.Error(err))
	} else {
		a.logger.Debug("Autosaved profile", zap.String("locale", locale.String()))
	}
	if a.OnSave != nil {
		a.OnSave(locale, err)
	}
}

// Flush saves locale's pending edit now and reports whether there was one.
func (a *AutoSaver) Flush(locale i18n.Locale) bool {
	a.mu.Lock()
	p, ok := a.pending[locale]
	a.mu.Unlock()
	return ok && p.debouncer.Flush()
}

// Stop discards locale's pending edit.
func (a *AutoSaver) Stop(locale i18n.Locale) bool {
	a.mu.Lock()
	p, ok := a.pending[locale]
	a.mu.Unlock()
	return ok && p.debouncer.Stop()
}

func (a *AutoSaver) Pending(locale i18n.Locale) bool {
	a.mu.Lock()
	p, ok := a.pending[locale]
	a.mu.Unlock()
	return ok && p.debouncer.Pending()
}

// FlushAll saves every pending edit. Called on shutdown.
func (a *AutoSaver) FlushAll() {
	for _, l := range i18n.Supported() {
		a.Flush(l)
	}
}
