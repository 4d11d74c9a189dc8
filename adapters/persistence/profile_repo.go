package persistence

import (
	"context"

	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

type kvProfileRepo struct {
	store  *storage.Store
	logger logger.Logger
}

func NewKVProfileRepo(store *storage.Store, logger logger.Logger) profile.Repository {
	return &kvProfileRepo{store: store, logger: logger}
}

// Get returns a not-found error when the locale has no saved record or the saved
// record is unreadable.
func (r *kvProfileRepo) Get(ctx context.Context, locale i18n.Locale) (*profile.Record, error) {
	p := profile.New()
	if !r.store.Get(ctx, profile.StorageKey(locale), p) {
		return nil, apperror.NewNotFound("profile", locale.String())
	}
	p.Normalize()
	return p, nil
}

func (r *kvProfileRepo) Save(ctx context.Context, locale i18n.Locale, p *profile.Record) error {
	unlock := r.store.Lock(profile.StorageKey(locale))
	defer unlock()
	return r.store.Set(ctx, profile.StorageKey(locale), p)
}

func (r *kvProfileRepo) Delete(ctx context.Context, locale i18n.Locale) error {
	return r.store.Remove(ctx, profile.StorageKey(locale))
}

// Update applies fn to the current record (an empty one when none is saved) and
// stores the result atomically with respect to other writers in this process.
func (r *kvProfileRepo) Update(ctx context.Context, locale i18n.Locale, fn func(p *profile.Record) error) (*profile.Record, error) {
	p := profile.New()
	err := r.store.Update(ctx, profile.StorageKey(locale), p, func(bool) error {
		p.Normalize()
		return fn(p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
