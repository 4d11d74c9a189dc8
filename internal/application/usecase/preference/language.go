package preference

import (
	"context"

	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
)

const LanguageKey = "preferred-language"

type LanguageUseCase struct {
	store *storage.Store
}

func NewLanguageUseCase(store *storage.Store) *LanguageUseCase {
	return &LanguageUseCase{store: store}
}

// Get returns the stored preference. Without one, the locale negotiated from
// acceptLanguage is used; an unreadable stored value counts as none.
func (uc *LanguageUseCase) Get(ctx context.Context, acceptLanguage string) i18n.Locale {
	var stored string
	if uc.store.Get(ctx, LanguageKey, &stored) {
		if l, err := i18n.Parse(stored); err == nil {
			return l
		}
	}
	return i18n.Detect(acceptLanguage)
}

func (uc *LanguageUseCase) Set(ctx context.Context, lang string) (i18n.Locale, error) {
	l, err := i18n.Parse(lang)
	if err != nil {
		return "", apperror.NewValidation(map[string]string{"language": "must be one of: ar en"})
	}
	if err := uc.store.Set(ctx, LanguageKey, l.String()); err != nil {
		return "", err
	}
	return l, nil
}

// Toggle switches between the two supported locales and stores the result.
func (uc *LanguageUseCase) Toggle(ctx context.Context, acceptLanguage string) (i18n.Locale, error) {
	next := i18n.English
	if uc.Get(ctx, acceptLanguage) == i18n.English {
		next = i18n.Arabic
	}
	return uc.Set(ctx, next.String())
}
