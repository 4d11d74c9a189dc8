package preference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

func TestLanguageUseCase(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemoryBackend()
	uc := NewLanguageUseCase(storage.NewStore(backend, "", logger.NewNop()))

	assert.Equal(t, i18n.Arabic, uc.Get(ctx, ""))
	assert.Equal(t, i18n.English, uc.Get(ctx, "en-GB,en;q=0.8"))

	l, err := uc.Set(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, i18n.English, l)
	assert.Equal(t, i18n.English, uc.Get(ctx, "ar"))

	raw, err := backend.Get(ctx, LanguageKey)
	require.NoError(t, err)
	assert.Equal(t, `"en"`, string(raw))

	_, err = uc.Set(ctx, "fr")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, i18n.English, uc.Get(ctx, ""))

	l, err = uc.Toggle(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, i18n.Arabic, l)
}

func TestLanguageUseCase_CorruptPreference(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemoryBackend()
	uc := NewLanguageUseCase(storage.NewStore(backend, "", logger.NewNop()))

	require.NoError(t, backend.Set(ctx, LanguageKey, []byte("en")))
	assert.Equal(t, i18n.Arabic, uc.Get(ctx, ""))
}
