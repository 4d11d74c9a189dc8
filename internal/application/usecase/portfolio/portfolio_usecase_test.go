package portfolio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

func TestSkillPercent(t *testing.T) {
	assert.Equal(t, 25, SkillPercent(profile.LevelBeginner))
	assert.Equal(t, 50, SkillPercent(profile.LevelIntermediate))
	assert.Equal(t, 75, SkillPercent(profile.LevelAdvanced))
	assert.Equal(t, 90, SkillPercent(profile.LevelExpert))
	assert.Equal(t, 0, SkillPercent("guru"))
}

func TestPeriod(t *testing.T) {
	end := "2021-06"
	tests := []struct {
		name   string
		locale i18n.Locale
		exp    profile.Experience
		want   string
	}{
		{"current en", i18n.English, profile.Experience{StartDate: "2020-01", IsCurrent: true}, "2020-01 – Present"},
		{"current ar", i18n.Arabic, profile.Experience{StartDate: "2020-01", IsCurrent: true}, "2020-01 – حتى الآن"},
		{"closed", i18n.English, profile.Experience{StartDate: "2019-01", EndDate: &end}, "2019-01 – 2021-06"},
		{"open without flag", i18n.English, profile.Experience{StartDate: "2019-01"}, "2019-01"},
		{"no start", i18n.English, profile.Experience{EndDate: &end}, "2021-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Period(tt.locale, tt.exp))
		})
	}
}

func newUseCase(t *testing.T) (*PortfolioUseCase, profile.Repository) {
	t.Helper()
	store := storage.NewStore(persistence.NewMemoryBackend(), "test", logger.NewNop())
	repo := persistence.NewKVProfileRepo(store, logger.NewNop())
	uc := NewPortfolioUseCase(repo, "https://cv.example.com/", logger.NewNop()).
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) })
	return uc, repo
}

func savedRecord() *profile.Record {
	r := profile.Defaults()
	r.Personal.FullName = "Nour Adel"
	r.Personal.JobTitle = "Backend Engineer"
	r.Skills = []profile.Skill{{Name: "Go", Level: profile.LevelAdvanced}}
	r.Experience = []profile.Experience{{Title: "Engineer", Company: "Acme", StartDate: "2020-01", IsCurrent: true}}
	r.Projects = []profile.Project{
		{Name: "Tracker", URL: "https://github.com/nour/tracker", Technologies: []string{"Go", "Redis"}, Description: "Habit tracker"},
		{Name: "Notes", Technologies: []string{}},
	}
	return r
}

func TestExecuteGetPortfolio(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(t)

	_, err := uc.ExecuteGetPortfolio(ctx, i18n.English)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, repo.Save(ctx, i18n.Arabic, savedRecord()))
	v, err := uc.ExecuteGetPortfolio(ctx, i18n.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "rtl", v.Dir)
	require.Len(t, v.Skills, 1)
	assert.Equal(t, 75, v.Skills[0].Percent)
	assert.Equal(t, "متقدم", v.Skills[0].LevelLabel)
	assert.Equal(t, "2020-01 – حتى الآن", v.Experience[0].Period)
	assert.Len(t, v.Projects, 2)
}

func TestExecuteFeed(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(t)
	require.NoError(t, repo.Save(ctx, i18n.English, savedRecord()))

	feed, err := uc.ExecuteFeed(ctx, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "Nour Adel - Portfolio", feed.Title)
	assert.Equal(t, "https://cv.example.com/api/portfolio/en", feed.Link.Href)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "Tracker", feed.Items[0].Title)
	assert.Equal(t, "https://github.com/nour/tracker", feed.Items[0].Link.Href)
	assert.Equal(t, "Habit tracker\nGo, Redis", feed.Items[0].Description)
	assert.Equal(t, "https://cv.example.com/api/portfolio/en#project-2", feed.Items[1].Link.Href)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.True(t, strings.Contains(rss, "<title>Tracker</title>"))

	_, err = uc.ExecuteFeed(ctx, i18n.Arabic)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
