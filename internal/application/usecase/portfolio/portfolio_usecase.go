package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

var levelPercent = map[profile.SkillLevel]int{
	profile.LevelBeginner:     25,
	profile.LevelIntermediate: 50,
	profile.LevelAdvanced:     75,
	profile.LevelExpert:       90,
}

// SkillPercent is the width of a skill bar for level, 0 for unknown levels.
func SkillPercent(level profile.SkillLevel) int {
	return levelPercent[level]
}

type SkillView struct {
	Name       string             `json:"name"`
	Level      profile.SkillLevel `json:"level"`
	LevelLabel string             `json:"levelLabel"`
	Percent    int                `json:"percent"`
}

type ExperienceView struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description"`
}

// View is the read-only public projection of a saved record.
type View struct {
	Locale     i18n.Locale         `json:"locale"`
	Dir        string              `json:"dir"`
	Personal   profile.Personal    `json:"personal"`
	About      profile.About       `json:"about"`
	Contact    profile.Contact     `json:"contact"`
	Skills     []SkillView         `json:"skills"`
	Experience []ExperienceView    `json:"experience"`
	Education  []profile.Education `json:"education"`
	Projects   []profile.Project   `json:"projects"`
	Theme      profile.Theme       `json:"theme"`
}

// Period renders an experience span, using the locale's word for an open end.
func Period(locale i18n.Locale, e profile.Experience) string {
	end := ""
	if e.IsCurrent {
		end = i18n.T(locale, "present")
	} else if e.EndDate != nil {
		end = *e.EndDate
	}
	switch {
	case e.StartDate == "":
		return end
	case end == "":
		return e.StartDate
	}
	return e.StartDate + " – " + end
}

type PortfolioUseCase struct {
	profileRepo profile.Repository
	publicURL   string
	logger      logger.Logger
	now         func() time.Time
}

func NewPortfolioUseCase(repo profile.Repository, publicURL string, log logger.Logger) *PortfolioUseCase {
	return &PortfolioUseCase{
		profileRepo: repo,
		publicURL:   strings.TrimRight(publicURL, "/"),
		logger:      log,
		now:         time.Now,
	}
}

func (uc *PortfolioUseCase) WithClock(now func() time.Time) *PortfolioUseCase {
	uc.now = now
	return uc
}

func (uc *PortfolioUseCase) ExecuteGetPortfolio(ctx context.Context, locale i18n.Locale) (*View, error) {
	r, err := uc.profileRepo.Get(ctx, locale)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("portfolio", locale.String())
		}
		return nil, fmt.Errorf("get portfolio failed: %w", err)
	}

	v := &View{
		Locale:     locale,
		Dir:        locale.Dir(),
		Personal:   r.Personal,
		About:      r.About,
		Contact:    r.Contact,
		Skills:     make([]SkillView, 0, len(r.Skills)),
		Experience: make([]ExperienceView, 0, len(r.Experience)),
		Education:  r.Education,
		Projects:   r.Projects,
		Theme:      r.Theme,
	}
	for _, s := range r.Skills {
		v.Skills = append(v.Skills, SkillView{
			Name:       s.Name,
			Level:      s.Level,
			LevelLabel: i18n.T(locale, string(s.Level)),
			Percent:    SkillPercent(s.Level),
		})
	}
	for _, e := range r.Experience {
		v.Experience = append(v.Experience, ExperienceView{
			Title:       e.Title,
			Company:     e.Company,
			Period:      Period(locale, e),
			IsCurrent:   e.IsCurrent,
			Description: e.Description,
		})
	}
	return v, nil
}

// ExecuteFeed builds an RSS feed of the locale's projects in declared order.
func (uc *PortfolioUseCase) ExecuteFeed(ctx context.Context, locale i18n.Locale) (*feeds.Feed, error) {
	uc.logger.Info("Generating portfolio feed...", zap.String("locale", locale.String()))

	r, err := uc.profileRepo.Get(ctx, locale)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("portfolio", locale.String())
		}
		uc.logger.Error("Failed to load profile for feed", err)
		return nil, err
	}

	now := uc.now()
	pageURL := fmt.Sprintf("%s/api/portfolio/%s", uc.publicURL, locale)
	title := "Portfolio"
	if r.Personal.FullName != "" {
		title = r.Personal.FullName + " - Portfolio"
	}
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: pageURL},
		Description: r.Personal.JobTitle,
		Author:      &feeds.Author{Name: r.Personal.FullName, Email: r.Contact.Email},
		Created:     now,
	}

	items := make([]*feeds.Item, 0, len(r.Projects))
	for i, p := range r.Projects {
		link := p.URL
		if link == "" {
			link = fmt.Sprintf("%s#project-%d", pageURL, i+1)
		}
		desc := p.Description
		if len(p.Technologies) > 0 {
			desc = strings.TrimSpace(desc + "\n" + strings.Join(p.Technologies, ", "))
		}
		items = append(items, &feeds.Item{
			Id:          fmt.Sprintf("%s#project-%d", pageURL, i+1),
			Title:       p.Name,
			Link:        &feeds.Link{Href: link},
			Description: desc,
			Created:     now,
		})
	}
	feed.Items = items

	uc.logger.Info("Portfolio feed generated successfully", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
