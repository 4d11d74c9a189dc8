package profile

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

type StyleVariant string

const (
	StyleModern  StyleVariant = "modern"
	StyleClassic StyleVariant = "classic"
	StyleMinimal StyleVariant = "minimal"
)

func (s StyleVariant) Valid() bool {
	switch s {
	case StyleModern, StyleClassic, StyleMinimal:
		return true
	}
	return false
}

const (
	MinGraduationYear = 1950
	MaxGraduationYear = 2035

	DefaultPrimaryColor    = "#4f46e5"
	DefaultSecondaryColor  = "#10b981"
	DefaultAccentColor     = "#f59e0b"
	DefaultBackgroundColor = "#ffffff"
)

type Personal struct {
	FullName          string `json:"fullName"`
	JobTitle          string `json:"jobTitle"`
	Location          string `json:"location"`
	BirthDate         string `json:"birthDate"`
	Nationality       string `json:"nationality"`
	ProfilePictureRef string `json:"profilePictureRef"`
}

type About struct {
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Twitter  string `json:"twitter"`
}

type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

type Experience struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsCurrent   bool    `json:"isCurrent"`
	Description string  `json:"description"`
}

// MarkCurrent flags the entry as the ongoing position. A current entry has no end date.
func (e *Experience) MarkCurrent(current bool) {
	e.IsCurrent = current
	if current {
		e.EndDate = nil
	}
}

type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationYear int    `json:"graduationYear"`
	Description    string `json:"description"`
}

type Project struct {
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	Technologies []string `json:"technologies"`
	Description  string   `json:"description"`
}

type Theme struct {
	PrimaryColor    string       `json:"primaryColor"`
	SecondaryColor  string       `json:"secondaryColor"`
	AccentColor     string       `json:"accentColor"`
	BackgroundColor string       `json:"backgroundColor"`
	StyleVariant    StyleVariant `json:"styleVariant"`
}

// Record is one person's CV content for one locale.
type Record struct {
	Personal   Personal     `json:"personal"`
	About      About        `json:"about"`
	Contact    Contact      `json:"contact"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
	Theme      Theme        `json:"theme"`
}

var (
	ErrInvalidSkillLevel = errors.New("invalid skill level")
	ErrEmptyInterest     = errors.New("interest must not be empty")
)

// New returns an empty record whose lists are all non-nil.
func New() *Record {
	return &Record{
		About:      About{Interests: []string{}},
		Skills:     []Skill{},
		Experience: []Experience{},
		Education:  []Education{},
		Projects:   []Project{},
	}
}

// Defaults is what a freshly reset editor shows.
func Defaults() *Record {
	r := New()
	r.Theme = Theme{
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		AccentColor:     DefaultAccentColor,
		BackgroundColor: DefaultBackgroundColor,
		StyleVariant:    StyleModern,
	}
	return r
}

// Clone returns a deep copy that shares no slices or pointers with r. Nil lists stay nil.
func (r *Record) Clone() *Record {
	c := *r
	c.About.Interests = slices.Clone(r.About.Interests)
	c.Skills = slices.Clone(r.Skills)
	c.Education = slices.Clone(r.Education)
	c.Experience = slices.Clone(r.Experience)
	for i := range c.Experience {
		if end := c.Experience[i].EndDate; end != nil {
			v := *end
			c.Experience[i].EndDate = &v
		}
	}
	c.Projects = slices.Clone(r.Projects)
	for i := range c.Projects {
		c.Projects[i].Technologies = slices.Clone(c.Projects[i].Technologies)
	}
	return &c
}

// Normalize repairs shape without judging content: nil lists become empty, interests
// are trimmed, and end dates follow the current-position flag.
func (r *Record) Normalize() {
	if r.About.Interests == nil {
		r.About.Interests = []string{}
	}
	for i := range r.About.Interests {
		r.About.Interests[i] = strings.TrimSpace(r.About.Interests[i])
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		e := &r.Experience[i]
		if e.IsCurrent || (e.EndDate != nil && *e.EndDate == "") {
			e.EndDate = nil
		}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}
}

// Validate checks every record invariant and reports all failures at once.
func (r *Record) Validate() error {
	fields := map[string]string{}

	seen := make(map[string]int, len(r.Skills))
	for i, s := range r.Skills {
		key := fmt.Sprintf("skills[%d]", i)
		if !validate.Required(s.Name) {
			fields[key+".name"] = "is required"
		} else if j, dup := seen[strings.ToLower(strings.TrimSpace(s.Name))]; dup {
			fields[key+".name"] = fmt.Sprintf("duplicates skills[%d]", j)
		} else {
			seen[strings.ToLower(strings.TrimSpace(s.Name))] = i
		}
		if !s.Level.Valid() {
			fields[key+".level"] = "must be one of: beginner intermediate advanced expert"
		}
	}

	for i, tag := range r.About.Interests {
		if tag == "" || tag != strings.TrimSpace(tag) {
			fields[fmt.Sprintf("about.interests[%d]", i)] = "must be a non-empty trimmed string"
		}
	}

	for i, e := range r.Experience {
		if e.IsCurrent && e.EndDate != nil {
			fields[fmt.Sprintf("experience[%d].endDate", i)] = "must be empty for a current position"
		}
	}

	for i, ed := range r.Education {
		y := ed.GraduationYear
		if y != 0 && (y < MinGraduationYear || y > MaxGraduationYear) {
			fields[fmt.Sprintf("education[%d].graduationYear", i)] =
				fmt.Sprintf("must be between %d and %d", MinGraduationYear, MaxGraduationYear)
		}
	}

	for i, p := range r.Projects {
		if p.URL != "" && !validURL(p.URL) {
			fields[fmt.Sprintf("projects[%d].url", i)] = "must be a valid URL"
		}
		for j, t := range p.Technologies {
			if t == "" || t != strings.TrimSpace(t) || strings.Contains(t, ",") {
				fields[fmt.Sprintf("projects[%d].technologies[%d]", i, j)] = "must be a non-empty trimmed name without commas"
			}
		}
	}

	if r.Contact.Email != "" && !validate.Email(r.Contact.Email) {
		fields["contact.email"] = "must be a valid email"
	}

	colors := map[string]string{
		"theme.primaryColor":    r.Theme.PrimaryColor,
		"theme.secondaryColor":  r.Theme.SecondaryColor,
		"theme.accentColor":     r.Theme.AccentColor,
		"theme.backgroundColor": r.Theme.BackgroundColor,
	}
	for k, c := range colors {
		if c != "" && !validate.HexColor(c) {
			fields[k] = "must be a hex color"
		}
	}
	if r.Theme.StyleVariant != "" && !r.Theme.StyleVariant.Valid() {
		fields["theme.styleVariant"] = "must be one of: modern classic minimal"
	}

	if len(fields) > 0 {
		return apperror.NewValidation(fields)
	}
	return nil
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}

func (r *Record) HasSkill(name string) bool {
	return r.skillIndex(name) >= 0
}

func (r *Record) skillIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, s := range r.Skills {
		if strings.ToLower(strings.TrimSpace(s.Name)) == want {
			return i
		}
	}
	return -1
}

// AddSkill appends a skill. A name already present under case-insensitive comparison
// is rejected with a conflict and the list is left unchanged.
func (r *Record) AddSkill(name string, level SkillLevel) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.NewValidation(map[string]string{"name": "is required"})
	}
	if !level.Valid() {
		return apperror.NewInvalidInput(fmt.Sprintf("skill level %q", level), ErrInvalidSkillLevel)
	}
	if r.HasSkill(name) {
		return apperror.NewConflict("skill", "name", name)
	}
	r.Skills = append(r.Skills, Skill{Name: name, Level: level})
	return nil
}

func (r *Record) RemoveSkill(name string) bool {
	i := r.skillIndex(name)
	if i < 0 {
		return false
	}
	r.Skills = append(r.Skills[:i], r.Skills[i+1:]...)
	return true
}

func (r *Record) AddInterest(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return apperror.NewInvalidInput("interest tag", ErrEmptyInterest)
	}
	r.About.Interests = append(r.About.Interests, tag)
	return nil
}

// StorageKey is the key a locale's record lives under.
func StorageKey(locale i18n.Locale) string {
	return "portfolioData_" + locale.String()
}

type Repository interface {
	Get(ctx context.Context, locale i18n.Locale) (*Record, error)
	Save(ctx context.Context, locale i18n.Locale, r *Record) error
	Delete(ctx context.Context, locale i18n.Locale) error
	Update(ctx context.Context, locale i18n.Locale, fn func(r *Record) error) (*Record, error)
}
