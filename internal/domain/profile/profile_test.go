package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
)

func strPtr(s string) *string { return &s }

func TestNew_ListsAreEmptyNotNull(t *testing.T) {
	raw, err := json.Marshal(New())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, k := range []string{"skills", "experience", "education", "projects"} {
		assert.Equal(t, []any{}, m[k], k)
	}
	assert.Equal(t, []any{}, m["about"].(map[string]any)["interests"])
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "#4f46e5", d.Theme.PrimaryColor)
	assert.Equal(t, StyleModern, d.Theme.StyleVariant)
	assert.NoError(t, d.Validate())
}

func TestAddSkill_RejectsCaseInsensitiveDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSkill("Go", LevelExpert))

	err := r.AddSkill("  go ", LevelBeginner)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Len(t, r.Skills, 1)
}

func TestAddSkill_InvalidInput(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.AddSkill("", LevelExpert), apperror.ErrInvalidInput)
	assert.ErrorIs(t, r.AddSkill("Rust", "guru"), apperror.ErrInvalidInput)
	assert.Empty(t, r.Skills)
}

func TestRemoveSkill(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSkill("Go", LevelExpert))
	require.NoError(t, r.AddSkill("SQL", LevelAdvanced))

	assert.True(t, r.RemoveSkill("GO"))
	assert.False(t, r.RemoveSkill("go"))
	require.Len(t, r.Skills, 1)
	assert.Equal(t, "SQL", r.Skills[0].Name)
}

func TestAddInterest(t *testing.T) {
	r := New()
	require.NoError(t, r.AddInterest("  hiking "))
	require.NoError(t, r.AddInterest("hiking"))
	assert.ErrorIs(t, r.AddInterest("   "), apperror.ErrInvalidInput)
	assert.Equal(t, []string{"hiking", "hiking"}, r.About.Interests)
}

func TestMarkCurrent(t *testing.T) {
	e := Experience{Title: "Engineer", EndDate: strPtr("2023-01")}

	e.MarkCurrent(true)
	assert.True(t, e.IsCurrent)
	assert.Nil(t, e.EndDate)

	e.MarkCurrent(false)
	assert.False(t, e.IsCurrent)
	assert.Nil(t, e.EndDate)
}

func TestNormalize(t *testing.T) {
	r := &Record{
		About:      About{Interests: []string{" a "}},
		Experience: []Experience{{IsCurrent: true, EndDate: strPtr("2020")}, {EndDate: strPtr("")}},
		Projects:   []Project{{Name: "x"}},
	}
	r.Normalize()

	assert.Equal(t, []string{"a"}, r.About.Interests)
	assert.Nil(t, r.Experience[0].EndDate)
	assert.Nil(t, r.Experience[1].EndDate)
	assert.NotNil(t, r.Skills)
	assert.NotNil(t, r.Education)
	assert.Equal(t, []string{}, r.Projects[0].Technologies)
}

func TestClone_SharesNothing(t *testing.T) {
	r := &Record{
		About:      About{Interests: []string{" a "}},
		Experience: []Experience{{EndDate: strPtr("2020")}},
		Projects:   []Project{{Name: "x", Technologies: []string{"go"}}},
	}
	c := r.Clone()
	require.Equal(t, r, c)

	c.Normalize()
	*c.Experience[0].EndDate = "2021"
	c.Projects[0].Technologies[0] = "rust"

	assert.Equal(t, []string{" a "}, r.About.Interests)
	assert.Nil(t, r.Skills)
	require.NotNil(t, r.Experience[0].EndDate)
	assert.Equal(t, "2020", *r.Experience[0].EndDate)
	assert.Equal(t, []string{"go"}, r.Projects[0].Technologies)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *Record)
		wantField string
	}{
		{"duplicate skill", func(r *Record) {
			r.Skills = []Skill{{"Go", LevelExpert}, {"GO", LevelBeginner}}
		}, "skills[1].name"},
		{"bad level", func(r *Record) { r.Skills = []Skill{{"Go", "guru"}} }, "skills[0].level"},
		{"blank interest", func(r *Record) { r.About.Interests = []string{""} }, "about.interests[0]"},
		{"current with end date", func(r *Record) {
			r.Experience = []Experience{{IsCurrent: true, EndDate: strPtr("2024")}}
		}, "experience[0].endDate"},
		{"year too early", func(r *Record) { r.Education = []Education{{GraduationYear: 1900}} }, "education[0].graduationYear"},
		{"year too late", func(r *Record) { r.Education = []Education{{GraduationYear: 2036}} }, "education[0].graduationYear"},
		{"bad email", func(r *Record) { r.Contact.Email = "a@b" }, "contact.email"},
		{"bad color", func(r *Record) { r.Theme.AccentColor = "orange" }, "theme.accentColor"},
		{"bad variant", func(r *Record) { r.Theme.StyleVariant = "brutalist" }, "theme.styleVariant"},
		{"bad url", func(r *Record) { r.Projects = []Project{{URL: "not a url", Technologies: []string{}}} }, "projects[0].url"},
		{"comma in technology", func(r *Record) {
			r.Projects = []Project{{Technologies: []string{"Go, SQL"}}}
		}, "projects[0].technologies[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Defaults()
			tt.mutate(r)

			err := r.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Fields, tt.wantField)
		})
	}
}

func TestValidate_AcceptsBoundaryYears(t *testing.T) {
	r := New()
	r.Education = []Education{{GraduationYear: 0}, {GraduationYear: 1950}, {GraduationYear: 2035}}
	assert.NoError(t, r.Validate())
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "portfolioData_ar", StorageKey(i18n.Arabic))
	assert.Equal(t, "portfolioData_en", StorageKey(i18n.English))
}
