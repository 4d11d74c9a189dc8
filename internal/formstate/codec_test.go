package formstate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
)

func strPtr(s string) *string { return &s }

func fullRecord() *profile.Record {
	return &profile.Record{
		Personal: profile.Personal{
			FullName:          "Layla Haddad",
			JobTitle:          "Backend Engineer",
			Location:          "Amman",
			BirthDate:         "1992-04-18",
			Nationality:       "Jordanian",
			ProfilePictureRef: "https://res.cloudinary.com/demo/image/upload/p.jpg",
		},
		About: profile.About{
			Bio:       "Builds boring, reliable systems.",
			Interests: []string{"hiking", "chess", "hiking"},
		},
		Contact: profile.Contact{
			Email:    "layla@example.com",
			Phone:    "+962 7 9000 0000",
			Website:  "https://layla.dev",
			LinkedIn: "layla-h",
			GitHub:   "laylah",
			Twitter:  "@laylah",
		},
		Skills: []profile.Skill{
			{Name: "Go", Level: profile.LevelExpert},
			{Name: "PostgreSQL", Level: profile.LevelAdvanced},
		},
		Experience: []profile.Experience{
			{Title: "Senior Engineer", Company: "Acme", StartDate: "2021-03", IsCurrent: true, Description: "Payments"},
			{Title: "Engineer", Company: "Initech", StartDate: "2016-01", EndDate: strPtr("2021-02"), Description: "Billing"},
		},
		Education: []profile.Education{
			{Degree: "BSc Computer Science", Institution: "JUST", GraduationYear: 2014, Description: "Honours"},
			{Degree: "Online course", Institution: "Self", Description: ""},
		},
		Projects: []profile.Project{
			{Name: "kvstore", URL: "https://github.com/laylah/kvstore", Technologies: []string{"Go", "Raft"}, Description: "Toy KV"},
			{Name: "notes", Technologies: []string{}},
		},
		Theme: profile.Theme{
			PrimaryColor:    "#112233",
			SecondaryColor:  "#445566",
			AccentColor:     "#778899",
			BackgroundColor: "#fff",
			StyleVariant:    profile.StyleClassic,
		},
	}
}

func TestRoundTrip_FullRecord(t *testing.T) {
	r := fullRecord()
	require.NoError(t, r.Validate())

	got := Collect(Populate(NewSurface(), r))
	assert.Equal(t, r, got)
}

func TestRoundTrip_EmptyRecord(t *testing.T) {
	r := profile.New()
	got := Collect(Populate(NewSurface(), r))
	assert.Equal(t, r, got)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func TestCollect_MissingFieldsDefaultToEmpty(t *testing.T) {
	got := Collect(NewSurface())
	assert.Equal(t, profile.New(), got)
}

func TestPopulate_ReplacesRepeatedGroups(t *testing.T) {
	s := NewSurface()
	r := fullRecord()

	Populate(s, r)
	Populate(s, r)

	assert.Len(t, s.Rows(GroupSkills), 2)
	assert.Len(t, s.Rows(GroupExperience), 2)
	assert.Len(t, s.Tags(TagsInterests), 3)
}

func TestPopulate_EmptyValueKeepsSurfaceDefault(t *testing.T) {
	s := DefaultSurface()
	r := profile.New()
	r.Personal.FullName = "Sam"

	Populate(s, r)

	assert.Equal(t, "Sam", s.Value("fullName"))
	assert.Equal(t, profile.DefaultPrimaryColor, s.Value("primaryColor"))
	assert.Equal(t, "modern", s.Value("styleVariant"))
}

func TestPopulate_CurrentExperienceDisablesEndDate(t *testing.T) {
	s := Populate(NewSurface(), fullRecord())

	current := s.Rows(GroupExperience)[0]
	assert.True(t, current.IsDisabled(ColEndDate))
	assert.Equal(t, "", current.Value(ColEndDate))

	past := s.Rows(GroupExperience)[1]
	assert.False(t, past.IsDisabled(ColEndDate))
}

func TestMarkCurrent_ClearsEndDate(t *testing.T) {
	s := NewSurface()
	row := s.AppendRow(GroupExperience)
	row.Set("title", "Engineer")
	row.Set(ColEndDate, "2023-05")

	require.True(t, MarkCurrent(s, 0, true))
	assert.True(t, row.IsDisabled(ColEndDate))
	assert.Equal(t, "", row.Value(ColEndDate))

	got := Collect(s)
	require.Len(t, got.Experience, 1)
	assert.True(t, got.Experience[0].IsCurrent)
	assert.Nil(t, got.Experience[0].EndDate)

	require.True(t, MarkCurrent(s, 0, false))
	assert.False(t, row.IsDisabled(ColEndDate))
	assert.False(t, MarkCurrent(s, 5, true))
}

func TestCollect_ParsesRowText(t *testing.T) {
	s := NewSurface()
	ed := s.AppendRow(GroupEducation)
	ed.Set("graduationYear", "not a year")
	ed2 := s.AppendRow(GroupEducation)
	ed2.Set("graduationYear", " 2019 ")

	p := s.AppendRow(GroupProjects)
	p.Set("technologies", " Go ,, Kafka,")

	got := Collect(s)
	assert.Equal(t, 0, got.Education[0].GraduationYear)
	assert.Equal(t, 2019, got.Education[1].GraduationYear)
	assert.Equal(t, []string{"Go", "Kafka"}, got.Projects[0].Technologies)
}

func TestFields_FollowSchemaOrder(t *testing.T) {
	s := Populate(NewSurface(), fullRecord())

	var want []string
	for _, e := range Schema() {
		if e.Kind == KindScalar {
			want = append(want, e.ID)
		}
	}
	var got []string
	for _, f := range s.Fields() {
		got = append(got, f.ID)
	}
	assert.Equal(t, want, got)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := Populate(NewSurface(), fullRecord())

	raw, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	restored := FromSnapshot(snap)
	assert.Equal(t, Collect(s), Collect(restored))
	assert.True(t, restored.Rows(GroupExperience)[0].IsDisabled(ColEndDate))
}
