package formstate

import "github.com/khoahotran/cv-portfolio/internal/domain/profile"

type Kind int

const (
	KindScalar Kind = iota
	KindTags
	KindGroup
)

// Entry declares one identifier on the surface. Groups list their row columns.
type Entry struct {
	ID      string
	Kind    Kind
	Columns []string
}

const (
	GroupSkills     = "skills"
	GroupExperience = "experience"
	GroupEducation  = "education"
	GroupProjects   = "projects"
	TagsInterests   = "interests"

	ColCurrent = "current"
	ColEndDate = "endDate"
)

type scalar struct {
	id  string
	ref func(r *profile.Record) *string
}

var scalars = map[string]scalar{}

func declare(id string, ref func(r *profile.Record) *string) Entry {
	scalars[id] = scalar{id: id, ref: ref}
	return Entry{ID: id, Kind: KindScalar}
}

var schema = []Entry{
	declare("fullName", func(r *profile.Record) *string { return &r.Personal.FullName }),
	declare("jobTitle", func(r *profile.Record) *string { return &r.Personal.JobTitle }),
	declare("location", func(r *profile.Record) *string { return &r.Personal.Location }),
	declare("birthDate", func(r *profile.Record) *string { return &r.Personal.BirthDate }),
	declare("nationality", func(r *profile.Record) *string { return &r.Personal.Nationality }),
	declare("profilePictureRef", func(r *profile.Record) *string { return &r.Personal.ProfilePictureRef }),

	declare("bio", func(r *profile.Record) *string { return &r.About.Bio }),
	{ID: TagsInterests, Kind: KindTags},

	declare("email", func(r *profile.Record) *string { return &r.Contact.Email }),
	declare("phone", func(r *profile.Record) *string { return &r.Contact.Phone }),
	declare("website", func(r *profile.Record) *string { return &r.Contact.Website }),
	declare("linkedin", func(r *profile.Record) *string { return &r.Contact.LinkedIn }),
	declare("github", func(r *profile.Record) *string { return &r.Contact.GitHub }),
	declare("twitter", func(r *profile.Record) *string { return &r.Contact.Twitter }),

	{ID: GroupSkills, Kind: KindGroup, Columns: []string{"name", "level"}},
	{ID: GroupExperience, Kind: KindGroup, Columns: []string{"title", "company", "startDate", ColEndDate, ColCurrent, "description"}},
	{ID: GroupEducation, Kind: KindGroup, Columns: []string{"degree", "institution", "graduationYear", "description"}},
	{ID: GroupProjects, Kind: KindGroup, Columns: []string{"name", "url", "technologies", "description"}},

	declare("primaryColor", func(r *profile.Record) *string { return &r.Theme.PrimaryColor }),
	declare("secondaryColor", func(r *profile.Record) *string { return &r.Theme.SecondaryColor }),
	declare("accentColor", func(r *profile.Record) *string { return &r.Theme.AccentColor }),
	declare("backgroundColor", func(r *profile.Record) *string { return &r.Theme.BackgroundColor }),
	declare("styleVariant", func(r *profile.Record) *string { return (*string)(&r.Theme.StyleVariant) }),
}

// Schema returns the declared identifiers in processing order.
func Schema() []Entry {
	out := make([]Entry, len(schema))
	copy(out, schema)
	return out
}
