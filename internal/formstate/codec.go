package formstate

import (
	"strconv"
	"strings"

	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
)

// Collect reads every declared identifier off the surface. Anything missing comes
// back as an empty string or an empty list.
func Collect(s *Surface) *profile.Record {
	r := profile.New()

	for _, e := range schema {
		switch e.Kind {
		case KindScalar:
			*scalars[e.ID].ref(r) = s.Value(e.ID)
		case KindTags:
			r.About.Interests = s.Tags(e.ID)
		case KindGroup:
			collectGroup(s, e.ID, r)
		}
	}
	return r
}

func collectGroup(s *Surface, group string, r *profile.Record) {
	for _, row := range s.Rows(group) {
		switch group {
		case GroupSkills:
			r.Skills = append(r.Skills, profile.Skill{
				Name:  row.Value("name"),
				Level: profile.SkillLevel(row.Value("level")),
			})
		case GroupExperience:
			e := profile.Experience{
				Title:       row.Value("title"),
				Company:     row.Value("company"),
				StartDate:   row.Value("startDate"),
				IsCurrent:   row.Value(ColCurrent) == "true",
				Description: row.Value("description"),
			}
			if end := row.Value(ColEndDate); !e.IsCurrent && end != "" {
				e.EndDate = &end
			}
			r.Experience = append(r.Experience, e)
		case GroupEducation:
			year, err := strconv.Atoi(strings.TrimSpace(row.Value("graduationYear")))
			if err != nil {
				year = 0
			}
			r.Education = append(r.Education, profile.Education{
				Degree:         row.Value("degree"),
				Institution:    row.Value("institution"),
				GraduationYear: year,
				Description:    row.Value("description"),
			})
		case GroupProjects:
			r.Projects = append(r.Projects, profile.Project{
				Name:         row.Value("name"),
				URL:          row.Value("url"),
				Technologies: splitTechnologies(row.Value("technologies")),
				Description:  row.Value("description"),
			})
		}
	}
}

func splitTechnologies(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Populate writes r onto s. Empty scalar values leave the surface's current value in
// place. Tags and row groups are replaced so that there is exactly one tag or row per
// list entry.
func Populate(s *Surface, r *profile.Record) *Surface {
	for _, e := range schema {
		switch e.Kind {
		case KindScalar:
			if v := *scalars[e.ID].ref(r); v != "" {
				s.Set(e.ID, v)
			}
		case KindTags:
			s.ClearTags(e.ID)
			for _, t := range r.About.Interests {
				s.AddTag(e.ID, t)
			}
		case KindGroup:
			s.ClearGroup(e.ID)
			populateGroup(s, e.ID, r)
		}
	}
	return s
}

func populateGroup(s *Surface, group string, r *profile.Record) {
	switch group {
	case GroupSkills:
		for _, sk := range r.Skills {
			row := s.AppendRow(group)
			row.Set("name", sk.Name)
			row.Set("level", string(sk.Level))
		}
	case GroupExperience:
		for _, e := range r.Experience {
			row := s.AppendRow(group)
			row.Set("title", e.Title)
			row.Set("company", e.Company)
			row.Set("startDate", e.StartDate)
			end := ""
			if e.EndDate != nil {
				end = *e.EndDate
			}
			row.Set(ColEndDate, end)
			row.Set(ColCurrent, strconv.FormatBool(e.IsCurrent))
			row.Set("description", e.Description)
			if e.IsCurrent {
				markRowCurrent(row, true)
			}
		}
	case GroupEducation:
		for _, ed := range r.Education {
			row := s.AppendRow(group)
			row.Set("degree", ed.Degree)
			row.Set("institution", ed.Institution)
			year := ""
			if ed.GraduationYear != 0 {
				year = strconv.Itoa(ed.GraduationYear)
			}
			row.Set("graduationYear", year)
			row.Set("description", ed.Description)
		}
	case GroupProjects:
		for _, p := range r.Projects {
			row := s.AppendRow(group)
			row.Set("name", p.Name)
			row.Set("url", p.URL)
			row.Set("technologies", strings.Join(p.Technologies, ", "))
			row.Set("description", p.Description)
		}
	}
}

// MarkCurrent toggles the "currently working here" box on experience row i. Checking it
// clears and disables the row's end date; unchecking re-enables it.
func MarkCurrent(s *Surface, i int, current bool) bool {
	row, ok := s.Row(GroupExperience, i)
	if !ok {
		return false
	}
	markRowCurrent(row, current)
	return true
}

func markRowCurrent(row *Row, current bool) {
	row.Set(ColCurrent, strconv.FormatBool(current))
	if current {
		row.Set(ColEndDate, "")
		row.Disable(ColEndDate)
		return
	}
	row.Enable(ColEndDate)
}

// DefaultSurface is the surface a reset editor starts from.
func DefaultSurface() *Surface {
	return Populate(NewSurface(), profile.Defaults())
}
