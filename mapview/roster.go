package mapview

import "classmap-server-go/models"

// GapYearTitle heads the section of students without a school.
const GapYearTitle = "Gap Year"

// Section is one heading of the sidebar and the names listed under it.
type Section struct {
	SchoolID int            `json:"school_id"`
	Title    string         `json:"title"`
	Coords   *models.LngLat `json:"coords"`
	Students []string       `json:"students"`
	// Flyable is false for sections with nowhere to fly to.
	Flyable bool `json:"flyable"`
}

// Roster is the sidebar content.
type Roster struct {
	Sections []Section `json:"sections"`
	GapYear  Section   `json:"gap_year"`
	Orphans  int       `json:"orphans"`
}

// BuildRoster lists every school after the placeholder entry, then the gap year students.
// Students whose school is unknown are counted but not listed.
func BuildRoster(ds *models.Dataset) Roster {
	schools := ds.RosterSchools()
	r := Roster{
		Sections: make([]Section, 0, len(schools)),
		GapYear: Section{
			SchoolID: models.GapYearSchoolID,
			Title:    GapYearTitle,
			Students: studentNames(ds.GapYear()),
		},
		Orphans: len(ds.Orphans()),
	}
	for _, school := range schools {
		r.Sections = append(r.Sections, Section{
			SchoolID: school.ID,
			Title:    school.Name,
			Coords:   school.Coords,
			Students: studentNames(ds.StudentsAt(school.ID)),
			Flyable:  school.Coords != nil,
		})
	}
	return r
}

// All returns the school sections followed by the gap year section.
func (r Roster) All() []Section {
	out := make([]Section, 0, len(r.Sections)+1)
	out = append(out, r.Sections...)
	return append(out, r.GapYear)
}

func studentNames(students []models.Student) []string {
	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.Name)
	}
	return names
}
