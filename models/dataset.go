package models

// Dataset is the loaded class roster. It is never mutated after NewDataset returns.
type Dataset struct {
	students []Student
	schools  []School
}

// NewDataset copies both slices so later changes by the caller are not observed.
func NewDataset(students []Student, schools []School) *Dataset {
	ds := &Dataset{
		students: make([]Student, len(students)),
		schools:  make([]School, len(schools)),
	}
	copy(ds.students, students)
	for i, s := range schools {
		if s.Coords != nil {
			c := *s.Coords
			s.Coords = &c
		}
		ds.schools[i] = s
	}
	return ds
}

// Students returns every student in file order.
func (d *Dataset) Students() []Student {
	out := make([]Student, len(d.students))
	copy(out, d.students)
	return out
}

// Schools returns every school in file order.
func (d *Dataset) Schools() []School {
	return cloneSchools(d.schools)
}

// RosterSchools returns the schools listed in the sidebar. The first entry of the file is a
// placeholder and is left out.
func (d *Dataset) RosterSchools() []School {
	if len(d.schools) <= 1 {
		return []School{}
	}
	return cloneSchools(d.schools[1:])
}

// SchoolByID returns the first school with the given ID.
func (d *Dataset) SchoolByID(id int) (School, bool) {
	for _, s := range d.schools {
		if s.ID == id {
			return cloneSchools([]School{s})[0], true
		}
	}
	return School{}, false
}

// StudentsAt returns the students enrolled at a school, in file order. Gap year students are
// never enrolled anywhere, so the gap year ID always yields an empty list, as does an ID that
// matches no school.
func (d *Dataset) StudentsAt(schoolID int) []Student {
	out := []Student{}
	if schoolID == GapYearSchoolID {
		return out
	}
	if _, ok := d.SchoolByID(schoolID); !ok {
		return out
	}
	for _, s := range d.students {
		if s.SchoolID == schoolID {
			out = append(out, s)
		}
	}
	return out
}

// GapYear returns the students with no school.
func (d *Dataset) GapYear() []Student {
	out := []Student{}
	for _, s := range d.students {
		if s.GapYear() {
			out = append(out, s)
		}
	}
	return out
}

// Orphans returns students whose school ID matches no school. They are rendered nowhere.
func (d *Dataset) Orphans() []Student {
	known := make(map[int]bool, len(d.schools))
	for _, s := range d.schools {
		known[s.ID] = true
	}
	out := []Student{}
	for _, s := range d.students {
		if !s.GapYear() && !known[s.SchoolID] {
			out = append(out, s)
		}
	}
	return out
}

func cloneSchools(in []School) []School {
	out := make([]School, len(in))
	for i, s := range in {
		if s.Coords != nil {
			c := *s.Coords
			s.Coords = &c
		}
		out[i] = s
	}
	return out
}
