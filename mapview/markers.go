package mapview

import (
	"html/template"
	"strings"

	"classmap-server-go/models"
)

const (
	markerColor = "black"
	popupOffset = 25
)

// Marker is a pin for one school, with the popup shown when it is clicked.
type Marker struct {
	SchoolID    int           `json:"school_id"`
	Position    models.LngLat `json:"position"`
	Color       string        `json:"color"`
	PopupOffset int           `json:"popup_offset"`
	PopupHTML   string        `json:"popup_html"`
}

// BuildMarkers returns one marker per school with coordinates, in file order.
func BuildMarkers(ds *models.Dataset) []Marker {
	markers := []Marker{}
	for _, school := range ds.Schools() {
		if school.Coords == nil {
			continue
		}
		markers = append(markers, Marker{
			SchoolID:    school.ID,
			Position:    *school.Coords,
			Color:       markerColor,
			PopupOffset: popupOffset,
			PopupHTML:   PopupHTML(school.Name, ds.StudentsAt(school.ID)),
		})
	}
	return markers
}

// PopupHTML renders the school name in bold followed by a list of its students.
func PopupHTML(schoolName string, students []models.Student) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(template.HTMLEscapeString(schoolName))
	b.WriteString("</b><ul>")
	for _, s := range students {
		b.WriteString("<li>")
		b.WriteString(template.HTMLEscapeString(s.Name))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
