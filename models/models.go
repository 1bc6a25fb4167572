package models

import (
	"encoding/json"
	"fmt"
)

// GapYearSchoolID marks a student with no school.
const GapYearSchoolID = 0

// Student represents a member of the graduating class
type Student struct {
	Name     string `json:"name"`      // Display name
	SchoolID int    `json:"school_id"` // ID of the school the student attends, 0 for gap year
}

// GapYear reports whether the student has no school.
func (s Student) GapYear() bool {
	return s.SchoolID == GapYearSchoolID
}

// School represents a college destination
type School struct {
	ID     int     `json:"id"`     // Unique school ID
	Name   string  `json:"name"`   // School name
	Coords *LngLat `json:"coords"` // Marker position, nil when the school is not placed on the map
}

// Placed reports whether the school gets a map marker.
func (s School) Placed() bool {
	return s.Coords != nil
}

// LngLat is a [longitude, latitude] pair, in that order on the wire.
type LngLat [2]float64

func (p LngLat) Lng() float64 { return p[0] }
func (p LngLat) Lat() float64 { return p[1] }

func (p LngLat) String() string {
	return fmt.Sprintf("[%g, %g]", p[0], p[1])
}

// UnmarshalJSON rejects arrays that are not exactly two numbers long.
func (p *LngLat) UnmarshalJSON(b []byte) error {
	var raw []float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("coords: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("coords: want [longitude, latitude], got %d values", len(raw))
	}
	p[0], p[1] = raw[0], raw[1]
	return nil
}

// Viewport is the browser window size in pixels
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are known.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}
