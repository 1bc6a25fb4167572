package mapview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmap-server-go/models"
)

var (
	mit = models.LngLat{-71.0942, 42.3601}
	umd = models.LngLat{-76.9378, 38.9869}
)

func testDataset() *models.Dataset {
	return models.NewDataset(
		[]models.Student{
			{Name: "Ada", SchoolID: 1},
			{Name: "Ben", SchoolID: 0},
			{Name: "Cy", SchoolID: 3},
			{Name: "Dee", SchoolID: 1},
			{Name: "Eve", SchoolID: 2},
			{Name: "Fay", SchoolID: 42},
			{Name: "<Gil>", SchoolID: 3},
		},
		[]models.School{
			{ID: 0, Name: "Unknown"},
			{ID: 1, Name: "MIT", Coords: &mit},
			{ID: 2, Name: "Online"},
			{ID: 3, Name: "UMD", Coords: &umd},
		},
	)
}

func TestResponsiveCamera(t *testing.T) {
	t.Run("reference viewport", func(t *testing.T) {
		cam := ResponsiveCamera(models.Viewport{Width: 1500, Height: 750})
		assert.InDelta(t, 3.8, cam.Zoom, 1e-9)
		assert.InDelta(t, 39.0, cam.Center.Lat(), 1e-9)
		assert.Equal(t, -92.032, cam.Center.Lng())
	})

	t.Run("wider zooms in, taller moves north", func(t *testing.T) {
		wide := ResponsiveCamera(models.Viewport{Width: 3000, Height: 1500})
		assert.InDelta(t, 3.8*1.65, wide.Zoom, 1e-9)
		assert.InDelta(t, 39.0, wide.Center.Lat(), 1e-9)

		tall := ResponsiveCamera(models.Viewport{Width: 1500, Height: 1500})
		assert.InDelta(t, 41.0, tall.Center.Lat(), 1e-9)
	})

	t.Run("unknown viewport falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultCamera, ResponsiveCamera(models.Viewport{}))
	})
}

func TestBuildMarkers(t *testing.T) {
	markers := BuildMarkers(testDataset())

	want := []Marker{
		{SchoolID: 1, Position: mit, Color: "black", PopupOffset: 25,
			PopupHTML: "<b>MIT</b><ul><li>Ada</li><li>Dee</li></ul>"},
		{SchoolID: 3, Position: umd, Color: "black", PopupOffset: 25,
			PopupHTML: "<b>UMD</b><ul><li>Cy</li><li>&lt;Gil&gt;</li></ul>"},
	}
	if diff := cmp.Diff(want, markers); diff != "" {
		t.Errorf("markers mismatch (-want +got):\n%s", diff)
	}
}

func TestPopupHTMLEmptySchool(t *testing.T) {
	assert.Equal(t, "<b>Tiny &amp; Co</b><ul></ul>", PopupHTML("Tiny & Co", nil))
}

func TestBuildRoster(t *testing.T) {
	r := BuildRoster(testDataset())

	require.Len(t, r.Sections, 3)
	assert.Equal(t, Section{SchoolID: 1, Title: "MIT", Coords: &mit, Students: []string{"Ada", "Dee"}, Flyable: true}, r.Sections[0])
	assert.Equal(t, Section{SchoolID: 2, Title: "Online", Students: []string{"Eve"}}, r.Sections[1])
	assert.Equal(t, []string{"Cy", "<Gil>"}, r.Sections[2].Students)

	assert.Equal(t, GapYearTitle, r.GapYear.Title)
	assert.Equal(t, []string{"Ben"}, r.GapYear.Students)
	assert.False(t, r.GapYear.Flyable)
	assert.Equal(t, 1, r.Orphans)

	t.Run("every student listed at most once", func(t *testing.T) {
		seen := map[string]int{}
		for _, s := range r.All() {
			for _, name := range s.Students {
				seen[name]++
			}
		}
		for name, n := range seen {
			assert.Equal(t, 1, n, name)
		}
		assert.NotContains(t, seen, "Fay")
	})

	t.Run("gap year id on a real school does not steal gap year students", func(t *testing.T) {
		ds := models.NewDataset(
			[]models.Student{{Name: "Ben", SchoolID: 0}},
			[]models.School{{ID: 9, Name: "Placeholder"}, {ID: 0, Name: "Also zero", Coords: &mit}},
		)
		r := BuildRoster(ds)
		require.Len(t, r.Sections, 1)
		assert.Empty(t, r.Sections[0].Students)
		assert.Equal(t, []string{"Ben"}, r.GapYear.Students)
		assert.Equal(t, "<b>Also zero</b><ul></ul>", BuildMarkers(ds)[0].PopupHTML)
	})
}

func TestLayoutAndControls(t *testing.T) {
	fixed := DefaultOptions()
	responsive := DefaultOptions()
	responsive.Variant = VariantResponsive

	narrow := &models.Viewport{Width: 400, Height: 800}
	wide := &models.Viewport{Width: 1500, Height: 750}

	tests := []struct {
		name     string
		state    State
		opts     Options
		layout   Layout
		controls Controls
	}{
		{"closed", State{}, fixed, LayoutSidebar, Controls{Expand: true, Reset: true}},
		{"open", State{MenuOpen: true}, fixed, LayoutFullscreen, Controls{Close: true}},
		{"fixed ignores narrow", State{Viewport: narrow}, fixed, LayoutSidebar, Controls{Expand: true, Reset: true}},
		{"responsive narrow", State{Viewport: narrow, MenuOpen: true}, responsive, LayoutInline, Controls{}},
		{"responsive wide", State{Viewport: wide, MenuOpen: true}, responsive, LayoutFullscreen, Controls{Close: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.layout, LayoutFor(tt.state, tt.opts))
			assert.Equal(t, tt.controls, ControlsFor(tt.state, tt.opts))
		})
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("responsive")
	require.NoError(t, err)
	assert.Equal(t, VariantResponsive, v)
	assert.Equal(t, "responsive", v.String())

	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantFixed, v)

	_, err = ParseVariant("wobbly")
	assert.Error(t, err)
}
