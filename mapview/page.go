package mapview

import (
	"fmt"

	"classmap-server-go/models"
)

// Variant selects how the initial camera is framed.
type Variant int

const (
	// VariantFixed initializes at DefaultCamera as soon as the page mounts.
	VariantFixed Variant = iota
	// VariantResponsive waits for the viewport and frames the camera from it.
	VariantResponsive
)

func (v Variant) String() string {
	switch v {
	case VariantFixed:
		return "fixed"
	case VariantResponsive:
		return "responsive"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant is the inverse of Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "fixed", "":
		return VariantFixed, nil
	case "responsive":
		return VariantResponsive, nil
	}
	return 0, fmt.Errorf("unknown map variant %q", s)
}

const (
	DefaultContainer  = "map"
	DefaultStyleURL   = "mapbox://styles/mapbox/light-v10"
	DefaultBreakpoint = 768
)

// Options configure a Page.
type Options struct {
	Variant   Variant
	Container string
	StyleURL  string
	// RecenterOnResize re-frames an already initialized responsive map on every resize.
	// Off, the responsive framing only happens once, on the first valid viewport.
	RecenterOnResize bool
	// Breakpoint is the viewport width below which the responsive layout shows the roster
	// inline under the map.
	Breakpoint int
}

// DefaultOptions returns the fixed variant bound to the "map" container.
func DefaultOptions() Options {
	return Options{
		Variant:    VariantFixed,
		Container:  DefaultContainer,
		StyleURL:   DefaultStyleURL,
		Breakpoint: DefaultBreakpoint,
	}
}

// State is the page's UI state. It is what gets persisted between requests.
type State struct {
	Initialized bool             `json:"initialized"`
	MenuOpen    bool             `json:"menu_open"`
	Viewport    *models.Viewport `json:"viewport,omitempty"`
	Camera      Camera           `json:"camera"`
	// Overview is where reset flies back to.
	Overview Camera `json:"overview"`
}

// Page owns the map handle for one rendering of the destinations page. The map is created
// at most once; every later call either drives it or does nothing.
type Page struct {
	ds     *models.Dataset
	opts   Options
	newMap MapFactory
	m      Map
	state  State
}

// NewPage creates an uninitialized page. Call Mount, then Resize as the viewport is learned.
func NewPage(ds *models.Dataset, opts Options, factory MapFactory) *Page {
	if factory == nil {
		factory = NewCanvas
	}
	return &Page{ds: ds, opts: opts, newMap: factory}
}

// RestorePage rebuilds a page from a persisted State. An initialized state gets its map
// re-created at the stored camera.
func RestorePage(ds *models.Dataset, opts Options, factory MapFactory, s State) *Page {
	p := NewPage(ds, opts, factory)
	p.state = State{MenuOpen: s.MenuOpen}
	if s.Viewport != nil {
		v := *s.Viewport
		p.state.Viewport = &v
	}
	if !s.Initialized {
		return p
	}
	overview := s.Overview
	if overview.Zoom == 0 {
		overview = DefaultCamera
	}
	p.initialize(s.Camera, overview)
	return p
}

// Mount runs once the page is on screen. The fixed variant initializes immediately; the
// responsive variant only when a viewport is already known.
func (p *Page) Mount() {
	switch p.opts.Variant {
	case VariantResponsive:
		if p.state.Viewport != nil {
			cam := ResponsiveCamera(*p.state.Viewport)
			p.initialize(cam, cam)
		}
	default:
		p.initialize(DefaultCamera, DefaultCamera)
	}
}

// Resize records a new viewport. An uninitialized responsive page initializes from it.
func (p *Page) Resize(v models.Viewport) {
	if !v.Valid() {
		return
	}
	p.state.Viewport = &v
	if p.opts.Variant != VariantResponsive {
		return
	}

	cam := ResponsiveCamera(v)
	if p.m == nil {
		p.initialize(cam, cam)
		return
	}
	if p.opts.RecenterOnResize {
		p.state.Overview = cam
		p.apply(cam, p.state.MenuOpen)
	}
}

// initialize creates the map and its markers if no map exists yet.
func (p *Page) initialize(cam, overview Camera) {
	if p.m != nil || p.opts.Container == "" {
		return
	}
	p.m = p.newMap(MapConfig{
		Container:           p.opts.Container,
		StyleURL:            p.opts.StyleURL,
		Camera:              cam,
		AttributionControl:  true,
		AttributionPosition: "bottom-left",
		LogoPosition:        "top-left",
	})
	for _, marker := range BuildMarkers(p.ds) {
		pos := marker.Position
		p.m.AddMarker(marker, func() { p.FlyTo(pos) })
	}
	p.state.Initialized = true
	p.state.Camera = p.m.Camera()
	p.state.Overview = overview
}

// flyTransition is the single transition behind every fly-to: the camera closes in on the
// target and the menu closes.
func flyTransition(s State, target models.LngLat) State {
	s.Camera = Camera{Center: target, Zoom: CloseZoom}
	s.MenuOpen = false
	return s
}

func (p *Page) apply(cam Camera, menuOpen bool) {
	p.m.FlyTo(cam)
	p.state.Camera = p.m.Camera()
	p.state.MenuOpen = menuOpen
}

// FlyTo centers the map on target at CloseZoom and closes the menu. No-op before the map exists.
func (p *Page) FlyTo(target models.LngLat) {
	if p.m == nil {
		return
	}
	next := flyTransition(p.state, target)
	p.apply(next.Camera, next.MenuOpen)
}

// FlyToSchool is a roster heading click. A school without coordinates only closes the menu.
func (p *Page) FlyToSchool(schoolID int) {
	if p.m == nil {
		return
	}
	school, ok := p.ds.SchoolByID(schoolID)
	if !ok {
		return
	}
	if school.Coords == nil {
		p.state.MenuOpen = false
		return
	}
	p.FlyTo(*school.Coords)
}

// ClickMarker fires the click handler of the index-th marker in BuildMarkers order. It reports
// false before the map exists or when there is no such marker.
func (p *Page) ClickMarker(index int) bool {
	if p.m == nil {
		return false
	}
	return p.m.ClickMarker(index)
}

// FlyToReset returns to the overview camera. No-op before the map exists.
func (p *Page) FlyToReset() {
	if p.m == nil {
		return
	}
	p.apply(p.state.Overview, false)
}

func (p *Page) OpenMenu()   { p.state.MenuOpen = true }
func (p *Page) CloseMenu()  { p.state.MenuOpen = false }
func (p *Page) ToggleMenu() { p.state.MenuOpen = !p.state.MenuOpen }

// State returns a copy of the current state.
func (p *Page) State() State {
	s := p.state
	if s.Viewport != nil {
		v := *s.Viewport
		s.Viewport = &v
	}
	return s
}

// Map returns the map handle, nil until initialized.
func (p *Page) Map() Map { return p.m }

// Options returns the options the page was created with.
func (p *Page) Options() Options { return p.opts }
