package mapview

import "sync"

// MapConfig is what a map is constructed with.
type MapConfig struct {
	Container           string `json:"container"`
	StyleURL            string `json:"style"`
	Camera              Camera `json:"camera"`
	AttributionControl  bool   `json:"attribution_control"`
	AttributionPosition string `json:"attribution_position"`
	LogoPosition        string `json:"logo_position"`
}

// Map is the mapping widget the page drives. Markers are addressed by the order they were
// added in; ClickMarker reports false for an index with no marker.
type Map interface {
	AddMarker(m Marker, onClick func())
	ClickMarker(index int) bool
	FlyTo(c Camera)
	Camera() Camera
}

// MapFactory constructs a map bound to a container.
type MapFactory func(cfg MapConfig) Map

// Canvas is an in-process Map. It records what the page asked of it, which is what gets
// shipped to the browser widget.
type Canvas struct {
	mu       sync.Mutex
	config   MapConfig
	camera   Camera
	markers  []Marker
	handlers []func()
	flights  int
}

// NewCanvas is a MapFactory.
func NewCanvas(cfg MapConfig) Map {
	return &Canvas{
		config: cfg,
		camera: cfg.Camera,
	}
}

func (c *Canvas) AddMarker(m Marker, onClick func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = append(c.markers, m)
	c.handlers = append(c.handlers, onClick)
}

func (c *Canvas) FlyTo(cam Camera) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.camera = cam
	c.flights++
}

func (c *Canvas) Camera() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera
}

// Config returns the construction parameters.
func (c *Canvas) Config() MapConfig {
	return c.config
}

// Markers returns the markers added so far.
func (c *Canvas) Markers() []Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Marker, len(c.markers))
	copy(out, c.markers)
	return out
}

// Flights counts FlyTo calls.
func (c *Canvas) Flights() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flights
}

// ClickMarker fires the click handler of the index-th marker.
func (c *Canvas) ClickMarker(index int) bool {
	c.mu.Lock()
	if index < 0 || index >= len(c.handlers) {
		c.mu.Unlock()
		return false
	}
	h := c.handlers[index]
	c.mu.Unlock()
	if h != nil {
		h()
	}
	return true
}
