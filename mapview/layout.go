package mapview

// Layout is how the roster is presented.
type Layout string

const (
	LayoutSidebar    Layout = "sidebar"
	LayoutFullscreen Layout = "fullscreen"
	LayoutInline     Layout = "inline"
)

// Controls says which of the overlay affordances are visible.
type Controls struct {
	Expand bool `json:"expand"`
	Close  bool `json:"close"`
	Reset  bool `json:"reset"`
}

// LayoutFor picks the roster presentation. Narrow responsive viewports list the roster below
// the map regardless of the menu flag.
func LayoutFor(s State, opts Options) Layout {
	if opts.Variant == VariantResponsive && s.Viewport != nil && s.Viewport.Width < opts.Breakpoint {
		return LayoutInline
	}
	if s.MenuOpen {
		return LayoutFullscreen
	}
	return LayoutSidebar
}

// ControlsFor returns the visible controls: expand and reset over the compact sidebar, close
// over the full-screen roster, nothing in the inline layout.
func ControlsFor(s State, opts Options) Controls {
	switch LayoutFor(s, opts) {
	case LayoutFullscreen:
		return Controls{Close: true}
	case LayoutSidebar:
		return Controls{Expand: true, Reset: true}
	}
	return Controls{}
}
