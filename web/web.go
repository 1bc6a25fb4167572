// Package web renders the destinations page and carries its browser assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"classmap-server-go/mapview"
	"classmap-server-go/models"
)

// PageTemplate is the name the page template is registered under.
const PageTemplate = "index.html.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Mode says who runs the page transitions.
type Mode string

const (
	// ModeServer posts every interaction to the API.
	ModeServer Mode = "server"
	// ModeStatic applies interactions in the browser. Used by the static build.
	ModeStatic Mode = "static"
)

// Meta is the document head content and map widget settings.
type Meta struct {
	Title       string
	Description string
	Token       string
	StyleURL    string
}

// Framing carries the responsive camera constants so the static page frames like the server.
type Framing struct {
	Zoom      float64 `json:"zoom"`
	Lng       float64 `json:"lng"`
	Lat       float64 `json:"lat"`
	RefWidth  float64 `json:"ref_width"`
	RefHeight float64 `json:"ref_height"`
}

// Scene is the JSON document the browser script boots from.
type Scene struct {
	Mode             Mode             `json:"mode"`
	Token            string           `json:"token"`
	Container        string           `json:"container"`
	Style            string           `json:"style"`
	Variant          string           `json:"variant"`
	RecenterOnResize bool             `json:"recenter_on_resize"`
	Breakpoint       int              `json:"breakpoint"`
	CloseZoom        float64          `json:"close_zoom"`
	Framing          Framing          `json:"framing"`
	Markers          []mapview.Marker `json:"markers"`
	State            mapview.State    `json:"state"`
	Layout           mapview.Layout   `json:"layout"`
	Controls         mapview.Controls `json:"controls"`
}

// PageView is everything the page template needs.
type PageView struct {
	Meta     Meta
	BuildID  string
	Roster   mapview.Roster
	Scene    Scene
	Layout   mapview.Layout
	Controls mapview.Controls
}

// NewPageView assembles the view for a page in its current state.
func NewPageView(meta Meta, ds *models.Dataset, page *mapview.Page, mode Mode, buildID string) PageView {
	opts := page.Options()
	state := page.State()
	layout := mapview.LayoutFor(state, opts)
	controls := mapview.ControlsFor(state, opts)
	ref := mapview.ResponsiveCamera(models.Viewport{Width: 1500, Height: 750})

	return PageView{
		Meta:     meta,
		BuildID:  buildID,
		Roster:   mapview.BuildRoster(ds),
		Layout:   layout,
		Controls: controls,
		Scene: Scene{
			Mode:             mode,
			Token:            meta.Token,
			Container:        opts.Container,
			Style:            opts.StyleURL,
			Variant:          opts.Variant.String(),
			RecenterOnResize: opts.RecenterOnResize,
			Breakpoint:       opts.Breakpoint,
			CloseZoom:        mapview.CloseZoom,
			Framing: Framing{
				Zoom:      ref.Zoom,
				Lng:       ref.Center.Lng(),
				Lat:       ref.Center.Lat(),
				RefWidth:  1500,
				RefHeight: 750,
			},
			Markers:  mapview.BuildMarkers(ds),
			State:    state,
			Layout:   layout,
			Controls: controls,
		},
	}
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// Static serves the embedded stylesheet and browser script.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Render writes the page.
func Render(w io.Writer, v PageView) error {
	return Templates().ExecuteTemplate(w, PageTemplate, v)
}

// WriteStaticSite writes index.html and the static assets under dir.
func WriteStaticSite(dir string, v PageView) error {
	if err := os.MkdirAll(filepath.Join(dir, "static"), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create index.html: %w", err)
	}
	if err := Render(f, v); err != nil {
		f.Close()
		return fmt.Errorf("failed to render page: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	return fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := staticFS.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, filepath.FromSlash(path)), data, 0o644)
	})
}
