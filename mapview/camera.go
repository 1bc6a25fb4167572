// Package mapview holds the page logic behind the destinations map: camera framing, markers
// and popups, the sidebar roster, and the menu/camera state machine.
package mapview

import "classmap-server-go/models"

const (
	// CloseZoom is the zoom level used when flying to a single school.
	CloseZoom = 13.0

	overviewZoom = 3.8
	overviewLng  = -92.032
	overviewLat  = 38.0

	// Reference viewport the responsive framing is tuned against.
	referenceWidth  = 1500.0
	referenceHeight = 750.0
	responsiveLat   = 39.0
)

// Camera is a map center and zoom.
type Camera struct {
	Center models.LngLat `json:"center"`
	Zoom   float64       `json:"zoom"`
}

// DefaultCamera frames the continental US.
var DefaultCamera = Camera{
	Center: models.LngLat{overviewLng, overviewLat},
	Zoom:   overviewZoom,
}

// ResponsiveCamera frames roughly the same region for any viewport. Wider windows zoom in,
// taller windows shift the center north. The reference viewport yields zoom 3.8 at latitude 39.
func ResponsiveCamera(v models.Viewport) Camera {
	if !v.Valid() {
		return DefaultCamera
	}
	w, h := float64(v.Width), float64(v.Height)
	aspect := (h / w) / (referenceHeight / referenceWidth)
	return Camera{
		Center: models.LngLat{overviewLng, responsiveLat + 2*(aspect-1)},
		Zoom:   overviewZoom * (0.65*(w/referenceWidth-1) + 1),
	}
}
