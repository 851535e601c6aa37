package models

import (
	"net/url"
	"strconv"
)

// Viewport is the map camera: center plus zoom level.
type Viewport struct {
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

func (v Viewport) Center() LngLat { return LngLat{v.Lng, v.Lat} }

// DefaultViewport centers on Bogotá at city-wide zoom.
func DefaultViewport() Viewport {
	return Viewport{Lng: -74.0721, Lat: 4.7110, Zoom: 12}
}

// ViewportFromQuery applies shareable-link parameters (lng, lat, z) on top
// of a fallback viewport. The center is only overridden when both lng and
// lat parse as valid coordinates; zoom only when z parses into [0,22].
// Malformed or missing values keep the fallback, never fail.
func ViewportFromQuery(q url.Values, fallback Viewport) Viewport {
	vp := fallback
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLng == nil && errLat == nil && (LngLat{lng, lat}).Valid() {
		vp.Lng, vp.Lat = lng, lat
	}
	if z, err := strconv.ParseFloat(q.Get("z"), 64); err == nil && z >= 0 && z <= 22 {
		vp.Zoom = z
	}
	return vp
}

// ListRow is one entry of the sidebar list: a pure projection of a visible
// POI plus the actions the client may dispatch against it.
type ListRow struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CategoryIcon string   `json:"category_icon"`
	Actions      []string `json:"actions"`
}

// GeocodeResult is one candidate returned by the geocoding boundary.
type GeocodeResult struct {
	Label   string `json:"label"`
	Address string `json:"address"`
	Coords  LngLat `json:"coords"`
}
