package services

import (
	"sync"

	"poi-map-server/models"
)

// RenderedMarker is the server-side mirror of one marker as the client
// should draw it.
type RenderedMarker struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Icon      string        `json:"icon"`
	Coords    models.LngLat `json:"coords"`
	PopupOpen bool          `json:"popup_open"`
}

// RenderedMap is a headless MapSDK implementation: it tracks what the map
// client should currently be showing so handlers can serve that state.
type RenderedMap struct {
	mu       sync.Mutex
	viewport models.Viewport
	markers  []*RenderedMarker
}

func NewRenderedMap(viewport models.Viewport) *RenderedMap {
	return &RenderedMap{viewport: viewport}
}

func (m *RenderedMap) AddMarker(coords models.LngLat, poi models.POI) MarkerHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	marker := &RenderedMarker{
		ID:     poi.ID,
		Title:  poi.Title,
		Icon:   models.CategoryIcon(poi.Category),
		Coords: coords,
	}
	m.markers = append(m.markers, marker)
	return marker
}

func (m *RenderedMap) RemoveMarker(handle MarkerHandle) {
	marker, ok := handle.(*RenderedMarker)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.markers {
		if existing == marker {
			m.markers = append(m.markers[:i], m.markers[i+1:]...)
			return
		}
	}
}

func (m *RenderedMap) SetMarkerPosition(handle MarkerHandle, coords models.LngLat) {
	marker, ok := handle.(*RenderedMarker)
	if !ok {
		return
	}
	m.mu.Lock()
	marker.Coords = coords
	m.mu.Unlock()
}

func (m *RenderedMap) FlyTo(coords models.LngLat, zoom float64) {
	m.mu.Lock()
	m.viewport = models.Viewport{Lng: coords.Lng(), Lat: coords.Lat(), Zoom: zoom}
	m.mu.Unlock()
}

// FitBounds centers on the bounding box of coords. Zoom is left to the
// client, which knows its own pixel size.
func (m *RenderedMap) FitBounds(coords []models.LngLat, _ float64) {
	if len(coords) == 0 {
		return
	}
	minLng, maxLng := coords[0].Lng(), coords[0].Lng()
	minLat, maxLat := coords[0].Lat(), coords[0].Lat()
	for _, c := range coords[1:] {
		if c.Lng() < minLng {
			minLng = c.Lng()
		}
		if c.Lng() > maxLng {
			maxLng = c.Lng()
		}
		if c.Lat() < minLat {
			minLat = c.Lat()
		}
		if c.Lat() > maxLat {
			maxLat = c.Lat()
		}
	}
	m.mu.Lock()
	m.viewport.Lng = (minLng + maxLng) / 2
	m.viewport.Lat = (minLat + maxLat) / 2
	m.mu.Unlock()
}

// OpenPopup opens the marker's popup, closing any other open popup the way
// a single shared info box behaves.
func (m *RenderedMap) OpenPopup(handle MarkerHandle) {
	marker, ok := handle.(*RenderedMarker)
	if !ok {
		return
	}
	m.mu.Lock()
	for _, existing := range m.markers {
		existing.PopupOpen = existing == marker
	}
	m.mu.Unlock()
}

func (m *RenderedMap) Viewport() models.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

// Markers returns a copy of the rendered marker state.
func (m *RenderedMap) Markers() []RenderedMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RenderedMarker, len(m.markers))
	for i, marker := range m.markers {
		out[i] = *marker
	}
	return out
}
