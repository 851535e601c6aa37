package services

import (
	"poi-map-server/models"
	"poi-map-server/utils/errors"
)

// MarkerHandle is the map SDK's opaque reference to one rendered marker.
type MarkerHandle any

// MapSDK is the rendering boundary. The core never draws anything itself;
// it tells the SDK what to add, move and remove.
type MapSDK interface {
	AddMarker(coords models.LngLat, poi models.POI) MarkerHandle
	RemoveMarker(handle MarkerHandle)
	SetMarkerPosition(handle MarkerHandle, coords models.LngLat)
	FlyTo(coords models.LngLat, zoom float64)
	FitBounds(coords []models.LngLat, padding float64)
	OpenPopup(handle MarkerHandle)
}

type renderedMarker struct {
	handle MarkerHandle
	coords models.LngLat
}

// MarkerSync keeps exactly one rendered marker per visible POI. It owns
// marker lifecycle but never owns POI data; markers only carry the POI id.
// Not safe for concurrent use; the owning view serializes access.
type MarkerSync struct {
	sdk      MapSDK
	rendered map[string]*renderedMarker
}

func NewMarkerSync(sdk MapSDK) *MarkerSync {
	return &MarkerSync{sdk: sdk, rendered: make(map[string]*renderedMarker)}
}

// Reconcile diffs the rendered marker set against visible: markers for ids
// no longer visible are removed, newly visible ids get a marker, and ids
// still visible have their position updated in place when the coordinates
// moved. Work is proportional to what changed, and untouched markers keep
// their handle (and with it any open popup) across the call.
func (s *MarkerSync) Reconcile(visible []models.POI) {
	keep := make(map[string]bool, len(visible))
	for _, poi := range visible {
		keep[poi.ID] = true
		if m, ok := s.rendered[poi.ID]; ok {
			if m.coords != poi.Coords {
				s.sdk.SetMarkerPosition(m.handle, poi.Coords)
				m.coords = poi.Coords
			}
			continue
		}
		s.rendered[poi.ID] = &renderedMarker{
			handle: s.sdk.AddMarker(poi.Coords, poi),
			coords: poi.Coords,
		}
	}
	for id, m := range s.rendered {
		if !keep[id] {
			s.sdk.RemoveMarker(m.handle)
			delete(s.rendered, id)
		}
	}
}

// FlyTo centers the map on the POI's marker and opens its popup.
func (s *MarkerSync) FlyTo(id string, zoom float64) error {
	m, ok := s.rendered[id]
	if !ok {
		return errors.ErrMarkerMissing
	}
	s.sdk.FlyTo(m.coords, zoom)
	s.sdk.OpenPopup(m.handle)
	return nil
}

// ShowPopup opens the POI's popup without moving the camera.
func (s *MarkerSync) ShowPopup(id string) error {
	m, ok := s.rendered[id]
	if !ok {
		return errors.ErrMarkerMissing
	}
	s.sdk.OpenPopup(m.handle)
	return nil
}

// FitBounds frames all currently rendered markers.
func (s *MarkerSync) FitBounds(padding float64) {
	if len(s.rendered) == 0 {
		return
	}
	coords := make([]models.LngLat, 0, len(s.rendered))
	for _, m := range s.rendered {
		coords = append(coords, m.coords)
	}
	s.sdk.FitBounds(coords, padding)
}

// Rendered reports whether a marker exists for the id.
func (s *MarkerSync) Rendered(id string) bool {
	_, ok := s.rendered[id]
	return ok
}
