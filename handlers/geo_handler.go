package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"poi-map-server/middleware"
	"poi-map-server/models"
	"poi-map-server/services"
	"poi-map-server/utils/errors"
)

type GeoHandler struct {
	geoService *services.GeoService
}

type GeocodeResponse struct {
	Results []models.GeocodeResult `json:"results"`
	Count   int                    `json:"count"`
}

type RouteResponse struct {
	Route []models.LngLat `json:"route"`
	Count int             `json:"count"`
}

func NewGeoHandler(geoService *services.GeoService) *GeoHandler {
	return &GeoHandler{geoService: geoService}
}

func (h *GeoHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	results, err := h.geoService.Geocode(r.Context(), query)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GeocodeResponse{Results: results, Count: len(results)})
}

func (h *GeoHandler) Route(w http.ResponseWriter, r *http.Request) {
	from, err := parseLngLat(r.URL.Query().Get("from"))
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	to, err := parseLngLat(r.URL.Query().Get("to"))
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	route, err := h.geoService.Route(r.Context(), from, to)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RouteResponse{Route: route, Count: len(route)})
}

// parseLngLat reads a "lng,lat" pair.
func parseLngLat(raw string) (models.LngLat, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return models.LngLat{}, errors.ErrInvalidInput
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.LngLat{}, errors.ErrInvalidInput
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.LngLat{}, errors.ErrInvalidInput
	}
	coords := models.LngLat{lng, lat}
	if !coords.Valid() {
		return models.LngLat{}, errors.ErrInvalidInput
	}
	return coords, nil
}
