package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"poi-map-server/models"
	"poi-map-server/utils/errors"
)

// GeoService is the outbound boundary to the Mapbox Geocoding and
// Directions APIs. Failures never touch the POI store; they only surface
// as user-visible errors.
type GeoService struct {
	// BaseURL is overridable for tests; defaults to the public API host.
	BaseURL string

	client *http.Client
	token  string
	logger *zap.Logger
}

func NewGeoService(token string, logger *zap.Logger) *GeoService {
	return &GeoService{
		BaseURL: "https://api.mapbox.com",
		client:  &http.Client{Timeout: 10 * time.Second},
		token:   token,
		logger:  logger,
	}
}

type geocodeResponse struct {
	Features []struct {
		Text      string     `json:"text"`
		PlaceName string     `json:"place_name"`
		Center    [2]float64 `json:"center"`
	} `json:"features"`
}

// Geocode forward-geocodes a free-text query into candidate places.
// An empty result set is reported as no-results, not as success.
func (s *GeoService) Geocode(ctx context.Context, query string) ([]models.GeocodeResult, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=5",
		s.BaseURL, url.PathEscape(query), url.QueryEscape(s.token))

	var parsed geocodeResponse
	if err := s.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Features) == 0 {
		return nil, errors.ErrNoResults
	}

	results := make([]models.GeocodeResult, len(parsed.Features))
	for i, f := range parsed.Features {
		results[i] = models.GeocodeResult{
			Label:   f.Text,
			Address: f.PlaceName,
			Coords:  models.LngLat(f.Center),
		}
	}
	return results, nil
}

type directionsResponse struct {
	Routes []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route requests a driving route between two points and returns its
// polyline as coordinate pairs.
func (s *GeoService) Route(ctx context.Context, from, to models.LngLat) ([]models.LngLat, error) {
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%f,%f;%f,%f?geometries=geojson&access_token=%s",
		s.BaseURL, from.Lng(), from.Lat(), to.Lng(), to.Lat(), url.QueryEscape(s.token))

	var parsed directionsResponse
	if err := s.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Routes) == 0 || len(parsed.Routes[0].Geometry.Coordinates) == 0 {
		return nil, errors.ErrRouteNotFound
	}

	line := make([]models.LngLat, len(parsed.Routes[0].Geometry.Coordinates))
	for i, c := range parsed.Routes[0].Geometry.Coordinates {
		line[i] = models.LngLat(c)
	}
	return line, nil
}

func (s *GeoService) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrGeoService.Code, errors.ErrGeoService.Message, errors.ErrGeoService.Status)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("geo service request failed", zap.Error(err))
		return errors.ErrGeoService
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("geo service returned non-OK status", zap.Int("status", resp.StatusCode))
		return errors.ErrGeoService
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		s.logger.Warn("geo service returned unparseable body", zap.Error(err))
		return errors.ErrGeoService
	}
	return nil
}
