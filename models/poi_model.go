package models

import (
	"fmt"
	"math"
)

// LngLat is a coordinate pair in [longitude, latitude] order, matching the
// wire format used by the persisted POI records and the map client.
type LngLat [2]float64

func (c LngLat) Lng() float64 { return c[0] }
func (c LngLat) Lat() float64 { return c[1] }

// Valid reports whether both components are finite and inside the
// geographic ranges: longitude [-180,180], latitude [-90,90].
func (c LngLat) Valid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c[0] >= -180 && c[0] <= 180 && c[1] >= -90 && c[1] <= 90
}

type POI struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Coords      LngLat `json:"coords"`
}

// Validate is the shape check applied at every external-data ingress
// (import payloads, persisted records) before a POI may enter the store.
func (p POI) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("poi: missing id")
	}
	if p.Title == "" {
		return fmt.Errorf("poi %q: missing title", p.ID)
	}
	if !p.Coords.Valid() {
		return fmt.Errorf("poi %q: invalid coordinates [%v, %v]", p.ID, p.Coords.Lng(), p.Coords.Lat())
	}
	return nil
}

// Patch carries a partial POI update; nil fields are left untouched.
// Category and ID are immutable after creation and have no patch field.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Coords      *LngLat `json:"coords,omitempty"`
}

var categoryIcons = map[string]string{
	"viewpoint":    "⛰️",
	"plaza":        "🏛️",
	"museum":       "🏺",
	"church":       "⛪",
	"park":         "🌳",
	"garden":       "🌿",
	"neighborhood": "🏘️",
}

// CategoryIcon returns the marker glyph for a category, with a generic
// pin for unknown or user-defined categories.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "📍"
}

// DefaultPOIs returns the built-in Bogotá collection, used whenever no
// persisted data exists or the persisted record is unreadable.
func DefaultPOIs() []POI {
	return []POI{
		{ID: "monserrate", Title: "Cerro de Monserrate", Category: "viewpoint", Coords: LngLat{-74.05639, 4.60583}, Description: "Mirador icónico con iglesia y teleférico."},
		{ID: "plaza-bolivar", Title: "Plaza de Bolívar", Category: "plaza", Coords: LngLat{-74.07600, 4.59815}, Description: "Plaza principal del centro histórico."},
		{ID: "museo-oro", Title: "Museo del Oro", Category: "museum", Coords: LngLat{-74.07200, 4.60192}, Description: "Gran colección precolombina de oro."},
		{ID: "museo-botero", Title: "Museo Botero", Category: "museum", Coords: LngLat{-74.07323, 4.59665}, Description: "Colección de Fernando Botero y arte internacional."},
		{ID: "chorro-quevedo", Title: "Chorro de Quevedo", Category: "plaza", Coords: LngLat{-74.069693, 4.597726}, Description: "Plazoleta histórica en La Candelaria."},
		{ID: "catedral", Title: "Catedral Primada", Category: "church", Coords: LngLat{-74.07515, 4.597842}, Description: "Catedral frente a la Plaza de Bolívar."},
		{ID: "parque-simon", Title: "Parque Simón Bolívar", Category: "park", Coords: LngLat{-74.09389, 4.65806}, Description: "El parque metropolitano más grande de Bogotá."},
		{ID: "jardin-botanico", Title: "Jardín Botánico", Category: "garden", Coords: LngLat{-74.100198, 4.668211}, Description: "Jardín Botánico José Celestino Mutis."},
		{ID: "parque-93", Title: "Parque de la 93", Category: "park", Coords: LngLat{-74.04835, 4.67677}, Description: "Zona gastronómica y de eventos."},
		{ID: "usaquen", Title: "Plaza de Usaquén", Category: "neighborhood", Coords: LngLat{-74.03106, 4.69682}, Description: "Zona colonial con mercado y restaurantes."},
	}
}
