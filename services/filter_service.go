package services

import (
	"strings"

	"poi-map-server/models"
)

// FilterPOIs derives the visible subset of all: POIs whose category is in
// categories (empty set means no restriction) AND whose title or
// description contains the trimmed query case-insensitively (empty query
// means no restriction). The result preserves the input order.
func FilterPOIs(all []models.POI, query string, categories map[string]bool) []models.POI {
	query = strings.ToLower(strings.TrimSpace(query))

	visible := make([]models.POI, 0, len(all))
	for _, poi := range all {
		if len(categories) > 0 && !categories[poi.Category] {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(poi.Title), query) &&
			!strings.Contains(strings.ToLower(poi.Description), query) {
			continue
		}
		visible = append(visible, poi)
	}
	return visible
}

// CategorySet turns a list of category names into the set form FilterPOIs
// expects, skipping empty entries.
func CategorySet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
	return set
}
