package services

import "poi-map-server/models"

// listActions are the actions every row offers, resolved through the map
// view's dispatch table.
var listActions = []string{"go", "info", "edit", "delete"}

// ProjectRows derives the sidebar list from the visible POIs. It is a pure
// projection: no state, same order as the input.
func ProjectRows(visible []models.POI) []models.ListRow {
	rows := make([]models.ListRow, len(visible))
	for i, poi := range visible {
		rows[i] = models.ListRow{
			ID:           poi.ID,
			Title:        poi.Title,
			Description:  poi.Description,
			CategoryIcon: models.CategoryIcon(poi.Category),
			Actions:      listActions,
		}
	}
	return rows
}
