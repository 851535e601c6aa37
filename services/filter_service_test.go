package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi-map-server/models"
)

func filterFixture() []models.POI {
	return []models.POI{
		{ID: "museo-oro", Title: "Museo del Oro", Description: "Gran colección precolombina de oro.", Category: "museum", Coords: models.LngLat{-74.072, 4.60192}},
		{ID: "parque-simon", Title: "Parque Simón Bolívar", Description: "El parque metropolitano más grande de Bogotá.", Category: "park", Coords: models.LngLat{-74.09389, 4.65806}},
		{ID: "museo-botero", Title: "Museo Botero", Description: "Colección de Fernando Botero.", Category: "museum", Coords: models.LngLat{-74.07323, 4.59665}},
	}
}

func TestFilterEmptyQueryAndCategoriesReturnsAll(t *testing.T) {
	all := filterFixture()
	assert.Equal(t, all, FilterPOIs(all, "", nil))
	assert.Equal(t, all, FilterPOIs(all, "   ", CategorySet(nil)))
}

func TestFilterByQueryMatchesTitleCaseInsensitively(t *testing.T) {
	got := FilterPOIs(filterFixture(), "museo", nil)

	require.Len(t, got, 2)
	assert.Equal(t, "museo-oro", got[0].ID)
	assert.Equal(t, "museo-botero", got[1].ID)
}

func TestFilterByQueryMatchesDescription(t *testing.T) {
	got := FilterPOIs(filterFixture(), "metropolitano", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "parque-simon", got[0].ID)
}

func TestFilterSearchScenario(t *testing.T) {
	all := []models.POI{
		{ID: "a", Title: "Museo del Oro", Category: "museum", Coords: models.LngLat{-74.07, 4.6}},
		{ID: "b", Title: "Parque Simón Bolívar", Category: "park", Coords: models.LngLat{-74.09, 4.65}},
	}

	got := FilterPOIs(all, "museo", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFilterByCategory(t *testing.T) {
	got := FilterPOIs(filterFixture(), "", CategorySet([]string{"park"}))

	require.Len(t, got, 1)
	assert.Equal(t, "parque-simon", got[0].ID)
}

func TestFilterComposesByConjunction(t *testing.T) {
	got := FilterPOIs(filterFixture(), "botero", CategorySet([]string{"museum"}))
	require.Len(t, got, 1)
	assert.Equal(t, "museo-botero", got[0].ID)

	// Query matches but category does not.
	assert.Empty(t, FilterPOIs(filterFixture(), "botero", CategorySet([]string{"park"})))
}

func TestFilterTrimsQueryWhitespace(t *testing.T) {
	got := FilterPOIs(filterFixture(), "  ORO  ", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "museo-oro", got[0].ID)
}

func TestFilterIsIdempotent(t *testing.T) {
	once := FilterPOIs(filterFixture(), "museo", CategorySet([]string{"museum"}))
	twice := FilterPOIs(once, "museo", CategorySet([]string{"museum"}))

	assert.Equal(t, once, twice)
}

func TestFilterPreservesInputOrder(t *testing.T) {
	all := filterFixture()
	got := FilterPOIs(all, "", CategorySet([]string{"museum", "park"}))

	require.Len(t, got, 3)
	assert.Equal(t, all, got)
}

func TestFilterNoMatchesReturnsEmpty(t *testing.T) {
	assert.Empty(t, FilterPOIs(filterFixture(), "catedral", nil))
}
