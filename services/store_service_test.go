package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poi-map-server/models"
	"poi-map-server/utils/errors"
)

func newTestStore(t *testing.T) (*POIStore, KV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewPOIStore(NewPersistenceService(kv, zap.NewNop()), zap.NewNop()), kv
}

func testPOI(id, title string) models.POI {
	return models.POI{ID: id, Title: title, Category: "user", Coords: models.LngLat{-74.07, 4.71}}
}

func TestLoadInitialFallsBackToDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	store.LoadInitial(context.Background())

	assert.Len(t, store.List(), len(models.DefaultPOIs()))
}

func TestLoadInitialMalformedRecordFallsBackToDefaults(t *testing.T) {
	kv := NewMemoryKV()
	seedRaw(t, kv, "][")

	store := NewPOIStore(NewPersistenceService(kv, zap.NewNop()), zap.NewNop())
	store.LoadInitial(context.Background())

	assert.Len(t, store.List(), len(models.DefaultPOIs()))
}

func TestLoadInitialAdoptsPersistedCollection(t *testing.T) {
	kv := NewMemoryKV()
	persistence := NewPersistenceService(kv, zap.NewNop())
	persistence.Save(context.Background(), []models.POI{testPOI("solo", "Solo")})

	store := NewPOIStore(persistence, zap.NewNop())
	store.LoadInitial(context.Background())

	pois := store.List()
	require.Len(t, pois, 1)
	assert.Equal(t, "solo", pois[0].ID)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testPOI("x", "First")))
	err := store.Add(ctx, testPOI("x", "Second"))

	assert.ErrorIs(t, err, errors.ErrDuplicateID)
	pois := store.List()
	require.Len(t, pois, 1)
	assert.Equal(t, "First", pois[0].Title)
}

func TestAddRejectsMalformedPOI(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Add(ctx, models.POI{ID: "", Title: "No id", Coords: models.LngLat{0, 0}}))
	assert.Error(t, store.Add(ctx, models.POI{ID: "bad-coords", Title: "Bad", Coords: models.LngLat{-300, 4.71}}))
	assert.Empty(t, store.List())
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Add(ctx, testPOI(id, strings.ToUpper(id))))
	}

	pois := store.List()
	require.Len(t, pois, 3)
	assert.Equal(t, "a", pois[0].ID)
	assert.Equal(t, "b", pois[1].ID)
	assert.Equal(t, "c", pois[2].ID)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testPOI("x", "A")))

	title := "B"
	require.NoError(t, store.Update(ctx, "x", models.Patch{Title: &title}))

	pois := store.List()
	require.Len(t, pois, 1)
	assert.Equal(t, "B", pois[0].Title)
	assert.Equal(t, "user", pois[0].Category)
	assert.Equal(t, models.LngLat{-74.07, 4.71}, pois[0].Coords)
}

func TestUpdateRejectsMissingID(t *testing.T) {
	store, _ := newTestStore(t)
	title := "B"

	err := store.Update(context.Background(), "ghost", models.Patch{Title: &title})
	assert.ErrorIs(t, err, errors.ErrPOINotFound)
}

func TestUpdateRejectsEmptyTitleAndBadCoords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testPOI("x", "A")))

	empty := ""
	assert.ErrorIs(t, store.Update(ctx, "x", models.Patch{Title: &empty}), errors.ErrInvalidPOI)

	bad := models.LngLat{999, 4.71}
	assert.ErrorIs(t, store.Update(ctx, "x", models.Patch{Coords: &bad}), errors.ErrInvalidPOI)

	pois := store.List()
	assert.Equal(t, "A", pois[0].Title)
}

func TestRemoveIsNotIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testPOI("x", "A")))

	require.NoError(t, store.Remove(ctx, "x"))
	assert.ErrorIs(t, store.Remove(ctx, "x"), errors.ErrPOINotFound)
	assert.Empty(t, store.List())
}

func TestRemoveMissingLeavesListUnchanged(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testPOI("keep", "Keep")))

	assert.ErrorIs(t, store.Remove(ctx, "ghost"), errors.ErrPOINotFound)
	assert.Len(t, store.List(), 1)
}

func TestReplaceAllIsAtomic(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testPOI("before", "Before")))

	payload := []models.POI{
		testPOI("a", "A"),
		{ID: "b", Title: "", Coords: models.LngLat{-74.07, 4.71}}, // invalid: no title
	}
	err := store.ReplaceAll(ctx, payload)
	require.Error(t, err)

	pois := store.List()
	require.Len(t, pois, 1)
	assert.Equal(t, "before", pois[0].ID)
}

func TestReplaceAllRejectsDuplicateIDsInPayload(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.ReplaceAll(ctx, []models.POI{testPOI("dup", "A"), testPOI("dup", "B")})
	assert.Error(t, err)
	assert.Empty(t, store.List())
}

func TestReplaceAllSwapsContents(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testPOI("old", "Old")))

	require.NoError(t, store.ReplaceAll(ctx, []models.POI{testPOI("new-1", "New 1"), testPOI("new-2", "New 2")}))

	pois := store.List()
	require.Len(t, pois, 2)
	assert.Equal(t, "new-1", pois[0].ID)
	assert.Equal(t, "new-2", pois[1].ID)
}

func TestListReturnsSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(context.Background(), testPOI("x", "A")))

	snapshot := store.List()
	snapshot[0].Title = "mutated"

	assert.Equal(t, "A", store.List()[0].Title)
}

func TestGenerateIDSlugsSeed(t *testing.T) {
	store, _ := newTestStore(t)

	id := store.GenerateID("Mi  Nuevo __ Lugar!")
	assert.True(t, strings.HasPrefix(id, "mi-nuevo-lugar-"), "got %q", id)
}

func TestGenerateIDEmptySeed(t *testing.T) {
	store, _ := newTestStore(t)

	id := store.GenerateID("   ")
	assert.True(t, strings.HasPrefix(id, "poi-"), "got %q", id)
}

func TestGenerateIDUniqueForRepeatedSeeds(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := store.GenerateID("Museo")
		require.False(t, seen[id], "id %q generated twice", id)
		seen[id] = true
		require.NoError(t, store.Add(ctx, testPOI(id, "Museo")))
	}
}

func TestMutationsPersist(t *testing.T) {
	kv := NewMemoryKV()
	persistence := NewPersistenceService(kv, zap.NewNop())
	store := NewPOIStore(persistence, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testPOI("x", "A")))
	title := "B"
	require.NoError(t, store.Update(ctx, "x", models.Patch{Title: &title}))

	reloaded := persistence.Load(ctx)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "B", reloaded[0].Title)
}

func TestMutationsSucceedWhenPersistenceIsDown(t *testing.T) {
	store := NewPOIStore(NewPersistenceService(failKV{}, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testPOI("x", "A")))
	assert.Len(t, store.List(), 1)
}

func TestChangeListenersReceiveSnapshots(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var calls [][]models.POI
	store.OnChange(func(pois []models.POI) {
		calls = append(calls, pois)
	})

	require.NoError(t, store.Add(ctx, testPOI("x", "A")))
	require.NoError(t, store.Remove(ctx, "x"))

	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 1)
	assert.Empty(t, calls[1])
}
