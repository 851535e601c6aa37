package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"poi-map-server/models"
	"poi-map-server/utils/errors"
)

// POIState is the transient UI state of one POI. Only pristine snapshots
// are ever persisted; dragging and editing live purely in the view.
type POIState string

const (
	StatePristine POIState = "pristine"
	StateDragging POIState = "dragging"
	StateEditing  POIState = "editing"
)

const poiZoom = 15

// MapView owns the original page's transient view state: the current
// search query, active category filters and per-POI UI states. It listens
// to store changes and re-derives the visible set, reconciling markers and
// the projected list on every change.
type MapView struct {
	mu         sync.Mutex
	store      *POIStore
	markers    *MarkerSync
	query      string
	categories map[string]bool
	states     map[string]POIState
	actions    map[string]func(ctx context.Context, id string) error
	logger     *zap.Logger
}

func NewMapView(store *POIStore, sdk MapSDK, logger *zap.Logger) *MapView {
	v := &MapView{
		store:      store,
		markers:    NewMarkerSync(sdk),
		categories: make(map[string]bool),
		states:     make(map[string]POIState),
		logger:     logger,
	}
	// Dispatch table for list actions; rows never resolve behavior through
	// ambient lookup, only through this table.
	v.actions = map[string]func(ctx context.Context, id string) error{
		"go": func(_ context.Context, id string) error {
			v.mu.Lock()
			defer v.mu.Unlock()
			return v.markers.FlyTo(id, poiZoom)
		},
		"info": func(_ context.Context, id string) error {
			v.mu.Lock()
			defer v.mu.Unlock()
			return v.markers.ShowPopup(id)
		},
		"edit": func(_ context.Context, id string) error {
			return v.EditOpen(id)
		},
		"delete": func(ctx context.Context, id string) error {
			return v.store.Remove(ctx, id)
		},
	}
	store.OnChange(v.refresh)
	return v
}

// refresh re-derives the visible subset from a store snapshot and brings
// the rendered markers in line with it.
func (v *MapView) refresh(pois []models.POI) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make(map[string]bool, len(pois))
	for _, poi := range pois {
		ids[poi.ID] = true
	}
	for id := range v.states {
		if !ids[id] {
			delete(v.states, id)
		}
	}
	v.markers.Reconcile(FilterPOIs(pois, v.query, v.categories))
}

// SetFilter replaces the current query and category set and reconciles.
func (v *MapView) SetFilter(query string, categories []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.categories = CategorySet(categories)
	v.logger.Debug("filter updated", zap.String("query", query), zap.Int("categories", len(v.categories)))
	v.markers.Reconcile(FilterPOIs(v.store.List(), v.query, v.categories))
}

// Visible returns the POIs passing the current filter, in store order.
func (v *MapView) Visible() []models.POI {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FilterPOIs(v.store.List(), v.query, v.categories)
}

// Rows projects the visible POIs into sidebar rows.
func (v *MapView) Rows() []models.ListRow {
	return ProjectRows(v.Visible())
}

// Dispatch resolves a list action by name against the dispatch table.
func (v *MapView) Dispatch(ctx context.Context, action, id string) error {
	fn, ok := v.actions[action]
	if !ok {
		return errors.ErrUnknownAction
	}
	return fn(ctx, id)
}

// FitVisible frames the currently rendered markers.
func (v *MapView) FitVisible(padding float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers.FitBounds(padding)
}

// DragStart marks a POI as being dragged. Nothing is committed.
func (v *MapView) DragStart(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.markers.Rendered(id) {
		return errors.ErrMarkerMissing
	}
	v.states[id] = StateDragging
	return nil
}

// DragEnd commits the dragged marker's final position as an atomic store
// update; the marker move then flows back through reconciliation. This is
// the only path by which the visual layer mutates the data model.
func (v *MapView) DragEnd(ctx context.Context, id string, coords models.LngLat) error {
	if err := v.store.Update(ctx, id, models.Patch{Coords: &coords}); err != nil {
		return err
	}
	v.mu.Lock()
	v.states[id] = StatePristine
	v.mu.Unlock()
	return nil
}

// EditOpen marks a POI as being edited; the save arrives as a regular
// store update, a cancel just reverts the state.
func (v *MapView) EditOpen(id string) error {
	pois := v.store.List()
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, poi := range pois {
		if poi.ID == id {
			v.states[id] = StateEditing
			return nil
		}
	}
	return errors.ErrPOINotFound
}

// EditCancel reverts an editing POI to pristine without committing.
func (v *MapView) EditCancel(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.states[id] == StateEditing {
		v.states[id] = StatePristine
	}
}

// State returns the POI's transient UI state.
func (v *MapView) State(id string) POIState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if state, ok := v.states[id]; ok {
		return state
	}
	return StatePristine
}
