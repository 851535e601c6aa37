package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"poi-map-server/models"
	"poi-map-server/utils/errors"
)

// ChangeListener receives a snapshot of the full collection after every
// successful mutation. Listeners run synchronously, so a mutation is fully
// propagated (persisted and re-derived) before its caller returns.
type ChangeListener func(pois []models.POI)

// POIStore owns the canonical in-memory POI collection. All mutations go
// through it, every successful mutation is persisted and announced to the
// registered listeners. Insertion order is preserved for stable rendering.
type POIStore struct {
	mu          sync.Mutex
	pois        []models.POI
	persistence *PersistenceService
	listeners   []ChangeListener
	logger      *zap.Logger
}

func NewPOIStore(persistence *PersistenceService, logger *zap.Logger) *POIStore {
	return &POIStore{persistence: persistence, logger: logger}
}

// OnChange registers a listener. Registration is expected at wiring time,
// before the store starts receiving mutations.
func (s *POIStore) OnChange(fn ChangeListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// LoadInitial adopts the persisted collection, or the built-in defaults
// when no usable persisted data exists. It never fails: a broken record
// only means starting over from the default set.
func (s *POIStore) LoadInitial(ctx context.Context) {
	pois := s.persistence.Load(ctx)
	if pois == nil {
		pois = models.DefaultPOIs()
		s.logger.Info("no persisted POIs, seeding default collection", zap.Int("count", len(pois)))
	} else {
		s.logger.Info("loaded persisted POIs", zap.Int("count", len(pois)))
	}

	s.mu.Lock()
	s.pois = pois
	s.mu.Unlock()
	s.persistence.Save(ctx, s.List())
	s.notify()
}

// Add appends a new POI. Adding an id already present is rejected and
// leaves the collection untouched.
func (s *POIStore) Add(ctx context.Context, poi models.POI) error {
	if err := poi.Validate(); err != nil {
		return errors.NewAPIError(errors.ErrInvalidPOI.Code, errors.ErrInvalidPOI.Message, errors.ErrInvalidPOI.Status, err.Error())
	}

	s.mu.Lock()
	if s.indexOf(poi.ID) >= 0 {
		s.mu.Unlock()
		return errors.ErrDuplicateID
	}
	s.pois = append(s.pois, poi)
	s.mu.Unlock()

	s.persistence.Save(ctx, s.List())
	s.notify()
	return nil
}

// Update applies the non-nil fields of patch to the matching POI.
func (s *POIStore) Update(ctx context.Context, id string, patch models.Patch) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return errors.ErrPOINotFound
	}
	if patch.Coords != nil && !patch.Coords.Valid() {
		s.mu.Unlock()
		return errors.ErrInvalidPOI
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			s.mu.Unlock()
			return errors.ErrInvalidPOI
		}
		s.pois[i].Title = *patch.Title
	}
	if patch.Description != nil {
		s.pois[i].Description = *patch.Description
	}
	if patch.Coords != nil {
		s.pois[i].Coords = *patch.Coords
	}
	s.mu.Unlock()

	s.persistence.Save(ctx, s.List())
	s.notify()
	return nil
}

// Remove deletes the matching POI. A second call for the same id reports
// not-found.
func (s *POIStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return errors.ErrPOINotFound
	}
	s.pois = append(s.pois[:i], s.pois[i+1:]...)
	s.mu.Unlock()

	s.persistence.Save(ctx, s.List())
	s.notify()
	return nil
}

// ReplaceAll swaps the whole collection atomically. If any element fails
// shape validation, or two elements share an id, nothing changes.
func (s *POIStore) ReplaceAll(ctx context.Context, pois []models.POI) error {
	seen := make(map[string]bool, len(pois))
	for _, poi := range pois {
		if err := poi.Validate(); err != nil {
			return errors.NewAPIError(errors.ErrInvalidImport.Code, errors.ErrInvalidImport.Message, errors.ErrInvalidImport.Status, err.Error())
		}
		if seen[poi.ID] {
			return errors.NewAPIError(errors.ErrInvalidImport.Code, errors.ErrInvalidImport.Message, errors.ErrInvalidImport.Status,
				fmt.Sprintf("duplicate id %q", poi.ID))
		}
		seen[poi.ID] = true
	}

	replacement := make([]models.POI, len(pois))
	copy(replacement, pois)

	s.mu.Lock()
	s.pois = replacement
	s.mu.Unlock()

	s.persistence.Save(ctx, s.List())
	s.notify()
	return nil
}

// List returns a snapshot of the collection in insertion order. Mutating
// the returned slice does not affect the store.
func (s *POIStore) List() []models.POI {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.POI, len(s.pois))
	copy(out, s.pois)
	return out
}

// GenerateID derives a stable slug from seed plus a millisecond timestamp,
// bumping a numeric suffix should the same seed arrive twice within one
// millisecond.
func (s *POIStore) GenerateID(seed string) string {
	base := slugify(seed)
	if base == "" {
		base = "poi"
	}
	id := fmt.Sprintf("%s-%d", base, time.Now().UnixMilli())

	s.mu.Lock()
	defer s.mu.Unlock()
	candidate := id
	for n := 1; s.indexOf(candidate) >= 0; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

// indexOf must be called with s.mu held.
func (s *POIStore) indexOf(id string) int {
	for i, poi := range s.pois {
		if poi.ID == id {
			return i
		}
	}
	return -1
}

func (s *POIStore) notify() {
	s.mu.Lock()
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	snapshot := s.List()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// slugify lowercases the seed and collapses every run of non-alphanumeric
// characters into a single dash.
func slugify(seed string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(seed) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
