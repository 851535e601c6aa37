package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poi-map-server/models"
)

// failKV refuses every operation, simulating an unreachable backend.
type failKV struct{}

func (failKV) Get(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("kv: backend unavailable")
}

func (failKV) Set(context.Context, string, string) error {
	return fmt.Errorf("kv: backend unavailable")
}

func seedRaw(t *testing.T, kv KV, raw string) {
	t.Helper()
	require.NoError(t, kv.Set(context.Background(), storageKey, raw))
}

func TestPersistenceRoundTrip(t *testing.T) {
	p := NewPersistenceService(NewMemoryKV(), zap.NewNop())
	ctx := context.Background()

	original := models.DefaultPOIs()
	p.Save(ctx, original)

	loaded := p.Load(ctx)
	require.NotNil(t, loaded)
	assert.Equal(t, original, loaded)
}

func TestPersistenceLoadMissingKey(t *testing.T) {
	p := NewPersistenceService(NewMemoryKV(), zap.NewNop())
	assert.Nil(t, p.Load(context.Background()))
}

func TestPersistenceLoadCorruptRecord(t *testing.T) {
	kv := NewMemoryKV()
	seedRaw(t, kv, "{not json")

	p := NewPersistenceService(kv, zap.NewNop())
	assert.Nil(t, p.Load(context.Background()))
}

func TestPersistenceLoadNotAnArray(t *testing.T) {
	kv := NewMemoryKV()
	seedRaw(t, kv, `{"id":"x"}`)

	p := NewPersistenceService(kv, zap.NewNop())
	assert.Nil(t, p.Load(context.Background()))
}

func TestPersistenceLoadRejectsMalformedElement(t *testing.T) {
	kv := NewMemoryKV()
	// Second element has no title.
	seedRaw(t, kv, `[{"id":"a","title":"A","category":"user","coords":[-74.07,4.71]},{"id":"b","title":"","category":"user","coords":[-74.07,4.71]}]`)

	p := NewPersistenceService(kv, zap.NewNop())
	assert.Nil(t, p.Load(context.Background()))
}

func TestPersistenceLoadRejectsDuplicateIDs(t *testing.T) {
	kv := NewMemoryKV()
	seedRaw(t, kv, `[{"id":"a","title":"A","category":"user","coords":[-74.07,4.71]},{"id":"a","title":"B","category":"user","coords":[-74.06,4.70]}]`)

	p := NewPersistenceService(kv, zap.NewNop())
	assert.Nil(t, p.Load(context.Background()))
}

func TestPersistenceLoadRejectsOutOfRangeCoords(t *testing.T) {
	kv := NewMemoryKV()
	seedRaw(t, kv, `[{"id":"a","title":"A","category":"user","coords":[-200,4.71]}]`)

	p := NewPersistenceService(kv, zap.NewNop())
	assert.Nil(t, p.Load(context.Background()))
}

func TestPersistenceSaveFailureIsSwallowed(t *testing.T) {
	p := NewPersistenceService(failKV{}, zap.NewNop())

	// Must not panic or propagate; the in-memory store stays authoritative.
	p.Save(context.Background(), models.DefaultPOIs())
	assert.Nil(t, p.Load(context.Background()))
}
