package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"poi-map-server/models"
)

// storageKey is the single versioned record holding the serialized POI
// collection. It is owned exclusively by the PersistenceService; nothing
// else reads or writes it.
const storageKey = "pois:v1"

// KV is the minimal durable key-value contract the persistence layer
// needs: one string value per key, with an explicit "absent" signal.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type redisKV struct {
	client *redis.Client
}

// NewRedisKV adapts a Redis client to the KV contract.
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *redisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns a process-local KV used when no REDIS_ADDR is
// configured; state then lives only for the lifetime of the server.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// PersistenceService serializes the POI collection to one durable record.
// Loads that fail in any way degrade to "no data"; saves are best-effort.
type PersistenceService struct {
	kv     KV
	logger *zap.Logger
}

func NewPersistenceService(kv KV, logger *zap.Logger) *PersistenceService {
	return &PersistenceService{kv: kv, logger: logger}
}

// Load returns the persisted POI sequence, or nil when the record is
// absent, unparseable, or contains any malformed or duplicate-id element.
// Callers must treat nil as "no data", never as an error.
func (p *PersistenceService) Load(ctx context.Context) []models.POI {
	raw, ok, err := p.kv.Get(ctx, storageKey)
	if err != nil {
		p.logger.Warn("failed to read persisted POIs", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var pois []models.POI
	if err := json.Unmarshal([]byte(raw), &pois); err != nil {
		p.logger.Warn("persisted POI record is not a valid JSON array", zap.Error(err))
		return nil
	}
	seen := make(map[string]bool, len(pois))
	for _, poi := range pois {
		if err := poi.Validate(); err != nil {
			p.logger.Warn("persisted POI record contains a malformed entry", zap.Error(err))
			return nil
		}
		if seen[poi.ID] {
			p.logger.Warn("persisted POI record contains a duplicate id", zap.String("id", poi.ID))
			return nil
		}
		seen[poi.ID] = true
	}
	return pois
}

// Save writes the full collection. Failures are logged and swallowed: the
// in-memory store stays authoritative and at worst the next session loses
// recent changes.
func (p *PersistenceService) Save(ctx context.Context, pois []models.POI) {
	raw, err := json.Marshal(pois)
	if err != nil {
		p.logger.Error("failed to serialize POIs", zap.Error(err))
		return
	}
	if err := p.kv.Set(ctx, storageKey, string(raw)); err != nil {
		p.logger.Warn("failed to persist POIs, in-memory state remains authoritative",
			zap.Error(err), zap.Int("count", len(pois)))
	}
}
