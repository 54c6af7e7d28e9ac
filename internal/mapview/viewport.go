package mapview

import (
	"context"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Viewport is the persisted center/zoom, written on every user-driven
// move-end and restored on session init.
type Viewport struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// ViewportStore persists viewports per map session. Malformed or missing
// values are reported as absent, never as errors that reach the host.
type ViewportStore interface {
	Load(ctx context.Context, sessionID string) (Viewport, bool)
	Save(ctx context.Context, sessionID string, v Viewport) error
}

const viewportKeyPrefix = "mapview:viewport:"

// RedisViewportStore keeps viewports in redis so a session's view survives
// reloads and server restarts within its TTL.
type RedisViewportStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisViewportStore(client *redis.Client, ttl time.Duration) *RedisViewportStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisViewportStore{client: client, ttl: ttl}
}

func (s *RedisViewportStore) Load(ctx context.Context, sessionID string) (Viewport, bool) {
	raw, err := s.client.Get(ctx, viewportKeyPrefix+sessionID).Bytes()
	if err != nil {
		return Viewport{}, false
	}
	var v Viewport
	if err := gojson.Unmarshal(raw, &v); err != nil {
		return Viewport{}, false
	}
	return v, true
}

func (s *RedisViewportStore) Save(ctx context.Context, sessionID string, v Viewport) error {
	raw, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, viewportKeyPrefix+sessionID, raw, s.ttl).Err()
}

// MemoryViewportStore is the redis-less fallback, also used in tests.
type MemoryViewportStore struct {
	mu sync.RWMutex
	m  map[string]Viewport
}

func NewMemoryViewportStore() *MemoryViewportStore {
	return &MemoryViewportStore{m: map[string]Viewport{}}
}

func (s *MemoryViewportStore) Load(_ context.Context, sessionID string) (Viewport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[sessionID]
	return v, ok
}

func (s *MemoryViewportStore) Save(_ context.Context, sessionID string, v Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = v
	return nil
}
