// README: Route stores: in-process map (default) and Redis.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"medidrop/internal/types"
)

// RouteStore persists the single current route per drone.
type RouteStore interface {
	Put(ctx context.Context, r Route) error
	Get(ctx context.Context, droneID types.ID) (Route, error)
}

type MemoryStore struct {
	mu     sync.RWMutex
	routes map[types.ID]Route
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{routes: make(map[types.ID]Route)}
}

func (s *MemoryStore) Put(_ context.Context, r Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[r.DroneID] = r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, droneID types.ID) (Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[droneID]
	if !ok {
		return Route{}, ErrNotFound
	}
	return r, nil
}

const routeKeyPrefix = "tracking:route:%s"

// RedisStore keeps one JSON value per drone. A zero ttl keeps routes forever.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, r Route) error {
	r.StartedAtUnix = float64(r.StartedAt.UnixNano()) / 1e9
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal route: %w", err)
	}
	return s.redis.Set(ctx, routeKey(r.DroneID), data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, droneID types.ID) (Route, error) {
	val, err := s.redis.Get(ctx, routeKey(droneID)).Bytes()
	if err == redis.Nil {
		return Route{}, ErrNotFound
	}
	if err != nil {
		return Route{}, err
	}
	var r Route
	if err := json.Unmarshal(val, &r); err != nil {
		return Route{}, fmt.Errorf("decode route %s: %w", droneID, err)
	}
	sec, frac := math.Modf(r.StartedAtUnix)
	r.StartedAt = time.Unix(int64(sec), int64(frac*1e9))
	return r, nil
}

func routeKey(droneID types.ID) string {
	return fmt.Sprintf(routeKeyPrefix, string(droneID))
}
