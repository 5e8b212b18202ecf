package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/MF1DEV/vantora/internal/domain"
)

const statsCacheKey = "stats_cache:global"

// StatsCache serves aggregate statistics with a short cache lifetime to bound
// load from repeated polling. Lookup order: in-memory L1, Redis L2, PostgreSQL.
// Concurrent recomputations collapse into one via singleflight. Redis failures
// degrade to the database, never to an error.
type StatsCache struct {
	rdb   goredis.Cmdable
	stats domain.StatsRepository
	ttl   time.Duration
	clock clockwork.Clock

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *domain.StatsSnapshot
}

func NewStatsCache(rdb goredis.Cmdable, stats domain.StatsRepository, ttl time.Duration, clock clockwork.Clock) *StatsCache {
	return &StatsCache{
		rdb:   rdb,
		stats: stats,
		ttl:   ttl,
		clock: clock,
	}
}

// TTL returns the cache lifetime, used for the Cache-Control max-age.
func (c *StatsCache) TTL() time.Duration {
	return c.ttl
}

func (c *StatsCache) Get(ctx context.Context) (*domain.StatsSnapshot, error) {
	// Layer 1: in-memory
	if snapshot, ok := c.getMemory(); ok {
		return snapshot, nil
	}

	// Layer 2: Redis
	if snapshot, ok := c.getCached(ctx); ok {
		c.setMemory(snapshot)
		return snapshot, nil
	}

	// Layer 3: PostgreSQL, collapsed across concurrent callers
	result, err, _ := c.group.Do(statsCacheKey, func() (any, error) {
		stats, err := c.stats.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("stats recomputation failed: %w", err)
		}

		snapshot := &domain.StatsSnapshot{
			Stats:     *stats,
			UpdatedAt: c.clock.Now().UTC(),
		}

		c.setMemory(snapshot)
		c.writeCache(ctx, snapshot)
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.StatsSnapshot), nil
}

func (c *StatsCache) getMemory() (*domain.StatsSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false
	}
	if c.clock.Now().After(c.snapshot.UpdatedAt.Add(c.ttl)) {
		return nil, false
	}
	return c.snapshot, true
}

func (c *StatsCache) setMemory(snapshot *domain.StatsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
}

func (c *StatsCache) getCached(ctx context.Context) (*domain.StatsSnapshot, bool) {
	data, err := c.rdb.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("Redis stats cache GET failed", "error", err)
		}
		return nil, false
	}

	var snapshot domain.StatsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Warn("Failed to unmarshal cached stats", "error", err)
		return nil, false
	}

	// Redis TTL guards expiry, but check against the snapshot timestamp too
	// so a stale entry written by a skewed node is not served past its window.
	if c.clock.Now().After(snapshot.UpdatedAt.Add(c.ttl)) {
		return nil, false
	}

	return &snapshot, true
}

func (c *StatsCache) writeCache(ctx context.Context, snapshot *domain.StatsSnapshot) {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		slog.Warn("Failed to marshal stats for Redis cache", "error", err)
		return
	}

	if err := c.rdb.Set(ctx, statsCacheKey, encoded, c.ttl).Err(); err != nil {
		slog.Warn("Failed to populate Redis stats cache", "error", err)
	}
}
