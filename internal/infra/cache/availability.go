package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
)

// AvailabilityCache keeps enumerated dates per tour. A nil client disables it.
//
// Entries are keyed by a per-tour generation. Invalidate bumps the
// generation, so a reader that computed from data older than the bump
// writes to a key nobody reads any more.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

type entry struct {
	From  string                 `json:"from"`
	Dates []domain.AvailableDate `json:"dates"`
}

func NewRedisClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func genKey(tourID uint) string {
	return fmt.Sprintf("availability:tour:%d:gen", tourID)
}

func key(tourID uint, gen int64) string {
	return fmt.Sprintf("availability:tour:%d:%d", tourID, gen)
}

// Generation returns the current generation for tourID. Callers read it
// before loading occupancy and pass it to Get and Set.
func (c *AvailabilityCache) Generation(ctx context.Context, tourID uint) int64 {
	if c == nil || c.client == nil {
		return 0
	}

	gen, err := c.client.Get(ctx, genKey(tourID)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("availability cache generation read failed", "tour_id", tourID, "error", err)
			return -1
		}
		return 0
	}
	return gen
}

// Get returns the cached dates for a window starting at from. Any cache
// problem is a miss.
func (c *AvailabilityCache) Get(ctx context.Context, tourID uint, gen int64, from time.Time) ([]domain.AvailableDate, bool) {
	if c == nil || c.client == nil || gen < 0 {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key(tourID, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("availability cache read failed", "tour_id", tourID, "error", err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.From != from.Format("2006-01-02") {
		return nil, false
	}
	return e.Dates, true
}

func (c *AvailabilityCache) Set(ctx context.Context, tourID uint, gen int64, from time.Time, dates []domain.AvailableDate) {
	if c == nil || c.client == nil || gen < 0 {
		return
	}

	raw, err := json.Marshal(entry{From: from.Format("2006-01-02"), Dates: dates})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(tourID, gen), raw, c.ttl).Err(); err != nil {
		slog.Warn("availability cache write failed", "tour_id", tourID, "error", err)
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, tourID uint) {
	if c == nil || c.client == nil {
		return
	}
	// the generation key outlives every entry it guards
	if err := c.client.Incr(ctx, genKey(tourID)).Err(); err != nil {
		slog.Warn("availability cache invalidate failed", "tour_id", tourID, "error", err)
	}
}
