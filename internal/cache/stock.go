package cache

import (
	"context"
	"errors"
	"time"

	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned when no snapshot exists for the stock item.
var ErrMiss = errors.New("availability snapshot not cached")

// StockCache exposes the read-side availability snapshot. Snapshots are
// advisory only; the transactional ledger in internal/order is the source
// of truth, and every write path invalidates the affected keys.
type StockCache interface {
	GetAvailable(ctx context.Context, stockItemID uuid.UUID) (int64, error)
	SetAvailable(ctx context.Context, stockItemID uuid.UUID, available int64) error
	Invalidate(ctx context.Context, stockItemIDs ...uuid.UUID)
}

type stockCache struct {
	rdb *rd.Client
	ttl time.Duration
}

func NewStockCache(rdb *rd.Client, ttl time.Duration) StockCache {
	return &stockCache{rdb: rdb, ttl: ttl}
}

func (c *stockCache) GetAvailable(ctx context.Context, stockItemID uuid.UUID) (int64, error) {
	val, err := c.rdb.Get(ctx, AvailabilityKey(stockItemID)).Int64()
	if err == rd.Nil {
		return 0, ErrMiss
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

func (c *stockCache) SetAvailable(ctx context.Context, stockItemID uuid.UUID, available int64) error {
	return c.rdb.Set(ctx, AvailabilityKey(stockItemID), available, c.ttl).Err()
}

// Invalidate drops snapshots after a ledger commit. Failures are logged,
// never surfaced: a stale snapshot expires on its own TTL.
func (c *stockCache) Invalidate(ctx context.Context, stockItemIDs ...uuid.UUID) {
	if len(stockItemIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(stockItemIDs))
	for _, id := range stockItemIDs {
		keys = append(keys, AvailabilityKey(id))
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate stock cache",
			zap.Int("keys", len(keys)),
			zap.Error(err),
		)
	}
}

// Noop returns a cache that never hits, for wiring without Redis.
func Noop() StockCache {
	return noopCache{}
}

type noopCache struct{}

func (noopCache) GetAvailable(ctx context.Context, stockItemID uuid.UUID) (int64, error) {
	return 0, ErrMiss
}

func (noopCache) SetAvailable(ctx context.Context, stockItemID uuid.UUID, available int64) error {
	return nil
}

func (noopCache) Invalidate(ctx context.Context, stockItemIDs ...uuid.UUID) {}
