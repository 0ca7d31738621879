package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
)

// DefaultCacheTTL bounds how long a prediction is reused before the
// forecaster is consulted again.
const DefaultCacheTTL = 15 * time.Minute

// CachedAdapter decorates an Adapter with a Redis prediction cache keyed by
// product. Cache errors never fail a Predict call; the inner adapter is
// always available as the source of truth.
type CachedAdapter struct {
	inner  Adapter
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedAdapter wraps inner with a Redis cache. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCachedAdapter(inner Adapter, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedAdapter {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAdapter{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(productID string) string {
	return fmt.Sprintf("stock_forecast:%s", productID)
}

// Predict serves from cache when possible, otherwise consults the inner
// adapter and stores the result. Failed predictions are never cached.
func (c *CachedAdapter) Predict(ctx context.Context, productID string, history []domain.SalesRecord, leadTimeDays int, extra map[string]any) (*domain.StockPrediction, error) {
	key := cacheKey(productID)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil && cached != "" {
		var pred domain.StockPrediction
		if err := json.Unmarshal([]byte(cached), &pred); err == nil {
			return &pred, nil
		}
		c.logger.Warn().Str("product_id", productID).Msg("discarding malformed cached prediction")
	} else if err != nil && err != redis.Nil {
		c.logger.Warn().Err(err).Str("product_id", productID).Msg("prediction cache read failed")
	}

	pred, err := c.inner.Predict(ctx, productID, history, leadTimeDays, extra)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(pred); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("product_id", productID).Msg("prediction cache write failed")
		}
	}

	return pred, nil
}
