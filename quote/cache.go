package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stocks-trader/models"

	"github.com/go-redis/redis/v8"
)

const DefaultCacheTTL = 5 * time.Minute

// Cache keeps recent quotes in Redis in front of another Lookup. Redis
// errors never fail a lookup.
type Cache struct {
	next   Lookup
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(next Lookup, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("stock:%s:quote", symbol)
}

func (c *Cache) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return nil, ErrNotFound
	}
	key := cacheKey(symbol)

	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var q models.Quote
		if err := json.Unmarshal(cached, &q); err == nil {
			return &q, nil
		}
		c.logger.Warn("discarding malformed cached quote", "symbol", symbol)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("quote cache read failed", "symbol", symbol, "error", err)
	}

	q, err := c.next.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(q)
	if err != nil {
		return q, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("quote cache write failed", "symbol", symbol, "error", err)
	}
	return q, nil
}
