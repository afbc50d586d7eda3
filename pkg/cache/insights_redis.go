package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// InsightCache caches assembled insights and charts per symbol.
type InsightCache interface {
	GetInsight(ctx context.Context, symbol string) (*model.StockInsight, error)
	SetInsight(ctx context.Context, insight *model.StockInsight) error
	GetChart(ctx context.Context, symbol string) (*model.Chart, error)
	SetChart(ctx context.Context, chart *model.Chart) error
	Health(ctx context.Context) error
}

type redisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache wraps a redis client as an insight cache.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) InsightCache {
	return &redisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func insightKey(symbol string) string {
	return fmt.Sprintf("insight:%s", symbol)
}

func chartKey(symbol string) string {
	return fmt.Sprintf("chart:%s", symbol)
}

func (c *redisCache) GetInsight(ctx context.Context, symbol string) (*model.StockInsight, error) {
	var insight model.StockInsight
	if err := c.get(ctx, insightKey(symbol), &insight); err != nil {
		return nil, err
	}
	return &insight, nil
}

func (c *redisCache) SetInsight(ctx context.Context, insight *model.StockInsight) error {
	return c.set(ctx, insightKey(insight.Symbol), insight)
}

func (c *redisCache) GetChart(ctx context.Context, symbol string) (*model.Chart, error) {
	var chart model.Chart
	if err := c.get(ctx, chartKey(symbol), &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

func (c *redisCache) SetChart(ctx context.Context, chart *model.Chart) error {
	return c.set(ctx, chartKey(chart.Symbol), chart)
}

func (c *redisCache) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

func (c *redisCache) get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("Dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		c.rdb.Del(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

func (c *redisCache) set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
