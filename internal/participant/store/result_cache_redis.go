package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"peppolcheck/internal/participant/metrics"
	"peppolcheck/internal/participant/models"
)

const resultKeyPrefix = "peppol:lookup:"

// RedisResultCache caches completed resolution results with TTL eviction.
type RedisResultCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedisResultCache constructs the cache. metrics may be nil.
func NewRedisResultCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *RedisResultCache {
	return &RedisResultCache{client: client, ttl: ttl, metrics: m}
}

// Get loads a cached result. A miss returns ErrNotFound.
func (c *RedisResultCache) Get(ctx context.Context, req models.LookupRequest) (*models.Result, error) {
	data, err := c.client.Get(ctx, resultKey(req)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.recordMiss()
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lookup result: %w", err)
	}

	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode lookup result: %w", err)
	}
	c.recordHit()
	return &result, nil
}

// Set stores result under the request key, overwriting any previous entry.
func (c *RedisResultCache) Set(ctx context.Context, req models.LookupRequest, result *models.Result) error {
	if result == nil {
		return fmt.Errorf("lookup result is required")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode lookup result: %w", err)
	}
	if err := c.client.Set(ctx, resultKey(req), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set lookup result: %w", err)
	}
	return nil
}

// resultKey uses the request verbatim. The result echoes the requested
// document type in documentType and message, so differently cased requests
// must not share an entry.
func resultKey(req models.LookupRequest) string {
	return resultKeyPrefix + req.SchemeID + ":" + req.ParticipantID + ":" + req.DocumentType
}

func (c *RedisResultCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(cacheLookup)
	}
}

func (c *RedisResultCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(cacheLookup)
	}
}
