package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecommendationCache keeps rendered recommendation lists in Redis for a short
// TTL. A nil client (or any Redis failure) degrades to cache-miss behavior;
// the cache never fails a request.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache connects to Redis and verifies the connection. On
// failure it returns a disabled cache rather than an error: recommendations
// work without Redis, just slower.
func NewRecommendationCache(addr, password string, ttl time.Duration, logger *slog.Logger) *RecommendationCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, recommendation cache disabled", "error", err)
		return &RecommendationCache{client: nil, ttl: ttl}
	}

	return &RecommendationCache{client: rdb, ttl: ttl}
}

func (c *RecommendationCache) key(userID string, limit int) string {
	return fmt.Sprintf("recs:user:%s:limit:%d", userID, limit)
}

// Get loads a cached list into target. Returns false on miss or any error.
func (c *RecommendationCache) Get(ctx context.Context, userID string, limit int, target interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, c.key(userID, limit)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false
	}
	return true
}

// Set stores the rendered list under the user/limit key.
func (c *RecommendationCache) Set(ctx context.Context, userID string, limit int, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(userID, limit), data, c.ttl)
}

// Invalidate drops every cached list for the user, any limit.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	pattern := fmt.Sprintf("recs:user:%s:limit:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}

// Close releases the Redis connection if one was established.
func (c *RecommendationCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
