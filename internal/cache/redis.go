package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps an optional redis client. Every method tolerates a nil client,
// so the service runs unchanged without redis; it just recomputes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis when REDIS_ADDR is set; otherwise caching is a no-op.
func New() *Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Printf("[Cache] REDIS_ADDR not set, caching disabled")
		return &Cache{ttl: 5 * time.Minute}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] Redis unreachable (%v), caching disabled", err)
		return &Cache{ttl: 5 * time.Minute}
	}

	log.Printf("[Cache] Connected to redis at %s", addr)
	return &Cache{client: client, ttl: 5 * time.Minute}
}

// Ping reports cache availability for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON loads a cached value into out. Returns false on miss or when
// caching is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[Cache] Corrupt entry %s dropped: %v", key, err)
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores a value best-effort.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] Failed to set %s: %v", key, err)
	}
}

// InvalidatePrefix drops every key under a prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] Invalidation scan failed for %s: %v", prefix, err)
	}
}

// Cache key builders. Dashboard and invoice views are keyed by month so a
// delivery edit only needs to drop its own month.
func DashboardKey(month string) string { return "dashboard:" + month }
func InvoicesKey(month string) string  { return "invoices:" + month }

func DashboardPrefix() string { return "dashboard:" }
func InvoicesPrefix() string  { return "invoices:" }
