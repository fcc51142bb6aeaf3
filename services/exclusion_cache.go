package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExclusionCache keeps each user's set of already-decided targets in Redis
// for a short TTL. The Interactions table stays the source of truth for
// duplicate prevention; the cache only spares the candidate feed a query per
// request, so stale reads are acceptable. A nil cache is a permanent miss.
type ExclusionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisClient creates the Redis client backing the cache.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func exclusionKey(uid string) string {
	return "exclusions:" + uid
}

// Get returns the cached exclusion set and whether it was present.
func (c *ExclusionCache) Get(ctx context.Context, uid string) ([]string, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}

	raw, err := c.Client.Get(ctx, exclusionKey(uid)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Redis get failed for %s: %v", uid, err)
		}
		return nil, false
	}

	var targets []string
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, false
	}
	return targets, true
}

// Set stores the exclusion set for uid.
func (c *ExclusionCache) Set(ctx context.Context, uid string, targets []string) {
	if c == nil || c.Client == nil {
		return
	}

	raw, err := json.Marshal(targets)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, exclusionKey(uid), raw, c.TTL).Err(); err != nil {
		log.Printf("⚠️ Redis set failed for %s: %v", uid, err)
	}
}

// Invalidate drops the cached set after a swipe or rewind changes it.
func (c *ExclusionCache) Invalidate(ctx context.Context, uid string) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Del(ctx, exclusionKey(uid)).Err(); err != nil {
		log.Printf("⚠️ Redis del failed for %s: %v", uid, err)
	}
}
