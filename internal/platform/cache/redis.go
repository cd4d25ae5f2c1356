package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
	}
}

const listingVersionKey = "listings:version"

// ListingCache holds serialized listing pages in Redis. Entries are keyed
// under a version counter; bumping the counter on a new posting orphans
// every cached page at once, and the TTL reclaims the orphans.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

func (c *ListingCache) versionedKey(ctx context.Context, key string) string {
	ver, err := c.rdb.Get(ctx, listingVersionKey).Int64()
	if err != nil {
		ver = 0
	}
	return fmt.Sprintf("listings:v%d:%s", ver, key)
}

// Get returns a cached page, or (nil, false) on miss or any Redis error.
func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.rdb.Get(ctx, c.versionedKey(ctx, key)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a page best-effort. Cache write failures are not surfaced.
func (c *ListingCache) Set(ctx context.Context, key string, payload []byte) {
	c.rdb.Set(ctx, c.versionedKey(ctx, key), payload, c.ttl)
}

// Invalidate makes all cached listing pages stale.
func (c *ListingCache) Invalidate(ctx context.Context) {
	c.rdb.Incr(ctx, listingVersionKey)
}
