// Package cache provides the storage backends for the routing engine's
// evaluation cache.
//
// This package wraps battle-tested caching libraries:
//   - github.com/patrickmn/go-cache for local in-memory caching
//   - github.com/go-redis/redis/v8 for Redis-backed caching
//
// Two backends are available:
//
// 1. Local Cache - in-memory cache using go-cache
//   - TTL support with automatic cleanup of expired items
//   - the default backend; matches the engine's single-process semantics
//
// 2. Redis Cache - cache using go-redis
//   - survives process restarts
//   - JSON serialization; Clear flushes only keys under the configured prefix
//   - cache entries remain advisory, the engine recomputes on any miss
//
// Usage:
//
//	// Local cache
//	c := cache.NewLocalCache(5*time.Minute, 10*time.Minute)
//	c.Set(ctx, "key", []bool{true, false}, 5*time.Minute)
//	val, found := c.Get(ctx, "key")
//
//	// Redis cache
//	c := cache.NewRedisCache(redisClient, "routing:")
//
//	// Using the factory
//	c, err := cache.New(cache.Config{
//		Type: cache.TypeLocal,
//		TTL:  5 * time.Minute,
//	})
package cache
