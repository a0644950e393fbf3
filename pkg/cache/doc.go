// Package cache provides the edge response cache with Redis backend and
// variant partitioning.
//
// Cached responses are keyed by (normalized path, rendering signal,
// negotiated content encoding), so a response rendered for an automated
// client is never served to a browser and compressed and uncompressed
// bodies never collide. Only GET/HEAD/OPTIONS responses are cached; other
// methods bypass the cache entirely.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Path:          "/products/42",
//		DynamicRender: true,
//		Encoding:      "gzip",
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// miss - invoke the origin resolver
//	}
//
// # Invalidation
//
// Deployments invalidate everything under a path prefix:
//
//	if err := manager.InvalidatePrefix(ctx, "/"); err != nil {
//		// ...
//	}
package cache
