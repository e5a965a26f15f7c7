// Package cache provides a generic LRU cache, a TTL byte store for
// memoizing action output, and deterministic cache keys.
//
// # Features
//
//   - Thread-safe operations with efficient locking
//   - Generic type parameters for compile-time type safety
//   - LRU (Least Recently Used) eviction policy
//   - Configurable capacity limits
//   - Optional eviction callbacks for resource cleanup
//   - Zero-allocation operations for cache hits
//   - Concurrent-safe design suitable for high-throughput applications
//
// # Usage
//
// The primary cache implementation is LRUCache, which provides automatic eviction
// of the least recently used items when capacity is reached:
//
//	import "github.com/dmitrymomot/mvc/core/cache"
//
//	// Create a cache with capacity of 100 items
//	c := cache.NewLRUCache[string, *User](100)
//
//	// Store values
//	c.Put("user:123", &User{ID: 123, Name: "John"})
//	c.Put("user:456", &User{ID: 456, Name: "Jane"})
//
//	// Retrieve values
//	if user, found := c.Get("user:123"); found {
//		fmt.Printf("Found user: %s\n", user.Name)
//	}
//
//	// Remove values
//	if user, found := c.Remove("user:123"); found {
//		fmt.Printf("Removed user: %s\n", user.Name)
//	}
//
// # LRU Cache
//
// The LRUCache implements the Least Recently Used eviction policy, automatically
// removing the oldest accessed items when the cache reaches capacity:
//
//	// Create cache for database query results
//	queryCache := cache.NewLRUCache[string, []byte](1000)
//
//	func getQueryResult(query string) ([]byte, error) {
//		// Check cache first
//		if result, found := queryCache.Get(query); found {
//			return result, nil
//		}
//
//		// Execute query
//		result, err := executeQuery(query)
//		if err != nil {
//			return nil, err
//		}
//
//		// Cache the result
//		queryCache.Put(query, result)
//		return result, nil
//	}
//
// # Eviction Callbacks
//
// Set up callbacks to handle resource cleanup when items are evicted:
//
//	type Connection struct {
//		ID   string
//		Conn net.Conn
//	}
//
//	connectionCache := cache.NewLRUCache[string, *Connection](50)
//
//	// Set up cleanup callback
//	connectionCache.SetEvictCallback(func(key string, conn *Connection) {
//		conn.Conn.Close()
//		fmt.Printf("Closed connection: %s\n", key)
//	})
//
//	// Add connections to cache
//	conn, err := net.Dial("tcp", "example.com:80")
//	if err == nil {
//		connectionCache.Put("conn:1", &Connection{
//			ID:   "conn:1",
//			Conn: conn,
//		})
//	}
//
// # Action Output Store
//
// Store is the byte-oriented contract used to memoize action results.
// MemoryStore implements it on top of LRUCache with per-entry TTL; a Redis
// implementation lives in integration/database/redis. Key builds stable
// fingerprints from a namespace and arbitrary JSON-encodable parts:
//
//	key, err := cache.Key(cache.NamespaceRequest, "home", "stats", args)
//	if err != nil {
//		return err
//	}
//	if b, ok, _ := store.Get(ctx, key); ok {
//		return b, nil
//	}
//	_ = store.Put(ctx, key, rendered, 24*time.Hour)
//
// # Thread Safety
//
// All cache operations are thread-safe and can be called concurrently
// from multiple goroutines without external synchronization:
//
//	cache := cache.NewLRUCache[int, string](100)
//
//	// Safe to call from multiple goroutines
//	go func() {
//		for i := 0; i < 1000; i++ {
//			cache.Put(i, fmt.Sprintf("value-%d", i))
//		}
//	}()
//
//	go func() {
//		for i := 0; i < 1000; i++ {
//			if value, found := cache.Get(i); found {
//				fmt.Println("Found:", value)
//			}
//		}
//	}()
//
// # Memory Management
//
// The cache automatically manages memory by evicting items when capacity
// is reached. Monitor cache performance and adjust capacity as needed:
//
//	cache := cache.NewLRUCache[string, []byte](1000)
//
//	// Check current size
//	fmt.Printf("Cache size: %d items\n", cache.Len())
//
//	// Clear all items when needed (e.g., during shutdown)
//	cache.Clear()
//
// # Performance Characteristics
//
// LRUCache provides efficient operations with the following complexity:
//
//   - Get: O(1) average case
//   - Put: O(1) average case
//   - Remove: O(1) average case
//   - Memory: O(capacity)
//
// The implementation uses a combination of hash map and doubly-linked list
// to achieve constant-time operations for all cache methods.
//
// # Best Practices
//
//   - Choose appropriate capacity based on memory constraints and access patterns
//   - Use eviction callbacks for resource cleanup (closing files, connections, etc.)
//   - Monitor cache hit rates and adjust capacity accordingly
//   - Use meaningful key types that implement proper equality semantics
//   - Be mindful of memory usage, especially when caching large objects
//   - Consider using pointers for large structs to reduce copying overhead
package cache
