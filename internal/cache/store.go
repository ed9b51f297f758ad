package cache

import "context"

// Store is the cache contract used by the assist service. Values are
// opaque JSON-encoded payloads; the store never inspects them.
//
// Errors are returned, not swallowed: callers decide to treat a failed
// Get as a miss and a failed Set as a no-op. Caching is an
// optimization, never a correctness dependency.
type Store interface {
	// Get retrieves a live entry. The bool reports whether a
	// non-expired entry was found.
	Get(ctx context.Context, scope Scope, key string) ([]byte, bool, error)

	// Set stores a value under (scope, key) with the scope's TTL,
	// replacing any previous entry.
	Set(ctx context.Context, scope Scope, key string, value []byte) error
}
