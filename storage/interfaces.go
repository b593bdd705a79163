package storage

import (
	"context"

	"github.com/marketlens/marketlens/core"
)

// ResultCache provides persistent memoization of search results.
// Implementations must be thread-safe and support concurrent access.
type ResultCache interface {
	// Get retrieves an entry by the normalized vendor/solution key.
	// Expired entries are removed on access. A hit updates the entry's
	// LastAccessedAt timestamp and increments its AccessCount.
	// Returns ErrNotFound on a miss or when the entry has expired.
	Get(ctx context.Context, vendor, solution string) (*core.CacheEntry, error)

	// GetFuzzy retrieves an entry whose key approximately matches the
	// vendor/solution pair when no exact entry exists. Fuzzy hits go
	// through the same access bookkeeping as exact hits.
	// Returns ErrNotFound when no key clears the similarity threshold.
	GetFuzzy(ctx context.Context, vendor, solution string) (*core.CacheEntry, error)

	// Set stores a search result under the normalized vendor/solution key.
	// Overwriting an existing entry preserves its CreatedAt timestamp and
	// increments its AccessCount. Set may trigger capacity eviction.
	Set(ctx context.Context, vendor, solution string, result core.SearchResult) (*core.CacheEntry, error)

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, vendor, solution string) error

	// CleanupExpired removes all entries past their TTL and returns how
	// many were removed.
	CleanupExpired(ctx context.Context) (int, error)

	// Stats reports aggregate statistics over the cache contents.
	Stats(ctx context.Context) (*core.CacheStats, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
