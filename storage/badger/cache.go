// Copyright 2025 MarketLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/similarity"
	"github.com/marketlens/marketlens/storage"
)

const (
	// DefaultTTL is how long an entry stays valid after creation.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultMaxSize is the target number of resident entries.
	DefaultMaxSize = 1000

	// DefaultEvictionMargin is how many entries past the shrink target
	// eviction removes, so back-to-back Sets do not re-trigger it.
	DefaultEvictionMargin = 100

	// topVendorCount bounds the vendor leaderboard in Stats.
	topVendorCount = 5

	// DefaultFuzzyThreshold is the minimum key similarity for GetFuzzy hits.
	DefaultFuzzyThreshold = 90.0

	// touchRetries bounds optimistic-concurrency retries when updating
	// access bookkeeping.
	touchRetries = 3
)

// Cache implements storage.ResultCache for BadgerDB.
type Cache struct {
	backend *Backend
	logger  *slog.Logger

	ttl            time.Duration
	maxSize        int
	evictionMargin int
	fuzzyThreshold float64
}

var _ storage.ResultCache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache) error

// WithTTL sets the entry time-to-live. Default is 30 days.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) error {
		if ttl <= 0 {
			return errors.New("ttl must be positive")
		}
		c.ttl = ttl
		return nil
	}
}

// WithMaxSize sets the target cache capacity. Default is 1000 entries.
func WithMaxSize(n int) Option {
	return func(c *Cache) error {
		if n <= 0 {
			return errors.New("max size must be positive")
		}
		c.maxSize = n
		return nil
	}
}

// WithEvictionMargin sets how many extra entries eviction removes
// beyond the overflow, to make room. Default is 100 entries.
func WithEvictionMargin(n int) Option {
	return func(c *Cache) error {
		if n < 0 {
			return errors.New("eviction margin must be non-negative")
		}
		c.evictionMargin = n
		return nil
	}
}

// WithFuzzyThreshold sets the minimum key similarity for GetFuzzy hits.
func WithFuzzyThreshold(threshold float64) Option {
	return func(c *Cache) error {
		if threshold < 0 || threshold > 100 {
			return errors.New("fuzzy threshold must be in [0, 100]")
		}
		c.fuzzyThreshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCache creates a result cache over the given backend.
func NewCache(backend *Backend, opts ...Option) (*Cache, error) {
	c := &Cache{
		backend:        backend,
		logger:         slog.Default(),
		ttl:            DefaultTTL,
		maxSize:        DefaultMaxSize,
		evictionMargin: DefaultEvictionMargin,
		fuzzyThreshold: DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close closes the underlying backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}

// Get retrieves an entry by the normalized vendor/solution key. Expired
// entries are deleted on access. A hit updates LastAccessedAt and
// increments AccessCount.
func (c *Cache) Get(ctx context.Context, vendor, solution string) (*core.CacheEntry, error) {
	key := core.CacheKey(vendor, solution)

	entry, err := c.readEntry(key)
	if err != nil {
		return nil, err
	}

	if c.expired(entry, time.Now().UTC()) {
		c.logger.Debug("evicting expired entry on access", "key", key)
		if err := c.deleteKey(key); err != nil {
			return nil, err
		}
		return nil, storage.ErrNotFound
	}

	return c.touch(key)
}

// GetFuzzy retrieves an entry whose key approximately matches the
// vendor/solution pair. The exact key is tried first; on a miss every
// stored key is compared against the query with whitespace and key
// separators stripped. Keys clearing the similarity threshold are tried
// best-first, skipping (and removing) expired entries so a stale key
// never shadows a live one; the winner resolves through the normal
// touch path so access bookkeeping stays uniform.
func (c *Cache) GetFuzzy(ctx context.Context, vendor, solution string) (*core.CacheEntry, error) {
	entry, err := c.Get(ctx, vendor, solution)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	type candidate struct {
		key   string
		score float64
	}

	target := normalizeForFuzzy(core.CacheKey(vendor, solution))
	var candidates []candidate

	err = c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(cacheEntryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			cacheKey, ok := cacheKeyFromStorageKey(iter.Item().Key())
			if !ok {
				continue
			}
			score := similarity.Ratio(target, normalizeForFuzzy(cacheKey))
			if score >= c.fuzzyThreshold {
				candidates = append(candidates, candidate{key: cacheKey, score: score})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	now := time.Now().UTC()
	for _, cand := range candidates {
		entry, err := c.readEntry(cand.key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if c.expired(entry, now) {
			if err := c.deleteKey(cand.key); err != nil {
				return nil, err
			}
			continue
		}
		c.logger.Debug("fuzzy cache hit", "key", cand.key, "score", cand.score)
		return c.touch(cand.key)
	}
	return nil, storage.ErrNotFound
}

// Set stores a search result under the normalized vendor/solution key.
// Overwriting preserves CreatedAt and increments AccessCount; new entries
// start at AccessCount 1. Set triggers eviction when the cache has grown
// past capacity.
func (c *Cache) Set(ctx context.Context, vendor, solution string, result core.SearchResult) (*core.CacheEntry, error) {
	key := core.CacheKey(vendor, solution)
	now := time.Now().UTC()

	entry := &core.CacheEntry{
		Key:            key,
		Vendor:         vendor,
		Solution:       solution,
		Result:         result,
		CreatedAt:      now,
		LastAccessedAt: now,
		AccessCount:    1,
		ResultType:     result.ResultType,
	}

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readEntryTx(tx, key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if old != nil {
			entry.CreatedAt = old.CreatedAt
			entry.AccessCount = old.AccessCount + 1
		}

		if err := core.ValidateCacheEntry(entry); err != nil {
			return err
		}
		if err := tx.Set(makeCacheEntryKey(key), storage.MarshalCacheEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	if err := c.evictIfOverCapacity(); err != nil {
		c.logger.Error("eviction failed", "err", err)
	}
	return entry, nil
}

// Delete removes an entry. Missing entries are not an error.
func (c *Cache) Delete(ctx context.Context, vendor, solution string) error {
	return c.deleteKey(core.CacheKey(vendor, solution))
}

// CleanupExpired removes all entries past their TTL.
func (c *Cache) CleanupExpired(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	var expiredKeys []string
	err := c.forEachEntry(func(entry *core.CacheEntry) error {
		if c.expired(entry, now) {
			expiredKeys = append(expiredKeys, entry.Key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, key := range expiredKeys {
		if err := c.deleteKey(key); err != nil {
			return 0, err
		}
	}

	if len(expiredKeys) > 0 {
		c.logger.Info("removed expired entries", "count", len(expiredKeys))
	}
	return len(expiredKeys), nil
}

// Stats reports aggregate statistics over the cache contents.
func (c *Cache) Stats(ctx context.Context) (*core.CacheStats, error) {
	stats := &core.CacheStats{
		CountsByResultType: make(map[string]int),
	}
	vendorCounts := make(map[string]int)

	var totalAccess int64
	err := c.forEachEntry(func(entry *core.CacheEntry) error {
		stats.TotalEntries++
		totalAccess += entry.AccessCount
		stats.CountsByResultType[entry.ResultType.String()]++
		vendorCounts[entry.Vendor]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats.TotalEntries > 0 {
		stats.AvgAccessCount = float64(totalAccess) / float64(stats.TotalEntries)
	}

	for vendor, count := range vendorCounts {
		stats.TopVendors = append(stats.TopVendors, core.VendorCount{Vendor: vendor, Count: count})
	}
	sort.Slice(stats.TopVendors, func(i, j int) bool {
		if stats.TopVendors[i].Count != stats.TopVendors[j].Count {
			return stats.TopVendors[i].Count > stats.TopVendors[j].Count
		}
		return stats.TopVendors[i].Vendor < stats.TopVendors[j].Vendor
	})
	if len(stats.TopVendors) > topVendorCount {
		stats.TopVendors = stats.TopVendors[:topVendorCount]
	}

	return stats, nil
}

// expired reports whether an entry is past its TTL at the given time.
func (c *Cache) expired(entry *core.CacheEntry, now time.Time) bool {
	return now.Sub(entry.CreatedAt) > c.ttl
}

// readEntry reads an entry in a read-only transaction without touching
// access bookkeeping.
func (c *Cache) readEntry(key string) (*core.CacheEntry, error) {
	var entry *core.CacheEntry
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		entry, err = readEntryTx(tx, key)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// readEntryTx reads an entry within an existing transaction.
func readEntryTx(tx *badger.Txn, key string) (*core.CacheEntry, error) {
	item, err := tx.Get(makeCacheEntryKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry *core.CacheEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalCacheEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// touch updates LastAccessedAt and increments AccessCount, retrying on
// transaction conflicts from concurrent readers.
func (c *Cache) touch(key string) (*core.CacheEntry, error) {
	var entry *core.CacheEntry
	var err error

	for attempt := 0; attempt < touchRetries; attempt++ {
		err = c.backend.WithTx(func(tx *badger.Txn) error {
			entry, err = readEntryTx(tx, key)
			if err != nil {
				return err
			}
			entry.LastAccessedAt = time.Now().UTC()
			entry.AccessCount++
			if err := tx.Set(makeCacheEntryKey(key), storage.MarshalCacheEntry(entry)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// deleteKey removes a key in a write transaction.
func (c *Cache) deleteKey(key string) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCacheEntryKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// forEachEntry iterates all entries in a read-only transaction.
func (c *Cache) forEachEntry(fn func(entry *core.CacheEntry) error) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(cacheEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.CacheEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCacheEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// evictIfOverCapacity removes the stalest entries once the cache has
// grown past maxSize, evicting margin extra entries to make room.
// Entries with the highest staleness score go first:
// 2*daysSinceLastAccess + 1/accessCount.
func (c *Cache) evictIfOverCapacity() error {
	type candidate struct {
		key   string
		score float64
	}

	now := time.Now().UTC()
	var candidates []candidate
	err := c.forEachEntry(func(entry *core.CacheEntry) error {
		days := now.Sub(entry.LastAccessedAt).Hours() / 24
		score := 2*days + 1/float64(entry.AccessCount)
		candidates = append(candidates, candidate{key: entry.Key, score: score})
		return nil
	})
	if err != nil {
		return err
	}

	if len(candidates) <= c.maxSize {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := len(candidates) - c.maxSize + c.evictionMargin
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, cand := range candidates[:n] {
		if err := c.deleteKey(cand.key); err != nil {
			return err
		}
	}

	c.logger.Info("evicted entries over capacity",
		"evicted", n,
		"resident", len(candidates)-n)
	return nil
}

// normalizeForFuzzy strips whitespace and the key separator so fuzzy
// comparison sees only the letters of the vendor/solution pair.
func normalizeForFuzzy(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "|", "")
	return strings.Join(strings.Fields(key), "")
}
