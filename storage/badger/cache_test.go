package badger

import (
	"context"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/storage"
)

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	cache, err := NewMemoryCache(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func testResult(vendor, solution string, resultType core.ResultType) core.SearchResult {
	return core.SearchResult{
		ID:         "00000000-0000-0000-0000-000000000001",
		Query:      core.Query{OriginalVendor: vendor, OriginalSolution: solution},
		ResultType: resultType,
		Canonicalization: core.Canonicalization{
			MappedVendor:   vendor,
			MappedSolution: solution,
			VendorScore:    100,
			SolutionScore:  100,
		},
		Marketplaces: []core.MarketplaceResults{
			{
				Marketplace: "acme",
				Listings: []core.ScoredListing{
					{
						Listing:    core.Listing{Title: solution, Marketplace: "acme"},
						Confidence: 90,
						Breakdown:  core.ScoreBreakdown{Fuzzy: 100, TFIDF: 75},
					},
				},
			},
		},
		SearchedAt: time.Now().UTC(),
	}
}

func TestSetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	result := testResult("Adobe", "Photoshop", core.ResultTypeExactMatch)
	entry, err := cache.Set(ctx, "Adobe", "Photoshop", result)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.AccessCount)
	assert.Equal(t, "adobe|photoshop", entry.Key)

	got, err := cache.Get(ctx, "Adobe", "Photoshop")
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.Result.ID)
	assert.Equal(t, int64(2), got.AccessCount) // Get touches the entry

	// Key normalization: case and surrounding whitespace are ignored.
	got, err = cache.Get(ctx, "  ADOBE ", "photoshop")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.AccessCount)
}

func TestGetMiss(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), "Nobody", "Nothing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetOverwritePreservesCreatedAt(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first, err := cache.Set(ctx, "Adobe", "Photoshop", testResult("Adobe", "Photoshop", core.ResultTypeExactMatch))
	require.NoError(t, err)

	second, err := cache.Set(ctx, "Adobe", "Photoshop", testResult("Adobe", "Photoshop", core.ResultTypeExactMatch))
	require.NoError(t, err)

	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, int64(2), second.AccessCount)
}

func TestGetExpiredEntryIsRemoved(t *testing.T) {
	cache := newTestCache(t, WithTTL(time.Nanosecond))
	ctx := context.Background()

	_, err := cache.Set(ctx, "Adobe", "Photoshop", testResult("Adobe", "Photoshop", core.ResultTypeExactMatch))
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = cache.Get(ctx, "Adobe", "Photoshop")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestGetFuzzy(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Set(ctx, "Red Hat", "OpenShift", testResult("Red Hat", "OpenShift", core.ResultTypeExactMatch))
	require.NoError(t, err)

	// Spacing differences in the key are forgiven.
	got, err := cache.GetFuzzy(ctx, "RedHat", "OpenShift")
	require.NoError(t, err)
	assert.Equal(t, "redhat|openshift", core.CacheKey("RedHat", "OpenShift"))
	assert.Equal(t, "Red Hat", got.Vendor)
	assert.Equal(t, int64(2), got.AccessCount) // fuzzy hits touch too

	// Far-off keys miss.
	_, err = cache.GetFuzzy(ctx, "Oracle", "Database")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetFuzzyPrefersExact(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Set(ctx, "Red Hat", "OpenShift", testResult("Red Hat", "OpenShift", core.ResultTypeExactMatch))
	require.NoError(t, err)
	_, err = cache.Set(ctx, "RedHat", "OpenShift", testResult("RedHat", "OpenShift", core.ResultTypeExactMatch))
	require.NoError(t, err)

	got, err := cache.GetFuzzy(ctx, "RedHat", "OpenShift")
	require.NoError(t, err)
	assert.Equal(t, "RedHat", got.Vendor)
}

// writeBackdatedEntry stores an entry directly, bypassing Set so
// CreatedAt can lie in the past.
func writeBackdatedEntry(t *testing.T, cache *Cache, vendor, solution string, createdAt time.Time) {
	t.Helper()
	entry := &core.CacheEntry{
		Key:            core.CacheKey(vendor, solution),
		Vendor:         vendor,
		Solution:       solution,
		Result:         testResult(vendor, solution, core.ResultTypeExactMatch),
		CreatedAt:      createdAt,
		LastAccessedAt: createdAt,
		AccessCount:    1,
		ResultType:     core.ResultTypeExactMatch,
	}
	err := cache.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeCacheEntryKey(entry.Key), storage.MarshalCacheEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)
}

func TestGetFuzzyExpiredKeyDoesNotShadowLiveEntry(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	// The expired key scores 100 against the query; the live key scores
	// lower but still clears the threshold and must win.
	writeBackdatedEntry(t, cache, "Red Hat", "OpenShift", time.Now().UTC().Add(-31*24*time.Hour))
	_, err := cache.Set(ctx, "RedHat", "Open-Shift", testResult("RedHat", "Open-Shift", core.ResultTypeExactMatch))
	require.NoError(t, err)

	got, err := cache.GetFuzzy(ctx, "RedHat", "OpenShift")
	require.NoError(t, err)
	assert.Equal(t, "redhat|open-shift", got.Key)

	// The expired entry was dropped during the scan.
	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
}

func TestDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Set(ctx, "Adobe", "Photoshop", testResult("Adobe", "Photoshop", core.ResultTypeExactMatch))
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, "Adobe", "Photoshop"))
	_, err = cache.Get(ctx, "Adobe", "Photoshop")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting a missing entry is not an error.
	assert.NoError(t, cache.Delete(ctx, "Adobe", "Photoshop"))
}

func TestCleanupExpired(t *testing.T) {
	cache := newTestCache(t, WithTTL(time.Millisecond))
	ctx := context.Background()

	_, err := cache.Set(ctx, "Adobe", "Photoshop", testResult("Adobe", "Photoshop", core.ResultTypeExactMatch))
	require.NoError(t, err)
	_, err = cache.Set(ctx, "Slack", "Enterprise Grid", testResult("Slack", "Enterprise Grid", core.ResultTypeExactMatch))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	removed, err := cache.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = cache.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEvictionShrinksToMaxSize(t *testing.T) {
	cache := newTestCache(t, WithMaxSize(5), WithEvictionMargin(2))
	ctx := context.Background()

	vendors := []string{"A", "B", "C", "D", "E"}
	for _, v := range vendors {
		_, err := cache.Set(ctx, v, "Product", testResult(v, "Product", core.ResultTypeExactMatch))
		require.NoError(t, err)
	}

	// 5 entries fit within maxSize; nothing evicted yet.
	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalEntries)

	// The sixth write crosses the limit; eviction removes the overflow
	// plus the margin to make room.
	_, err = cache.Set(ctx, "F", "Product", testResult("F", "Product", core.ResultTypeExactMatch))
	require.NoError(t, err)

	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEntries)
}

func TestEvictionKeepsHotEntries(t *testing.T) {
	cache := newTestCache(t, WithMaxSize(3), WithEvictionMargin(1))
	ctx := context.Background()

	_, err := cache.Set(ctx, "Hot", "Product", testResult("Hot", "Product", core.ResultTypeExactMatch))
	require.NoError(t, err)
	_, err = cache.Set(ctx, "Warm", "Product", testResult("Warm", "Product", core.ResultTypeExactMatch))
	require.NoError(t, err)
	_, err = cache.Set(ctx, "Cold", "Product", testResult("Cold", "Product", core.ResultTypeExactMatch))
	require.NoError(t, err)

	// Access the hot entry repeatedly to lower its staleness score.
	for i := 0; i < 5; i++ {
		_, err = cache.Get(ctx, "Hot", "Product")
		require.NoError(t, err)
	}

	// Crossing maxSize triggers eviction of the two stalest entries.
	_, err = cache.Set(ctx, "New", "Product", testResult("New", "Product", core.ResultTypeExactMatch))
	require.NoError(t, err)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)

	_, err = cache.Get(ctx, "Hot", "Product")
	assert.NoError(t, err, "frequently accessed entry should survive eviction")
}

func TestStats(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Set(ctx, "Adobe", "Photoshop", testResult("Adobe", "Photoshop", core.ResultTypeExactMatch))
	require.NoError(t, err)
	_, err = cache.Set(ctx, "Adobe", "Illustrator", testResult("Adobe", "Illustrator", core.ResultTypeExactMatch))
	require.NoError(t, err)
	_, err = cache.Set(ctx, "Unknown", "Thing", testResult("Unknown", "Thing", core.ResultTypeDirectScrape))
	require.NoError(t, err)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.CountsByResultType["exact_match"])
	assert.Equal(t, 1, stats.CountsByResultType["direct_scrape"])
	require.NotEmpty(t, stats.TopVendors)
	assert.Equal(t, core.VendorCount{Vendor: "Adobe", Count: 2}, stats.TopVendors[0])
	assert.InDelta(t, 1.0, stats.AvgAccessCount, 0.001)
}

func TestStatsEmptyCache(t *testing.T) {
	cache := newTestCache(t)

	stats, err := cache.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.AvgAccessCount)
	assert.Empty(t, stats.TopVendors)
}
