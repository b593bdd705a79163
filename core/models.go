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


package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ResultType categorizes how a search result was produced.
type ResultType int

const (
	// ResultTypeExactMatch means the query matched the catalog verbatim.
	ResultTypeExactMatch ResultType = iota + 1
	// ResultTypeFuzzyMatch means the query was canonicalized against the catalog.
	ResultTypeFuzzyMatch
	// ResultTypeDirectScrape means no catalog match existed and the raw
	// query was sent to the marketplaces as-is.
	ResultTypeDirectScrape
	// ResultTypeTest marks entries written by tests and tooling.
	ResultTypeTest
)

// String returns the storage/reporting name of the result type.
func (t ResultType) String() string {
	switch t {
	case ResultTypeExactMatch:
		return "exact_match"
	case ResultTypeFuzzyMatch:
		return "fuzzy_match"
	case ResultTypeDirectScrape:
		return "direct_scrape"
	case ResultTypeTest:
		return "test"
	default:
		return "unknown"
	}
}

// CatalogEntry is one vendor and its known solutions.
// Entries are immutable for the process lifetime once the catalog is loaded.
type CatalogEntry struct {
	Vendor    string
	Solutions []string
}

// Query is the raw user input, never mutated.
type Query struct {
	OriginalVendor   string
	OriginalSolution string
}

// Canonicalization records how a query was mapped onto the catalog.
// Scores are in [0,100]; 100 denotes an exact catalog match, 0 denotes
// no mapping found (the original text is carried through unchanged).
type Canonicalization struct {
	MappedVendor   string
	MappedSolution string
	VendorScore    float64
	SolutionScore  float64
}

// Listing is one raw item returned by a marketplace scraper.
// Title and Link are mandatory; Vendor and Description are optional.
type Listing struct {
	Title       string
	Link        string
	Marketplace string
	Vendor      string
	Description string
}

// ScoreBreakdown holds the components of a hybrid confidence score,
// both in [0,100].
type ScoreBreakdown struct {
	Fuzzy float64
	TFIDF float64
}

// ScoredListing is a Listing with its hybrid confidence against the query.
// Invariant: Confidence = 0.60*Breakdown.Fuzzy + 0.40*Breakdown.TFIDF.
type ScoredListing struct {
	Listing
	Confidence float64
	Breakdown  ScoreBreakdown
}

// MarketplaceResults holds one marketplace's scored listings,
// deduplicated by title and sorted by confidence descending.
type MarketplaceResults struct {
	Marketplace string
	Listings    []ScoredListing
}

// Summary aggregates the plausibly relevant listings across all
// marketplaces: confidence > 30, sorted by confidence descending.
type Summary struct {
	BestMatches []ScoredListing
}

// Suggestion is an alternative catalog product proposed when the query
// could not be grounded in the catalog at all.
type Suggestion struct {
	Name   string
	Reason string
}

// SearchResult is the unit of work and of caching. It is immutable once
// returned by the orchestrator and cached verbatim.
type SearchResult struct {
	ID               string // UUID assigned per search, for tracing
	Query            Query
	Canonicalization Canonicalization
	ResultType       ResultType
	Marketplaces     []MarketplaceResults
	Summary          Summary
	Suggestions      []Suggestion
	SearchedAt       time.Time
}

// TotalListings returns the number of scored listings across all marketplaces.
func (r *SearchResult) TotalListings() int {
	var n int
	for _, m := range r.Marketplaces {
		n += len(m.Listings)
	}
	return n
}

// CacheEntry is a memoized SearchResult with its access bookkeeping.
// Entries are owned by the result cache; the only mutation path is
// through its Get/Set/Cleanup operations.
type CacheEntry struct {
	Key            string
	Vendor         string
	Solution       string
	Result         SearchResult
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
	ResultType     ResultType
}

// CacheKey builds the normalized cache key for a vendor/solution pair:
// lowercased, whitespace-trimmed "vendor|solution".
func CacheKey(vendor, solution string) string {
	return strings.ToLower(strings.TrimSpace(vendor)) + "|" + strings.ToLower(strings.TrimSpace(solution))
}

// VendorCount pairs a vendor with its number of cache entries.
type VendorCount struct {
	Vendor string
	Count  int
}

// CacheStats is a read-only aggregate report over the result cache.
type CacheStats struct {
	TotalEntries       int
	AvgAccessCount     float64
	CountsByResultType map[string]int
	TopVendors         []VendorCount
}
