package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSearchResult() SearchResult {
	return SearchResult{
		ID: "8a6d2c1e-0000-4000-8000-000000000001",
		Query: Query{
			OriginalVendor:   "Atlasian",
			OriginalSolution: "Jira",
		},
		Canonicalization: Canonicalization{
			MappedVendor:   "Atlassian",
			MappedSolution: "Jira Software",
			VendorScore:    88.9,
			SolutionScore:  76.2,
		},
		ResultType: ResultTypeFuzzyMatch,
		Marketplaces: []MarketplaceResults{
			{
				Marketplace: "AWS",
				Listings: []ScoredListing{
					{
						Listing: Listing{
							Title:       "Jira Software Data Center",
							Link:        "https://aws.example.com/jira",
							Marketplace: "AWS",
							Vendor:      "Atlassian",
							Description: "Plan, track, release",
						},
						Confidence: 81.3,
						Breakdown:  ScoreBreakdown{Fuzzy: 90, TFIDF: 68.25},
					},
				},
			},
			{Marketplace: "Azure"},
			{Marketplace: "GCP"},
		},
		Summary: Summary{
			BestMatches: []ScoredListing{
				{
					Listing:    Listing{Title: "Jira Software Data Center", Marketplace: "AWS"},
					Confidence: 81.3,
					Breakdown:  ScoreBreakdown{Fuzzy: 90, TFIDF: 68.25},
				},
			},
		},
		Suggestions: []Suggestion{
			{Name: "Confluence", Reason: "same vendor, adjacent collaboration tool"},
		},
		SearchedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestSearchResultMUSRoundTrip(t *testing.T) {
	original := sampleSearchResult()

	bs := make([]byte, SearchResultMUS.Size(original))
	n := SearchResultMUS.Marshal(original, bs)
	require.Equal(t, len(bs), n, "marshal must fill the sized buffer exactly")

	decoded, n, err := SearchResultMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Query, decoded.Query)
	assert.Equal(t, original.Canonicalization, decoded.Canonicalization)
	assert.Equal(t, original.ResultType, decoded.ResultType)
	assert.Equal(t, original.Marketplaces, decoded.Marketplaces)
	assert.Equal(t, original.Summary, decoded.Summary)
	assert.Equal(t, original.Suggestions, decoded.Suggestions)
	assert.True(t, original.SearchedAt.Equal(decoded.SearchedAt))
}

func TestCacheEntryMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	original := CacheEntry{
		Key:            CacheKey("Atlassian", "Jira Software"),
		Vendor:         "Atlassian",
		Solution:       "Jira Software",
		Result:         sampleSearchResult(),
		CreatedAt:      now.Add(-time.Hour),
		LastAccessedAt: now,
		AccessCount:    7,
		ResultType:     ResultTypeFuzzyMatch,
	}

	bs := make([]byte, CacheEntryMUS.Size(original))
	n := CacheEntryMUS.Marshal(original, bs)
	require.Equal(t, len(bs), n)

	decoded, _, err := CacheEntryMUS.Unmarshal(bs)
	require.NoError(t, err)

	assert.Equal(t, original.Key, decoded.Key)
	assert.Equal(t, original.Vendor, decoded.Vendor)
	assert.Equal(t, original.Solution, decoded.Solution)
	assert.Equal(t, original.AccessCount, decoded.AccessCount)
	assert.Equal(t, original.ResultType, decoded.ResultType)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, original.LastAccessedAt.Equal(decoded.LastAccessedAt))
	assert.Equal(t, original.Result.Summary, decoded.Result.Summary)
}

func TestCacheEntryMUSTruncatedData(t *testing.T) {
	entry := CacheEntry{
		Key:         CacheKey("Adobe", "Photoshop"),
		AccessCount: 1,
		ResultType:  ResultTypeExactMatch,
	}

	bs := make([]byte, CacheEntryMUS.Size(entry))
	CacheEntryMUS.Marshal(entry, bs)

	_, _, err := CacheEntryMUS.Unmarshal(bs[:len(bs)/2])
	assert.Error(t, err)
}
