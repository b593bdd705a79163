package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/catalog"
	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/scrape"
	scrapemock "github.com/marketlens/marketlens/scrape/mock"
	suggestmock "github.com/marketlens/marketlens/suggest/mock"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), catalog.SliceLoader{
		{Vendor: "Adobe", Solution: "Photoshop"},
		{Vendor: "Adobe", Solution: "Illustrator"},
		{Vendor: "Slack", Solution: "Enterprise Grid"},
		{Vendor: "Atlassian", Solution: "Jira Software"},
		{Vendor: "Atlassian", Solution: "Confluence"},
	})
	require.NoError(t, err)
	return cat
}

func newTestOrchestrator(t *testing.T, scrapers []scrape.Scraper, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(testCatalog(t), scrapers, opts...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o
}

func TestNewOrchestratorRequiresScrapers(t *testing.T) {
	_, err := NewOrchestrator(testCatalog(t), nil)
	assert.ErrorIs(t, err, ErrScrapersRequired)
}

func TestSearchExactMatch(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme").
		WithFixture("Adobe Photoshop", []core.Listing{
			{Title: "Adobe Photoshop CC", Marketplace: "acme", Link: "https://acme.example/ps"},
		})
	o := newTestOrchestrator(t, []scrape.Scraper{acme})

	result, err := o.Search(context.Background(), "Adobe", "Photoshop")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeExactMatch, result.ResultType)
	assert.Equal(t, "Adobe", result.Canonicalization.MappedVendor)
	assert.Equal(t, "Photoshop", result.Canonicalization.MappedSolution)
	assert.Equal(t, 100.0, result.Canonicalization.VendorScore)
	assert.Equal(t, 100.0, result.Canonicalization.SolutionScore)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.SearchedAt.IsZero())
	assert.Empty(t, result.Suggestions)

	require.Len(t, result.Marketplaces, 1)
	assert.Equal(t, "acme", result.Marketplaces[0].Marketplace)
	assert.Greater(t, result.TotalListings(), 0)
}

func TestSearchFuzzyMatchCanonicalizesVendor(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme")
	o := newTestOrchestrator(t, []scrape.Scraper{acme})

	result, err := o.Search(context.Background(), "Atlasian", "Jira Software")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeFuzzyMatch, result.ResultType)
	assert.Equal(t, "Atlassian", result.Canonicalization.MappedVendor)
	assert.Equal(t, "Jira Software", result.Canonicalization.MappedSolution)
	assert.Equal(t, "Atlasian", result.Query.OriginalVendor)

	// Queries are built from the canonical names, not the raw input.
	for _, q := range acme.Queries() {
		assert.NotContains(t, q, "Atlasian")
	}
}

func TestSearchSolutionOnlyExactMatch(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme")
	suggester := suggestmock.NewMockSuggester()
	o := newTestOrchestrator(t, []scrape.Scraper{acme}, WithSuggester(suggester))

	// A blank vendor is a wildcard: a cataloged solution alone is an
	// exact hit and never consults the suggester.
	result, err := o.Search(context.Background(), "", "Photoshop")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeExactMatch, result.ResultType)
	assert.Zero(t, suggester.CallCount())
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, []string{"Photoshop"}, acme.Queries())
	assert.Equal(t, 0.0, result.Canonicalization.VendorScore)
	assert.Equal(t, 100.0, result.Canonicalization.SolutionScore)
}

func TestSearchTokenSubsetVendorIsFuzzy(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme")
	o := newTestOrchestrator(t, []scrape.Scraper{acme})

	// "Adobe Inc" is not a catalog vendor but token-set-scores 100
	// against "Adobe"; that is a fuzzy hit, not an exact one.
	result, err := o.Search(context.Background(), "Adobe Inc", "Photoshop")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeFuzzyMatch, result.ResultType)
	assert.Equal(t, "Adobe", result.Canonicalization.MappedVendor)
	assert.Contains(t, acme.Queries(), "Adobe Photoshop")
}

func TestSearchExactMatchUsesInputVerbatim(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme")
	o := newTestOrchestrator(t, []scrape.Scraper{acme})

	result, err := o.Search(context.Background(), "adobe", "photoshop")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeExactMatch, result.ResultType)
	assert.Contains(t, acme.Queries(), "adobe photoshop")
}

func TestSearchDirectScrapeWithSuggestions(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme")
	suggester := suggestmock.NewMockSuggester()
	o := newTestOrchestrator(t, []scrape.Scraper{acme},
		WithSuggester(suggester),
		WithSuggestionCount(2))

	result, err := o.Search(context.Background(), "Unknown Co", "Mystery Product")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeDirectScrape, result.ResultType)
	assert.Equal(t, 1, suggester.CallCount())
	assert.Len(t, result.Suggestions, 2)

	// Raw query text is used verbatim on the direct-scrape path.
	queries := acme.Queries()
	assert.Contains(t, queries, "Unknown Co Mystery Product")
}

func TestSearchScraperFailureDegradesToEmpty(t *testing.T) {
	bad := scrapemock.NewMockScraper("globex").WithError(scrape.ErrMarketplaceUnavailable)
	good := scrapemock.NewMockScraper("acme").
		WithFixture("Adobe Photoshop", []core.Listing{
			{Title: "Photoshop", Marketplace: "acme"},
		})
	o := newTestOrchestrator(t, []scrape.Scraper{bad, good})

	result, err := o.Search(context.Background(), "Adobe", "Photoshop")
	require.NoError(t, err)

	require.Len(t, result.Marketplaces, 2)
	assert.Empty(t, result.Marketplaces[0].Listings)
	assert.NotEmpty(t, result.Marketplaces[1].Listings)
}

func TestSearchTimeoutDegradesToEmpty(t *testing.T) {
	slow := scrapemock.NewMockScraper("acme").WithDelay(200 * time.Millisecond)
	o := newTestOrchestrator(t, []scrape.Scraper{slow},
		WithScrapeTimeout(10*time.Millisecond))

	result, err := o.Search(context.Background(), "Adobe", "Photoshop")
	require.NoError(t, err)
	assert.Zero(t, result.TotalListings())
}

func TestSearchVendorOnly(t *testing.T) {
	acme := scrapemock.NewMockScraper("acme")
	o := newTestOrchestrator(t, []scrape.Scraper{acme})

	result, err := o.Search(context.Background(), "Slack", "")
	require.NoError(t, err)

	assert.Equal(t, core.ResultTypeExactMatch, result.ResultType)
	assert.Equal(t, []string{"Slack"}, acme.Queries())
}

func TestSearchDeduplicatesAcrossVariants(t *testing.T) {
	// Every variant yields the same listing title; only one must survive.
	listing := []core.Listing{{Title: "Adobe Photoshop CC", Marketplace: "acme"}}
	acme := scrapemock.NewMockScraper("acme").
		WithFixture("Adobe Photoshop", listing).
		WithFixture("Photoshop", listing)
	o := newTestOrchestrator(t, []scrape.Scraper{acme})

	result, err := o.Search(context.Background(), "Adobe", "Photoshop")
	require.NoError(t, err)

	require.Len(t, result.Marketplaces, 1)
	assert.Len(t, result.Marketplaces[0].Listings, 1)
}

func TestQueryVariants(t *testing.T) {
	tests := []struct {
		name     string
		vendor   string
		solution string
		want     []string
	}{
		{
			name:     "multi word solution",
			vendor:   "Atlassian",
			solution: "Jira Software",
			want:     []string{"Atlassian Jira Software", "Jira Software", "Atlassian Jira"},
		},
		{
			name:     "single word solution",
			vendor:   "Adobe",
			solution: "Photoshop",
			want:     []string{"Adobe Photoshop", "Photoshop"},
		},
		{
			name:     "vendor only",
			vendor:   "Slack",
			solution: "",
			want:     []string{"Slack"},
		},
		{
			name:     "blank vendor",
			vendor:   "",
			solution: "Photoshop",
			want:     []string{"Photoshop"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryVariants(tt.vendor, tt.solution))
		})
	}
}
