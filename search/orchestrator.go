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


package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/marketlens/marketlens/catalog"
	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/match"
	"github.com/marketlens/marketlens/rank"
	"github.com/marketlens/marketlens/scrape"
	"github.com/marketlens/marketlens/suggest"
)

const (
	// DefaultFuzzyVendorThreshold is the minimum vendor mapping score to
	// trust a non-exact catalog canonicalization.
	DefaultFuzzyVendorThreshold = 80.0

	// DefaultScrapeTimeout bounds each individual scraper call.
	DefaultScrapeTimeout = 30 * time.Second

	// DefaultPoolSize is the number of concurrent scraper calls.
	DefaultPoolSize = 8

	// DefaultSuggestionCount is how many catalog alternatives to request
	// on the direct-scrape path.
	DefaultSuggestionCount = 3
)

// ErrScrapersRequired is returned when an orchestrator is constructed
// without any scrapers.
var ErrScrapersRequired = errors.New("at least one scraper is required")

// Orchestrator runs the full search flow: canonicalize the query against
// the catalog, fan queries out across marketplaces, then score, dedupe,
// rank, and summarize the listings.
type Orchestrator struct {
	catalog   *catalog.Catalog
	mapper    *match.Mapper
	ranker    *rank.Ranker
	scrapers  []scrape.Scraper
	suggester suggest.Suggester
	pool      *ants.Pool
	logger    *slog.Logger

	fuzzyVendorThreshold float64
	scrapeTimeout        time.Duration
	suggestionCount      int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithPoolSize replaces the scraper worker pool with one of the given size.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if o.pool != nil {
			o.pool.Release()
		}
		o.pool = pool
		return nil
	}
}

// WithScrapeTimeout sets the per-call timeout for scraper requests.
func WithScrapeTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return errors.New("scrape timeout must be positive")
		}
		o.scrapeTimeout = d
		return nil
	}
}

// WithFuzzyVendorThreshold sets the minimum vendor score for the
// fuzzy-match result type.
func WithFuzzyVendorThreshold(threshold float64) Option {
	return func(o *Orchestrator) error {
		if threshold < 0 || threshold > 100 {
			return errors.New("fuzzy vendor threshold must be in [0, 100]")
		}
		o.fuzzyVendorThreshold = threshold
		return nil
	}
}

// WithSuggester sets the suggester consulted on the direct-scrape path.
// Without one, direct-scrape results carry no suggestions.
func WithSuggester(s suggest.Suggester) Option {
	return func(o *Orchestrator) error {
		o.suggester = s
		return nil
	}
}

// WithSuggestionCount sets how many alternatives to request from the suggester.
func WithSuggestionCount(n int) Option {
	return func(o *Orchestrator) error {
		if n < 0 {
			return errors.New("suggestion count must be non-negative")
		}
		o.suggestionCount = n
		return nil
	}
}

// NewOrchestrator creates an orchestrator over the given catalog and scrapers.
func NewOrchestrator(cat *catalog.Catalog, scrapers []scrape.Scraper, opts ...Option) (*Orchestrator, error) {
	if len(scrapers) == 0 {
		return nil, ErrScrapersRequired
	}
	mapper, err := match.NewMapper(cat)
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		catalog:              cat,
		mapper:               mapper,
		ranker:               rank.NewRanker(),
		scrapers:             scrapers,
		pool:                 pool,
		logger:               slog.Default(),
		fuzzyVendorThreshold: DefaultFuzzyVendorThreshold,
		scrapeTimeout:        DefaultScrapeTimeout,
		suggestionCount:      DefaultSuggestionCount,
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}
	return o, nil
}

// Release releases the worker pool. The orchestrator should not be used
// after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// Search runs the full flow for one vendor/solution query and returns an
// assembled, immutable SearchResult. Individual scraper failures degrade
// to empty listings for that marketplace rather than failing the search.
func (o *Orchestrator) Search(ctx context.Context, vendor, solution string) (core.SearchResult, error) {
	vendor = strings.TrimSpace(vendor)
	solution = strings.TrimSpace(solution)

	canon, resultType := o.canonicalize(vendor, solution)

	// Only the fuzzy path searches with canonical names; exact catalog
	// hits and direct scrapes use the input verbatim.
	queryVendor, querySolution := vendor, solution
	if resultType == core.ResultTypeFuzzyMatch {
		queryVendor, querySolution = canon.MappedVendor, canon.MappedSolution
	}

	variants := QueryVariants(queryVendor, querySolution)
	marketplaces := o.scrapeAll(ctx, variants, queryVendor, querySolution)

	var suggestions []core.Suggestion
	if resultType == core.ResultTypeDirectScrape {
		suggestions = o.suggestAlternatives(ctx, vendor, solution)
	}

	result := core.SearchResult{
		ID:               uuid.NewString(),
		Query:            core.Query{OriginalVendor: vendor, OriginalSolution: solution},
		Canonicalization: canon,
		ResultType:       resultType,
		Marketplaces:     marketplaces,
		Summary:          o.ranker.Summarize(marketplaces),
		Suggestions:      suggestions,
		SearchedAt:       time.Now().UTC(),
	}

	o.logger.Info("search complete",
		"id", result.ID,
		"vendor", vendor,
		"solution", solution,
		"result_type", resultType.String(),
		"listings", result.TotalListings())
	return result, nil
}

// canonicalize classifies the query. A catalog membership check decides
// the exact path first (a blank field acts as a wildcard there); only
// misses go through the mapper, fuzzy when the vendor score clears the
// threshold and direct-scrape otherwise.
func (o *Orchestrator) canonicalize(vendor, solution string) (core.Canonicalization, core.ResultType) {
	if o.catalog.Contains(vendor, solution) {
		canon := core.Canonicalization{
			MappedVendor:   vendor,
			MappedSolution: solution,
		}
		if vendor != "" {
			canon.VendorScore = 100
		}
		if solution != "" {
			canon.SolutionScore = 100
		}
		return canon, core.ResultTypeExactMatch
	}

	mappedVendor, vendorScore := o.mapper.MapVendor(vendor)
	mappedSolution, solutionScore := o.mapper.MapSolution(mappedVendor, solution)

	canon := core.Canonicalization{
		MappedVendor:   mappedVendor,
		MappedSolution: mappedSolution,
		VendorScore:    vendorScore,
		SolutionScore:  solutionScore,
	}

	if vendorScore >= o.fuzzyVendorThreshold {
		return canon, core.ResultTypeFuzzyMatch
	}
	return canon, core.ResultTypeDirectScrape
}

// QueryVariants builds the marketplace query strings for a vendor/solution
// pair: "vendor solution", the bare solution, and "vendor firstWord" where
// firstWord is the solution's leading token. Blank and duplicate variants
// are dropped; a solution-less query yields just the vendor name.
func QueryVariants(vendor, solution string) []string {
	var raw []string
	if solution == "" {
		raw = []string{vendor}
	} else {
		raw = []string{
			strings.TrimSpace(vendor + " " + solution),
			solution,
		}
		if first := strings.Fields(solution); len(first) > 0 {
			raw = append(raw, strings.TrimSpace(vendor+" "+first[0]))
		}
	}

	seen := make(map[string]struct{}, len(raw))
	variants := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		variants = append(variants, v)
	}
	return variants
}

// scrapeAll fans every query variant out to every scraper concurrently
// and returns per-marketplace scored results in scraper registration order.
func (o *Orchestrator) scrapeAll(ctx context.Context, variants []string, vendor, solution string) []core.MarketplaceResults {
	type task struct {
		scraperIdx int
		query      string
	}

	collected := make([][]core.Listing, len(o.scrapers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range o.scrapers {
		for _, variant := range variants {
			t := task{scraperIdx: i, query: variant}
			wg.Add(1)
			err := o.pool.Submit(func() {
				defer wg.Done()
				listings := o.scrapeOne(ctx, o.scrapers[t.scraperIdx], t.query)
				mu.Lock()
				collected[t.scraperIdx] = append(collected[t.scraperIdx], listings...)
				mu.Unlock()
			})
			if err != nil {
				wg.Done()
				o.logger.Error("failed to submit scrape task", "query", t.query, "err", err)
			}
		}
	}
	wg.Wait()

	marketplaces := make([]core.MarketplaceResults, len(o.scrapers))
	for i, s := range o.scrapers {
		marketplaces[i] = core.MarketplaceResults{
			Marketplace: s.Marketplace(),
			Listings:    o.ranker.DedupeAndRank(collected[i], vendor, solution),
		}
	}
	return marketplaces
}

// scrapeOne runs a single scraper call under the per-call timeout.
// Failures are logged and degrade to an empty result.
func (o *Orchestrator) scrapeOne(ctx context.Context, scraper scrape.Scraper, query string) []core.Listing {
	callCtx, cancel := context.WithTimeout(ctx, o.scrapeTimeout)
	defer cancel()

	listings, err := scraper.Search(callCtx, query)
	if err != nil {
		o.logger.Warn("scraper failed",
			"marketplace", scraper.Marketplace(),
			"query", query,
			"err", err)
		return nil
	}
	return listings
}

// suggestAlternatives asks the suggester for catalog products comparable
// to the unmatched query. Suggester failures degrade to no suggestions.
func (o *Orchestrator) suggestAlternatives(ctx context.Context, vendor, solution string) []core.Suggestion {
	if o.suggester == nil || o.suggestionCount == 0 {
		return nil
	}

	query := strings.TrimSpace(vendor + " " + solution)
	suggestions, err := o.suggester.Suggest(ctx, query, o.catalog.AllSolutions(), o.suggestionCount)
	if err != nil {
		o.logger.Warn("suggester failed", "query", query, "err", err)
		return nil
	}
	return suggestions
}
