package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marketlens/marketlens/core"
)

// MockScraper is a test double for scrape.Scraper.
// It allows custom behavior injection via function fields.
type MockScraper struct {
	// SearchFunc is called by Search if set.
	// If nil, uses default fixture-based behavior.
	SearchFunc func(ctx context.Context, query string) ([]core.Listing, error)

	marketplace string

	mu       sync.Mutex
	fixtures map[string][]core.Listing
	err      error
	delay    time.Duration
	queries  []string
}

// NewMockScraper creates a mock scraper for the given marketplace with
// default deterministic behavior: every query yields one synthetic
// listing derived from the query text.
func NewMockScraper(marketplace string) *MockScraper {
	return &MockScraper{
		marketplace: marketplace,
		fixtures:    make(map[string][]core.Listing),
	}
}

// WithFixture registers canned listings returned for an exact query.
// Returns the scraper for chaining.
func (m *MockScraper) WithFixture(query string, listings []core.Listing) *MockScraper {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixtures[normalizeQuery(query)] = listings
	return m
}

// WithError makes every Search call fail with err.
func (m *MockScraper) WithError(err error) *MockScraper {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithDelay makes every Search call sleep before responding, honoring
// context cancellation during the sleep.
func (m *MockScraper) WithDelay(d time.Duration) *MockScraper {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// Marketplace returns the configured marketplace identifier.
func (m *MockScraper) Marketplace() string {
	return m.marketplace
}

// Search records the query and returns fixture listings, an injected
// error, or the default synthetic listing.
func (m *MockScraper) Search(ctx context.Context, query string) ([]core.Listing, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	delay := m.delay
	err := m.err
	fixture, hasFixture := m.fixtures[normalizeQuery(query)]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	if hasFixture {
		return fixture, nil
	}

	// Default: one synthetic listing per query.
	return []core.Listing{
		{
			Title:       query,
			Marketplace: m.marketplace,
			Link:        fmt.Sprintf("https://%s.example/item/%d", m.marketplace, core.IDFromContent(query)),
		},
	}, nil
}

// Queries returns all queries seen by Search, in call order.
func (m *MockScraper) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// CallCount returns the number of times Search was called.
func (m *MockScraper) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// Reset clears recorded queries and injected behavior.
func (m *MockScraper) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = nil
	m.err = nil
	m.delay = 0
	m.fixtures = make(map[string][]core.Listing)
	m.SearchFunc = nil
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
