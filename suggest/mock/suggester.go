// Package mock provides a test double implementation of suggest.Suggester.
package mock

import (
	"context"
	"sync"

	"github.com/marketlens/marketlens/core"
)

// MockSuggester is a test double for suggest.Suggester.
// It allows custom behavior injection via a function field.
type MockSuggester struct {
	// SuggestFunc is called by Suggest if set.
	// If nil, uses default behavior: the first n candidates.
	SuggestFunc func(ctx context.Context, query string, candidates []string, n int) ([]core.Suggestion, error)

	mu        sync.Mutex
	callCount int
	queries   []string
}

// NewMockSuggester creates a mock suggester with default behavior.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

// Suggest records the call and returns injected or default suggestions.
func (m *MockSuggester) Suggest(ctx context.Context, query string, candidates []string, n int) ([]core.Suggestion, error) {
	m.mu.Lock()
	m.callCount++
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, query, candidates, n)
	}

	if n > len(candidates) {
		n = len(candidates)
	}
	suggestions := make([]core.Suggestion, 0, n)
	for _, c := range candidates[:n] {
		suggestions = append(suggestions, core.Suggestion{
			Name:   c,
			Reason: "comparable catalog product",
		})
	}
	return suggestions, nil
}

// CallCount returns the number of times Suggest was called.
func (m *MockSuggester) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Queries returns all queries seen by Suggest, in call order.
func (m *MockSuggester) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// Reset clears recorded calls and injected behavior.
func (m *MockSuggester) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.queries = nil
	m.SuggestFunc = nil
}
