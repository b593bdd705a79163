package suggest

import (
	"context"

	"github.com/marketlens/marketlens/core"
)

// Suggester proposes catalog products comparable to an uncataloged query.
// Implementations must be thread-safe for concurrent use.
type Suggester interface {
	// Suggest returns up to n products from the candidates slice that are
	// plausible alternatives to the query. Candidates are canonical
	// catalog product names; suggestions must be drawn from them.
	// Returns an empty slice if nothing comparable exists.
	Suggest(ctx context.Context, query string, candidates []string, n int) ([]core.Suggestion, error)
}
