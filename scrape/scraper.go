package scrape

import (
	"context"

	"github.com/marketlens/marketlens/core"
)

// Scraper retrieves raw listings from a single marketplace.
// Implementations must be thread-safe for concurrent use.
type Scraper interface {
	// Marketplace returns the stable identifier of the marketplace this
	// scraper covers (e.g. "acme", "globex").
	Marketplace() string

	// Search executes one query against the marketplace and returns raw,
	// unscored listings. An empty result is not an error. Implementations
	// should honor context cancellation and return ctx.Err() promptly.
	Search(ctx context.Context, query string) ([]core.Listing, error)
}
