package scrape

import "errors"

var (
	// ErrMarketplaceUnavailable indicates the marketplace could not be
	// reached or refused the request.
	ErrMarketplaceUnavailable = errors.New("marketplace unavailable")

	// ErrEmptyQuery indicates a blank query was submitted to a scraper.
	ErrEmptyQuery = errors.New("empty query")
)
