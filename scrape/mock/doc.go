// Package mock provides a test double implementation of scrape.Scraper.
//
// MockScraper runs without any network dependency and enables
// controlled, deterministic behavior in tests:
//
//	s := mock.NewMockScraper("acme").
//	    WithFixture("adobe photoshop", []core.Listing{{Title: "Photoshop", Marketplace: "acme"}})
//
//	listings, err := s.Search(ctx, "adobe photoshop")
//	queries := s.Queries()
//
// Without fixtures, every query yields one synthetic listing derived
// from the query text. Errors and response delays can be injected with
// WithError and WithDelay.
package mock
