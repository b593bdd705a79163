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


// Package marketlens searches software marketplaces for vendor solutions
// and memoizes the results in a persistent, self-pruning cache.
package marketlens

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marketlens/marketlens/catalog"
	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/maintain"
	"github.com/marketlens/marketlens/scrape"
	"github.com/marketlens/marketlens/search"
	"github.com/marketlens/marketlens/storage"
	"github.com/marketlens/marketlens/storage/badger"
	"github.com/marketlens/marketlens/suggest"
)

// App wires the catalog, the search orchestrator, and the result cache
// into the cache-first search flow.
type App struct {
	catalog      *catalog.Catalog
	cache        storage.ResultCache
	orchestrator *search.Orchestrator
	logger       *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	suggester     suggest.Suggester
	cacheOpts     []badger.Option
	searchOpts    []search.Option
	inMemoryCache bool
}

// WithSuggester sets the suggester used on the direct-scrape path.
func WithSuggester(s suggest.Suggester) AppOption {
	return func(o *appOptions) {
		o.suggester = s
	}
}

// WithCacheOptions passes options through to the result cache.
func WithCacheOptions(opts ...badger.Option) AppOption {
	return func(o *appOptions) {
		o.cacheOpts = append(o.cacheOpts, opts...)
	}
}

// WithSearchOptions passes options through to the search orchestrator.
func WithSearchOptions(opts ...search.Option) AppOption {
	return func(o *appOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// WithInMemoryCache backs the cache with an in-memory store instead of
// a directory on disk. Intended for tests and one-off runs.
func WithInMemoryCache() AppOption {
	return func(o *appOptions) {
		o.inMemoryCache = true
	}
}

// NewApp creates the application over a catalog, a cache directory, and
// the marketplace scrapers to fan out to.
func NewApp(cat *catalog.Catalog, cachePath string, scrapers []scrape.Scraper, opts ...AppOption) (*App, error) {
	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cachePath, options.inMemoryCache)
	if err != nil {
		return nil, err
	}

	cache, err := badger.NewCache(backend, options.cacheOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	searchOpts := options.searchOpts
	if options.suggester != nil {
		searchOpts = append(searchOpts, search.WithSuggester(options.suggester))
	}
	orchestrator, err := search.NewOrchestrator(cat, scrapers, searchOpts...)
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &App{
		catalog:      cat,
		cache:        cache,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}, nil
}

// Close releases the orchestrator's worker pool and the cache backend.
func (a *App) Close() error {
	a.orchestrator.Release()
	if err := a.cache.Close(); err != nil {
		a.logger.Error("error closing result cache", "err", err)
		return err
	}
	return nil
}

// Search runs the cache-first flow for one vendor/solution query.
// A fuzzy cache hit short-circuits the marketplaces entirely; on a miss
// the search runs and its result is cached best-effort. The returned
// bool reports whether the result came from the cache.
func (a *App) Search(ctx context.Context, vendor, solution string) (*core.SearchResult, bool, error) {
	entry, err := a.cache.GetFuzzy(ctx, vendor, solution)
	if err == nil {
		a.logger.Info("cache hit",
			"vendor", vendor,
			"solution", solution,
			"key", entry.Key,
			"access_count", entry.AccessCount)
		return &entry.Result, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	result, err := a.orchestrator.Search(ctx, vendor, solution)
	if err != nil {
		return nil, false, err
	}

	if _, err := a.cache.Set(ctx, vendor, solution, result); err != nil {
		// A failed write never fails the search.
		a.logger.Error("failed to cache search result", "vendor", vendor, "solution", solution, "err", err)
	}
	return &result, false, nil
}

// Catalog returns the loaded vendor catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Cache returns the result cache for maintenance operations.
func (a *App) Cache() storage.ResultCache {
	return a.cache
}

// NewPrewarmer creates a prewarmer that warms the cache through the
// normal search path.
func (a *App) NewPrewarmer(opts ...maintain.Option) (*maintain.Prewarmer, error) {
	warm := func(ctx context.Context, vendor, solution string) error {
		_, _, err := a.Search(ctx, vendor, solution)
		return err
	}
	return maintain.NewPrewarmer(a.catalog, warm, opts...)
}
