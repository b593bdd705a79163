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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/marketlens/marketlens"
	"github.com/marketlens/marketlens/catalog"
	"github.com/marketlens/marketlens/maintain"
	"github.com/marketlens/marketlens/scrape"
	"github.com/marketlens/marketlens/scrape/mock"
	storagebadger "github.com/marketlens/marketlens/storage/badger"
	"github.com/marketlens/marketlens/suggest"
	"github.com/marketlens/marketlens/suggest/openai"
)

func main() {
	app := &cli.App{
		Name:  "marketlens",
		Usage: "Search software marketplaces for vendor solutions with persistent result caching",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search marketplaces for a vendor solution",
				ArgsUsage: "VENDOR [SOLUTION]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to cache database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to catalog CSV (vendor, solution_name columns)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "marketplaces",
						Usage: "Comma-separated marketplace names to search",
						Value: "acme,globex",
					},
					&cli.StringFlag{
						Name:  "suggest-host",
						Usage: "OpenAI-compatible host for alternative suggestions (disabled if empty)",
					},
					&cli.StringFlag{
						Name:  "suggest-model",
						Usage: "Chat model for alternative suggestions",
						Value: "qwen2.5:3b",
					},
				},
			},
			{
				Name:   "vendors",
				Usage:  "List catalog vendors and their solutions",
				Action: vendorsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to catalog CSV (vendor, solution_name columns)",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Report result cache statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to cache database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "cleanup",
				Usage:  "Remove expired entries from the result cache",
				Action: cleanupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to cache database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "prewarm",
				Usage:  "Warm the cache for the busiest catalog vendors",
				Action: prewarmCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to cache database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to catalog CSV (vendor, solution_name columns)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "marketplaces",
						Usage: "Comma-separated marketplace names to search",
						Value: "acme,globex",
					},
					&cli.IntFlag{
						Name:  "top-vendors",
						Usage: "How many of the busiest vendors to warm",
						Value: maintain.DefaultTopVendors,
					},
					&cli.IntFlag{
						Name:  "solutions-per-vendor",
						Usage: "How many solutions to warm per vendor",
						Value: maintain.DefaultSolutionsPerVendor,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadCatalog(c *cli.Context) (*catalog.Catalog, error) {
	cat, err := catalog.Load(context.Background(), catalog.CSVLoader{Path: c.String("catalog")})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// buildScrapers creates one scraper per named marketplace. Marketplace
// connectors are deployment-specific; the built-in scrapers answer every
// query with synthetic listings so the full pipeline can be exercised.
func buildScrapers(names string) []scrape.Scraper {
	var scrapers []scrape.Scraper
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		scrapers = append(scrapers, mock.NewMockScraper(name))
	}
	return scrapers
}

func openApp(c *cli.Context) (*marketlens.App, error) {
	cat, err := loadCatalog(c)
	if err != nil {
		return nil, err
	}

	var opts []marketlens.AppOption
	if host := c.String("suggest-host"); host != "" {
		cfg := suggest.NewConfig(
			suggest.WithHost(host),
			suggest.WithModel(c.String("suggest-model")),
		)
		cfg.Normalize()
		suggester, err := openai.NewSuggester(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create suggester: %w", err)
		}
		opts = append(opts, marketlens.WithSuggester(suggester))
	}

	app, err := marketlens.NewApp(cat, c.String("db"), buildScrapers(c.String("marketplaces")), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open application: %w", err)
	}
	return app, nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("vendor argument is required")
	}
	vendor := c.Args().Get(0)
	solution := strings.Join(c.Args().Slice()[1:], " ")

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	result, cached, err := app.Search(context.Background(), vendor, solution)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	source := "live"
	if cached {
		source = "cache"
	}
	fmt.Printf("Result %s (%s, %s)\n", result.ID, result.ResultType, source)
	fmt.Printf("Canonical: %s / %s (vendor %.1f, solution %.1f)\n",
		result.Canonicalization.MappedVendor,
		result.Canonicalization.MappedSolution,
		result.Canonicalization.VendorScore,
		result.Canonicalization.SolutionScore)

	for _, m := range result.Marketplaces {
		fmt.Printf("\n%s (%d listings)\n", m.Marketplace, len(m.Listings))
		for _, l := range m.Listings {
			fmt.Printf("  [%5.1f] %s %s\n", l.Confidence, l.Title, l.Link)
		}
	}

	if len(result.Summary.BestMatches) > 0 {
		fmt.Printf("\nBest matches:\n")
		for _, l := range result.Summary.BestMatches {
			fmt.Printf("  [%5.1f] %s (%s)\n", l.Confidence, l.Title, l.Marketplace)
		}
	}

	if len(result.Suggestions) > 0 {
		fmt.Printf("\nNot in catalog. Comparable products:\n")
		for _, s := range result.Suggestions {
			fmt.Printf("  %s - %s\n", s.Name, s.Reason)
		}
	}
	return nil
}

func vendorsCommand(c *cli.Context) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}

	for _, vendor := range cat.Vendors() {
		solutions := cat.SolutionsFor(vendor)
		fmt.Printf("%s (%d)\n", vendor, len(solutions))
		for _, s := range solutions {
			fmt.Printf("  %s\n", s)
		}
	}
	return nil
}

// openCache opens the result cache without the search machinery, for
// commands that only touch storage.
func openCache(c *cli.Context) (*storagebadger.Cache, error) {
	backend, err := storagebadger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	cache, err := storagebadger.NewCache(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return cache, nil
}

func statsCommand(c *cli.Context) error {
	cache, err := openCache(c)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Entries: %d\n", stats.TotalEntries)
	fmt.Printf("Avg access count: %.2f\n", stats.AvgAccessCount)
	if len(stats.CountsByResultType) > 0 {
		fmt.Println("By result type:")
		for resultType, count := range stats.CountsByResultType {
			fmt.Printf("  %s: %d\n", resultType, count)
		}
	}
	if len(stats.TopVendors) > 0 {
		fmt.Println("Top vendors:")
		for _, vc := range stats.TopVendors {
			fmt.Printf("  %s: %d\n", vc.Vendor, vc.Count)
		}
	}
	return nil
}

func cleanupCommand(c *cli.Context) error {
	cache, err := openCache(c)
	if err != nil {
		return err
	}
	defer cache.Close()

	removed, err := cache.CleanupExpired(context.Background())
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Printf("Removed %d expired entries\n", removed)
	return nil
}

func prewarmCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	prewarmer, err := app.NewPrewarmer(
		maintain.WithTopVendors(c.Int("top-vendors")),
		maintain.WithSolutionsPerVendor(c.Int("solutions-per-vendor")),
		maintain.WithProgressWriter(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create prewarmer: %w", err)
	}
	defer prewarmer.Release()

	report, err := prewarmer.Run(context.Background())
	if err != nil {
		return fmt.Errorf("prewarm failed: %w", err)
	}
	fmt.Printf("Warmed %d searches (%d failed) in %s\n",
		report.Warmed, report.Failed, report.Elapsed.Round(time.Millisecond))
	return nil
}
