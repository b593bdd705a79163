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


package maintain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/marketlens/marketlens/catalog"
)

const (
	// DefaultTopVendors is how many of the busiest vendors to warm.
	DefaultTopVendors = 10

	// DefaultSolutionsPerVendor bounds warmed searches per vendor.
	DefaultSolutionsPerVendor = 3

	// DefaultPoolSize is the number of concurrent warm searches.
	DefaultPoolSize = 4

	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
	reportInterval     = 5
)

// Warmer executes one search so its result lands in the cache.
// The prewarmer only cares that the search ran; results are discarded.
type Warmer func(ctx context.Context, vendor, solution string) error

// Report summarizes a prewarm run.
type Report struct {
	Warmed  int
	Failed  int
	Elapsed time.Duration
}

// Prewarmer runs searches for popular catalog entries ahead of user traffic.
type Prewarmer struct {
	catalog *catalog.Catalog
	warm    Warmer
	pool    *ants.Pool
	logger  *slog.Logger

	topVendors         int
	solutionsPerVendor int
	maxAttempts        int
	baseDelay          time.Duration
	progressWriter     io.Writer
}

// Option configures a Prewarmer.
type Option func(*Prewarmer) error

// WithTopVendors sets how many of the busiest vendors to warm.
func WithTopVendors(n int) Option {
	return func(p *Prewarmer) error {
		if n <= 0 {
			return errors.New("top vendors must be positive")
		}
		p.topVendors = n
		return nil
	}
}

// WithSolutionsPerVendor bounds how many solutions are warmed per vendor.
func WithSolutionsPerVendor(n int) Option {
	return func(p *Prewarmer) error {
		if n <= 0 {
			return errors.New("solutions per vendor must be positive")
		}
		p.solutionsPerVendor = n
		return nil
	}
}

// WithPoolSize replaces the worker pool with one of the given size.
func WithPoolSize(size int) Option {
	return func(p *Prewarmer) error {
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithRetry sets the retry policy for individual warm searches.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Prewarmer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithProgressWriter enables progress reporting to the given writer.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Prewarmer) error {
		p.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prewarmer) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPrewarmer creates a prewarmer over the given catalog and warm function.
func NewPrewarmer(cat *catalog.Catalog, warm Warmer, opts ...Option) (*Prewarmer, error) {
	if warm == nil {
		return nil, ErrWarmerRequired
	}
	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Prewarmer{
		catalog:            cat,
		warm:               warm,
		pool:               pool,
		logger:             slog.Default(),
		topVendors:         DefaultTopVendors,
		solutionsPerVendor: DefaultSolutionsPerVendor,
		maxAttempts:        defaultMaxAttempts,
		baseDelay:          defaultBaseDelay,
		progressWriter:     io.Discard,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release releases the worker pool. The prewarmer should not be used
// after calling Release.
func (p *Prewarmer) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Run warms the cache for the busiest vendors and returns a run report.
// Individual search failures are counted, not fatal.
func (p *Prewarmer) Run(ctx context.Context) (Report, error) {
	type pair struct {
		vendor   string
		solution string
	}

	var pairs []pair
	for _, vendor := range p.catalog.TopVendors(p.topVendors) {
		solutions := p.catalog.SolutionsFor(vendor)
		if len(solutions) > p.solutionsPerVendor {
			solutions = solutions[:p.solutionsPerVendor]
		}
		for _, solution := range solutions {
			pairs = append(pairs, pair{vendor: vendor, solution: solution})
		}
	}

	tracker := NewProgressTracker(p.progressWriter, len(pairs), reportInterval)
	tracker.Start()

	var warmed, failed atomic.Int64
	var wg sync.WaitGroup

	for _, pr := range pairs {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			defer tracker.Increment(1)

			err := RetryWithBackoff(ctx, func() error {
				return p.warm(ctx, pr.vendor, pr.solution)
			}, p.maxAttempts, p.baseDelay)
			if err != nil {
				failed.Add(1)
				p.logger.Warn("prewarm search failed",
					"vendor", pr.vendor,
					"solution", pr.solution,
					"err", err)
				return
			}
			warmed.Add(1)
		})
		if err != nil {
			wg.Done()
			tracker.Increment(1)
			failed.Add(1)
			p.logger.Error("failed to submit prewarm task", "vendor", pr.vendor, "err", err)
		}
	}
	wg.Wait()
	tracker.Finish()

	report := Report{
		Warmed:  int(warmed.Load()),
		Failed:  int(failed.Load()),
		Elapsed: tracker.Elapsed(),
	}
	p.logger.Info("prewarm complete",
		"warmed", report.Warmed,
		"failed", report.Failed,
		"elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}
