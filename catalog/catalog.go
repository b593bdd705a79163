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


// Package catalog holds the curated reference list of known vendors and
// their solutions. A Catalog is built once at startup and is immutable
// for the process lifetime, so it is safe for unlimited concurrent
// readers without locking. Reload = build a new Catalog.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Catalog is an in-memory index of known (vendor, solutions) pairs.
type Catalog struct {
	vendors           []string            // sorted
	solutionsByVendor map[string][]string // sorted per vendor
	pairs             map[string]struct{} // lowercase "vendor|solution"
	lowerVendors      map[string]struct{}
	lowerSolutions    map[string]struct{}
}

// Load builds a Catalog from the given loader. The vendor list is
// deduplicated and sorted; each vendor's solution list is deduplicated
// and sorted for lookup determinism. An unreadable or empty source is a
// fatal error — the caller decides fallback behavior.
func Load(ctx context.Context, loader Loader) (*Catalog, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}

	rows, err := loader.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	c := &Catalog{
		solutionsByVendor: make(map[string][]string),
		pairs:             make(map[string]struct{}, len(rows)),
		lowerVendors:      make(map[string]struct{}),
		lowerSolutions:    make(map[string]struct{}),
	}

	seenSolution := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		vendor := strings.TrimSpace(row.Vendor)
		solution := strings.TrimSpace(row.Solution)
		if vendor == "" {
			continue
		}

		if _, ok := c.solutionsByVendor[vendor]; !ok {
			c.vendors = append(c.vendors, vendor)
			c.solutionsByVendor[vendor] = nil
		}
		c.lowerVendors[strings.ToLower(vendor)] = struct{}{}

		if solution == "" {
			continue
		}
		pairKey := strings.ToLower(vendor) + "|" + strings.ToLower(solution)
		if _, dup := seenSolution[pairKey]; !dup {
			seenSolution[pairKey] = struct{}{}
			c.solutionsByVendor[vendor] = append(c.solutionsByVendor[vendor], solution)
		}
		c.pairs[pairKey] = struct{}{}
		c.lowerSolutions[strings.ToLower(solution)] = struct{}{}
	}

	if len(c.vendors) == 0 {
		return nil, ErrEmptyCatalog
	}

	sort.Strings(c.vendors)
	for vendor := range c.solutionsByVendor {
		sort.Strings(c.solutionsByVendor[vendor])
	}

	return c, nil
}

// Vendors returns the sorted list of known vendors.
// The returned slice must not be mutated.
func (c *Catalog) Vendors() []string {
	return c.vendors
}

// SolutionsFor returns the sorted solutions of a vendor (exact name),
// or an empty slice if the vendor is unknown.
func (c *Catalog) SolutionsFor(vendor string) []string {
	return c.solutionsByVendor[vendor]
}

// Contains reports whether the catalog holds the given vendor/solution
// pair, case-insensitively. A blank field is a wildcard: the check then
// applies to the other field only. Both blank is never a match.
func (c *Catalog) Contains(vendor, solution string) bool {
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	solution = strings.ToLower(strings.TrimSpace(solution))

	switch {
	case vendor != "" && solution != "":
		_, ok := c.pairs[vendor+"|"+solution]
		return ok
	case vendor != "":
		_, ok := c.lowerVendors[vendor]
		return ok
	case solution != "":
		_, ok := c.lowerSolutions[solution]
		return ok
	default:
		return false
	}
}

// Len returns the number of known vendors.
func (c *Catalog) Len() int {
	return len(c.vendors)
}

// AllSolutions returns every solution name across all vendors, sorted,
// deduplicated. Used by the suggestion collaborator.
func (c *Catalog) AllSolutions() []string {
	seen := make(map[string]struct{})
	var all []string
	for _, vendor := range c.vendors {
		for _, solution := range c.solutionsByVendor[vendor] {
			if _, dup := seen[solution]; !dup {
				seen[solution] = struct{}{}
				all = append(all, solution)
			}
		}
	}
	sort.Strings(all)
	return all
}

// TopVendors returns up to n vendors ordered by solution count
// descending, ties broken alphabetically. Used by cache prewarming.
func (c *Catalog) TopVendors(n int) []string {
	vendors := make([]string, len(c.vendors))
	copy(vendors, c.vendors)
	sort.SliceStable(vendors, func(i, j int) bool {
		return len(c.solutionsByVendor[vendors[i]]) > len(c.solutionsByVendor[vendors[j]])
	})
	if n > 0 && len(vendors) > n {
		vendors = vendors[:n]
	}
	return vendors
}
