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


// Package match canonicalizes free-text vendor/solution input against
// the catalog. Mappers are read-only after construction and safe for
// concurrent use.
package match

import (
	"errors"

	"github.com/marketlens/marketlens/catalog"
	"github.com/marketlens/marketlens/similarity"
)

// DefaultThreshold is the minimum fuzzy score for a canonical mapping
// to be accepted; below it the original input is carried through.
const DefaultThreshold = 50.0

// ErrCatalogRequired is returned when a catalog is not provided.
var ErrCatalogRequired = errors.New("catalog required")

// Mapper maps free-text vendor/solution input to the closest catalog entry.
type Mapper struct {
	catalog   *catalog.Catalog
	threshold float64
}

// Option configures a Mapper.
type Option func(*Mapper) error

// WithThreshold overrides the minimum accepted mapping score.
// Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(m *Mapper) error {
		m.threshold = threshold
		return nil
	}
}

// NewMapper creates a new canonical mapper over the given catalog.
func NewMapper(cat *catalog.Catalog, opts ...Option) (*Mapper, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	m := &Mapper{
		catalog:   cat,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MapVendor maps the input to the closest catalog vendor.
// An exact (case-sensitive) catalog vendor short-circuits with score 100.
// Otherwise every catalog vendor is fuzzy-scored and the maximum wins if
// it reaches the threshold; ties keep the first-encountered vendor,
// which is deterministic because the vendor list is sorted.
// No acceptable match returns the input unchanged with score 0.
func (m *Mapper) MapVendor(input string) (string, float64) {
	if input == "" || m.catalog.Len() == 0 {
		return input, 0
	}

	vendors := m.catalog.Vendors()
	for _, vendor := range vendors {
		if vendor == input {
			return vendor, 100
		}
	}

	bestMatch := input
	var bestScore float64
	for _, vendor := range vendors {
		if score := similarity.FuzzyScore(input, vendor); score > bestScore {
			bestScore = score
			bestMatch = vendor
		}
	}

	if bestScore >= m.threshold {
		return bestMatch, bestScore
	}
	return input, 0
}

// MapSolution maps the input to the closest solution of the given
// vendor. The vendor must already be canonical: solution candidates are
// vendor-scoped. Blank input returns immediately without scanning.
func (m *Mapper) MapSolution(vendor, input string) (string, float64) {
	if input == "" || vendor == "" {
		return input, 0
	}

	solutions := m.catalog.SolutionsFor(vendor)
	if len(solutions) == 0 {
		return input, 0
	}

	for _, solution := range solutions {
		if solution == input {
			return solution, 100
		}
	}

	bestMatch := input
	var bestScore float64
	for _, solution := range solutions {
		if score := similarity.FuzzyScore(input, solution); score > bestScore {
			bestScore = score
			bestMatch = solution
		}
	}

	if bestScore >= m.threshold {
		return bestMatch, bestScore
	}
	return input, 0
}
