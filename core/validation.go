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


package core

import "fmt"

// ValidateListing validates a Listing according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Marketplace must not be empty
//
// NOT validated (optional per the scraping contract):
//   - Link (scrapers may fail to resolve one)
//   - Vendor, Description
func ValidateListing(listing *Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: listing is nil", ErrInvalidListing)
	}

	if listing.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyTitle)
	}

	if listing.Marketplace == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyMarketplace)
	}

	return nil
}

// ValidateResultType validates a ResultType value.
func ValidateResultType(t ResultType) error {
	switch t {
	case ResultTypeExactMatch, ResultTypeFuzzyMatch, ResultTypeDirectScrape, ResultTypeTest:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidResultType, t)
	}
}

// ValidateScoredListing validates a ScoredListing according to domain rules.
//
// Validation rules:
//   - the embedded Listing must be valid
//   - Confidence and both breakdown components must be in [0,100]
func ValidateScoredListing(listing *ScoredListing) error {
	if listing == nil {
		return fmt.Errorf("%w: scored listing is nil", ErrInvalidListing)
	}

	if err := ValidateListing(&listing.Listing); err != nil {
		return err
	}

	if !inScoreRange(listing.Confidence) ||
		!inScoreRange(listing.Breakdown.Fuzzy) ||
		!inScoreRange(listing.Breakdown.TFIDF) {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrInvalidConfidence)
	}

	return nil
}

// ValidateCacheEntry validates a CacheEntry according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//   - AccessCount must be at least 1
//   - ResultType must be valid
func ValidateCacheEntry(entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidCacheEntry)
	}

	if entry.Key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidCacheEntry)
	}

	if entry.AccessCount < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidCacheEntry, ErrInvalidAccessCount)
	}

	if err := ValidateResultType(entry.ResultType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCacheEntry, err)
	}

	return nil
}

func inScoreRange(v float64) bool {
	return v >= 0 && v <= 100
}
