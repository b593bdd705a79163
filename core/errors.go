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

import "errors"

// Domain validation errors
var (
	// ErrInvalidListing indicates a Listing failed validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidCacheEntry indicates a CacheEntry failed validation.
	ErrInvalidCacheEntry = errors.New("invalid cache entry")

	// ErrEmptyTitle indicates the listing Title field is empty.
	ErrEmptyTitle = errors.New("listing title cannot be empty")

	// ErrEmptyMarketplace indicates the listing Marketplace field is empty.
	ErrEmptyMarketplace = errors.New("listing marketplace cannot be empty")

	// ErrInvalidResultType indicates an invalid ResultType value.
	ErrInvalidResultType = errors.New("invalid result type")

	// ErrInvalidConfidence indicates a confidence score outside [0,100].
	ErrInvalidConfidence = errors.New("confidence must be in [0,100]")

	// ErrInvalidAccessCount indicates an access count below 1.
	ErrInvalidAccessCount = errors.New("access count must be at least 1")
)
