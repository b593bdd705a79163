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

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the cached search result graph. Timestamps are
// encoded as Unix microseconds; slices carry a varint length prefix.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

// ResultTypeMUS serializes ResultType values.
var ResultTypeMUS = resultTypeMUS{}

type resultTypeMUS struct{}

func (s resultTypeMUS) Marshal(v ResultType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s resultTypeMUS) Unmarshal(bs []byte) (v ResultType, n int, err error) {
	i, n, err := varint.Int.Unmarshal(bs)
	return ResultType(i), n, err
}

func (s resultTypeMUS) Size(v ResultType) int {
	return varint.Int.Size(int(v))
}

// timeMUS serializes time.Time as Unix microseconds.
type timeMUS struct{}

var timeSer = timeMUS{}

func (s timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (s timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

// QueryMUS serializes Query values.
var QueryMUS = queryMUS{}

type queryMUS struct{}

func (s queryMUS) Marshal(v Query, bs []byte) (n int) {
	n = ord.String.Marshal(v.OriginalVendor, bs)
	n += ord.String.Marshal(v.OriginalSolution, bs[n:])
	return n
}

func (s queryMUS) Unmarshal(bs []byte) (v Query, n int, err error) {
	v.OriginalVendor, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.OriginalSolution, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s queryMUS) Size(v Query) int {
	return ord.String.Size(v.OriginalVendor) + ord.String.Size(v.OriginalSolution)
}

// CanonicalizationMUS serializes Canonicalization values.
var CanonicalizationMUS = canonicalizationMUS{}

type canonicalizationMUS struct{}

func (s canonicalizationMUS) Marshal(v Canonicalization, bs []byte) (n int) {
	n = ord.String.Marshal(v.MappedVendor, bs)
	n += ord.String.Marshal(v.MappedSolution, bs[n:])
	n += varint.Float64.Marshal(v.VendorScore, bs[n:])
	n += varint.Float64.Marshal(v.SolutionScore, bs[n:])
	return n
}

func (s canonicalizationMUS) Unmarshal(bs []byte) (v Canonicalization, n int, err error) {
	var n1 int
	v.MappedVendor, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.MappedSolution, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.VendorScore, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SolutionScore, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s canonicalizationMUS) Size(v Canonicalization) int {
	return ord.String.Size(v.MappedVendor) + ord.String.Size(v.MappedSolution) +
		varint.Float64.Size(v.VendorScore) + varint.Float64.Size(v.SolutionScore)
}

// ListingMUS serializes Listing values.
var ListingMUS = listingMUS{}

type listingMUS struct{}

func (s listingMUS) Marshal(v Listing, bs []byte) (n int) {
	n = ord.String.Marshal(v.Title, bs)
	n += ord.String.Marshal(v.Link, bs[n:])
	n += ord.String.Marshal(v.Marketplace, bs[n:])
	n += ord.String.Marshal(v.Vendor, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	return n
}

func (s listingMUS) Unmarshal(bs []byte) (v Listing, n int, err error) {
	var n1 int
	v.Title, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Link, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Marketplace, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vendor, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s listingMUS) Size(v Listing) int {
	return ord.String.Size(v.Title) + ord.String.Size(v.Link) +
		ord.String.Size(v.Marketplace) + ord.String.Size(v.Vendor) +
		ord.String.Size(v.Description)
}

// ScoredListingMUS serializes ScoredListing values.
var ScoredListingMUS = scoredListingMUS{}

type scoredListingMUS struct{}

func (s scoredListingMUS) Marshal(v ScoredListing, bs []byte) (n int) {
	n = ListingMUS.Marshal(v.Listing, bs)
	n += varint.Float64.Marshal(v.Confidence, bs[n:])
	n += varint.Float64.Marshal(v.Breakdown.Fuzzy, bs[n:])
	n += varint.Float64.Marshal(v.Breakdown.TFIDF, bs[n:])
	return n
}

func (s scoredListingMUS) Unmarshal(bs []byte) (v ScoredListing, n int, err error) {
	var n1 int
	v.Listing, n, err = ListingMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Confidence, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Breakdown.Fuzzy, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Breakdown.TFIDF, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s scoredListingMUS) Size(v ScoredListing) int {
	return ListingMUS.Size(v.Listing) + varint.Float64.Size(v.Confidence) +
		varint.Float64.Size(v.Breakdown.Fuzzy) + varint.Float64.Size(v.Breakdown.TFIDF)
}

func marshalScoredListings(v []ScoredListing, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for i := range v {
		n += ScoredListingMUS.Marshal(v[i], bs[n:])
	}
	return n
}

func unmarshalScoredListings(bs []byte) (v []ScoredListing, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]ScoredListing, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = ScoredListingMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeScoredListings(v []ScoredListing) (size int) {
	size = varint.Int.Size(len(v))
	for i := range v {
		size += ScoredListingMUS.Size(v[i])
	}
	return size
}

// MarketplaceResultsMUS serializes MarketplaceResults values.
var MarketplaceResultsMUS = marketplaceResultsMUS{}

type marketplaceResultsMUS struct{}

func (s marketplaceResultsMUS) Marshal(v MarketplaceResults, bs []byte) (n int) {
	n = ord.String.Marshal(v.Marketplace, bs)
	n += marshalScoredListings(v.Listings, bs[n:])
	return n
}

func (s marketplaceResultsMUS) Unmarshal(bs []byte) (v MarketplaceResults, n int, err error) {
	var n1 int
	v.Marketplace, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Listings, n1, err = unmarshalScoredListings(bs[n:])
	n += n1
	return
}

func (s marketplaceResultsMUS) Size(v MarketplaceResults) int {
	return ord.String.Size(v.Marketplace) + sizeScoredListings(v.Listings)
}

// SuggestionMUS serializes Suggestion values.
var SuggestionMUS = suggestionMUS{}

type suggestionMUS struct{}

func (s suggestionMUS) Marshal(v Suggestion, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.Reason, bs[n:])
	return n
}

func (s suggestionMUS) Unmarshal(bs []byte) (v Suggestion, n int, err error) {
	var n1 int
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s suggestionMUS) Size(v Suggestion) int {
	return ord.String.Size(v.Name) + ord.String.Size(v.Reason)
}

// SearchResultMUS serializes SearchResult values.
var SearchResultMUS = searchResultMUS{}

type searchResultMUS struct{}

func (s searchResultMUS) Marshal(v SearchResult, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += QueryMUS.Marshal(v.Query, bs[n:])
	n += CanonicalizationMUS.Marshal(v.Canonicalization, bs[n:])
	n += ResultTypeMUS.Marshal(v.ResultType, bs[n:])
	n += varint.Int.Marshal(len(v.Marketplaces), bs[n:])
	for i := range v.Marketplaces {
		n += MarketplaceResultsMUS.Marshal(v.Marketplaces[i], bs[n:])
	}
	n += marshalScoredListings(v.Summary.BestMatches, bs[n:])
	n += varint.Int.Marshal(len(v.Suggestions), bs[n:])
	for i := range v.Suggestions {
		n += SuggestionMUS.Marshal(v.Suggestions[i], bs[n:])
	}
	n += timeSer.Marshal(v.SearchedAt, bs[n:])
	return n
}

func (s searchResultMUS) Unmarshal(bs []byte) (v SearchResult, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Query, n1, err = QueryMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Canonicalization, n1, err = CanonicalizationMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ResultType, n1, err = ResultTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length > 0 {
		v.Marketplaces = make([]MarketplaceResults, length)
		for i := 0; i < length; i++ {
			v.Marketplaces[i], n1, err = MarketplaceResultsMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	v.Summary.BestMatches, n1, err = unmarshalScoredListings(bs[n:])
	n += n1
	if err != nil {
		return
	}
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length > 0 {
		v.Suggestions = make([]Suggestion, length)
		for i := 0; i < length; i++ {
			v.Suggestions[i], n1, err = SuggestionMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	v.SearchedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (s searchResultMUS) Size(v SearchResult) (size int) {
	size = ord.String.Size(v.ID)
	size += QueryMUS.Size(v.Query)
	size += CanonicalizationMUS.Size(v.Canonicalization)
	size += ResultTypeMUS.Size(v.ResultType)
	size += varint.Int.Size(len(v.Marketplaces))
	for i := range v.Marketplaces {
		size += MarketplaceResultsMUS.Size(v.Marketplaces[i])
	}
	size += sizeScoredListings(v.Summary.BestMatches)
	size += varint.Int.Size(len(v.Suggestions))
	for i := range v.Suggestions {
		size += SuggestionMUS.Size(v.Suggestions[i])
	}
	size += timeSer.Size(v.SearchedAt)
	return size
}

// CacheEntryMUS serializes CacheEntry values.
var CacheEntryMUS = cacheEntryMUS{}

type cacheEntryMUS struct{}

func (s cacheEntryMUS) Marshal(v CacheEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Key, bs)
	n += ord.String.Marshal(v.Vendor, bs[n:])
	n += ord.String.Marshal(v.Solution, bs[n:])
	n += SearchResultMUS.Marshal(v.Result, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	n += timeSer.Marshal(v.LastAccessedAt, bs[n:])
	n += varint.Int64.Marshal(v.AccessCount, bs[n:])
	n += ResultTypeMUS.Marshal(v.ResultType, bs[n:])
	return n
}

func (s cacheEntryMUS) Unmarshal(bs []byte) (v CacheEntry, n int, err error) {
	var n1 int
	v.Key, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Vendor, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Solution, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Result, n1, err = SearchResultMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LastAccessedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.AccessCount, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ResultType, n1, err = ResultTypeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s cacheEntryMUS) Size(v CacheEntry) int {
	return ord.String.Size(v.Key) + ord.String.Size(v.Vendor) +
		ord.String.Size(v.Solution) + SearchResultMUS.Size(v.Result) +
		timeSer.Size(v.CreatedAt) + timeSer.Size(v.LastAccessedAt) +
		varint.Int64.Size(v.AccessCount) + ResultTypeMUS.Size(v.ResultType)
}
