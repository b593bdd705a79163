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


// Package rank scores, deduplicates, and orders raw marketplace
// listings against a canonical query. Rankers are stateless and safe
// for concurrent use.
package rank

import (
	"sort"
	"strings"

	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/similarity"
)

// Hybrid confidence weighting. Fuzzy matching dominates because
// marketplace titles are short and token-overlap-sensitive; TF-IDF
// corrects for semantically related but lexically distant phrasing.
const (
	FuzzyWeight = 0.60
	TFIDFWeight = 0.40

	// BestMatchThreshold marks a listing as plausibly relevant.
	BestMatchThreshold = 30.0
)

// Ranker scores and orders listings.
type Ranker struct{}

// NewRanker creates a new Ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Score computes the hybrid confidence of a listing title against the
// query. When the solution is blank the title is compared against the
// vendor alone (vendor-only matching mode).
func (r *Ranker) Score(title, vendor, solution string) (float64, core.ScoreBreakdown) {
	target := solution
	if strings.TrimSpace(target) == "" {
		target = vendor
	}

	fuzzy := similarity.FuzzyScore(target, title)
	tfidfScores := similarity.TFIDFScores(target, []string{title})
	var tfidf float64
	if len(tfidfScores) > 0 {
		tfidf = tfidfScores[0] * 100
	}

	breakdown := core.ScoreBreakdown{Fuzzy: fuzzy, TFIDF: tfidf}
	return FuzzyWeight*fuzzy + TFIDFWeight*tfidf, breakdown
}

// DedupeAndRank removes duplicate titles (first occurrence wins), scores
// each survivor against the query, and sorts by confidence descending.
// The sort is stable: equal-confidence listings retain their original
// relative order.
func (r *Ranker) DedupeAndRank(listings []core.Listing, vendor, solution string) []core.ScoredListing {
	seen := make(map[core.ID]struct{}, len(listings))
	scored := make([]core.ScoredListing, 0, len(listings))

	for _, listing := range listings {
		titleID := core.IDFromContent(listing.Title)
		if _, dup := seen[titleID]; dup {
			continue
		}
		seen[titleID] = struct{}{}

		confidence, breakdown := r.Score(listing.Title, vendor, solution)
		scored = append(scored, core.ScoredListing{
			Listing:    listing,
			Confidence: confidence,
			Breakdown:  breakdown,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})
	return scored
}

// Summarize concatenates all marketplaces' scored listings, keeps those
// above the best-match threshold, and sorts descending by confidence.
func (r *Ranker) Summarize(marketplaces []core.MarketplaceResults) core.Summary {
	var best []core.ScoredListing
	for _, m := range marketplaces {
		for _, listing := range m.Listings {
			if listing.Confidence > BestMatchThreshold {
				best = append(best, listing)
			}
		}
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Confidence > best[j].Confidence
	})
	return core.Summary{BestMatches: best}
}
