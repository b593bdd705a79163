package similarity

import (
	"math"
	"sort"
	"strings"
)

// defaultMaxFeatures caps the vocabulary at the top terms by corpus
// frequency, mirroring a bounded request-scoped vector space.
const defaultMaxFeatures = 1000

// TFIDFScores builds a TF-IDF vector space over the query and all
// candidates (unigrams + bigrams, vocabulary capped at the top 1000
// terms by corpus frequency) and returns the cosine similarity of the
// query against each candidate, one score in [0,1] per candidate.
//
// It never fails: an empty query, empty candidate list, or degenerate
// vocabulary yields an all-zero vector.
func TFIDFScores(query string, candidates []string) []float64 {
	scores := make([]float64, len(candidates))
	if strings.TrimSpace(query) == "" || len(candidates) == 0 {
		return scores
	}

	// Fit jointly over {query} ∪ candidates.
	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, extractTerms(query))
	for _, candidate := range candidates {
		docs = append(docs, extractTerms(candidate))
	}

	vocab := buildVocabulary(docs, defaultMaxFeatures)
	if len(vocab) == 0 {
		return scores
	}

	idf := inverseDocumentFrequencies(docs, vocab)
	queryVec := vectorize(docs[0], vocab, idf)
	if queryVec == nil {
		return scores
	}

	for i := 1; i < len(docs); i++ {
		candidateVec := vectorize(docs[i], vocab, idf)
		if candidateVec == nil {
			continue
		}
		scores[i-1] = dot(queryVec, candidateVec)
	}
	return scores
}

// extractTerms preprocesses text and produces its unigram and bigram terms.
func extractTerms(text string) []string {
	tokens := strings.Fields(Preprocess(text))
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// buildVocabulary selects up to maxFeatures terms by total corpus
// frequency, breaking count ties lexicographically for determinism.
func buildVocabulary(docs [][]string, maxFeatures int) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			counts[term]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}

// inverseDocumentFrequencies computes smooth IDF per vocabulary term:
// ln((1+n)/(1+df)) + 1.
func inverseDocumentFrequencies(docs [][]string, vocab map[string]int) []float64 {
	df := make([]int, len(vocab))
	seen := make(map[int]bool, len(vocab))
	for _, doc := range docs {
		clear(seen)
		for _, term := range doc {
			if idx, ok := vocab[term]; ok && !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, count := range df {
		idf[i] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return idf
}

// vectorize builds the L2-normalized TF-IDF vector for a document.
// Returns nil for documents with no in-vocabulary terms.
func vectorize(doc []string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(vocab))
	var any bool
	for _, term := range doc {
		if idx, ok := vocab[term]; ok {
			vec[idx] += idf[idx]
			any = true
		}
	}
	if !any {
		return nil
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
