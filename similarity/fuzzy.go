package similarity

import (
	"sort"
	"strings"
)

// Ratio computes the indel similarity of two strings in [0,100]:
// 100 * 2*LCS(a,b) / (len(a)+len(b)), over runes. Returns 0 when both
// strings are empty. Inputs are compared as-is; callers that want
// case-insensitive behavior lowercase first.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return 100 * 2 * float64(lcsLength(ra, rb)) / float64(total)
}

// PartialRatio computes the best Ratio of the shorter string against
// every window of its length in the longer string. This rewards titles
// that embed the query with extra branding text around it.
func PartialRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	if len(ra) == len(rb) {
		return Ratio(string(ra), string(rb))
	}

	var best float64
	for i := 0; i+len(ra) <= len(rb); i++ {
		score := Ratio(string(ra), string(rb[i:i+len(ra)]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares
// the rejoined forms. Word order differences score 100.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio compares the sorted token intersection of both strings
// against each side's full sorted token string, returning the maximum.
// Extra tokens on one side are largely forgiven.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)

	setA := make(map[string]struct{}, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tokensB))
	for _, tok := range tokensB {
		setB[tok] = struct{}{}
	}

	var common, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	joinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	joinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := Ratio(base, joinedA)
	if score := Ratio(base, joinedB); score > best {
		best = score
	}
	if score := Ratio(joinedA, joinedB); score > best {
		best = score
	}
	return best
}

// FuzzyScore computes the hybrid fuzzy similarity of two strings in
// [0,100]: the maximum over the full ratio, partial-substring ratio,
// token-sort ratio, and token-set ratio. Comparison is case-insensitive.
// Returns 0 if either input is empty. Taking the max over complementary
// variants is more robust to word order and extra branding text than any
// single metric.
func FuzzyScore(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	best := Ratio(la, lb)
	if score := PartialRatio(la, lb); score > best {
		best = score
	}
	if score := TokenSortRatio(la, lb); score > best {
		best = score
	}
	if score := TokenSetRatio(la, lb); score > best {
		best = score
	}
	return best
}

func sortedTokenString(s string) string {
	tokens := tokenize(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// lcsLength computes the longest common subsequence length using two
// rolling rows.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
