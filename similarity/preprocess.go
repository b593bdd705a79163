package similarity

import (
	"strings"
	"unicode"
)

// Stop words filtered during preprocessing before TF-IDF vectorization.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "or": true,
	"in": true, "that": true, "this": true, "these": true, "those": true,
	"have": true, "has": true, "had": true, "it": true, "its": true,
	"for": true, "not": true, "on": true, "with": true, "as": true,
	"you": true, "your": true, "do": true, "does": true, "at": true,
	"but": true, "by": true, "from": true, "into": true, "up": true,
	"down": true, "out": true, "over": true, "under": true, "all": true,
	"any": true, "both": true, "each": true, "more": true, "most": true,
	"other": true, "some": true, "such": true, "no": true, "nor": true,
	"only": true, "own": true, "same": true, "so": true, "than": true,
	"too": true, "very": true, "can": true, "will": true, "just": true,
}

// Irregular plural forms the suffix rules below would mangle.
var lemmaExceptions = map[string]string{
	"men":      "man",
	"women":    "woman",
	"children": "child",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
	"people":   "person",
	"indices":  "index",
	"matrices": "matrix",
}

// tokenize lowercases a string, replaces every non-alphanumeric rune
// with a space, and splits on whitespace.
func tokenize(text string) []string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}

// lemmatize reduces an English noun to a singular base form using a
// small exception table and suffix rules. It is intentionally crude: the
// vocabulary here is product titles, not prose.
func lemmatize(word string) string {
	if base, ok := lemmaExceptions[word]; ok {
		return base
	}
	n := len(word)
	switch {
	case n > 3 && strings.HasSuffix(word, "ies"):
		return word[:n-3] + "y"
	case n > 4 && (strings.HasSuffix(word, "sses") ||
		strings.HasSuffix(word, "ches") ||
		strings.HasSuffix(word, "shes") ||
		strings.HasSuffix(word, "xes") ||
		strings.HasSuffix(word, "zes")):
		return word[:n-2]
	case n > 2 && strings.HasSuffix(word, "ss"):
		return word
	case n > 2 && strings.HasSuffix(word, "us"):
		return word
	case n > 2 && strings.HasSuffix(word, "s"):
		return word[:n-1]
	default:
		return word
	}
}

// Preprocess normalizes text for vectorization: lowercase, strip
// non-alphanumerics, remove stop words, lemmatize each token.
func Preprocess(text string) string {
	tokens := tokenize(text)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopWords[tok] {
			continue
		}
		kept = append(kept, lemmatize(tok))
	}
	return strings.Join(kept, " ")
}
