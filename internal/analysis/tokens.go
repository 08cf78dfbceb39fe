package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/rickgao/shoprank/internal/model"
)

// stopwords are particles that never count as tokens.
var stopwords = map[string]struct{}{
	"의": {}, "를": {}, "을": {}, "에": {}, "에서": {}, "로": {}, "으로": {},
}

// MinTokenLength is the minimum token length in characters.
const MinTokenLength = 2

// TokenCount is a token with its frequency.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Tokens splits a title into lower-cased whitespace-separated tokens,
// dropping stopwords and tokens shorter than MinTokenLength.
func Tokens(title string) []string {
	fields := strings.Fields(strings.ToLower(norm.NFC.String(title)))
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < MinTokenLength {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// TokenizeTitles counts tokens across the titles of listings.
func TokenizeTitles(listings []model.Listing) map[string]int {
	freq := make(map[string]int)
	for _, l := range listings {
		for _, tok := range Tokens(l.Title) {
			freq[tok]++
		}
	}
	return freq
}

// TopTokens returns the limit most frequent tokens, by count descending and
// then token ascending. limit <= 0 returns all.
func TopTokens(freq map[string]int, limit int) []TokenCount {
	out := make([]TokenCount, 0, len(freq))
	for tok, n := range freq {
		out = append(out, TokenCount{Token: tok, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DefaultFallbackKeywords is how many title tokens stand in for related
// keywords when the keyword-metrics API is unavailable.
const DefaultFallbackKeywords = 50

// FallbackKeywords derives keyword rows from listing titles: distinct tokens
// in ascending order, the first limit of them, with every metric unknown.
// Unlike Tokens, case is kept and stopwords stay in.
func FallbackKeywords(listings []model.Listing, limit int) []model.KeywordMetric {
	seen := make(map[string]struct{})
	var tokens []string
	for _, l := range listings {
		for _, f := range strings.Fields(norm.NFC.String(l.Title)) {
			if utf8.RuneCountInString(f) < MinTokenLength {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			tokens = append(tokens, f)
		}
	}
	sort.Strings(tokens)
	if limit > 0 && len(tokens) > limit {
		tokens = tokens[:limit]
	}

	out := make([]model.KeywordMetric, len(tokens))
	for i, tok := range tokens {
		out[i] = model.KeywordMetric{Keyword: tok, Competition: "-"}
	}
	return out
}
