package model

import "fmt"

// SortMode is a search result ordering.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortSales     SortMode = "sales"
	SortRating    SortMode = "rating"
)

var sortTokens = map[SortMode]string{
	SortRelevance: "sim",
	SortPriceAsc:  "asc",
	SortPriceDesc: "dsc",
	SortSales:     "count",
	SortRating:    "review",
}

// SortModes lists every supported mode in display order.
func SortModes() []SortMode {
	return []SortMode{SortRelevance, SortPriceAsc, SortPriceDesc, SortSales, SortRating}
}

// Token returns the wire value sent as the sort parameter. An empty mode means relevance.
func (s SortMode) Token() string {
	if s == "" {
		return sortTokens[SortRelevance]
	}
	return sortTokens[s]
}

// Valid reports whether s is a supported mode. The empty mode is valid.
func (s SortMode) Valid() bool {
	if s == "" {
		return true
	}
	_, ok := sortTokens[s]
	return ok
}

// ParseSortMode accepts a mode name or its wire token.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortRelevance, nil
	}
	if m := SortMode(s); m.Valid() {
		return m, nil
	}
	for m, tok := range sortTokens {
		if tok == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}
