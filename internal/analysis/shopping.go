package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/normalize"
)

// ShoppingRow is a row of the top-N shopping table. Rank is the position in
// the result stream; Position is the displayed rank, renumbered from 1 after
// a price sort.
type ShoppingRow struct {
	Position int `json:"position"`
	model.RankedListing
}

// ShoppingSort selects the shopping table ordering.
type ShoppingSort string

const (
	ShoppingByRank      ShoppingSort = "rank"
	ShoppingByPriceAsc  ShoppingSort = "price_asc"
	ShoppingByPriceDesc ShoppingSort = "price_desc"
)

// ParseShoppingSort parses a sort; empty means stream rank.
func ParseShoppingSort(s string) (ShoppingSort, error) {
	switch k := ShoppingSort(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ShoppingByRank, nil
	case ShoppingByRank, ShoppingByPriceAsc, ShoppingByPriceDesc:
		return k, nil
	default:
		return "", fmt.Errorf("unknown shopping sort %q", s)
	}
}

// ShoppingFilter holds case-insensitive substring filters. Empty fields match everything.
type ShoppingFilter struct {
	Merchant string
	Brand    string
	Title    string
}

// ShoppingTable drops repeated titles (first occurrence wins) and numbers
// the remaining rows by stream rank.
func ShoppingTable(listings []model.RankedListing) []ShoppingRow {
	seen := make(map[string]struct{}, len(listings))
	out := make([]ShoppingRow, 0, len(listings))
	for _, l := range listings {
		key := normalize.DedupKey(l.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ShoppingRow{Position: l.Rank, RankedListing: l})
	}
	return out
}

// FilterShopping keeps rows matching every non-empty filter field.
func FilterShopping(rows []ShoppingRow, f ShoppingFilter) []ShoppingRow {
	out := make([]ShoppingRow, 0, len(rows))
	for _, r := range rows {
		if f.Merchant != "" && !normalize.ContainsFold(r.Merchant, f.Merchant) {
			continue
		}
		if f.Brand != "" && !normalize.ContainsFold(r.Brand, f.Brand) {
			continue
		}
		if f.Title != "" && !normalize.ContainsFold(r.Title, f.Title) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortShopping returns a sorted copy of rows. Price sorts renumber Position
// from 1; rank order restores Position to the stream rank.
func SortShopping(rows []ShoppingRow, by ShoppingSort) []ShoppingRow {
	out := make([]ShoppingRow, len(rows))
	copy(out, rows)

	switch by {
	case ShoppingByPriceAsc, ShoppingByPriceDesc:
		desc := by == ShoppingByPriceDesc
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Price != out[j].Price {
				return (out[i].Price < out[j].Price) != desc
			}
			return out[i].Rank < out[j].Rank
		})
		for i := range out {
			out[i].Position = i + 1
		}
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
		for i := range out {
			out[i].Position = out[i].Rank
		}
	}
	return out
}

// ShoppingListings returns the listings behind rows, for Aggregate.
func ShoppingListings(rows []ShoppingRow) []model.Listing {
	out := make([]model.Listing, len(rows))
	for i, r := range rows {
		out[i] = r.Listing
	}
	return out
}
