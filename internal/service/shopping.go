package service

import (
	"context"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/rank"
)

// ShoppingRequest selects a top-N shopping view.
type ShoppingRequest struct {
	Keyword string
	N       int
	Sort    model.SortMode
	Order   analysis.ShoppingSort
	Filter  analysis.ShoppingFilter
	// Target, when set, is looked up in the unfiltered top-N by merchant or
	// title.
	Target string
}

// ShoppingView is the result of Shopping.
type ShoppingView struct {
	Keyword string                 `json:"keyword"`
	Rows    []analysis.ShoppingRow `json:"rows"`
	Stats   analysis.Stats         `json:"stats"`
	Target  *model.RankedListing   `json:"target,omitempty"`
}

// Shopping fetches the top N listings and builds the shopping table.
func (s *Service) Shopping(ctx context.Context, req ShoppingRequest) (*ShoppingView, error) {
	listings, err := rank.TopN(ctx, s.fetcher, req.Keyword, req.N, req.Sort)
	if err != nil {
		return nil, err
	}

	view := &ShoppingView{Keyword: req.Keyword}
	if req.Target != "" {
		if view.Target, err = rank.LookupInPage(listings, req.Target); err != nil {
			return nil, err
		}
	}

	rows := analysis.ShoppingTable(listings)
	rows = analysis.FilterShopping(rows, req.Filter)
	view.Rows = analysis.SortShopping(rows, req.Order)
	view.Stats = analysis.Aggregate(analysis.ShoppingListings(view.Rows))
	return view, nil
}

// Analysis summarizes the top listings for a keyword.
type Analysis struct {
	Keyword string                `json:"keyword"`
	Stats   analysis.Stats        `json:"stats"`
	Brands  []analysis.BrandStat  `json:"brands"`
	Tokens  []analysis.TokenCount `json:"tokens"`
	Top     []model.RankedListing `json:"top"`
}

// Analyze fetches one full page for keyword and aggregates it. limit bounds
// the brand and token lists.
func (s *Service) Analyze(ctx context.Context, keyword string, sort model.SortMode, limit int) (*Analysis, error) {
	listings, err := rank.TopN(ctx, s.fetcher, keyword, model.MaxPageSize, sort)
	if err != nil {
		return nil, err
	}

	plain := make([]model.Listing, len(listings))
	for i, l := range listings {
		plain[i] = l.Listing
	}

	return &Analysis{
		Keyword: keyword,
		Stats:   analysis.Aggregate(plain),
		Brands:  analysis.BrandStats(plain, limit),
		Tokens:  analysis.TopTokens(analysis.TokenizeTitles(plain), limit),
		Top:     listings,
	}, nil
}
