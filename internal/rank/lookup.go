package rank

import (
	"context"
	"fmt"
	"strings"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/normalize"
)

// TopN fetches the first n results (n is capped at model.MaxPageSize) and
// ranks them by position. No deduplication is applied.
func TopN(ctx context.Context, fetcher PageFetcher, keyword string, n int, sort model.SortMode) ([]model.RankedListing, error) {
	const op = "top listings"

	if strings.TrimSpace(keyword) == "" {
		return nil, apperr.Validation(op, "keyword is required")
	}
	if n < 1 {
		return nil, apperr.Validation(op, "n must be >= 1, got %d", n)
	}
	if !sort.Valid() {
		return nil, apperr.Validation(op, "unknown sort mode %q", sort)
	}
	n = min(n, model.MaxPageSize)

	page, err := fetcher.FetchPage(ctx, model.PageRequest{Keyword: keyword, Start: 1, Size: n, Sort: sort})
	if err != nil {
		return nil, fmt.Errorf("top %d for %q: %w", n, keyword, err)
	}

	out := make([]model.RankedListing, 0, len(page.Items))
	for i, raw := range page.Items {
		listing, ok := normalize.Listing(raw)
		if !ok {
			continue
		}
		out = append(out, model.RankedListing{Rank: i + 1, Listing: listing})
	}
	return out, nil
}

// LookupInPage returns the first listing, in the given order, whose merchant
// or title contains target (case-insensitive). It returns nil when nothing
// matches.
func LookupInPage(listings []model.RankedListing, target string) (*model.RankedListing, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, apperr.Validation("lookup in page", "target is required")
	}

	for i := range listings {
		l := listings[i]
		if normalize.ContainsFold(l.Merchant, target) || normalize.ContainsFold(l.Title, target) {
			return &l, nil
		}
	}
	return nil, nil
}
