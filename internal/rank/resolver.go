package rank

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/normalize"
)

// PageFetcher fetches one page of search results.
type PageFetcher interface {
	FetchPage(ctx context.Context, req model.PageRequest) (*model.Page, error)
}

// Outcome is the terminal state of a rank check.
type Outcome string

const (
	OutcomeDone      Outcome = "DONE"      // a match was found
	OutcomeExhausted Outcome = "EXHAUSTED" // every page scanned, no match
	OutcomeFailed    Outcome = "FAILED"
)

// Progress is reported before each page fetch and once when the scan ends.
type Progress struct {
	Keyword   string  `json:"keyword"`
	PageIndex int     `json:"page_index"`
	MaxPages  int     `json:"max_pages"`
	Fraction  float64 `json:"fraction"`
	Matches   int     `json:"matches"`
	Done      bool    `json:"done"`
}

// ProgressFunc receives progress updates. It may be nil.
type ProgressFunc func(Progress)

// Result is the outcome of a completed scan.
type Result struct {
	Query        model.RankQuery       `json:"query"`
	Outcome      Outcome               `json:"outcome"`
	Best         *model.RankedListing  `json:"best,omitempty"`
	Matches      []model.RankedListing `json:"matches"`
	PagesScanned int                   `json:"pages_scanned"`
	Total        int                   `json:"total"`
}

// Found reports whether a matching listing was seen.
func (r *Result) Found() bool {
	return r.Best != nil
}

// Resolver runs best-rank scans against a PageFetcher.
type Resolver struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(fetcher PageFetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Resolve scans the result stream for q and returns the best rank of the
// merchant's listings. The query is validated before any request is made.
// A page shorter than requested, or the end of the reported total, stops the
// scan early.
func (r *Resolver) Resolve(ctx context.Context, q model.RankQuery, progress ProgressFunc) (*Result, error) {
	const op = "resolve rank"

	if err := q.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	size := q.EffectivePageSize()
	merchant := strings.ToLower(strings.TrimSpace(q.Merchant))
	seen := make(map[string]struct{})
	res := &Result{Query: q, Matches: []model.RankedListing{}}

	for pageIndex := 0; pageIndex < q.MaxPages; pageIndex++ {
		report(progress, Progress{
			Keyword:   q.Keyword,
			PageIndex: pageIndex,
			MaxPages:  q.MaxPages,
			Fraction:  float64(pageIndex) / float64(q.MaxPages),
			Matches:   len(res.Matches),
		})

		// Checked after reporting so a progress callback can stop the scan.
		if err := ctx.Err(); err != nil {
			return nil, apperr.Canceled(op, err)
		}

		start := pageIndex*size + 1
		page, err := r.fetcher.FetchPage(ctx, model.PageRequest{
			Keyword: q.Keyword,
			Start:   start,
			Size:    size,
			Sort:    q.Sort,
		})
		if err != nil {
			r.logger.Warn("rank check failed",
				"keyword", q.Keyword,
				"merchant", q.Merchant,
				"page", pageIndex,
				"err", err,
			)
			return nil, fmt.Errorf("page %d: %w", pageIndex, err)
		}
		res.PagesScanned++
		res.Total = page.Total

		for i, raw := range page.Items {
			listing, ok := normalize.Listing(raw)
			if !ok {
				continue
			}
			if !strings.Contains(strings.ToLower(listing.Merchant), merchant) {
				continue
			}

			key := normalize.DedupKey(listing.Title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			ranked := model.RankedListing{Rank: start + i, Listing: listing}
			res.Matches = append(res.Matches, ranked)
			if res.Best == nil || ranked.Rank < res.Best.Rank {
				best := ranked
				res.Best = &best
			}
		}

		if len(page.Items) < size || (page.Total > 0 && start+size > page.Total) {
			break
		}
	}

	res.Outcome = OutcomeExhausted
	if res.Found() {
		res.Outcome = OutcomeDone
	}

	report(progress, Progress{
		Keyword:   q.Keyword,
		PageIndex: res.PagesScanned,
		MaxPages:  q.MaxPages,
		Fraction:  1,
		Matches:   len(res.Matches),
		Done:      true,
	})

	attrs := []any{
		"keyword", q.Keyword,
		"merchant", q.Merchant,
		"outcome", res.Outcome,
		"pages", res.PagesScanned,
		"duration", time.Since(started),
	}
	if res.Best != nil {
		attrs = append(attrs, "rank", res.Best.Rank)
	}
	r.logger.Info("rank check complete", attrs...)

	return res, nil
}

func report(fn ProgressFunc, p Progress) {
	if fn != nil {
		fn(p)
	}
}
