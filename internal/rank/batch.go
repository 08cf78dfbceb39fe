package rank

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
)

// DefaultMaxKeywords bounds how many keywords one batch may check.
const DefaultMaxKeywords = 10

// ParseKeywords splits a comma-separated keyword list, trimming blanks and
// dropping repeats. At most limit keywords are accepted.
func ParseKeywords(s string, limit int) ([]string, error) {
	const op = "parse keywords"

	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		kw := strings.TrimSpace(part)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	if len(out) == 0 {
		return nil, apperr.Validation(op, "at least one keyword is required")
	}
	if limit > 0 && len(out) > limit {
		return nil, apperr.Validation(op, "at most %d keywords are allowed, got %d", limit, len(out))
	}
	return out, nil
}

// BatchItem is the result of one keyword within a batch.
type BatchItem struct {
	Keyword string
	Result  *Result
	Err     error
}

// ResolveBatch resolves base once per keyword and returns the items in
// keyword order. A failing keyword does not stop the others. With
// concurrency > 1, progress may be called from several goroutines.
func (r *Resolver) ResolveBatch(ctx context.Context, keywords []string, base model.RankQuery, concurrency int, progress ProgressFunc) []BatchItem {
	items := make([]BatchItem, len(keywords))

	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))

	for i, kw := range keywords {
		items[i].Keyword = kw
		g.Go(func() error {
			q := base
			q.Keyword = kw
			items[i].Result, items[i].Err = r.Resolve(ctx, q, progress)
			return nil
		})
	}

	_ = g.Wait()
	return items
}
