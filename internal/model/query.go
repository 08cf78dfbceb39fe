package model

import (
	"strings"

	"github.com/rickgao/shoprank/internal/apperr"
)

const (
	DefaultPageSize = 100
	DefaultMaxPages = 10

	// MaxPageSize is the largest page the search API returns.
	MaxPageSize = 100

	// MaxStart is the largest start offset the search API accepts.
	MaxStart = 1000
)

// RankQuery describes one best-rank lookup.
type RankQuery struct {
	Keyword  string   `json:"keyword"`
	Merchant string   `json:"merchant"`
	PageSize int      `json:"page_size"`
	MaxPages int      `json:"max_pages"`
	Sort     SortMode `json:"sort,omitempty"`
}

// EffectivePageSize returns the page size actually requested, capped at MaxPageSize.
func (q RankQuery) EffectivePageSize() int {
	return min(q.PageSize, MaxPageSize)
}

// Validate checks the query before any request is made.
func (q RankQuery) Validate() error {
	const op = "rank query"

	if strings.TrimSpace(q.Keyword) == "" {
		return apperr.Validation(op, "keyword is required")
	}
	if strings.TrimSpace(q.Merchant) == "" {
		return apperr.Validation(op, "merchant is required")
	}
	if q.PageSize < 1 {
		return apperr.Validation(op, "page_size must be >= 1, got %d", q.PageSize)
	}
	if q.MaxPages < 1 {
		return apperr.Validation(op, "max_pages must be >= 1, got %d", q.MaxPages)
	}
	if last := (q.MaxPages-1)*q.EffectivePageSize() + 1; last > MaxStart {
		return apperr.Validation(op, "last page start %d exceeds %d", last, MaxStart)
	}
	if !q.Sort.Valid() {
		return apperr.Validation(op, "unknown sort mode %q", q.Sort)
	}
	return nil
}
