// Package history records completed rank checks so changes can be tracked
// over time.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/shoprank/internal/rank"
)

// ErrNotFound is returned when no check matches a lookup.
var ErrNotFound = errors.New("history: not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 100

// Check is one recorded rank check. Rank is 0 when the merchant was not
// found.
type Check struct {
	ID           uuid.UUID `json:"id"`
	Keyword      string    `json:"keyword"`
	Merchant     string    `json:"merchant"`
	Outcome      string    `json:"outcome"`
	Rank         int       `json:"rank"`
	Title        string    `json:"title"`
	Price        int64     `json:"price"`
	MallName     string    `json:"mall_name"`
	Link         string    `json:"link"`
	PagesScanned int       `json:"pages_scanned"`
	Total        int       `json:"total"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Found reports whether the check located the merchant.
func (c *Check) Found() bool {
	return c.Rank > 0
}

// FromResult builds a Check from a completed scan.
func FromResult(res *rank.Result, at time.Time) Check {
	c := Check{
		Keyword:      res.Query.Keyword,
		Merchant:     res.Query.Merchant,
		Outcome:      string(res.Outcome),
		PagesScanned: res.PagesScanned,
		Total:        res.Total,
		CheckedAt:    at.UTC(),
	}
	if res.Best != nil {
		c.Rank = res.Best.Rank
		c.Title = res.Best.Title
		c.Price = res.Best.Price
		c.MallName = res.Best.Merchant
		c.Link = res.Best.Link
	}
	return c
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Keyword  string
	Merchant string
	Limit    int
}

// Store persists rank checks.
type Store interface {
	// Record saves c, assigning ID and CheckedAt when they are zero.
	Record(ctx context.Context, c *Check) error
	// List returns checks newest first.
	List(ctx context.Context, f Filter) ([]Check, error)
	// Latest returns the newest check for a keyword/merchant pair.
	Latest(ctx context.Context, keyword, merchant string) (*Check, error)
	Close() error
}

func prepare(c *Check) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now()
	}
	c.CheckedAt = c.CheckedAt.UTC()
}

func limitOf(f Filter) int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}
