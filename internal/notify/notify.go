// Package notify delivers rank-change notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/history"
)

// Direction describes how a rank moved between two checks.
type Direction string

const (
	DirectionUp          Direction = "up"
	DirectionDown        Direction = "down"
	DirectionAppeared    Direction = "appeared"
	DirectionDisappeared Direction = "disappeared"
)

// Change is a rank movement between two consecutive checks of one
// keyword/merchant pair.
type Change struct {
	Previous  history.Check `json:"previous"`
	Current   history.Check `json:"current"`
	Direction Direction     `json:"direction"`
}

// Detect compares two checks of the same pair. It reports false when there
// is no previous check or the rank did not move.
func Detect(prev *history.Check, cur history.Check) (Change, bool) {
	if prev == nil || prev.Rank == cur.Rank {
		return Change{}, false
	}

	c := Change{Previous: *prev, Current: cur}
	switch {
	case prev.Rank == 0:
		c.Direction = DirectionAppeared
	case cur.Rank == 0:
		c.Direction = DirectionDisappeared
	case cur.Rank < prev.Rank:
		c.Direction = DirectionUp
	default:
		c.Direction = DirectionDown
	}
	return c, true
}

// Notifier delivers a Change.
type Notifier interface {
	Notify(ctx context.Context, c Change) error
}

// Format renders a change as a short multi-line message.
func Format(c Change) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", c.Current.Keyword, c.Current.Merchant)

	switch c.Direction {
	case DirectionAppeared:
		fmt.Fprintf(&b, "순위 진입: %d위\n", c.Current.Rank)
	case DirectionDisappeared:
		fmt.Fprintf(&b, "순위 이탈: %d위 → 없음\n", c.Previous.Rank)
	case DirectionUp:
		fmt.Fprintf(&b, "순위 상승: %d위 → %d위 (▲%d)\n", c.Previous.Rank, c.Current.Rank, c.Previous.Rank-c.Current.Rank)
	case DirectionDown:
		fmt.Fprintf(&b, "순위 하락: %d위 → %d위 (▼%d)\n", c.Previous.Rank, c.Current.Rank, c.Current.Rank-c.Previous.Rank)
	}

	if c.Current.Found() {
		fmt.Fprintf(&b, "%s\n%s원 · %s\n%s", c.Current.Title, analysis.FormatPrice(c.Current.Price), c.Current.MallName, c.Current.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Log writes changes to a slog logger.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify logs c at info level.
func (l *Log) Notify(ctx context.Context, c Change) error {
	l.logger.Info("rank changed",
		"keyword", c.Current.Keyword,
		"merchant", c.Current.Merchant,
		"direction", c.Direction,
		"previous", c.Previous.Rank,
		"current", c.Current.Rank,
	)
	return nil
}

// Multi fans a change out to several notifiers. Every notifier is tried;
// the errors are joined.
type Multi []Notifier

// Notify delivers c to every notifier.
func (m Multi) Notify(ctx context.Context, c Change) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
