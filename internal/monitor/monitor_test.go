package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/notify"
	"github.com/rickgao/shoprank/internal/rank"
)

// scriptedChecker returns the next scripted rank for each keyword; 0 means
// not found and -1 means failure.
type scriptedChecker struct {
	mu    sync.Mutex
	ranks map[string][]int
	calls int
}

func (c *scriptedChecker) CheckRank(ctx context.Context, q model.RankQuery, progress rank.ProgressFunc) (*rank.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	seq := c.ranks[q.Keyword]
	if len(seq) == 0 {
		return nil, errors.New("no script")
	}
	r := seq[0]
	c.ranks[q.Keyword] = seq[1:]

	if r < 0 {
		return nil, errors.New("search unavailable")
	}
	res := &rank.Result{Query: q, Outcome: rank.OutcomeExhausted, PagesScanned: 1}
	if r > 0 {
		res.Outcome = rank.OutcomeDone
		res.Best = &model.RankedListing{Rank: r, Listing: model.Listing{Title: "상품", Merchant: q.Merchant}}
	}
	return res, nil
}

type recorder struct {
	mu  sync.Mutex
	got []notify.Change
}

func (r *recorder) Notify(ctx context.Context, c notify.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, c)
	return nil
}

func (r *recorder) directions() []notify.Direction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Direction
	for _, c := range r.got {
		out = append(out, c.Direction)
	}
	return out
}

func TestMonitor_CheckAll(t *testing.T) {
	checker := &scriptedChecker{ranks: map[string][]int{
		"a": {10, 4, 4},
		"b": {0, 7, -1},
	}}
	rec := &recorder{}
	m := New(Config{Concurrency: 2}, checker, nil, rec,
		[]Watch{{Keyword: "a", Merchant: "M"}, {Keyword: "b", Merchant: "M"}}, nil)
	ctx := context.Background()

	// First cycle sets the baseline.
	if s := m.CheckAll(ctx); s.Checked != 2 || s.Changed != 0 {
		t.Fatalf("cycle 1 = %+v", s)
	}

	// a moves up, b appears.
	s := m.CheckAll(ctx)
	if s.Checked != 2 || s.Changed != 2 {
		t.Fatalf("cycle 2 = %+v", s)
	}
	got := map[notify.Direction]bool{}
	for _, d := range rec.directions() {
		got[d] = true
	}
	if !got[notify.DirectionUp] || !got[notify.DirectionAppeared] {
		t.Errorf("directions = %v, want up and appeared", rec.directions())
	}

	// a unchanged, b fails and keeps its last rank.
	s = m.CheckAll(ctx)
	if s.Checked != 1 || s.Failed != 1 || s.Changed != 0 {
		t.Errorf("cycle 3 = %+v", s)
	}
	if prev, _ := m.previous(ctx, Watch{Keyword: "b", Merchant: "M"}); prev == nil || prev.Rank != 7 {
		t.Errorf("previous(b) = %+v, want rank 7", prev)
	}
}

func TestMonitor_UsesStoredBaseline(t *testing.T) {
	ctx := context.Background()
	store, err := history.NewSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	defer func() { _ = store.Close() }()

	old := history.Check{Keyword: "a", Merchant: "M", Outcome: "DONE", Rank: 3, CheckedAt: time.Now().Add(-time.Hour)}
	if err := store.Record(ctx, &old); err != nil {
		t.Fatalf("Record: %v", err)
	}

	rec := &recorder{}
	checker := &scriptedChecker{ranks: map[string][]int{"a": {9}}}
	m := New(Config{}, checker, store, rec, []Watch{{Keyword: "a", Merchant: "M"}}, nil)

	if s := m.CheckAll(ctx); s.Changed != 1 {
		t.Fatalf("CheckAll() = %+v, want one change", s)
	}
	if d := rec.directions(); len(d) != 1 || d[0] != notify.DirectionDown {
		t.Errorf("directions = %v, want [down]", d)
	}
}

func TestMonitor_StartStop(t *testing.T) {
	checker := &scriptedChecker{ranks: map[string][]int{"a": {1}}}
	m := New(Config{Interval: time.Hour}, checker, nil, nil, []Watch{{Keyword: "a", Merchant: "M"}}, nil)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		checker.mu.Lock()
		calls := checker.calls
		checker.mu.Unlock()
		if calls > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("monitor did not check on start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestDefaultsApplied(t *testing.T) {
	m := New(Config{}, &scriptedChecker{}, nil, nil, nil, nil)
	if m.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", m.cfg)
	}
}
