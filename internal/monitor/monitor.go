package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/metrics"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/notify"
	"github.com/rickgao/shoprank/internal/rank"
)

// Watch is a keyword/merchant pair to track.
type Watch struct {
	Keyword  string
	Merchant string
}

// Checker runs one rank check. *service.Service satisfies it.
type Checker interface {
	CheckRank(ctx context.Context, q model.RankQuery, progress rank.ProgressFunc) (*rank.Result, error)
}

// Config holds monitor configuration.
type Config struct {
	Interval    time.Duration // Re-check interval (default: 6h)
	Concurrency int           // Max concurrent checks (default: 1)
	Timeout     time.Duration // Per-check timeout (default: 5m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    6 * time.Hour,
		Concurrency: 1,
		Timeout:     5 * time.Minute,
	}
}

// CycleStats summarizes one pass over the watches.
type CycleStats struct {
	Checked int64
	Failed  int64
	Changed int64
}

// Monitor periodically re-checks watches and reports rank changes.
type Monitor struct {
	cfg      Config
	checker  Checker
	store    history.Store
	notifier notify.Notifier
	watches  []Watch
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last map[Watch]history.Check

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Monitor. store may be nil, in which case previous ranks
// are only remembered in memory.
func New(cfg Config, checker Checker, store history.Store, notifier notify.Notifier, watches []Watch, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Monitor{
		cfg:      cfg,
		checker:  checker,
		store:    store,
		notifier: notifier,
		watches:  watches,
		logger:   logger,
		now:      time.Now,
		last:     make(map[Watch]history.Check),
	}
}

// Start begins the monitor loop.
func (m *Monitor) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.run()

	m.logger.Info("rank monitor started",
		"interval", m.cfg.Interval,
		"concurrency", m.cfg.Concurrency,
		"watches", len(m.watches),
	)

	return nil
}

// Stop gracefully shuts down the monitor.
func (m *Monitor) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("rank monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	// Check immediately on start.
	m.CheckAll(m.ctx)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(m.ctx)
		}
	}
}

// CheckAll checks every watch once and returns the cycle counters.
func (m *Monitor) CheckAll(ctx context.Context) CycleStats {
	start := time.Now()

	sem := make(chan struct{}, m.cfg.Concurrency)
	var wg sync.WaitGroup
	var checked, failed, changed atomic.Int64

	for _, w := range m.watches {
		wg.Add(1)
		go func(w Watch) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			moved, err := m.checkWatch(ctx, w)
			if err != nil {
				m.logger.Warn("monitor check failed",
					"keyword", w.Keyword,
					"merchant", w.Merchant,
					"err", err,
				)
				failed.Add(1)
				return
			}
			checked.Add(1)
			if moved {
				changed.Add(1)
			}
		}(w)
	}

	wg.Wait()

	stats := CycleStats{Checked: checked.Load(), Failed: failed.Load(), Changed: changed.Load()}
	m.logger.Info("monitor cycle complete",
		"watches", len(m.watches),
		"checked", stats.Checked,
		"failed", stats.Failed,
		"changed", stats.Changed,
		"duration", time.Since(start),
	)
	return stats
}

// checkWatch runs one check and reports whether the rank moved.
func (m *Monitor) checkWatch(ctx context.Context, w Watch) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	// Read before checking: the checker may record the new result.
	prev, err := m.previous(ctx, w)
	if err != nil {
		return false, err
	}

	res, err := m.checker.CheckRank(ctx, model.RankQuery{Keyword: w.Keyword, Merchant: w.Merchant}, nil)
	if err != nil {
		return false, err
	}
	cur := history.FromResult(res, m.now())

	m.mu.Lock()
	m.last[w] = cur
	m.mu.Unlock()

	change, moved := notify.Detect(prev, cur)
	if !moved {
		return false, nil
	}

	metrics.RankChanges.Inc()
	if m.notifier != nil {
		if err := m.notifier.Notify(ctx, change); err != nil {
			m.logger.Warn("rank change notification failed",
				"keyword", w.Keyword,
				"merchant", w.Merchant,
				"err", err,
			)
		}
	}
	return true, nil
}

// previous returns the last known check for w, or nil when there is none.
func (m *Monitor) previous(ctx context.Context, w Watch) (*history.Check, error) {
	m.mu.Lock()
	c, ok := m.last[w]
	m.mu.Unlock()
	if ok {
		return &c, nil
	}

	if m.store == nil {
		return nil, nil
	}
	prev, err := m.store.Latest(ctx, w.Keyword, w.Merchant)
	if errors.Is(err, history.ErrNotFound) {
		return nil, nil
	}
	return prev, err
}
