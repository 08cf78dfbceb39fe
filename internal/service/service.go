package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/metrics"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/rank"
)

// KeywordSource returns related keyword metrics for a hint keyword.
type KeywordSource interface {
	Related(ctx context.Context, hint string) ([]model.KeywordMetric, error)
}

// Defaults fill in rank query fields the caller leaves zero.
type Defaults struct {
	PageSize    int
	MaxPages    int
	MaxKeywords int
	Concurrency int
	Sort        model.SortMode
}

// Options configures a Service. Every field is optional.
type Options struct {
	Keywords KeywordSource
	History  history.Store
	// Fallback derives keywords from search titles when Keywords is nil or
	// cannot answer.
	Fallback bool
	Defaults Defaults
	Logger   *slog.Logger
}

// Service runs rank checks and analyses.
type Service struct {
	fetcher  rank.PageFetcher
	resolver *rank.Resolver
	keywords KeywordSource
	history  history.Store
	fallback bool
	defaults Defaults
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Service fetching pages through fetcher.
func New(fetcher rank.PageFetcher, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := opts.Defaults
	if d.PageSize == 0 {
		d.PageSize = model.DefaultPageSize
	}
	if d.MaxPages == 0 {
		d.MaxPages = model.DefaultMaxPages
	}
	if d.MaxKeywords == 0 {
		d.MaxKeywords = rank.DefaultMaxKeywords
	}
	if d.Concurrency == 0 {
		d.Concurrency = 1
	}

	return &Service{
		fetcher:  fetcher,
		resolver: rank.NewResolver(fetcher, logger),
		keywords: opts.Keywords,
		history:  opts.History,
		fallback: opts.Fallback,
		defaults: d,
		logger:   logger,
		now:      time.Now,
	}
}

// MaxKeywords is the largest keyword batch CheckRanks accepts.
func (s *Service) MaxKeywords() int {
	return s.defaults.MaxKeywords
}

// WithDefaults fills zero fields of q from the service defaults.
func (s *Service) WithDefaults(q model.RankQuery) model.RankQuery {
	if q.PageSize == 0 {
		q.PageSize = s.defaults.PageSize
	}
	if q.MaxPages == 0 {
		q.MaxPages = s.defaults.MaxPages
	}
	if q.Sort == "" {
		q.Sort = s.defaults.Sort
	}
	return q
}

// CheckRank resolves the best rank of one keyword/merchant pair.
func (s *Service) CheckRank(ctx context.Context, q model.RankQuery, progress rank.ProgressFunc) (*rank.Result, error) {
	q = s.WithDefaults(q)
	res, err := s.resolver.Resolve(ctx, q, progress)
	s.observe(ctx, res, err)
	return res, err
}

// CheckRanks resolves base for each keyword, bounded by the configured
// keyword concurrency. Items come back in keyword order.
func (s *Service) CheckRanks(ctx context.Context, keywords []string, base model.RankQuery, progress rank.ProgressFunc) ([]rank.BatchItem, error) {
	const op = "check ranks"

	if len(keywords) == 0 {
		return nil, apperr.Validation(op, "at least one keyword is required")
	}
	if len(keywords) > s.defaults.MaxKeywords {
		return nil, apperr.Validation(op, "at most %d keywords are allowed, got %d", s.defaults.MaxKeywords, len(keywords))
	}
	if strings.TrimSpace(base.Merchant) == "" {
		return nil, apperr.Validation(op, "merchant name is required")
	}

	base = s.WithDefaults(base)
	items := s.resolver.ResolveBatch(ctx, keywords, base, s.defaults.Concurrency, progress)
	for _, it := range items {
		s.observe(ctx, it.Result, it.Err)
	}
	return items, nil
}

// observe records metrics for a finished check and saves it to history.
// Validation failures never reached the network and are not counted.
func (s *Service) observe(ctx context.Context, res *rank.Result, err error) {
	if err != nil {
		if !apperr.Is(err, apperr.KindValidation) {
			metrics.RankChecks.WithLabelValues(string(rank.OutcomeFailed)).Inc()
		}
		return
	}

	metrics.RankChecks.WithLabelValues(string(res.Outcome)).Inc()
	metrics.PagesScanned.Add(float64(res.PagesScanned))

	if s.history == nil {
		return
	}
	check := history.FromResult(res, s.now())
	if err := s.history.Record(ctx, &check); err != nil {
		s.logger.Warn("record rank check failed",
			"keyword", check.Keyword,
			"merchant", check.Merchant,
			"err", err,
		)
	}
}

// History lists recorded checks, newest first.
func (s *Service) History(ctx context.Context, f history.Filter) ([]history.Check, error) {
	if s.history == nil {
		return nil, apperr.Validation("list history", "history is disabled")
	}
	return s.history.List(ctx, f)
}
