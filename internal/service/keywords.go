package service

import (
	"context"
	"fmt"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/metrics"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/rank"
)

// Keyword sources reported with related keywords.
const (
	SourceKeywordTool    = "keyword_tool"
	SourceSearchFallback = "search_fallback"
)

// KeywordReport holds related keyword metrics and where they came from.
type KeywordReport struct {
	Keyword string                `json:"keyword"`
	Source  string                `json:"source"`
	Metrics []model.KeywordMetric `json:"metrics"`
}

// RelatedKeywords asks the keyword tool for keywords related to keyword.
// When the tool is missing or unavailable (auth, transport or decode failure)
// and fallback is on, distinct title tokens from the top search results are returned instead,
// with every metric unknown.
func (s *Service) RelatedKeywords(ctx context.Context, keyword string) (*KeywordReport, error) {
	const op = "related keywords"

	if s.keywords != nil {
		related, err := s.keywords.Related(ctx, keyword)
		switch {
		case err == nil:
			metrics.KeywordLookups.WithLabelValues(SourceKeywordTool).Inc()
			return &KeywordReport{Keyword: keyword, Source: SourceKeywordTool, Metrics: related}, nil
		case s.fallback && unavailable(err):
			s.logger.Warn("keyword tool unavailable, using search fallback",
				"keyword", keyword,
				"kind", apperr.KindOf(err),
				"err", err,
			)
		default:
			return nil, err
		}
	} else if !s.fallback {
		return nil, apperr.Validation(op, "keyword tool is not configured")
	}

	listings, err := rank.TopN(ctx, s.fetcher, keyword, model.MaxPageSize, model.SortRelevance)
	if err != nil {
		return nil, fmt.Errorf("fallback keywords: %w", err)
	}
	plain := make([]model.Listing, len(listings))
	for i, l := range listings {
		plain[i] = l.Listing
	}

	metrics.KeywordLookups.WithLabelValues(SourceSearchFallback).Inc()
	return &KeywordReport{
		Keyword: keyword,
		Source:  SourceSearchFallback,
		Metrics: analysis.FallbackKeywords(plain, analysis.DefaultFallbackKeywords),
	}, nil
}

// unavailable reports whether err means the keyword tool could not answer.
// Validation and cancellation are the caller's problem and are not masked.
func unavailable(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindAuth, apperr.KindTransport, apperr.KindDecode:
		return true
	}
	return false
}

// KeywordTableView is a filtered, sorted keyword table with totals.
type KeywordTableView struct {
	Keyword string                  `json:"keyword"`
	Source  string                  `json:"source"`
	Rows    []analysis.KeywordRow   `json:"rows"`
	Summary analysis.KeywordSummary `json:"summary"`
}

// KeywordTable builds the related keyword table for keyword.
func (s *Service) KeywordTable(ctx context.Context, keyword, filter string, order analysis.KeywordSort) (*KeywordTableView, error) {
	report, err := s.RelatedKeywords(ctx, keyword)
	if err != nil {
		return nil, err
	}

	rows := analysis.MergeKeywordMetrics(report.Metrics, filter, order)
	return &KeywordTableView{
		Keyword: keyword,
		Source:  report.Source,
		Rows:    rows,
		Summary: analysis.SummarizeKeywords(rows),
	}, nil
}
