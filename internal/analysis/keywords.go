package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/normalize"
)

// KeywordRow is a keyword metric with its 1-based position in the API response.
type KeywordRow struct {
	Seq int `json:"seq"`
	model.KeywordMetric
}

// KeywordSortKey selects the keyword table ordering.
type KeywordSortKey string

const (
	KeywordByOriginal     KeywordSortKey = "original"
	KeywordByKeyword      KeywordSortKey = "keyword"
	KeywordByPCVolume     KeywordSortKey = "pc"
	KeywordByMobileVolume KeywordSortKey = "mobile"
	KeywordByTotalVolume  KeywordSortKey = "total"
)

// ParseKeywordSort parses a sort key; empty means original order.
func ParseKeywordSort(s string) (KeywordSortKey, error) {
	switch k := KeywordSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KeywordByOriginal, nil
	case KeywordByOriginal, KeywordByKeyword, KeywordByPCVolume, KeywordByMobileVolume, KeywordByTotalVolume:
		return k, nil
	default:
		return "", fmt.Errorf("unknown keyword sort %q", s)
	}
}

// KeywordSort configures SortKeywords. Unknown metric values sort after
// known ones in either direction unless UnknownFirst is set.
type KeywordSort struct {
	By           KeywordSortKey
	Desc         bool
	UnknownFirst bool
}

// KeywordTable numbers metrics in their original order.
func KeywordTable(metrics []model.KeywordMetric) []KeywordRow {
	rows := make([]KeywordRow, len(metrics))
	for i, m := range metrics {
		rows[i] = KeywordRow{Seq: i + 1, KeywordMetric: m}
	}
	return rows
}

// FilterKeywords keeps rows whose keyword contains substr, ignoring case.
func FilterKeywords(rows []KeywordRow, substr string) []KeywordRow {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return rows
	}
	out := make([]KeywordRow, 0, len(rows))
	for _, r := range rows {
		if normalize.ContainsFold(r.Keyword, substr) {
			out = append(out, r)
		}
	}
	return out
}

// SortKeywords returns a sorted copy of rows. Ties keep original order.
func SortKeywords(rows []KeywordRow, opts KeywordSort) []KeywordRow {
	out := make([]KeywordRow, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch opts.By {
		case KeywordByKeyword:
			if a.Keyword != b.Keyword {
				return (a.Keyword < b.Keyword) != opts.Desc
			}
			return a.Seq < b.Seq
		case KeywordByPCVolume:
			return lessMetric(a.PCVolume, b.PCVolume, a.Seq, b.Seq, opts)
		case KeywordByMobileVolume:
			return lessMetric(a.MobileVolume, b.MobileVolume, a.Seq, b.Seq, opts)
		case KeywordByTotalVolume:
			return lessMetric(a.TotalVolume(), b.TotalVolume(), a.Seq, b.Seq, opts)
		default:
			return (a.Seq < b.Seq) != opts.Desc
		}
	})
	return out
}

func lessMetric(a, b model.Metric, seqA, seqB int, opts KeywordSort) bool {
	if a.Known != b.Known {
		// Exactly one is unknown.
		return a.Known != opts.UnknownFirst
	}
	if a.Known && a.Value != b.Value {
		return (a.Value < b.Value) != opts.Desc
	}
	return seqA < seqB
}

// MergeKeywordMetrics builds the keyword table, filters it by keyword
// substring and sorts it.
func MergeKeywordMetrics(metrics []model.KeywordMetric, filter string, opts KeywordSort) []KeywordRow {
	return SortKeywords(FilterKeywords(KeywordTable(metrics), filter), opts)
}

// KeywordSummary totals the keyword table. Sums include known values only;
// the Known counters say how many rows contributed.
type KeywordSummary struct {
	Keywords     int     `json:"keywords"`
	PCVolume     float64 `json:"pc_volume"`
	MobileVolume float64 `json:"mobile_volume"`
	TotalVolume  float64 `json:"total_volume"`
	KnownPC      int     `json:"known_pc"`
	KnownMobile  int     `json:"known_mobile"`
}

// SummarizeKeywords computes a KeywordSummary.
func SummarizeKeywords(rows []KeywordRow) KeywordSummary {
	s := KeywordSummary{Keywords: len(rows)}
	for _, r := range rows {
		if r.PCVolume.Known {
			s.PCVolume += r.PCVolume.Value
			s.KnownPC++
		}
		if r.MobileVolume.Known {
			s.MobileVolume += r.MobileVolume.Value
			s.KnownMobile++
		}
	}
	s.TotalVolume = s.PCVolume + s.MobileVolume
	return s
}
