package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/rank"
)

type fakeFetcher struct {
	mu       sync.Mutex
	stream   []model.RawListing
	err      error
	requests []model.PageRequest
}

func (f *fakeFetcher) FetchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	from := min(req.Start-1, len(f.stream))
	to := min(from+req.Size, len(f.stream))
	items := append([]model.RawListing(nil), f.stream[from:to]...)
	for i := range items {
		items[i].Position = i + 1
	}
	return &model.Page{Keyword: req.Keyword, Total: len(f.stream), Start: req.Start, Display: len(items), Items: items}, nil
}

type fakeKeywords struct {
	metrics []model.KeywordMetric
	err     error
	calls   int
}

func (f *fakeKeywords) Related(ctx context.Context, hint string) ([]model.KeywordMetric, error) {
	f.calls++
	return f.metrics, f.err
}

func listing(title, mall string, price int) model.RawListing {
	return model.RawListing{Title: title, MallName: mall, LPrice: fmt.Sprint(price), Brand: "브랜드"}
}

func stream(n int, at map[int]model.RawListing) []model.RawListing {
	out := make([]model.RawListing, n)
	for i := range out {
		if raw, ok := at[i+1]; ok {
			out[i] = raw
			continue
		}
		out[i] = listing(fmt.Sprintf("기타 상품 %d", i+1), "기타몰", 10000)
	}
	return out
}

func newHistory(t *testing.T) *history.SQLite {
	t.Helper()
	store, err := history.NewSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCheckRankRecordsHistory(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{stream: stream(150, map[int]model.RawListing{
		37:  listing("무선 마우스 A", "쿠팡", 15000),
		120: listing("무선 마우스 B", "쿠팡", 12000),
	})}
	store := newHistory(t)
	svc := New(fetcher, Options{History: store, Defaults: Defaults{PageSize: 100, MaxPages: 3}})

	res, err := svc.CheckRank(ctx, model.RankQuery{Keyword: "무선마우스", Merchant: "쿠팡"}, nil)
	if err != nil {
		t.Fatalf("CheckRank: %v", err)
	}
	if res.Best == nil || res.Best.Rank != 37 {
		t.Fatalf("Best = %+v, want rank 37", res.Best)
	}
	if res.Query.PageSize != 100 || res.Query.MaxPages != 3 {
		t.Errorf("defaults not applied: %+v", res.Query)
	}

	latest, err := store.Latest(ctx, "무선마우스", "쿠팡")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Rank != 37 || latest.Outcome != "DONE" || latest.Title != "무선 마우스 A" {
		t.Errorf("recorded check = %+v", latest)
	}
}

func TestCheckRankFailureNotRecorded(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{err: apperr.Transport("search", errors.New("timeout"))}
	store := newHistory(t)
	svc := New(fetcher, Options{History: store})

	res, err := svc.CheckRank(ctx, model.RankQuery{Keyword: "k", Merchant: "m"}, nil)
	if err == nil || res != nil {
		t.Fatalf("CheckRank() = %v, %v, want nil result and error", res, err)
	}
	if !apperr.Is(err, apperr.KindTransport) {
		t.Errorf("error kind = %v, want transport", apperr.KindOf(err))
	}

	checks, err := store.List(ctx, history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(checks) != 0 {
		t.Errorf("recorded %d checks for a failed scan", len(checks))
	}
}

func TestCheckRanks(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{stream: stream(50, map[int]model.RawListing{
		5: listing("상품", "A몰", 1000),
	})}
	svc := New(fetcher, Options{Defaults: Defaults{MaxKeywords: 2, Concurrency: 2}})

	tests := []struct {
		name     string
		keywords []string
		merchant string
		wantErr  bool
	}{
		{name: "ok", keywords: []string{"a", "b"}, merchant: "A몰"},
		{name: "too many", keywords: []string{"a", "b", "c"}, merchant: "A몰", wantErr: true},
		{name: "empty", keywords: nil, merchant: "A몰", wantErr: true},
		{name: "no merchant", keywords: []string{"a"}, merchant: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.CheckRanks(ctx, tt.keywords, model.RankQuery{Merchant: tt.merchant}, nil)
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("CheckRanks() error = %v, want validation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckRanks: %v", err)
			}
			var got []string
			for _, it := range items {
				if it.Err != nil {
					t.Fatalf("keyword %q: %v", it.Keyword, it.Err)
				}
				got = append(got, fmt.Sprintf("%s:%d", it.Keyword, it.Result.Best.Rank))
			}
			if diff := cmp.Diff([]string{"a:5", "b:5"}, got); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHistoryDisabled(t *testing.T) {
	svc := New(&fakeFetcher{}, Options{})
	_, err := svc.History(context.Background(), history.Filter{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("History() error = %v, want validation", err)
	}
}

func TestShopping(t *testing.T) {
	fetcher := &fakeFetcher{stream: []model.RawListing{
		listing("<b>무선</b> 마우스", "A몰", 30000),
		listing("무선  마우스", "B몰", 20000),
		listing("유선 마우스", "쿠팡", 10000),
		listing("게이밍 마우스", "C몰", 50000),
	}}
	svc := New(fetcher, Options{})

	view, err := svc.Shopping(context.Background(), ShoppingRequest{
		Keyword: "마우스",
		N:       10,
		Order:   analysis.ShoppingByPriceAsc,
		Target:  "쿠팡",
	})
	if err != nil {
		t.Fatalf("Shopping: %v", err)
	}

	if view.Target == nil || view.Target.Rank != 3 {
		t.Errorf("Target = %+v, want rank 3", view.Target)
	}

	type row struct{ Position, Rank int }
	var got []row
	for _, r := range view.Rows {
		got = append(got, row{r.Position, r.Rank})
	}
	want := []row{{1, 3}, {2, 1}, {3, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if view.Stats.Total != 3 {
		t.Errorf("Stats.Total = %d, want 3", view.Stats.Total)
	}

	if got := fetcher.requests[0]; got.Size != 10 || got.Start != 1 {
		t.Errorf("request = %+v, want start 1 size 10", got)
	}
}

func TestAnalyze(t *testing.T) {
	fetcher := &fakeFetcher{stream: []model.RawListing{
		listing("무선 마우스 블랙", "A몰", 9000),
		listing("무선 마우스 화이트", "B몰", 15000),
		listing("게이밍 마우스", "A몰", 60000),
		listing("무선 키보드", "C몰", 250000),
	}}
	svc := New(fetcher, Options{})

	a, err := svc.Analyze(context.Background(), "마우스", model.SortRelevance, 3)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Stats.AvgPrice != 83500 {
		t.Errorf("AvgPrice = %v, want 83500", a.Stats.AvgPrice)
	}
	if a.Stats.UniqueMerchants != 3 {
		t.Errorf("UniqueMerchants = %d, want 3", a.Stats.UniqueMerchants)
	}
	if len(a.Tokens) == 0 || a.Tokens[0].Token != "마우스" || a.Tokens[0].Count != 3 {
		t.Errorf("Tokens = %+v, want 마우스 first with 3", a.Tokens)
	}
	if len(a.Top) != 4 {
		t.Errorf("Top has %d listings, want 4", len(a.Top))
	}
	if fetcher.requests[0].Size != model.MaxPageSize {
		t.Errorf("Analyze requested %d listings, want %d", fetcher.requests[0].Size, model.MaxPageSize)
	}
}

func TestRelatedKeywords(t *testing.T) {
	related := []model.KeywordMetric{{Keyword: "무선마우스", PCVolume: model.Known(1000)}}
	authErr := apperr.Auth("keyword tool", errors.New("403"))
	titles := &fakeFetcher{stream: []model.RawListing{
		listing("무선 마우스", "A몰", 1000),
		listing("게이밍 마우스", "B몰", 1000),
	}}

	tests := []struct {
		name       string
		source     KeywordSource
		fallback   bool
		wantSource string
		wantWords  []string
		wantKind   apperr.Kind
	}{
		{
			name:       "keyword tool",
			source:     &fakeKeywords{metrics: related},
			wantSource: SourceKeywordTool,
			wantWords:  []string{"무선마우스"},
		},
		{
			name:       "auth error falls back",
			source:     &fakeKeywords{err: authErr},
			fallback:   true,
			wantSource: SourceSearchFallback,
			wantWords:  []string{"게이밍", "마우스", "무선"},
		},
		{
			name:     "auth error without fallback",
			source:   &fakeKeywords{err: authErr},
			wantKind: apperr.KindAuth,
		},
		{
			name:       "transport error falls back",
			source:     &fakeKeywords{err: apperr.Transport("keywordstool", errors.New("503 service unavailable"))},
			fallback:   true,
			wantSource: SourceSearchFallback,
			wantWords:  []string{"게이밍", "마우스", "무선"},
		},
		{
			name:       "decode error falls back",
			source:     &fakeKeywords{err: apperr.Decode("keywordstool", errors.New(`response is missing "keywordList"`))},
			fallback:   true,
			wantSource: SourceSearchFallback,
			wantWords:  []string{"게이밍", "마우스", "무선"},
		},
		{
			name:     "transport error without fallback",
			source:   &fakeKeywords{err: apperr.Transport("keywordstool", errors.New("reset"))},
			wantKind: apperr.KindTransport,
		},
		{
			name:     "canceled is not masked",
			source:   &fakeKeywords{err: apperr.Canceled("keywordstool", context.Canceled)},
			fallback: true,
			wantKind: apperr.KindCanceled,
		},
		{
			name:     "validation is not masked",
			source:   &fakeKeywords{err: apperr.Validation("keywordstool", "hint keyword is required")},
			fallback: true,
			wantKind: apperr.KindValidation,
		},
		{
			name:       "unconfigured falls back",
			fallback:   true,
			wantSource: SourceSearchFallback,
			wantWords:  []string{"게이밍", "마우스", "무선"},
		},
		{
			name:     "unconfigured without fallback",
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(titles, Options{Keywords: tt.source, Fallback: tt.fallback})

			report, err := svc.RelatedKeywords(context.Background(), "마우스")
			if tt.wantKind != apperr.KindUnknown {
				if !apperr.Is(err, tt.wantKind) {
					t.Fatalf("RelatedKeywords() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("RelatedKeywords: %v", err)
			}
			if report.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", report.Source, tt.wantSource)
			}
			var words []string
			for _, m := range report.Metrics {
				words = append(words, m.Keyword)
			}
			if diff := cmp.Diff(tt.wantWords, words); diff != "" {
				t.Errorf("keywords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeywordTable(t *testing.T) {
	src := &fakeKeywords{metrics: []model.KeywordMetric{
		{Keyword: "마우스", PCVolume: model.Known(100), MobileVolume: model.Known(300)},
		{Keyword: "무선마우스", PCVolume: model.Unknown, MobileVolume: model.Known(50)},
		{Keyword: "키보드", PCVolume: model.Known(500), MobileVolume: model.Known(500)},
	}}
	svc := New(&fakeFetcher{}, Options{Keywords: src})

	view, err := svc.KeywordTable(context.Background(), "마우스", "마우스", analysis.KeywordSort{By: analysis.KeywordByPCVolume, Desc: true})
	if err != nil {
		t.Fatalf("KeywordTable: %v", err)
	}

	var got []string
	for _, r := range view.Rows {
		got = append(got, r.Keyword)
	}
	if diff := cmp.Diff([]string{"마우스", "무선마우스"}, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if view.Summary.PCVolume != 100 || view.Summary.KnownPC != 1 {
		t.Errorf("Summary = %+v", view.Summary)
	}
}

var _ rank.PageFetcher = (*fakeFetcher)(nil)
