package rank

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		limit   int
		want    []string
		wantErr bool
	}{
		{"basic", "무선 이어폰, 블루투스 이어폰", 10, []string{"무선 이어폰", "블루투스 이어폰"}, false},
		{"blanks and repeats", " a,, b ,a, ", 10, []string{"a", "b"}, false},
		{"empty", " , ", 10, nil, true},
		{"over limit", "a,b,c", 2, nil, true},
		{"no limit", "a,b,c", 0, []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeywords(tt.in, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeywords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if apperr.KindOf(err) != apperr.KindValidation {
					t.Errorf("KindOf(err) = %v, want validation", apperr.KindOf(err))
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseKeywords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveBatch(t *testing.T) {
	fetcher := &streamFetcher{
		stream: makeStream(20, map[int]model.RawListing{
			4: {Title: "Acme Widget", MallName: "AcmeStore"},
		}),
		failKeyword: "broken",
	}
	r := NewResolver(fetcher, nil)

	base := model.RankQuery{Merchant: "acme", PageSize: 10, MaxPages: 2}
	items := r.ResolveBatch(context.Background(), []string{"widget", "broken", "gadget"}, base, 2, nil)

	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}

	for i, kw := range []string{"widget", "broken", "gadget"} {
		if items[i].Keyword != kw {
			t.Errorf("items[%d].Keyword = %q, want %q", i, items[i].Keyword, kw)
		}
	}

	if items[0].Err != nil || items[0].Result.Best == nil || items[0].Result.Best.Rank != 4 {
		t.Errorf("items[0] = %+v, want rank 4", items[0])
	}
	if items[0].Result.Query.Keyword != "widget" {
		t.Errorf("items[0] query keyword = %q, want widget", items[0].Result.Query.Keyword)
	}
	if apperr.KindOf(items[1].Err) != apperr.KindTransport || items[1].Result != nil {
		t.Errorf("items[1] = %+v, want transport failure", items[1])
	}
	if items[2].Err != nil || items[2].Result == nil {
		t.Errorf("items[2] = %+v, want success", items[2])
	}
}
