package model

import (
	"encoding/json"
	"testing"

	"github.com/rickgao/shoprank/internal/apperr"
)

func TestSortModeToken(t *testing.T) {
	tests := []struct {
		mode SortMode
		want string
	}{
		{"", "sim"},
		{SortRelevance, "sim"},
		{SortPriceAsc, "asc"},
		{SortPriceDesc, "dsc"},
		{SortSales, "count"},
		{SortRating, "review"},
	}

	for _, tt := range tests {
		if got := tt.mode.Token(); got != tt.want {
			t.Errorf("SortMode(%q).Token() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParseSortMode(t *testing.T) {
	for _, in := range []string{"price_desc", "dsc"} {
		got, err := ParseSortMode(in)
		if err != nil {
			t.Fatalf("ParseSortMode(%q) error: %v", in, err)
		}
		if got != SortPriceDesc {
			t.Errorf("ParseSortMode(%q) = %q, want %q", in, got, SortPriceDesc)
		}
	}

	if _, err := ParseSortMode("newest"); err == nil {
		t.Error("ParseSortMode(newest) expected error")
	}
}

func TestRankQueryValidate(t *testing.T) {
	valid := RankQuery{Keyword: "무선 이어폰", Merchant: "SoundShop", PageSize: 100, MaxPages: 10}

	tests := []struct {
		name    string
		mutate  func(q *RankQuery)
		wantErr bool
	}{
		{"valid", func(q *RankQuery) {}, false},
		{"blank keyword", func(q *RankQuery) { q.Keyword = "  " }, true},
		{"blank merchant", func(q *RankQuery) { q.Merchant = "" }, true},
		{"zero page size", func(q *RankQuery) { q.PageSize = 0 }, true},
		{"zero max pages", func(q *RankQuery) { q.MaxPages = 0 }, true},
		{"oversized page is capped", func(q *RankQuery) { q.PageSize = 500 }, false},
		{"window overflow", func(q *RankQuery) { q.MaxPages = 11 }, true},
		{"bad sort", func(q *RankQuery) { q.Sort = "newest" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)
			err := q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("KindOf() = %v, want validation", apperr.KindOf(err))
			}
		})
	}
}

func TestMetric(t *testing.T) {
	if Unknown.String() != "-" {
		t.Errorf("Unknown.String() = %q, want -", Unknown.String())
	}
	if got := Known(1200).Add(Known(34)); got != Known(1234) {
		t.Errorf("Add() = %+v, want 1234", got)
	}
	if got := Known(1200).Add(Unknown); got.Known {
		t.Errorf("Add(Unknown) = %+v, want unknown", got)
	}

	data, err := json.Marshal(KeywordMetric{Keyword: "k", PCVolume: Known(10)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["pc_volume"] != float64(10) {
		t.Errorf("pc_volume = %v, want 10", decoded["pc_volume"])
	}
	if decoded["mobile_volume"] != nil {
		t.Errorf("mobile_volume = %v, want null", decoded["mobile_volume"])
	}
}

func TestListingCategory(t *testing.T) {
	tests := []struct {
		c1, c2, want string
	}{
		{"디지털/가전", "음향기기", "디지털/가전 > 음향기기"},
		{"디지털/가전", "", "디지털/가전"},
		{"", "", ""},
	}
	for _, tt := range tests {
		l := Listing{Category1: tt.c1, Category2: tt.c2}
		if got := l.Category(); got != tt.want {
			t.Errorf("Category() = %q, want %q", got, tt.want)
		}
	}
}
