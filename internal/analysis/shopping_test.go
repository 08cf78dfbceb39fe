package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rickgao/shoprank/internal/model"
)

func sampleRanked() []model.RankedListing {
	mk := func(rank int, title, mall, brand string, price int64) model.RankedListing {
		return model.RankedListing{Rank: rank, Listing: model.Listing{Title: title, Merchant: mall, Brand: brand, Price: price}}
	}
	return []model.RankedListing{
		mk(1, "Sony WH-1000XM5", "SoundShop", "Sony", 399000),
		mk(2, "sony  wh-1000xm5", "OtherMall", "Sony", 389000),
		mk(3, "Bose QC45", "AudioMall", "Bose", 299000),
		mk(4, "Galaxy Buds", "SoundShop", "Samsung", 149000),
	}
}

func TestShoppingTable(t *testing.T) {
	rows := ShoppingTable(sampleRanked())

	var got []int
	for _, r := range rows {
		got = append(got, r.Rank)
	}
	if diff := cmp.Diff([]int{1, 3, 4}, got); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
	if rows[1].Position != 3 {
		t.Errorf("Position = %d, want stream rank 3", rows[1].Position)
	}
}

func TestFilterShopping(t *testing.T) {
	rows := ShoppingTable(sampleRanked())

	tests := []struct {
		name   string
		filter ShoppingFilter
		want   []int
	}{
		{"none", ShoppingFilter{}, []int{1, 3, 4}},
		{"merchant", ShoppingFilter{Merchant: "soundshop"}, []int{1, 4}},
		{"brand", ShoppingFilter{Brand: "BOSE"}, []int{3}},
		{"title", ShoppingFilter{Title: "buds"}, []int{4}},
		{"combined", ShoppingFilter{Merchant: "sound", Brand: "sony"}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []int{}
			for _, r := range FilterShopping(rows, tt.filter) {
				got = append(got, r.Rank)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ranks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortShopping(t *testing.T) {
	rows := ShoppingTable(sampleRanked())

	asc := SortShopping(rows, ShoppingByPriceAsc)
	if asc[0].Rank != 4 || asc[0].Position != 1 || asc[2].Rank != 1 || asc[2].Position != 3 {
		t.Errorf("price asc = %+v", asc)
	}

	desc := SortShopping(rows, ShoppingByPriceDesc)
	if desc[0].Rank != 1 || desc[0].Position != 1 {
		t.Errorf("price desc first = %+v", desc[0])
	}

	back := SortShopping(asc, ShoppingByRank)
	for i, want := range []int{1, 3, 4} {
		if back[i].Rank != want || back[i].Position != want {
			t.Errorf("rank order[%d] = rank %d position %d, want %d", i, back[i].Rank, back[i].Position, want)
		}
	}
}

func TestShoppingStats(t *testing.T) {
	stats := Aggregate(ShoppingListings(ShoppingTable(sampleRanked())))
	if stats.Total != 3 || stats.MinPrice != 149000 || stats.MaxPrice != 399000 {
		t.Errorf("stats = %+v", stats)
	}
}
