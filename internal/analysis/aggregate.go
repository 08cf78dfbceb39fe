package analysis

import "github.com/rickgao/shoprank/internal/model"

// PriceBucket is one price band of the histogram. Max of 0 means unbounded.
type PriceBucket struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max,omitempty"`
	Count int    `json:"count"`
}

// priceBands are the histogram bands in won: [min, max).
var priceBands = []PriceBucket{
	{Label: "1만원 미만", Min: 0, Max: 10_000},
	{Label: "1-5만원", Min: 10_000, Max: 50_000},
	{Label: "5-10만원", Min: 50_000, Max: 100_000},
	{Label: "10-20만원", Min: 100_000, Max: 200_000},
	{Label: "20만원 이상", Min: 200_000},
}

// Stats summarizes a set of listings.
type Stats struct {
	Total           int           `json:"total"`
	UniqueMerchants int           `json:"unique_merchants"`
	UniqueBrands    int           `json:"unique_brands"`
	AvgPrice        float64       `json:"avg_price"`
	MinPrice        int64         `json:"min_price"`
	MaxPrice        int64         `json:"max_price"`
	Histogram       []PriceBucket `json:"histogram"`
}

// Aggregate computes Stats. Unparsable prices are 0 and count toward the
// average and the lowest band; min and max only consider positive prices.
func Aggregate(listings []model.Listing) Stats {
	stats := Stats{
		Total:     len(listings),
		Histogram: make([]PriceBucket, len(priceBands)),
	}
	copy(stats.Histogram, priceBands)

	merchants := make(map[string]struct{})
	brands := make(map[string]struct{})
	var sum int64

	for _, l := range listings {
		if l.Merchant != "" {
			merchants[l.Merchant] = struct{}{}
		}
		if l.Brand != "" {
			brands[l.Brand] = struct{}{}
		}

		sum += l.Price
		stats.Histogram[bucketIndex(l.Price)].Count++

		if l.Price > 0 {
			if stats.MinPrice == 0 || l.Price < stats.MinPrice {
				stats.MinPrice = l.Price
			}
			if l.Price > stats.MaxPrice {
				stats.MaxPrice = l.Price
			}
		}
	}

	stats.UniqueMerchants = len(merchants)
	stats.UniqueBrands = len(brands)
	if len(listings) > 0 {
		stats.AvgPrice = float64(sum) / float64(len(listings))
	}

	return stats
}

func bucketIndex(price int64) int {
	for i, b := range priceBands {
		if b.Max == 0 || price < b.Max {
			return i
		}
	}
	return len(priceBands) - 1
}
