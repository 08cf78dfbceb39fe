package analysis

import (
	"sort"

	"github.com/rickgao/shoprank/internal/model"
)

// BrandStat summarizes one brand's presence in the results.
type BrandStat struct {
	Brand    string  `json:"brand"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

// BrandStats groups listings by non-empty brand. AvgPrice averages positive
// prices only. Results are ordered by count descending, then brand.
func BrandStats(listings []model.Listing, limit int) []BrandStat {
	type acc struct {
		count  int
		sum    int64
		priced int
	}
	byBrand := make(map[string]*acc)

	for _, l := range listings {
		if l.Brand == "" {
			continue
		}
		a, ok := byBrand[l.Brand]
		if !ok {
			a = &acc{}
			byBrand[l.Brand] = a
		}
		a.count++
		if l.Price > 0 {
			a.sum += l.Price
			a.priced++
		}
	}

	out := make([]BrandStat, 0, len(byBrand))
	for brand, a := range byBrand {
		s := BrandStat{Brand: brand, Count: a.count}
		if a.priced > 0 {
			s.AvgPrice = float64(a.sum) / float64(a.priced)
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Brand < out[j].Brand
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
