package api

import (
	"strings"

	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/normalize"
)

// ToRaw converts the item to a model.RawListing at the given 1-based page position.
func (i *SearchItem) ToRaw(position int) model.RawListing {
	return model.RawListing{
		Position:    position,
		Title:       i.Title,
		Link:        i.Link,
		Image:       i.Image,
		LPrice:      i.LPrice,
		HPrice:      i.HPrice,
		MallName:    i.MallName,
		ProductID:   i.ProductID,
		ProductType: i.ProductType,
		Brand:       i.Brand,
		Maker:       i.Maker,
		Category1:   i.Category1,
		Category2:   i.Category2,
		Category3:   i.Category3,
		Category4:   i.Category4,
	}
}

// ToPage converts the response to a model.Page.
func (r *SearchResponse) ToPage(keyword string) *model.Page {
	page := &model.Page{
		Keyword: keyword,
		Total:   r.Total,
		Start:   r.Start,
		Display: r.Display,
	}
	if r.Items == nil {
		page.Items = []model.RawListing{}
		return page
	}
	items := *r.Items
	page.Items = make([]model.RawListing, len(items))
	for i := range items {
		page.Items[i] = items[i].ToRaw(i + 1)
	}
	return page
}

// ToModel converts the item to a model.KeywordMetric. Average ad depth is
// read from monthlyAveImpsCnt, falling back to plAvgDepth.
func (k *KeywordItem) ToModel() model.KeywordMetric {
	depth := normalize.MetricJSON(k.MonthlyAveImpsCnt)
	if !depth.Known {
		depth = normalize.MetricJSON(k.PlAvgDepth)
	}

	competition := strings.TrimSpace(k.CompIdx)
	if competition == "" {
		competition = "-"
	}

	return model.KeywordMetric{
		Keyword:      strings.TrimSpace(k.RelKeyword),
		PCVolume:     normalize.MetricJSON(k.MonthlyPcQcCnt),
		MobileVolume: normalize.MetricJSON(k.MonthlyMobileQcCnt),
		PCClicks:     normalize.MetricJSON(k.MonthlyAvePcClkCnt),
		MobileClicks: normalize.MetricJSON(k.MonthlyAveMobileClkCnt),
		PCCTR:        normalize.MetricJSON(k.MonthlyAvePcCtr),
		MobileCTR:    normalize.MetricJSON(k.MonthlyAveMobileCtr),
		Competition:  competition,
		AdDepth:      depth,
	}
}
