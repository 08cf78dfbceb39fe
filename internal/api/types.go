package api

import "encoding/json"

// SearchResponse from GET shop.json. Items is a pointer so that a body
// without the key can be told apart from an empty result.
type SearchResponse struct {
	LastBuildDate string        `json:"lastBuildDate"`
	Total         int           `json:"total"`
	Start         int           `json:"start"`
	Display       int           `json:"display"`
	Items         *[]SearchItem `json:"items"`
}

// SearchItem is one product in a search response. Title may contain <b> markup.
type SearchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	LPrice      string `json:"lprice"`
	HPrice      string `json:"hprice"`
	MallName    string `json:"mallName"`
	ProductID   string `json:"productId"`
	ProductType string `json:"productType"`
	Brand       string `json:"brand"`
	Maker       string `json:"maker"`
	Category1   string `json:"category1"`
	Category2   string `json:"category2"`
	Category3   string `json:"category3"`
	Category4   string `json:"category4"`
}

// KeywordToolResponse from GET /keywordstool
type KeywordToolResponse struct {
	KeywordList *[]KeywordItem `json:"keywordList"`
}

// KeywordItem is one related keyword. Numeric fields arrive either as JSON
// numbers or as strings such as "< 10", so they are kept raw.
type KeywordItem struct {
	RelKeyword             string          `json:"relKeyword"`
	MonthlyPcQcCnt         json.RawMessage `json:"monthlyPcQcCnt"`
	MonthlyMobileQcCnt     json.RawMessage `json:"monthlyMobileQcCnt"`
	MonthlyAvePcClkCnt     json.RawMessage `json:"monthlyAvePcClkCnt"`
	MonthlyAveMobileClkCnt json.RawMessage `json:"monthlyAveMobileClkCnt"`
	MonthlyAvePcCtr        json.RawMessage `json:"monthlyAvePcCtr"`
	MonthlyAveMobileCtr    json.RawMessage `json:"monthlyAveMobileCtr"`
	CompIdx                string          `json:"compIdx"`
	MonthlyAveImpsCnt      json.RawMessage `json:"monthlyAveImpsCnt"`
	PlAvgDepth             json.RawMessage `json:"plAvgDepth"`
}
