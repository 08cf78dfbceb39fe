package model

// -----------------------------------------------------------------------------
// Search Listings
// -----------------------------------------------------------------------------

// RawListing is a search item as returned by the shopping search API, before
// normalization. All fields are kept as strings.
type RawListing struct {
	Position    int // 1-based position within its page
	Title       string
	Link        string
	Image       string
	LPrice      string
	HPrice      string
	MallName    string
	ProductID   string
	ProductType string
	Brand       string
	Maker       string
	Category1   string
	Category2   string
	Category3   string
	Category4   string
}

// Listing is a normalized product listing. Title is never empty.
type Listing struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Image     string `json:"image,omitempty"`
	Price     int64  `json:"price"`
	Merchant  string `json:"merchant"`
	Brand     string `json:"brand,omitempty"`
	Category1 string `json:"category1,omitempty"`
	Category2 string `json:"category2,omitempty"`
}

// Category joins the first two category levels as "a > b".
func (l Listing) Category() string {
	switch {
	case l.Category1 == "":
		return l.Category2
	case l.Category2 == "":
		return l.Category1
	default:
		return l.Category1 + " > " + l.Category2
	}
}

// RankedListing is a listing together with its global rank.
type RankedListing struct {
	Rank int `json:"rank"`
	Listing
}

// -----------------------------------------------------------------------------
// Paging
// -----------------------------------------------------------------------------

// PageRequest selects one page of search results.
type PageRequest struct {
	Keyword string
	Start   int // 1-based offset
	Size    int
	Sort    SortMode
}

// Page is one page of raw search results.
type Page struct {
	Keyword string
	Total   int // total results reported by the API
	Start   int
	Display int
	Items   []RawListing
}
