// Package normalize turns raw search items and keyword metric values into
// the typed records the rest of the module works with.
package normalize

import (
	"encoding/json"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rickgao/shoprank/internal/model"
)

// tagPattern matches any <...> run, shortest first. It is not an HTML parser.
var tagPattern = regexp.MustCompile(`<.*?>`)

// StripTags removes markup runs, decodes HTML entities and trims whitespace.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// ParsePrice parses a price such as "12,900". Missing or unparsable values give 0.
func ParsePrice(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Listing normalizes a raw search item. It reports false when the title is
// empty after stripping, in which case the item must be skipped.
func Listing(raw model.RawListing) (model.Listing, bool) {
	title := StripTags(raw.Title)
	if title == "" {
		return model.Listing{}, false
	}
	return model.Listing{
		Title:     title,
		Link:      strings.TrimSpace(raw.Link),
		Image:     strings.TrimSpace(raw.Image),
		Price:     ParsePrice(raw.LPrice),
		Merchant:  strings.TrimSpace(raw.MallName),
		Brand:     strings.TrimSpace(raw.Brand),
		Category1: strings.TrimSpace(raw.Category1),
		Category2: strings.TrimSpace(raw.Category2),
	}, true
}

// Listings normalizes a page of raw items, dropping the ones without a title.
func Listings(raws []model.RawListing) []model.Listing {
	out := make([]model.Listing, 0, len(raws))
	for _, raw := range raws {
		if l, ok := Listing(raw); ok {
			out = append(out, l)
		}
	}
	return out
}

// DedupKey is the identity used to treat listings as duplicates:
// NFC-normalized, lower-cased, with whitespace runs collapsed.
func DedupKey(title string) string {
	s := norm.NFC.String(title)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Metric parses a metric value. Thousands separators and a trailing "%" are
// accepted; anything else that is not a finite number is unknown.
func Metric(s string) model.Metric {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return model.Unknown
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.Unknown
	}
	return model.Known(v)
}

// MetricJSON parses a metric that may arrive as a JSON number or a JSON string.
func MetricJSON(raw json.RawMessage) model.Metric {
	if len(raw) == 0 || string(raw) == "null" {
		return model.Unknown
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Unknown
		}
		return Metric(s)
	}
	return Metric(string(raw))
}
