// Package rank finds where a merchant's listings appear in search results.
//
// Resolver.Resolve scans up to MaxPages pages of PageSize results in rank
// order. The global rank of an item is start + its index within the page.
// Only listings whose merchant name contains the target merchant
// (case-insensitively) are considered, duplicates among them are dropped by
// title identity keeping the first occurrence, and the best rank is the
// lowest one seen.
//
// The scan is sequential: one request in flight per query. Any fetch error
// aborts the scan and no rank is reported.
package rank
