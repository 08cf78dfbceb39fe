// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - API request counts and latencies per upstream (search, keywordstool)
//   - Rank check outcomes and pages scanned
//   - Keyword lookups by source, including search-result fallbacks
//   - Rank changes detected by the monitor
package metrics
