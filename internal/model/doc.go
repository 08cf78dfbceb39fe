// Package model defines the shared data types used across the rank checker.
//
// Conventions:
//   - Prices: int64 in won; 0 when the source value was missing or unparsable
//   - Ranks: 1-based position in the search result stream (start + local index)
//   - Keyword metrics: Metric values that are either known numbers or the unknown sentinel
package model
