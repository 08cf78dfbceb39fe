// Package monitor re-checks watched keyword/merchant pairs on an interval.
//
// Each cycle:
//   - Checks every watch with bounded concurrency
//   - Compares the new rank with the previous check of the same pair
//   - Sends a notification when the rank moved, appeared or disappeared
//
// Failed checks make no rank claim, so they are logged and skipped.
package monitor
