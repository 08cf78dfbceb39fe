// Package service ties the search clients, the rank resolver, analysis and
// history together for the CLI and the HTTP server.
//
// Every operation records Prometheus metrics. Rank checks are saved to the
// history store when one is configured; a failed save is logged and does
// not fail the check.
package service
