// Package server exposes rank checks and analyses over HTTP.
//
// JSON endpoints live under /api; /ws/rank streams progress for a single
// rank check over a websocket. Errors are always answered as
//
//	{"error": {"kind": "validation", "message": "..."}}
package server
