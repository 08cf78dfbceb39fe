// Package api provides clients for the two upstream HTTP APIs.
//
// Shopping search (credential headers):
//   - https://openapi.naver.com/v1/search/shop.json
//
// Keyword metrics (HMAC-signed headers, see package auth):
//   - https://api.searchad.naver.com/keywordstool
//
// Neither client retries on its own; wrap a fetcher with NewRetryFetcher
// when a retry policy is wanted.
package api
