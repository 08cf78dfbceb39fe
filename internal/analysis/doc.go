// Package analysis computes statistics over normalized listings and keyword
// metrics: price and merchant summaries, title token frequencies, brand
// competition, and the sortable keyword and shopping tables.
package analysis
