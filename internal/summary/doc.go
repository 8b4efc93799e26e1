// Package summary derives per-day aggregates from the reading series
// for the dashboard and the coach. Absent metric values are ignored,
// never counted as zero.
package summary
