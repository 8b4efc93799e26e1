// Package archive mirrors the JSON reading series into SQLite.
//
// The JSON file remains the source of truth; the archive is an
// optional, append-only secondary copy that the dashboard queries for
// daily aggregates without loading the whole series. Because it is a
// mirror, a failed archive write is logged and dropped — it never
// fails the sampling cycle or touches the JSON store's durability
// guarantees.
package archive
