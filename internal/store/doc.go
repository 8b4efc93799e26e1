// Package store owns the on-disk water-quality time series.
//
// The series is a single JSON array of readings, sorted ascending by
// timestamp, replaced atomically on every save. Readers never observe
// a partially written file.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────┐
//	│                        Store                              │
//	│                                                           │
//	│  ┌────────────┐   ┌────────────┐   ┌──────────────────┐   │
//	│  │   Series   │   │  Load/Save │   │    Integrity     │   │
//	│  │ (series.go)│──▶│ (store.go) │   │ (integrity.go)   │   │
//	│  │            │   │            │   │                  │   │
//	│  │ • Reading  │   │ • atomic   │   │ • per-entry      │   │
//	│  │ • sorting  │   │   rename   │   │   structure      │   │
//	│  │ • pruning  │   │ • prune on │   │ • chronology     │   │
//	│  │            │   │   append   │   │   warning        │   │
//	│  └────────────┘   └────────────┘   └──────────────────┘   │
//	└───────────────────────────────────────────────────────────┘
//
// # Durability
//
// Save writes the full series to a temporary file in the target's
// directory, then renames it over the target. A failure mid-write
// removes the temporary file and leaves the original untouched.
// A corrupt or unreadable file loads as an empty series with a logged
// warning; the corrupt file itself is only replaced by the next
// successful save.
//
// # Concurrency
//
// The store is single-writer by design. Concurrent writers racing an
// append can lose an update (last completed save wins); cross-process
// mutual exclusion is explicitly out of scope.
package store
