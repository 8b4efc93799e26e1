package store

import "errors"

// Sentinel errors for store operations.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, store.ErrMissingTimestamp) {
//	    // reject the reading before touching the file
//	}
var (
	// ErrMissingTimestamp is returned when a reading lacks a timestamp.
	ErrMissingTimestamp = errors.New("store: reading has no timestamp")

	// ErrSaveFailed is returned when the atomic save could not complete.
	// The original file is left unchanged.
	ErrSaveFailed = errors.New("store: save failed")
)
