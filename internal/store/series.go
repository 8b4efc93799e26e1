package store

import (
	"sort"
	"time"
)

// TimeLayout is the fixed-width UTC timestamp format used in the data
// file. Zero-padded fields and a constant fractional width make
// lexicographic comparison equivalent to chronological comparison.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Reading is one calibrated sample of the three water-quality metrics.
//
// A nil metric pointer means the sensor produced no trustworthy value
// that cycle; it is serialised as JSON null, never as zero. Once
// persisted a Reading is immutable: the store only ever appends newer
// readings or prunes older ones.
type Reading struct {
	// Timestamp is the UTC instant of assembly in TimeLayout format.
	Timestamp string `json:"timestamp"`

	// PH is the calibrated pH value in [0, 14], or nil.
	PH *float64 `json:"ph"`

	// TDS is Total Dissolved Solids in ppm, in [0, 5000], or nil.
	TDS *float64 `json:"tds"`

	// TempC is the water temperature in Celsius, in [-10, 60], or nil.
	TempC *float64 `json:"temp_c"`
}

// Time parses the reading's timestamp.
//
// Returns:
//   - time.Time: Parsed UTC instant
//   - error: If the timestamp is empty or not valid RFC 3339
func (r Reading) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Timestamp)
}

// Series is a timestamp-ordered sequence of readings. Duplicate
// timestamps are permitted; ordering is maintained by Sort.
type Series []Reading

// Sort orders the series ascending by timestamp. Timestamps are
// normalised fixed-width UTC strings, so a plain string comparison is
// chronological. The sort is stable so duplicate timestamps keep their
// relative order.
func (s Series) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Timestamp < s[j].Timestamp
	})
}

// Prune returns the entries with a timestamp at or after the cutoff.
// A zero or negative window disables retention and returns the series
// unchanged.
func (s Series) Prune(windowDays int, now time.Time) Series {
	if windowDays <= 0 || len(s) == 0 {
		return s
	}

	cutoff := now.UTC().AddDate(0, 0, -windowDays).Format(TimeLayout)

	kept := make(Series, 0, len(s))
	for _, r := range s {
		if r.Timestamp >= cutoff {
			kept = append(kept, r)
		}
	}
	return kept
}

// FormatTime renders a UTC instant in the store's timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Float returns a pointer to v, for building readings with present
// metric values.
func Float(v float64) *float64 {
	return &v
}
