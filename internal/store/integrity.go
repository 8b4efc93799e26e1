package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// IntegrityReport summarises per-entry structural checks over the raw
// data file.
type IntegrityReport struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	Total      int      `json:"total_readings"`
	ValidCount int      `json:"valid_readings"`
}

// metricFields are the per-entry metric keys every reading must carry.
var metricFields = []string{"ph", "tds", "temp_c"}

// ValidateIntegrity checks the data file entry by entry: object shape,
// timestamp presence and parseability, and numeric typing of the three
// metric fields. Out-of-order storage is reported as a warning, not an
// error.
//
// The check parses the raw JSON rather than going through Load so that
// malformed entries are reported instead of silently dropped.
func (s *Store) ValidateIntegrity() IntegrityReport {
	report := IntegrityReport{
		Errors:   []string{},
		Warnings: []string{},
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// An absent file is a valid empty series.
			report.Valid = true
			return report
		}
		report.Errors = append(report.Errors, fmt.Sprintf("reading data file: %v", err))
		return report
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("data file is not a JSON array: %v", err))
		return report
	}

	report.Total = len(entries)

	timestamps := make([]string, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("reading %d: not an object", i))
			continue
		}

		tsRaw, ok := fields["timestamp"]
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("reading %d: missing timestamp", i))
			continue
		}

		var ts string
		if err := json.Unmarshal(tsRaw, &ts); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("reading %d: timestamp is not a string", i))
			continue
		}
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("reading %d: invalid timestamp format", i))
			continue
		}
		timestamps = append(timestamps, ts)

		entryValid := true
		for _, field := range metricFields {
			valRaw, present := fields[field]
			if !present {
				report.Warnings = append(report.Warnings, fmt.Sprintf("reading %d: missing %s", i, field))
				continue
			}
			var val *float64
			if err := json.Unmarshal(valRaw, &val); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("reading %d: %s is not numeric", i, field))
				entryValid = false
			}
		}
		if entryValid {
			report.ValidCount++
		}
	}

	// Chronological order is expected but not fatal: Load sorts.
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] < timestamps[i-1] {
			report.Warnings = append(report.Warnings, "readings are not in chronological order")
			break
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
