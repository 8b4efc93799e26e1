package summary

import (
	"math"
	"sort"

	"github.com/bluegrove/aquamon-core/internal/store"
)

// DailySummary is the per-day average of each metric. A nil average
// means the day had no trustworthy readings for that metric.
type DailySummary struct {
	Date  string   `json:"date"` // YYYY-MM-DD, UTC
	PH    *float64 `json:"ph"`
	TDS   *float64 `json:"tds"`
	TempC *float64 `json:"temp_c"`
	Count int      `json:"count"`
}

// accumulator collects present values for one day.
type accumulator struct {
	ph, tds, temp []float64
	count         int
}

// Daily groups the series by UTC calendar day and averages each metric
// over the present values. Entries with unparseable timestamps are
// skipped. The result is sorted ascending by date.
func Daily(series store.Series) []DailySummary {
	days := make(map[string]*accumulator)

	for _, r := range series {
		t, err := r.Time()
		if err != nil {
			continue
		}
		date := t.UTC().Format("2006-01-02")

		acc, ok := days[date]
		if !ok {
			acc = &accumulator{}
			days[date] = acc
		}
		acc.count++
		if r.PH != nil {
			acc.ph = append(acc.ph, *r.PH)
		}
		if r.TDS != nil {
			acc.tds = append(acc.tds, *r.TDS)
		}
		if r.TempC != nil {
			acc.temp = append(acc.temp, *r.TempC)
		}
	}

	out := make([]DailySummary, 0, len(days))
	for date, acc := range days {
		out = append(out, DailySummary{
			Date:  date,
			PH:    mean(acc.ph),
			TDS:   mean(acc.tds),
			TempC: mean(acc.temp),
			Count: acc.count,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// mean averages the values rounded to 2 fractional digits, or nil for
// an empty slice.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := math.Round(sum/float64(len(values))*100) / 100
	return &avg
}
