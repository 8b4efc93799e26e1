package coach

import (
	"math"
	"sort"
	"time"

	"github.com/bluegrove/aquamon-core/internal/store"
)

// Analysis windows.
const (
	shortWindowDays = 7
	longWindowDays  = 30
)

// MetricStats summarises one metric over a window, ignoring absent values.
type MetricStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// WindowStats summarises all metrics over one time window.
//
// A nil metric pointer means the window contained no values for that
// metric at all.
type WindowStats struct {
	Period string       `json:"period"`
	Count  int          `json:"count"`
	PH     *MetricStats `json:"ph"`
	TDS    *MetricStats `json:"tds"`
	Temp   *MetricStats `json:"temp"`
}

// Analysis holds the computed statistics fed to the model.
type Analysis struct {
	Last7Days  WindowStats `json:"last_7_days"`
	Last30Days WindowStats `json:"last_30_days"`
}

// Analyze computes 7 and 30 day statistics from the series.
//
// Readings with unparseable timestamps are skipped. Absent metric
// values are ignored per metric, so a reading with only a temperature
// still contributes to the temperature statistics.
func Analyze(series store.Series, now time.Time) Analysis {
	cutoff7 := store.FormatTime(now.AddDate(0, 0, -shortWindowDays))
	cutoff30 := store.FormatTime(now.AddDate(0, 0, -longWindowDays))

	var win7, win30 store.Series
	for _, r := range series {
		if _, err := r.Time(); err != nil {
			continue
		}
		if r.Timestamp >= cutoff30 {
			win30 = append(win30, r)
		}
		if r.Timestamp >= cutoff7 {
			win7 = append(win7, r)
		}
	}

	return Analysis{
		Last7Days:  windowStats("7 days", win7),
		Last30Days: windowStats("30 days", win30),
	}
}

// windowStats computes per-metric statistics for one window.
func windowStats(period string, readings store.Series) WindowStats {
	var ph, tds, temp []float64
	for _, r := range readings {
		if r.PH != nil {
			ph = append(ph, *r.PH)
		}
		if r.TDS != nil {
			tds = append(tds, *r.TDS)
		}
		if r.TempC != nil {
			temp = append(temp, *r.TempC)
		}
	}

	return WindowStats{
		Period: period,
		Count:  len(readings),
		PH:     metricStats(ph),
		TDS:    metricStats(tds),
		Temp:   metricStats(temp),
	}
}

// metricStats computes count/min/max/avg/median for a value slice.
// Returns nil when the slice is empty.
func metricStats(values []float64) *MetricStats {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return &MetricStats{
		Count:  len(sorted),
		Min:    roundTo(sorted[0], 2),
		Max:    roundTo(sorted[len(sorted)-1], 2),
		Avg:    roundTo(sum/float64(len(sorted)), 2),
		Median: roundTo(median(sorted), 2),
	}
}

// median returns the median of a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// roundTo rounds a value to the given number of decimal places.
func roundTo(value float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(value*scale) / scale
}
