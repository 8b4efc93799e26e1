package seed

import (
	"math"
	"math/rand"
	"time"

	"github.com/bluegrove/aquamon-core/internal/conversion"
	"github.com/bluegrove/aquamon-core/internal/store"
)

// Baseline values for a healthy aquaponics system.
const (
	basePH    = 6.8
	baseTDS   = 350.0
	baseTempC = 24.5
)

// Clamp ranges for generated values.
const (
	minPH, maxPH     = 6.0, 8.0
	minTDS, maxTDS   = 100.0, 800.0
	minTemp, maxTemp = 15.0, 30.0
)

// Options controls generation.
type Options struct {
	// Days of history to generate, ending at Now.
	Days int

	// StepMinutes between readings. Defaults to 30 when zero.
	StepMinutes int

	// Seed for the random source. The same seed always produces the
	// same series.
	Seed int64

	// Now anchors the end of the series. Defaults to time.Now().
	Now time.Time
}

// Generate produces a synthetic reading series.
func Generate(opts Options) store.Series {
	if opts.Days <= 0 {
		return nil
	}
	step := opts.StepMinutes
	if step <= 0 {
		step = 30
	}
	end := opts.Now
	if end.IsZero() {
		end = time.Now()
	}
	end = end.UTC()

	rng := rand.New(rand.NewSource(opts.Seed))

	var series store.Series
	start := end.AddDate(0, 0, -opts.Days)
	for ts := start; !ts.After(end); ts = ts.Add(time.Duration(step) * time.Minute) {
		series = append(series, reading(ts, rng))
	}
	return series
}

// reading generates one reading at the given time.
func reading(ts time.Time, rng *rand.Rand) store.Reading {
	hour := float64(ts.Hour())
	dayOfYear := float64(ts.YearDay())

	// Daily temperature cycle (warmer in the afternoon) plus a
	// simplified seasonal swing.
	tempDaily := 2.0 * math.Sin((hour-6)*math.Pi/12)
	tempSeasonal := 3.0 * math.Sin((dayOfYear-81)*2*math.Pi/365)

	// pH rises slightly during the day (photosynthesis).
	phDaily := 0.2 * math.Sin((hour-8)*math.Pi/12)

	// TDS fluctuates with feeding cycles and evaporation.
	tdsDaily := 20 * math.Sin((hour-4)*2*math.Pi/24)

	ph := clamp(basePH+phDaily+rng.NormFloat64()*0.1, minPH, maxPH)
	tds := clamp(baseTDS+tdsDaily+rng.NormFloat64()*15, minTDS, maxTDS)
	temp := clamp(baseTempC+tempDaily+tempSeasonal+rng.NormFloat64()*0.5, minTemp, maxTemp)

	return store.Reading{
		Timestamp: store.FormatTime(ts),
		PH:        store.Float(roundTo(ph, 3)),
		TDS:       store.Float(roundTo(tds, 1)),
		TempC:     store.Float(roundTo(temp, 2)),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func roundTo(value float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(value*scale) / scale
}

// Plausible verifies every generated value sits inside the sensor
// validation ranges. Used by tests as a sanity net.
func Plausible(series store.Series) bool {
	for _, r := range series {
		if r.PH != nil && !conversion.ValidateSensorRange(*r.PH, conversion.MinPH, conversion.MaxPH) {
			return false
		}
		if r.TDS != nil && !conversion.ValidateSensorRange(*r.TDS, 0, conversion.MaxTDS) {
			return false
		}
		if r.TempC != nil && !conversion.ValidateSensorRange(*r.TempC, conversion.MinTempC, conversion.MaxTempC) {
			return false
		}
	}
	return true
}
