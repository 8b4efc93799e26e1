package sensor

import "github.com/bluegrove/aquamon-core/internal/store"

// Metric statuses reported by Diagnostics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// MetricDiagnostic describes one metric's raw and converted state.
type MetricDiagnostic struct {
	// Voltage is the raw ADC voltage, nil for the temperature probe
	// or when the bus read itself failed.
	Voltage *float64 `json:"voltage"`

	// Value is the converted physical quantity, nil when absent.
	Value *float64 `json:"value"`

	// Status is "ok" when a trustworthy value was produced.
	Status string `json:"status"`
}

// Diagnostics is a per-metric troubleshooting report. Nothing is
// persisted when producing it.
type Diagnostics struct {
	Timestamp   string                      `json:"timestamp"`
	Channels    map[string]int              `json:"channels"`
	Calibration Calibration                 `json:"calibration"`
	Sensors     map[string]MetricDiagnostic `json:"sensors"`
}

// Diagnostics acquires every metric once and reports raw voltage,
// converted value, and status for each.
func (s *Sensors) Diagnostics() Diagnostics {
	diag := Diagnostics{
		Timestamp: store.FormatTime(s.now()),
		Channels: map[string]int{
			"ph":  s.cfg.PHChannel,
			"tds": s.cfg.TDSChannel,
		},
		Calibration: s.cfg.Calibration,
		Sensors:     make(map[string]MetricDiagnostic, 3),
	}

	// Temperature first, as in a regular cycle.
	tempC, haveTemp := s.ReadTemperature()
	tempDiag := MetricDiagnostic{Status: StatusError}
	if haveTemp {
		tempDiag.Value = store.Float(tempC)
		tempDiag.Status = StatusOK
	}
	diag.Sensors["temperature"] = tempDiag

	phDiag := MetricDiagnostic{Status: StatusError}
	if voltage, err := s.analog.ReadVoltage(s.cfg.PHChannel); err == nil {
		phDiag.Voltage = store.Float(voltage)
	}
	if ph, ok := s.ReadPH(); ok {
		phDiag.Value = store.Float(ph)
		phDiag.Status = StatusOK
	}
	diag.Sensors["ph"] = phDiag

	tdsDiag := MetricDiagnostic{Status: StatusError}
	if voltage, err := s.analog.ReadVoltage(s.cfg.TDSChannel); err == nil {
		tdsDiag.Voltage = store.Float(voltage)
	}
	if tds, ok := s.ReadTDS(tempC, haveTemp); ok {
		tdsDiag.Value = store.Float(tds)
		tdsDiag.Status = StatusOK
	}
	diag.Sensors["tds"] = tdsDiag

	return diag
}
