package sensor

import (
	"fmt"
	"math"
	"time"

	"github.com/bluegrove/aquamon-core/internal/conversion"
	"github.com/bluegrove/aquamon-core/internal/hal"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
	"github.com/bluegrove/aquamon-core/internal/store"
)

// Calibration holds the immutable calibration parameters supplied at
// construction. Never mutated during the orchestrator's lifetime.
type Calibration struct {
	// PHSlope and PHIntercept define the linear pH model. Slope 0
	// marks the probe as uncalibrated; pH stays absent.
	PHSlope     float64
	PHIntercept float64

	// TDSMultiplier scales EC (µS/cm) to TDS (ppm). Must be > 0.
	TDSMultiplier float64
}

// Config contains the orchestrator's channel assignments and
// calibration.
type Config struct {
	PHChannel   int
	TDSChannel  int
	Calibration Calibration
}

// Sensors orchestrates one Reading per Read call over the two
// capability handles. The handles are owned exclusively by the
// orchestrator for the duration of a run.
type Sensors struct {
	analog hal.AnalogSource
	temp   hal.TemperatureSource
	cfg    Config
	logger *logging.Logger

	// now is the timestamp source, replaceable in tests.
	now func() time.Time
}

// New creates a sensor orchestrator.
//
// Channel assignments outside the supported set are configuration
// errors and fail here, never at read time.
//
// Parameters:
//   - analog: ADC capability (real or mock)
//   - temp: Temperature capability (real or mock)
//   - cfg: Channels and calibration
//   - logger: Structured logger for per-metric warnings
//
// Returns:
//   - *Sensors: Orchestrator ready for use
//   - error: If a channel assignment or the calibration is invalid
func New(analog hal.AnalogSource, temp hal.TemperatureSource, cfg Config, logger *logging.Logger) (*Sensors, error) {
	if analog == nil || temp == nil {
		return nil, fmt.Errorf("sensor: both capability handles are required")
	}
	if cfg.PHChannel < hal.MinChannel || cfg.PHChannel > hal.MaxChannel {
		return nil, fmt.Errorf("sensor: ph channel %d: %w", cfg.PHChannel, hal.ErrInvalidChannel)
	}
	if cfg.TDSChannel < hal.MinChannel || cfg.TDSChannel > hal.MaxChannel {
		return nil, fmt.Errorf("sensor: tds channel %d: %w", cfg.TDSChannel, hal.ErrInvalidChannel)
	}
	if cfg.Calibration.TDSMultiplier <= 0 {
		return nil, fmt.Errorf("sensor: tds multiplier must be > 0, got %v", cfg.Calibration.TDSMultiplier)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Sensors{
		analog: analog,
		temp:   temp,
		cfg:    cfg,
		logger: logger.With("component", "sensor"),
		now:    time.Now,
	}, nil
}

// Read produces exactly one Reading.
//
// Temperature is acquired first so the TDS conversion can compensate
// with the live value; pH and TDS follow independently. Failures are
// absorbed into absent fields. The timestamp is taken at assembly.
func (s *Sensors) Read() store.Reading {
	tempC, haveTemp := s.ReadTemperature()

	ph, havePH := s.ReadPH()
	tds, haveTDS := s.ReadTDS(tempC, haveTemp)

	reading := store.Reading{
		Timestamp: store.FormatTime(s.now()),
	}
	if havePH {
		reading.PH = store.Float(ph)
	}
	if haveTDS {
		reading.TDS = store.Float(tds)
	}
	if haveTemp {
		reading.TempC = store.Float(tempC)
	}

	return reading
}

// ReadPH acquires and converts the pH metric.
//
// Returns:
//   - float64: pH in [0, 14]
//   - bool: false when the read failed or the result is implausible
func (s *Sensors) ReadPH() (float64, bool) {
	voltage, err := s.analog.ReadVoltage(s.cfg.PHChannel)
	if err != nil {
		s.logger.Warn("ph voltage read failed", "channel", s.cfg.PHChannel, "error", err)
		return 0, false
	}

	ph, ok := conversion.PHFromVoltage(voltage, s.cfg.Calibration.PHSlope, s.cfg.Calibration.PHIntercept)
	if !ok {
		s.logger.Warn("ph conversion rejected", "voltage", voltage)
		return 0, false
	}

	if !conversion.ValidateSensorRange(ph, conversion.MinPH, conversion.MaxPH) {
		return 0, false
	}
	return ph, true
}

// ReadTemperature acquires the water temperature.
//
// Returns:
//   - float64: Temperature in Celsius rounded to 2 fractional digits
//   - bool: false when the probe is missing or the value implausible
func (s *Sensors) ReadTemperature() (float64, bool) {
	tempC, ok := s.temp.ReadCelsius()
	if !ok {
		s.logger.Warn("temperature read failed")
		return 0, false
	}

	if !conversion.ValidateSensorRange(tempC, conversion.MinTempC, conversion.MaxTempC) {
		s.logger.Warn("temperature out of range", "temp_c", tempC)
		return 0, false
	}

	return math.Round(tempC*100) / 100, true
}

// ReadTDS acquires and converts the TDS metric, compensating with the
// supplied temperature. When no temperature is available the 25 °C
// reference is used instead of failing the metric outright.
func (s *Sensors) ReadTDS(tempC float64, haveTemp bool) (float64, bool) {
	voltage, err := s.analog.ReadVoltage(s.cfg.TDSChannel)
	if err != nil {
		s.logger.Warn("tds voltage read failed", "channel", s.cfg.TDSChannel, "error", err)
		return 0, false
	}

	if !haveTemp {
		tempC = conversion.ReferenceTempC
	}

	tds, ok := conversion.VoltageToTDS(voltage, tempC, s.cfg.Calibration.TDSMultiplier)
	if !ok {
		s.logger.Warn("tds conversion rejected", "voltage", voltage, "temp_c", tempC)
		return 0, false
	}

	if !conversion.ValidateSensorRange(tds, 0, conversion.MaxTDS) {
		return 0, false
	}
	return tds, true
}
