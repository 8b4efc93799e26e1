package conversion

import "math"

// Input domains and physical plausibility bounds.
const (
	// MinVoltage and MaxVoltage bound the ADC input domain in volts.
	MinVoltage = 0.0
	MaxVoltage = 5.0

	// MinPH and MaxPH bound plausible pH values.
	MinPH = 0.0
	MaxPH = 14.0

	// MinTempC and MaxTempC bound plausible water temperatures in Celsius.
	MinTempC = -10.0
	MaxTempC = 60.0

	// MaxTDS is the maximum plausible TDS reading in ppm for this domain.
	MaxTDS = 5000.0

	// ReferenceTempC is the reference temperature for EC compensation.
	ReferenceTempC = 25.0

	// TempCoefficient is the linear temperature coefficient for aqueous
	// solutions (~2 %/°C).
	TempCoefficient = 0.02
)

// DFRobot SEN0244 polynomial coefficients mapping compensated voltage to
// electrical conductivity in µS/cm.
const (
	ecCubicCoeff  = 133.42
	ecSquareCoeff = 255.86
	ecLinearCoeff = 857.39
)

// PHFromVoltage converts a pH probe voltage to a pH value using a linear
// two-point calibration.
//
// A slope of 0 signals an uncalibrated probe and yields an indeterminate
// result. Voltages outside [0, 5] V and computed pH values outside
// [0, 14] are rejected.
//
// Parameters:
//   - voltage: Probe voltage in volts
//   - slope: Calibration slope (typically around -3.333)
//   - intercept: Calibration intercept (typically around 12.5)
//
// Returns:
//   - float64: pH value rounded to 3 fractional digits
//   - bool: false if the inputs or the result are implausible
func PHFromVoltage(voltage, slope, intercept float64) (float64, bool) {
	if voltage < MinVoltage || voltage > MaxVoltage {
		return 0, false
	}

	// Slope 0 means the probe has not been calibrated yet.
	if slope == 0 {
		return 0, false
	}

	ph := slope*voltage + intercept

	if ph < MinPH || ph > MaxPH {
		return 0, false
	}

	return roundTo(ph, 3), true
}

// ECFromVoltage converts a TDS probe voltage to electrical conductivity
// in µS/cm with temperature compensation to the 25 °C reference.
//
// The compensation divisor is 1 + 0.02*(tempC - 25); a non-positive
// divisor (extreme low temperature) is treated as 1 to avoid a blow-up.
// Negative polynomial results are clamped to 0 since conductivity is
// never negative.
//
// Parameters:
//   - voltage: Probe voltage in volts, must be within [0, 5]
//   - tempC: Water temperature in Celsius, must be within [-10, 60]
//
// Returns:
//   - float64: Electrical conductivity in µS/cm
//   - bool: false if either input is outside its domain
func ECFromVoltage(voltage, tempC float64) (float64, bool) {
	if voltage < MinVoltage || voltage > MaxVoltage {
		return 0, false
	}
	if tempC < MinTempC || tempC > MaxTempC {
		return 0, false
	}

	compensated := CompensateTemperature(voltage, tempC, ReferenceTempC, TempCoefficient)

	ec := ecCubicCoeff*compensated*compensated*compensated -
		ecSquareCoeff*compensated*compensated +
		ecLinearCoeff*compensated

	if ec < 0 {
		ec = 0
	}

	return ec, true
}

// TDSFromEC converts electrical conductivity to Total Dissolved Solids
// in ppm using an empirical scale multiplier.
//
// Results above 5000 ppm are physically implausible for this domain and
// are rejected rather than clamped, to avoid silently recording a bogus
// reading.
//
// Parameters:
//   - ec: Electrical conductivity in µS/cm, must be >= 0
//   - multiplier: Conversion factor, must be > 0 (0.5 for NaCl scale)
//
// Returns:
//   - float64: TDS in ppm rounded to 1 fractional digit
//   - bool: false for invalid inputs or an implausible result
func TDSFromEC(ec, multiplier float64) (float64, bool) {
	if ec < 0 || multiplier <= 0 {
		return 0, false
	}

	tds := ec * multiplier
	if tds > MaxTDS {
		return 0, false
	}

	return roundTo(tds, 1), true
}

// VoltageToTDS converts a TDS probe voltage directly to ppm, composing
// ECFromVoltage and TDSFromEC. An indeterminate intermediate result
// propagates.
func VoltageToTDS(voltage, tempC, multiplier float64) (float64, bool) {
	ec, ok := ECFromVoltage(voltage, tempC)
	if !ok {
		return 0, false
	}
	return TDSFromEC(ec, multiplier)
}

// CompensateTemperature applies generic linear temperature compensation
// to a measurement: value / (1 + coefficient*(tempC - referenceTemp)).
//
// A non-positive divisor is treated as 1. When the current temperature
// is unknown, callers pass referenceTemp for tempC, which leaves the
// value unchanged.
func CompensateTemperature(value, tempC, referenceTemp, coefficient float64) float64 {
	divisor := 1.0 + coefficient*(tempC-referenceTemp)
	if divisor <= 0 {
		divisor = 1.0
	}
	return value / divisor
}

// ValidateSensorRange reports whether a reading is a finite number
// within [min, max]. NaN and infinities fail validation.
func ValidateSensorRange(value, min, max float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return value >= min && value <= max
}

// roundTo rounds v to the given number of fractional digits.
func roundTo(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}
