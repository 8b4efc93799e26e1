// Package conversion provides pure numeric conversions from raw sensor
// voltages to calibrated physical quantities.
//
// All functions are stateless and total over their documented input
// domains. Outside those domains they report an indeterminate result
// (ok == false) rather than returning an error, so a malfunctioning
// sensor degrades a single metric instead of aborting a sampling cycle.
//
// # Calibration Model
//
//   - pH: linear map ph = slope*voltage + intercept, two-point calibrated
//     against pH 4.0 and pH 7.0 buffer solutions.
//   - EC: temperature-compensated cubic polynomial for the DFRobot SEN0244
//     probe (coefficients from the manufacturer calibration), 25 °C reference.
//   - TDS: ec * multiplier (0.5 for NaCl scale, 0.6-0.7 for natural waters).
//
// # Rejection over Clamping
//
// Whenever a computed result is physically implausible (pH outside 0-14,
// TDS above 5000 ppm) the function rejects it instead of clamping.
// Downstream consumers must treat an indeterminate result as "no
// trustworthy reading this cycle", never as zero.
package conversion
