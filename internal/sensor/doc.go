// Package sensor composes the hardware capability layer and the pure
// conversion functions into one calibrated Reading per invocation.
//
// # Acquisition Policy
//
// Temperature is read first because the TDS conversion needs it for
// compensation; when temperature is unavailable TDS falls back to the
// 25 °C reference instead of failing. Each metric is acquired and
// converted independently: a fault in one sets only that field absent
// and never prevents acquisition of the others. The reading is stamped
// with the UTC instant at assembly, giving the store a single
// monotonically non-decreasing ordering source.
//
// Diagnostics exposes per-metric raw voltage, converted value, and
// status for operational troubleshooting without persisting anything.
package sensor
