// Package hal defines the hardware capabilities the sensor orchestrator
// depends on, with real adapters and deterministic mocks.
//
// # Capabilities
//
//   - AnalogSource: voltage readings from a 4-channel ADC (ADS1115 over I²C)
//   - TemperatureSource: Celsius readings from a DS18B20 probe (1-Wire)
//
// # Variants and Selection
//
// Each capability has a real adapter bound to physical bus resources
// and a deterministic mock returning fixed per-channel values. The
// factories resolve which variant to construct: an explicit mock flag
// wins, otherwise the real adapter is attempted and a construction
// failure (driver or bus unavailable) falls back to the mock with a
// logged warning. Missing hardware is never fatal for the caller.
//
// An out-of-range channel is a configuration error and fails fast at
// construction or read time; it is not a runtime condition to recover
// from.
package hal
