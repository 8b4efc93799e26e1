package hal

import (
	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
)

// NewAnalogSource resolves which AnalogSource variant to construct.
//
// An explicit mock request wins. Otherwise the real ADS1115 adapter is
// attempted; if construction fails the factory falls back to the mock
// with a logged warning rather than surfacing a fatal error.
//
// Parameters:
//   - address: I²C address for the real adapter
//   - mock: Force the deterministic mock
//   - logger: Logger for the fallback warning
//
// Returns:
//   - AnalogSource: Real or mock implementation, never nil
func NewAnalogSource(address uint16, mock bool, logger *logging.Logger) AnalogSource {
	if logger == nil {
		logger = logging.Default()
	}

	if mock {
		logger.Info("using mock ADC", "reason", "configured")
		return NewMockAnalog()
	}

	adc, err := NewADS1115(address)
	if err != nil {
		logger.Warn("real ADC unavailable, falling back to mock",
			"address", address, "error", err)
		return NewMockAnalog()
	}

	logger.Info("ADS1115 initialised", "address", address)
	return adc
}

// NewTemperatureSource resolves which TemperatureSource variant to
// construct, with the same fallback policy as NewAnalogSource.
func NewTemperatureSource(mock bool, logger *logging.Logger) TemperatureSource {
	if logger == nil {
		logger = logging.Default()
	}

	if mock {
		logger.Info("using mock temperature probe", "reason", "configured")
		return NewMockTemperature()
	}

	probe, err := NewDS18B20()
	if err != nil {
		logger.Warn("DS18B20 unavailable, falling back to mock", "error", err)
		return NewMockTemperature()
	}

	logger.Info("DS18B20 probe initialised")
	return probe
}
