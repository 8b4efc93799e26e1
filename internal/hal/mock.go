package hal

// Default mock values, chosen to produce plausible readings through the
// conversion pipeline.
const (
	mockPHVoltage  = 2.5  // channel 0
	mockTDSVoltage = 1.8  // channel 1
	mockTempC      = 22.5 // room-temperature water
)

// MockAnalog is a deterministic AnalogSource returning fixed per-channel
// voltages. Used for tests and for hosts without the physical ADC.
type MockAnalog struct {
	voltages map[int]float64
}

// NewMockAnalog creates a mock ADC with the default channel voltages:
// 2.5 V on channel 0 (pH probe) and 1.8 V on channel 1 (TDS probe).
// Unassigned channels read 0 V.
func NewMockAnalog() *MockAnalog {
	return &MockAnalog{
		voltages: map[int]float64{
			0: mockPHVoltage,
			1: mockTDSVoltage,
		},
	}
}

// NewMockAnalogWithVoltages creates a mock ADC with explicit per-channel
// voltages, for tests that exercise specific conversion paths.
func NewMockAnalogWithVoltages(voltages map[int]float64) *MockAnalog {
	copied := make(map[int]float64, len(voltages))
	for ch, v := range voltages {
		copied[ch] = v
	}
	return &MockAnalog{voltages: copied}
}

// ReadVoltage implements AnalogSource.
func (m *MockAnalog) ReadVoltage(channel int) (float64, error) {
	if !validChannel(channel) {
		return 0, ErrInvalidChannel
	}
	return m.voltages[channel], nil
}

// MockTemperature is a deterministic TemperatureSource.
type MockTemperature struct {
	temp float64
	ok   bool
}

// NewMockTemperature creates a mock probe reading 22.5 °C.
func NewMockTemperature() *MockTemperature {
	return &MockTemperature{temp: mockTempC, ok: true}
}

// NewMockTemperatureWithValue creates a mock probe with an explicit
// reading. ok false simulates a missing or faulty probe.
func NewMockTemperatureWithValue(temp float64, ok bool) *MockTemperature {
	return &MockTemperature{temp: temp, ok: ok}
}

// ReadCelsius implements TemperatureSource.
func (m *MockTemperature) ReadCelsius() (float64, bool) {
	return m.temp, m.ok
}
