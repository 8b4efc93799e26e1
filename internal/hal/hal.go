package hal

// MinChannel and MaxChannel bound the supported ADC channel indices.
const (
	MinChannel = 0
	MaxChannel = 3
)

// AnalogSource reads voltages from a multi-channel ADC.
//
// Implementations: ADS1115 (real), MockAnalog (deterministic).
type AnalogSource interface {
	// ReadVoltage reads the voltage on the given channel in volts.
	// A channel outside [MinChannel, MaxChannel] returns
	// ErrInvalidChannel; any other error is a bus or driver fault.
	ReadVoltage(channel int) (float64, error)
}

// TemperatureSource reads water temperature.
//
// Implementations: DS18B20 (real), MockTemperature (deterministic).
type TemperatureSource interface {
	// ReadCelsius reads the temperature in Celsius. ok is false on
	// sensor-not-found, bad checksum, or parse failure; a transient
	// read miss is never an error.
	ReadCelsius() (temp float64, ok bool)
}

// validChannel reports whether ch is a supported ADC channel.
func validChannel(ch int) bool {
	return ch >= MinChannel && ch <= MaxChannel
}
