package hal

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// Sampling parameters for the ADS1115.
const (
	// adcMaxVoltage selects the PGA full-scale range. The probes output
	// 0-5 V, so the widest range is required.
	adcMaxVoltage = 5 * physic.Volt

	// adcSampleRate is the one-shot conversion rate.
	adcSampleRate = 1 * physic.Hertz
)

// ADS1115 is the real AnalogSource bound to an ADS1115 ADC on the I²C
// bus. All four input channels are prepared at construction; reads are
// single-shot conversions.
//
// Thread Safety: ReadVoltage is safe for concurrent use, though the
// orchestrator only ever calls it sequentially.
type ADS1115 struct {
	bus  i2c.BusCloser
	pins [MaxChannel + 1]ads1x15.PinADC
	mu   sync.Mutex
}

// NewADS1115 opens the default I²C bus and prepares the ADC at the
// given address.
//
// Parameters:
//   - address: I²C address of the ADS1115 (typically 0x48)
//
// Returns:
//   - *ADS1115: Adapter ready for reads
//   - error: ErrHardwareUnavailable (wrapped with the cause) if the
//     host drivers, bus, or device cannot be initialised
func NewADS1115(address uint16) (*ADS1115, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: initialising host drivers: %w", ErrHardwareUnavailable, err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("%w: opening I2C bus: %w", ErrHardwareUnavailable, err)
	}

	dev, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: address})
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("%w: initialising ADS1115 at 0x%02x: %w", ErrHardwareUnavailable, address, err)
	}

	a := &ADS1115{bus: bus}

	channels := [MaxChannel + 1]ads1x15.Channel{
		ads1x15.Channel0,
		ads1x15.Channel1,
		ads1x15.Channel2,
		ads1x15.Channel3,
	}
	for i, ch := range channels {
		pin, err := dev.PinForChannel(ch, adcMaxVoltage, adcSampleRate, ads1x15.SaveEnergy)
		if err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("%w: preparing channel %d: %w", ErrHardwareUnavailable, i, err)
		}
		a.pins[i] = pin
	}

	return a, nil
}

// ReadVoltage implements AnalogSource with a blocking single-shot
// conversion. The read is bounded only by the underlying driver.
func (a *ADS1115) ReadVoltage(channel int) (float64, error) {
	if !validChannel(channel) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sample, err := a.pins[channel].Read()
	if err != nil {
		return 0, fmt.Errorf("reading channel %d: %w", channel, err)
	}

	return float64(sample.V) / float64(physic.Volt), nil
}

// Close releases the I²C bus.
func (a *ADS1115) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, pin := range a.pins {
		if pin != nil {
			_ = pin.Halt()
		}
	}
	return a.bus.Close()
}
