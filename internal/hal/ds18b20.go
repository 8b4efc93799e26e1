package hal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultOneWireDir is where the kernel w1 subsystem exposes 1-Wire
// slave devices. DS18B20 devices have the 0x28 family prefix.
const defaultOneWireDir = "/sys/bus/w1/devices"

// DS18B20 is the real TemperatureSource reading a DS18B20 probe through
// the kernel 1-Wire sysfs interface. The first detected probe is used.
type DS18B20 struct {
	devicesDir string
}

// NewDS18B20 creates a DS18B20 adapter.
//
// Returns:
//   - *DS18B20: Adapter ready for reads
//   - error: ErrHardwareUnavailable if the w1 sysfs tree is absent
//     (1-Wire not enabled on this host)
func NewDS18B20() (*DS18B20, error) {
	return newDS18B20At(defaultOneWireDir)
}

// newDS18B20At is the directory-injectable constructor used by tests.
func newDS18B20At(dir string) (*DS18B20, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: 1-Wire bus not available: %w", ErrHardwareUnavailable, err)
	}
	return &DS18B20{devicesDir: dir}, nil
}

// ReadCelsius implements TemperatureSource.
//
// The w1_slave file holds two lines: the first ends in "YES" when the
// on-wire CRC matched, the second carries the raw reading as "t=" in
// millidegrees. Any missing device, failed CRC, or parse failure
// reports ok false.
func (d *DS18B20) ReadCelsius() (float64, bool) {
	matches, err := filepath.Glob(filepath.Join(d.devicesDir, "28-*"))
	if err != nil || len(matches) == 0 {
		return 0, false
	}

	raw, err := os.ReadFile(filepath.Join(matches[0], "w1_slave"))
	if err != nil {
		return 0, false
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) < 2 || !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, false
	}

	_, after, found := strings.Cut(lines[1], "t=")
	if !found {
		return 0, false
	}

	milli, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
	if err != nil {
		return 0, false
	}

	return milli / 1000.0, true
}
