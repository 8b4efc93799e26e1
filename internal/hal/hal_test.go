package hal

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// ─── Mocks ─────────────────────────────────────────────────────────

func TestMockAnalog_Defaults(t *testing.T) {
	m := NewMockAnalog()

	tests := []struct {
		name    string
		channel int
		want    float64
	}{
		{"ph channel", 0, 2.5},
		{"tds channel", 1, 1.8},
		{"unused channel 2", 2, 0.0},
		{"unused channel 3", 3, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ReadVoltage(tt.channel)
			if err != nil {
				t.Fatalf("ReadVoltage(%d) error = %v", tt.channel, err)
			}
			if got != tt.want {
				t.Errorf("ReadVoltage(%d) = %v, want %v", tt.channel, got, tt.want)
			}
		})
	}
}

func TestMockAnalog_Deterministic(t *testing.T) {
	m := NewMockAnalog()
	first, _ := m.ReadVoltage(0)
	for i := 0; i < 10; i++ {
		got, err := m.ReadVoltage(0)
		if err != nil {
			t.Fatalf("ReadVoltage error = %v", err)
		}
		if got != first {
			t.Fatalf("mock voltage changed between reads: %v != %v", got, first)
		}
	}
}

func TestMockAnalog_InvalidChannel(t *testing.T) {
	m := NewMockAnalog()
	for _, ch := range []int{-1, 4, 100} {
		if _, err := m.ReadVoltage(ch); !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("ReadVoltage(%d) error = %v, want ErrInvalidChannel", ch, err)
		}
	}
}

func TestMockTemperature(t *testing.T) {
	m := NewMockTemperature()
	got, ok := m.ReadCelsius()
	if !ok {
		t.Fatal("ReadCelsius() ok = false, want true")
	}
	if got != 22.5 {
		t.Errorf("ReadCelsius() = %v, want 22.5", got)
	}

	faulty := NewMockTemperatureWithValue(0, false)
	if _, ok := faulty.ReadCelsius(); ok {
		t.Error("faulty probe reported ok = true")
	}
}

// ─── DS18B20 sysfs parsing ─────────────────────────────────────────

// writeSlaveFile lays out a fake w1 device tree with the given w1_slave
// content and returns the devices directory.
func writeSlaveFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	deviceDir := filepath.Join(dir, "28-0316a2790fff")
	if err := os.MkdirAll(deviceDir, 0750); err != nil {
		t.Fatalf("creating device dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(deviceDir, "w1_slave"), []byte(content), 0600); err != nil {
		t.Fatalf("writing w1_slave: %v", err)
	}
	return dir
}

func TestDS18B20_ReadCelsius(t *testing.T) {
	tests := []struct {
		name   string
		slave  string
		want   float64
		wantOK bool
	}{
		{
			"valid reading",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=23125\n",
			23.125, true,
		},
		{
			"negative temperature",
			"ff fe 4b 46 7f ff 0e 10 a1 : crc=a1 YES\nff fe 4b 46 7f ff 0e 10 a1 t=-1500\n",
			-1.5, true,
		},
		{
			"crc failure",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 NO\n72 01 4b 46 7f ff 0e 10 57 t=23125\n",
			0, false,
		},
		{
			"missing t= marker",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57\n",
			0, false,
		},
		{
			"unparseable value",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=garbage\n",
			0, false,
		},
		{
			"single line",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n",
			0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeSlaveFile(t, tt.slave)
			probe, err := newDS18B20At(dir)
			if err != nil {
				t.Fatalf("newDS18B20At() error = %v", err)
			}

			got, ok := probe.ReadCelsius()
			if ok != tt.wantOK {
				t.Fatalf("ReadCelsius() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ReadCelsius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDS18B20_NoDevices(t *testing.T) {
	// Directory exists but holds no 28-* devices.
	probe, err := newDS18B20At(t.TempDir())
	if err != nil {
		t.Fatalf("newDS18B20At() error = %v", err)
	}
	if _, ok := probe.ReadCelsius(); ok {
		t.Error("ReadCelsius() ok = true with no probe present")
	}
}

func TestDS18B20_MissingBus(t *testing.T) {
	_, err := newDS18B20At(filepath.Join(t.TempDir(), "not-there"))
	if !errors.Is(err, ErrHardwareUnavailable) {
		t.Errorf("newDS18B20At() error = %v, want ErrHardwareUnavailable", err)
	}
}

// ─── Factories ─────────────────────────────────────────────────────

func TestNewAnalogSource_MockFlag(t *testing.T) {
	src := NewAnalogSource(0x48, true, nil)
	if _, ok := src.(*MockAnalog); !ok {
		t.Fatalf("NewAnalogSource(mock=true) = %T, want *MockAnalog", src)
	}
}

func TestNewTemperatureSource_MockFlag(t *testing.T) {
	src := NewTemperatureSource(true, nil)
	if _, ok := src.(*MockTemperature); !ok {
		t.Fatalf("NewTemperatureSource(mock=true) = %T, want *MockTemperature", src)
	}
}
