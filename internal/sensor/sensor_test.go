package sensor

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bluegrove/aquamon-core/internal/hal"
	"github.com/bluegrove/aquamon-core/internal/store"
)

var testCal = Calibration{
	PHSlope:       -3.333,
	PHIntercept:   12.5,
	TDSMultiplier: 0.5,
}

func newTestSensors(t *testing.T, analog hal.AnalogSource, temp hal.TemperatureSource) *Sensors {
	t.Helper()
	s, err := New(analog, temp, Config{PHChannel: 0, TDSChannel: 1, Calibration: testCal}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// failingAnalog simulates a bus fault on every read.
type failingAnalog struct{}

func (failingAnalog) ReadVoltage(int) (float64, error) {
	return 0, errors.New("i2c: input/output error")
}

func TestNew_InvalidChannels(t *testing.T) {
	tests := []struct {
		name string
		ph   int
		tds  int
	}{
		{"ph channel negative", -1, 1},
		{"ph channel too high", 4, 1},
		{"tds channel negative", 0, -1},
		{"tds channel too high", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(hal.NewMockAnalog(), hal.NewMockTemperature(),
				Config{PHChannel: tt.ph, TDSChannel: tt.tds, Calibration: testCal}, nil)
			if !errors.Is(err, hal.ErrInvalidChannel) {
				t.Errorf("New() error = %v, want ErrInvalidChannel", err)
			}
		})
	}
}

func TestNew_InvalidMultiplier(t *testing.T) {
	cal := testCal
	cal.TDSMultiplier = 0
	_, err := New(hal.NewMockAnalog(), hal.NewMockTemperature(),
		Config{PHChannel: 0, TDSChannel: 1, Calibration: cal}, nil)
	if err == nil {
		t.Fatal("New() accepted zero TDS multiplier")
	}
}

func TestRead_AllMetricsPresent(t *testing.T) {
	s := newTestSensors(t, hal.NewMockAnalog(), hal.NewMockTemperature())

	r := s.Read()

	if r.Timestamp == "" {
		t.Fatal("Read() produced no timestamp")
	}
	if _, err := time.Parse(time.RFC3339, r.Timestamp); err != nil {
		t.Fatalf("Read() timestamp %q not parseable: %v", r.Timestamp, err)
	}

	if r.PH == nil {
		t.Fatal("Read() ph absent with healthy mocks")
	}
	// 2.5 V through the default calibration: -3.333*2.5 + 12.5.
	if want := 4.168; math.Abs(*r.PH-want) > 1e-9 {
		t.Errorf("ph = %v, want %v", *r.PH, want)
	}

	if r.TempC == nil || *r.TempC != 22.5 {
		t.Errorf("temp_c = %v, want 22.5", r.TempC)
	}

	if r.TDS == nil {
		t.Fatal("Read() tds absent with healthy mocks")
	}
	if *r.TDS <= 0 || *r.TDS > 5000 {
		t.Errorf("tds = %v out of plausible range", *r.TDS)
	}
}

func TestRead_MetricIsolation(t *testing.T) {
	// A dead ADC must not take temperature down with it.
	s := newTestSensors(t, failingAnalog{}, hal.NewMockTemperature())

	r := s.Read()

	if r.PH != nil {
		t.Error("ph present despite failing ADC")
	}
	if r.TDS != nil {
		t.Error("tds present despite failing ADC")
	}
	if r.TempC == nil || *r.TempC != 22.5 {
		t.Errorf("temp_c = %v, want 22.5 despite ADC failure", r.TempC)
	}
	if r.Timestamp == "" {
		t.Error("timestamp missing on degraded reading")
	}
}

func TestRead_TDSFallsBackToReferenceTemp(t *testing.T) {
	// With the probe missing, TDS compensates at 25 °C and is exactly
	// the uncompensated polynomial result.
	s := newTestSensors(t, hal.NewMockAnalog(), hal.NewMockTemperatureWithValue(0, false))

	r := s.Read()

	if r.TempC != nil {
		t.Error("temp_c present despite missing probe")
	}
	if r.TDS == nil {
		t.Fatal("tds absent; should fall back to reference temperature")
	}

	v := 1.8
	ec := 133.42*v*v*v - 255.86*v*v + 857.39*v
	want := math.Round(ec*0.5*10) / 10
	if *r.TDS != want {
		t.Errorf("tds = %v, want %v (uncompensated at reference temp)", *r.TDS, want)
	}
}

func TestRead_UncalibratedPHStaysAbsent(t *testing.T) {
	cal := testCal
	cal.PHSlope = 0
	s, err := New(hal.NewMockAnalog(), hal.NewMockTemperature(),
		Config{PHChannel: 0, TDSChannel: 1, Calibration: cal}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r := s.Read()
	if r.PH != nil {
		t.Error("ph present with slope 0 (uncalibrated probe)")
	}
	if r.TDS == nil || r.TempC == nil {
		t.Error("other metrics degraded by uncalibrated pH probe")
	}
}

func TestRead_OutOfRangeVoltageRejected(t *testing.T) {
	// A saturated probe pinned above 5 V yields absent, not a clamp.
	analog := hal.NewMockAnalogWithVoltages(map[int]float64{0: 5.5, 1: 1.8})
	s := newTestSensors(t, analog, hal.NewMockTemperature())

	r := s.Read()
	if r.PH != nil {
		t.Errorf("ph = %v, want absent for saturated probe", *r.PH)
	}
}

func TestRead_TimestampFromAssembly(t *testing.T) {
	s := newTestSensors(t, hal.NewMockAnalog(), hal.NewMockTemperature())
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	r := s.Read()
	if want := store.FormatTime(fixed); r.Timestamp != want {
		t.Errorf("timestamp = %q, want %q", r.Timestamp, want)
	}
}

func TestDiagnostics(t *testing.T) {
	s := newTestSensors(t, hal.NewMockAnalog(), hal.NewMockTemperature())

	diag := s.Diagnostics()

	if diag.Timestamp == "" {
		t.Error("diagnostics missing timestamp")
	}
	if got := diag.Channels["ph"]; got != 0 {
		t.Errorf("ph channel = %d, want 0", got)
	}

	for _, name := range []string{"ph", "tds", "temperature"} {
		m, ok := diag.Sensors[name]
		if !ok {
			t.Fatalf("diagnostics missing %s", name)
		}
		if m.Status != StatusOK {
			t.Errorf("%s status = %q, want %q", name, m.Status, StatusOK)
		}
		if m.Value == nil {
			t.Errorf("%s value absent", name)
		}
	}

	if diag.Sensors["ph"].Voltage == nil || *diag.Sensors["ph"].Voltage != 2.5 {
		t.Error("ph raw voltage not reported")
	}
}

func TestDiagnostics_FailingHardware(t *testing.T) {
	s := newTestSensors(t, failingAnalog{}, hal.NewMockTemperatureWithValue(0, false))

	diag := s.Diagnostics()

	for _, name := range []string{"ph", "tds", "temperature"} {
		m := diag.Sensors[name]
		if m.Status != StatusError {
			t.Errorf("%s status = %q, want %q", name, m.Status, StatusError)
		}
		if m.Value != nil {
			t.Errorf("%s value present despite failure", name)
		}
	}
}
