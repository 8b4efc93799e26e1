package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("AQUAMON_CONFIG")
	defer os.Setenv("AQUAMON_CONFIG", originalEnv)

	os.Unsetenv("AQUAMON_CONFIG")

	if path := getConfigPath(""); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("AQUAMON_CONFIG")
	defer os.Setenv("AQUAMON_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("AQUAMON_CONFIG", expected)

	if path := getConfigPath(""); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestGetConfigPath_FlagWins verifies the flag beats the environment.
func TestGetConfigPath_FlagWins(t *testing.T) {
	originalEnv := os.Getenv("AQUAMON_CONFIG")
	defer os.Setenv("AQUAMON_CONFIG", originalEnv)

	os.Setenv("AQUAMON_CONFIG", "/env/config.yaml")

	if path := getConfigPath("/flag/config.yaml"); path != "/flag/config.yaml" {
		t.Errorf("getConfigPath() = %q, want flag path", path)
	}
}

// testConfig writes a mock-hardware config into a temp dir and returns
// its path and the store path.
func testConfig(t *testing.T) (string, string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	storePath := filepath.Join(tmpDir, "data.json")

	configContent := `
sensors:
  mock: true
  adc_address: "0x48"
  ph_channel: 0
  tds_channel: 1
  calibration:
    ph_slope: -3.333
    ph_intercept: 12.5
    tds_multiplier: 0.5

store:
  path: "` + storePath + `"
  window_days: 60

archive:
  enabled: false

telemetry:
  mqtt:
    enabled: false
  influxdb:
    enabled: false

dashboard:
  enabled: false

sampling:
  interval_minutes: 30

logging:
  level: error
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath, storePath
}

// TestRun_OnceWithMockHardware takes a single mock reading end to end.
func TestRun_OnceWithMockHardware(t *testing.T) {
	configPath, storePath := testConfig(t)

	err := run(context.Background(), options{configPath: configPath, once: true})
	if err != nil {
		t.Fatalf("run(-once) error = %v", err)
	}

	if _, statErr := os.Stat(storePath); statErr != nil {
		t.Errorf("data file not created: %v", statErr)
	}
}

// TestRun_SeedThenValidate seeds the store and checks its integrity.
func TestRun_SeedThenValidate(t *testing.T) {
	configPath, storePath := testConfig(t)

	if err := run(context.Background(), options{configPath: configPath, seedDays: 2}); err != nil {
		t.Fatalf("run(-seed) error = %v", err)
	}
	if _, statErr := os.Stat(storePath); statErr != nil {
		t.Fatalf("seeded data file not created: %v", statErr)
	}

	if err := run(context.Background(), options{configPath: configPath, validate: true}); err != nil {
		t.Errorf("run(-validate) error = %v on freshly seeded store", err)
	}
}

// TestRun_Diagnose exercises the diagnostics path with mock hardware.
func TestRun_Diagnose(t *testing.T) {
	configPath, _ := testConfig(t)

	if err := run(context.Background(), options{configPath: configPath, diagnose: true}); err != nil {
		t.Errorf("run(-diagnose) error = %v", err)
	}
}
