package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Channel bounds for the ADS1115 ADC.
const (
	minChannel = 0
	maxChannel = 3
)

// Config is the root configuration structure for Aquamon Core.
// All configuration is loaded from YAML and can be overridden by
// AQUAMON_* environment variables.
type Config struct {
	Sensors   SensorsConfig   `yaml:"sensors"`
	Store     StoreConfig     `yaml:"store"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Coach     CoachConfig     `yaml:"coach"`
	GitSync   GitSyncConfig   `yaml:"git_sync"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SensorsConfig contains hardware and calibration settings.
type SensorsConfig struct {
	// Mock forces deterministic mock hardware regardless of what is
	// physically present. Real-hardware construction failures fall back
	// to mocks even when this is false.
	Mock bool `yaml:"mock"`

	// ADCAddress is the I²C address of the ADS1115 as a string
	// ("0x48"). Parsed with ParseADCAddress.
	ADCAddress string `yaml:"adc_address"`

	// PHChannel and TDSChannel are ADS1115 input channels (0-3).
	PHChannel  int `yaml:"ph_channel"`
	TDSChannel int `yaml:"tds_channel"`

	Calibration CalibrationConfig `yaml:"calibration"`
}

// CalibrationConfig contains the user-supplied calibration parameters.
type CalibrationConfig struct {
	// PHSlope and PHIntercept define the linear pH model. A slope of 0
	// marks the probe as not yet calibrated; pH readings stay absent.
	PHSlope     float64 `yaml:"ph_slope"`
	PHIntercept float64 `yaml:"ph_intercept"`

	// TDSMultiplier scales EC (µS/cm) to TDS (ppm).
	TDSMultiplier float64 `yaml:"tds_multiplier"`
}

// StoreConfig contains time-series file settings.
type StoreConfig struct {
	Path       string `yaml:"path"`
	WindowDays int    `yaml:"window_days"`
}

// ArchiveConfig contains the optional SQLite mirror settings.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// TelemetryConfig groups the optional outbound mirrors.
type TelemetryConfig struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	TLS         bool   `yaml:"tls"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// DashboardConfig contains the read-only HTTP server settings.
type DashboardConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// CoachConfig contains the LLM advisory settings.
type CoachConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	OutputPath string `yaml:"output_path"`
	Species    string `yaml:"species"`
	Plants     string `yaml:"plants"`
}

// GitSyncConfig contains the optional git push settings.
type GitSyncConfig struct {
	Enabled bool `yaml:"enabled"`

	// Timeout is the per-command timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// SamplingConfig contains daemon loop settings.
type SamplingConfig struct {
	// IntervalMinutes is the time between sampling cycles.
	IntervalMinutes int `yaml:"interval_minutes"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file, applies environment
// variable overrides, and validates the result.
//
// Environment overrides use the AQUAMON_ prefix, for example
// AQUAMON_STORE_PATH or AQUAMON_PH_SLOPE.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load, but a missing config file yields the
// defaults with environment overrides applied. Embedded hosts commonly
// run with no config file at all.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// Default returns a Config with sensible defaults for a Raspberry Pi
// deployment.
func Default() *Config {
	return &Config{
		Sensors: SensorsConfig{
			ADCAddress: "0x48",
			PHChannel:  0,
			TDSChannel: 1,
			Calibration: CalibrationConfig{
				PHSlope:       -3.333,
				PHIntercept:   12.5,
				TDSMultiplier: 0.5,
			},
		},
		Store: StoreConfig{
			Path:       "./data/data.json",
			WindowDays: 60,
		},
		Archive: ArchiveConfig{
			Path:        "./data/archive.db",
			BusyTimeout: 5,
		},
		Telemetry: TelemetryConfig{
			MQTT: MQTTConfig{
				Host:        "localhost",
				Port:        1883,
				ClientID:    "aquamon-core",
				TopicPrefix: "aquamon",
				QoS:         1,
			},
			InfluxDB: InfluxDBConfig{
				URL:           "http://localhost:8086",
				Org:           "aquamon",
				Bucket:        "water_quality",
				BatchSize:     100,
				FlushInterval: 10,
			},
		},
		Dashboard: DashboardConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			StaticDir: "./web",
		},
		Coach: CoachConfig{
			Model:      "gpt-4o-mini",
			OutputPath: "./data/coach.json",
			Species:    "Blue Nile tilapia",
			Plants:     "basil, peppers",
		},
		GitSync: GitSyncConfig{
			Timeout: 60,
		},
		Sampling: SamplingConfig{
			IntervalMinutes: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies AQUAMON_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AQUAMON_MOCK_HARDWARE"); v != "" {
		cfg.Sensors.Mock = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("AQUAMON_ADC_ADDRESS"); v != "" {
		cfg.Sensors.ADCAddress = v
	}
	if v, err := strconv.Atoi(os.Getenv("AQUAMON_PH_CHANNEL")); err == nil {
		cfg.Sensors.PHChannel = v
	}
	if v, err := strconv.Atoi(os.Getenv("AQUAMON_TDS_CHANNEL")); err == nil {
		cfg.Sensors.TDSChannel = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AQUAMON_PH_SLOPE"), 64); err == nil {
		cfg.Sensors.Calibration.PHSlope = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AQUAMON_PH_INTERCEPT"), 64); err == nil {
		cfg.Sensors.Calibration.PHIntercept = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AQUAMON_TDS_MULTIPLIER"), 64); err == nil {
		cfg.Sensors.Calibration.TDSMultiplier = v
	}

	if v := os.Getenv("AQUAMON_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v, err := strconv.Atoi(os.Getenv("AQUAMON_WINDOW_DAYS")); err == nil {
		cfg.Store.WindowDays = v
	}

	// Secrets are only ever supplied via environment.
	if v := os.Getenv("AQUAMON_MQTT_PASSWORD"); v != "" {
		cfg.Telemetry.MQTT.Password = v
	}
	if v := os.Getenv("AQUAMON_INFLUXDB_TOKEN"); v != "" {
		cfg.Telemetry.InfluxDB.Token = v
	}
	if v := os.Getenv("AQUAMON_OPENAI_API_KEY"); v != "" {
		cfg.Coach.APIKey = v
	}

	if v := os.Getenv("AQUAMON_GIT_PUSH"); v != "" {
		cfg.GitSync.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate checks the configuration for errors.
//
// Invalid channel assignments are configuration errors and fail fast
// here, never at read time.
//
// Returns:
//   - error: Description of all validation failures, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Sensors.PHChannel < minChannel || c.Sensors.PHChannel > maxChannel {
		errs = append(errs, fmt.Sprintf("sensors.ph_channel must be %d-%d", minChannel, maxChannel))
	}
	if c.Sensors.TDSChannel < minChannel || c.Sensors.TDSChannel > maxChannel {
		errs = append(errs, fmt.Sprintf("sensors.tds_channel must be %d-%d", minChannel, maxChannel))
	}
	if c.Sensors.PHChannel == c.Sensors.TDSChannel {
		errs = append(errs, "sensors.ph_channel and sensors.tds_channel must differ")
	}
	if _, err := c.Sensors.ParseADCAddress(); err != nil {
		errs = append(errs, fmt.Sprintf("sensors.adc_address: %v", err))
	}
	if c.Sensors.Calibration.TDSMultiplier <= 0 {
		errs = append(errs, "sensors.calibration.tds_multiplier must be > 0")
	}

	if c.Store.Path == "" {
		errs = append(errs, "store.path is required")
	}
	if c.Store.WindowDays < 0 {
		errs = append(errs, "store.window_days must be >= 0")
	}

	if c.Archive.Enabled && c.Archive.Path == "" {
		errs = append(errs, "archive.path is required when archive is enabled")
	}

	if c.Telemetry.MQTT.Enabled {
		if c.Telemetry.MQTT.QoS < 0 || c.Telemetry.MQTT.QoS > 2 {
			errs = append(errs, "telemetry.mqtt.qos must be 0, 1, or 2")
		}
		if c.Telemetry.MQTT.Host == "" {
			errs = append(errs, "telemetry.mqtt.host is required when MQTT is enabled")
		}
	}

	if c.Telemetry.InfluxDB.Enabled && c.Telemetry.InfluxDB.URL == "" {
		errs = append(errs, "telemetry.influxdb.url is required when InfluxDB is enabled")
	}

	if c.Dashboard.Enabled && (c.Dashboard.Port < 1 || c.Dashboard.Port > 65535) {
		errs = append(errs, "dashboard.port must be between 1 and 65535")
	}

	if c.Coach.Enabled && c.Coach.APIKey == "" {
		errs = append(errs, "coach.api_key is required when coach is enabled (set AQUAMON_OPENAI_API_KEY)")
	}

	if c.Sampling.IntervalMinutes <= 0 {
		errs = append(errs, "sampling.interval_minutes must be > 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ParseADCAddress parses the configured I²C address ("0x48" or "72").
func (s SensorsConfig) ParseADCAddress() (uint16, error) {
	addr, err := strconv.ParseUint(s.ADCAddress, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid I2C address %q", s.ADCAddress)
	}
	return uint16(addr), nil
}

// SampleInterval returns the daemon cycle interval as a Duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Sampling.IntervalMinutes) * time.Minute
}

// GitTimeout returns the per-command git timeout as a Duration.
func (c *Config) GitTimeout() time.Duration {
	return time.Duration(c.GitSync.Timeout) * time.Second
}
