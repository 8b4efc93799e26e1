// Aquamon Core - Water Quality Monitor
//
// This is the main entry point for the aquamon daemon. It samples pH,
// TDS, and water temperature on a fixed interval, appends readings to a
// crash-safe JSON store, and mirrors them to optional collaborators
// (SQLite archive, MQTT, InfluxDB). A read-only dashboard serves the
// recorded data over HTTP.
//
// The daemon runs unattended on embedded hosts for months at a time:
// any single failing sensor, broker, or remote leaves the rest of the
// cycle intact.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluegrove/aquamon-core/internal/archive"
	"github.com/bluegrove/aquamon-core/internal/coach"
	"github.com/bluegrove/aquamon-core/internal/dashboard"
	"github.com/bluegrove/aquamon-core/internal/gitsync"
	"github.com/bluegrove/aquamon-core/internal/hal"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/influxdb"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/mqtt"
	"github.com/bluegrove/aquamon-core/internal/seed"
	"github.com/bluegrove/aquamon-core/internal/sensor"
	"github.com/bluegrove/aquamon-core/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// options holds the parsed command-line flags.
type options struct {
	configPath string
	once       bool
	diagnose   bool
	validate   bool
	coach      bool
	seedDays   int
}

func main() {
	opts := parseFlags()

	// Cancel on interrupt signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads command-line flags into options.
func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to config file (default: AQUAMON_CONFIG or configs/config.yaml)")
	flag.BoolVar(&opts.once, "once", false, "take a single reading and exit")
	flag.BoolVar(&opts.diagnose, "diagnose", false, "print raw sensor diagnostics and exit")
	flag.BoolVar(&opts.validate, "validate", false, "validate the data file integrity and exit")
	flag.BoolVar(&opts.coach, "coach", false, "generate coaching advice and exit")
	flag.IntVar(&opts.seedDays, "seed", 0, "seed the store with N days of synthetic data and exit")
	flag.Parse()
	return opts
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Parsed command-line flags
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, opts options) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting aquamon",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath(opts.configPath)
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	st, err := store.New(store.Config{
		Path:       cfg.Store.Path,
		WindowDays: cfg.Store.WindowDays,
	}, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	log.Info("store ready", "path", cfg.Store.Path, "window_days", cfg.Store.WindowDays)

	// One-shot modes that need no hardware
	switch {
	case opts.validate:
		return runValidate(st, log)
	case opts.seedDays > 0:
		return runSeed(st, opts.seedDays, cfg.Sampling.IntervalMinutes, log)
	case opts.coach:
		return runCoach(ctx, cfg, st, log)
	}

	sensors, err := buildSensors(cfg, log)
	if err != nil {
		return fmt.Errorf("initialising sensors: %w", err)
	}

	if opts.diagnose {
		return runDiagnose(sensors)
	}

	// Optional SQLite archive
	var arc *archive.Archive
	if cfg.Archive.Enabled {
		arc, err = archive.Open(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer func() {
			log.Info("closing archive")
			if closeErr := arc.Close(); closeErr != nil {
				log.Error("error closing archive", "error", closeErr)
			}
		}()
		log.Info("archive connected", "path", arc.Path())

		if err := resyncArchive(ctx, arc, st, log); err != nil {
			log.Warn("archive resync failed", "error", err)
		}
	} else {
		log.Info("archive disabled")
	}

	// Optional MQTT mirror
	var pub *mqtt.Publisher
	if cfg.Telemetry.MQTT.Enabled {
		pub, err = mqtt.Connect(cfg.Telemetry.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := pub.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.Telemetry.MQTT.Host, cfg.Telemetry.MQTT.Port),
			"client_id", cfg.Telemetry.MQTT.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Optional InfluxDB mirror
	var influxClient *influxdb.Client
	if cfg.Telemetry.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.Telemetry.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.Telemetry.InfluxDB.URL,
			"bucket", cfg.Telemetry.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Optional git sync
	var syncer *gitsync.Syncer
	if cfg.GitSync.Enabled {
		syncer, err = gitsync.New(cfg.GitSync, cfg.Store.Path, log)
		if err != nil {
			return fmt.Errorf("initialising git sync: %w", err)
		}
		log.Info("git sync enabled")
	}

	// Optional dashboard
	if cfg.Dashboard.Enabled {
		srv, srvErr := dashboard.New(dashboard.Deps{
			Config:  cfg.Dashboard,
			Logger:  log,
			Store:   st,
			Archive: arc,
			Version: version,
		})
		if srvErr != nil {
			return fmt.Errorf("creating dashboard: %w", srvErr)
		}
		if srvErr := srv.Start(ctx); srvErr != nil {
			return fmt.Errorf("starting dashboard: %w", srvErr)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing dashboard", "error", closeErr)
			}
		}()
	} else {
		log.Info("dashboard disabled")
	}

	cycle := func() {
		runCycle(ctx, sensors, st, arc, pub, influxClient, syncer, log)
	}

	if opts.once {
		cycle()
		return nil
	}

	interval := cfg.SampleInterval()
	log.Info("initialisation complete, sampling", "interval", interval)

	// First reading immediately, then on the ticker
	cycle()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, cleaning up")
			log.Info("aquamon stopped")
			return nil
		case <-ticker.C:
			cycle()
		}
	}
}

// runCycle takes one reading and fans it out to the store and mirrors.
//
// The store append is the only operation whose failure is reported as an
// error; every mirror is best-effort and only logged.
func runCycle(ctx context.Context, sensors *sensor.Sensors, st *store.Store, arc *archive.Archive, pub *mqtt.Publisher, influxClient *influxdb.Client, syncer *gitsync.Syncer, log *logging.Logger) {
	r := sensors.Read()
	log.Info("reading taken",
		"timestamp", r.Timestamp,
		"ph", floatOrNil(r.PH),
		"tds", floatOrNil(r.TDS),
		"temp_c", floatOrNil(r.TempC),
	)

	if err := st.AppendReading(r); err != nil {
		log.Error("failed to append reading", "error", err)
		return
	}

	if arc != nil {
		if err := arc.Record(ctx, r); err != nil {
			log.Warn("archive record failed", "error", err)
		}
	}
	if pub != nil {
		if err := pub.PublishReading(r); err != nil {
			log.Warn("mqtt publish failed", "error", err)
		}
	}
	if influxClient != nil {
		influxClient.WriteReading(r)
	}
	if syncer != nil {
		if err := syncer.Sync(ctx); err != nil {
			log.Warn("git sync failed", "error", err)
		}
	}
}

// buildSensors constructs the hardware sources and sensor orchestrator.
func buildSensors(cfg *config.Config, log *logging.Logger) (*sensor.Sensors, error) {
	address, err := cfg.Sensors.ParseADCAddress()
	if err != nil {
		return nil, err
	}

	analog := hal.NewAnalogSource(address, cfg.Sensors.Mock, log)
	temp := hal.NewTemperatureSource(cfg.Sensors.Mock, log)

	return sensor.New(analog, temp, sensor.Config{
		PHChannel:  cfg.Sensors.PHChannel,
		TDSChannel: cfg.Sensors.TDSChannel,
		Calibration: sensor.Calibration{
			PHSlope:       cfg.Sensors.Calibration.PHSlope,
			PHIntercept:   cfg.Sensors.Calibration.PHIntercept,
			TDSMultiplier: cfg.Sensors.Calibration.TDSMultiplier,
		},
	}, log)
}

// runValidate checks data file integrity and reports the result.
func runValidate(st *store.Store, log *logging.Logger) error {
	report := st.ValidateIntegrity()

	for _, w := range report.Warnings {
		log.Warn("integrity warning", "detail", w)
	}
	for _, e := range report.Errors {
		log.Error("integrity error", "detail", e)
	}

	fmt.Printf("readings: %d valid of %d total\n", report.ValidCount, report.Total)
	if !report.Valid {
		return fmt.Errorf("data file failed integrity check with %d errors", len(report.Errors))
	}
	fmt.Println("data file is valid")
	return nil
}

// runSeed fills the store with synthetic data.
func runSeed(st *store.Store, days, stepMinutes int, log *logging.Logger) error {
	series := seed.Generate(seed.Options{
		Days:        days,
		StepMinutes: stepMinutes,
		Seed:        time.Now().UnixNano(),
	})
	if err := st.Save(series); err != nil {
		return fmt.Errorf("saving seed data: %w", err)
	}
	log.Info("store seeded", "days", days, "readings", len(series))
	return nil
}

// runCoach generates coaching advice from the recorded data.
func runCoach(ctx context.Context, cfg *config.Config, st *store.Store, log *logging.Logger) error {
	coachCfg := cfg.Coach
	coachCfg.Enabled = true // explicit flag overrides config

	c, err := coach.New(coachCfg, log)
	if err != nil {
		return fmt.Errorf("initialising coach: %w", err)
	}

	advice, err := c.Generate(ctx, st.Load())
	if err != nil {
		return fmt.Errorf("generating advice: %w", err)
	}

	fmt.Printf("status: %s\nsummary: %s\n", advice.Status, advice.Summary)
	return nil
}

// runDiagnose prints raw sensor diagnostics as JSON.
func runDiagnose(sensors *sensor.Sensors) error {
	data, err := json.MarshalIndent(sensors.Diagnostics(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding diagnostics: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// resyncArchive rebuilds the archive from the store when the two have
// drifted, typically after the archive is first enabled.
func resyncArchive(ctx context.Context, arc *archive.Archive, st *store.Store, log *logging.Logger) error {
	series := st.Load()

	count, err := arc.Count(ctx)
	if err != nil {
		return err
	}
	if count >= len(series) {
		return nil
	}

	log.Info("resyncing archive from store", "store_readings", len(series), "archive_readings", count)
	return arc.Rebuild(ctx, series)
}

// getConfigPath resolves the config file path from flag, environment,
// then default.
func getConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if path := os.Getenv("AQUAMON_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// floatOrNil renders an optional metric for logging.
func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
