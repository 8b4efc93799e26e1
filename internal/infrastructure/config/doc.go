// Package config loads Aquamon configuration from YAML.
//
// Configuration is resolved once at process start: defaults, then the
// YAML file, then AQUAMON_* environment overrides, then validation.
// The resulting *Config is immutable by convention and passed by
// reference into constructors; no package reads the environment after
// startup.
//
// # Sections
//
//   - sensors: ADC address, channel assignments, calibration, mock flag
//   - store: data file path and retention window
//   - archive: optional SQLite mirror of the series
//   - telemetry: optional MQTT and InfluxDB outbound mirrors
//   - dashboard: optional read-only HTTP server
//   - coach: optional LLM advisory settings
//   - git_sync: optional git push of the data file after each reading
//   - sampling: daemon cycle interval
//   - logging: level, format, output
package config
