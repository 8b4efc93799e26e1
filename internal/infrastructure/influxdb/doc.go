// Package influxdb mirrors water-quality readings into InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, non-blocking batched writes, and health monitoring.
//
// # Purpose
//
// InfluxDB is an optional outbound mirror for long-range trend analysis
// and Grafana dashboards. The JSON store remains the source of truth;
// a missed write here never fails a sampling cycle.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.Telemetry.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteReading(reading)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via
// SetOnError. Connection and health check errors are returned directly.
package influxdb
