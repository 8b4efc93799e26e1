// Package mqtt publishes water-quality readings to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Reading publication with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The publisher is an outbound mirror: readings flow from the sampling
// loop to the broker, never the other way. The JSON store remains the
// source of truth and a broker outage never blocks or fails a sampling
// cycle.
//
//	Sampling Loop → JSON Store (source of truth)
//	             └→ MQTT Broker (best-effort mirror)
//
// # Topics
//
//   - <prefix>/reading       — latest reading, retained
//   - <prefix>/system/status — online/offline status, retained
//
// # Usage
//
//	pub, err := mqtt.Connect(cfg.Telemetry.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pub.Close()
//
//	if err := pub.PublishReading(reading); err != nil {
//	    logger.Warn("mqtt publish failed", "error", err)
//	}
package mqtt
