package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/store"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestWriteReading_Disconnected(t *testing.T) {
	// A disconnected client must drop writes silently rather than panic.
	c := &Client{}

	c.WriteReading(store.Reading{
		Timestamp: "2026-03-01T10:00:00.000Z",
		PH:        store.Float(7.0),
	})
}

func TestFlush_Disconnected(t *testing.T) {
	c := &Client{}
	c.Flush()
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
