package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/store"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// Publisher wraps paho.mqtt.golang as an outbound telemetry mirror.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Publisher struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex
}

// Connect establishes a connection to the MQTT broker.
//
// It performs the following setup:
//  1. Builds connection options from config (broker URL, auth, TLS)
//  2. Configures Last Will and Testament (LWT) for offline detection
//  3. Sets up auto-reconnect with exponential backoff
//  4. Attempts initial connection with timeout
//  5. Publishes online status to <prefix>/system/status
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//
// Returns:
//   - *Publisher: Connected publisher ready for use
//   - error: If initial connection fails within timeout
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg)

	p := &Publisher{cfg: cfg}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		p.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, _ error) {
		p.handleDisconnect()
	})

	p.client = pahomqtt.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// Set connected state immediately after successful connection.
	// The OnConnectHandler callback runs asynchronously and may not have
	// executed yet, so we set it here to ensure IsConnected() returns true.
	p.connMu.Lock()
	p.connected = true
	p.connMu.Unlock()

	return p, nil
}

// handleConnect is called when the connection is established.
func (p *Publisher) handleConnect() {
	p.connMu.Lock()
	p.connected = true
	p.connMu.Unlock()

	p.publishStatus("online", "")
}

// handleDisconnect is called when the connection is lost.
func (p *Publisher) handleDisconnect() {
	p.connMu.Lock()
	p.connected = false
	p.connMu.Unlock()
}

// publishStatus publishes a retained status message to the system status topic.
func (p *Publisher) publishStatus(status, reason string) {
	payload := buildStatusPayload(status, p.cfg.ClientID, reason)
	p.client.Publish(p.statusTopic(), byte(p.cfg.QoS), true, payload)
}

// readingTopic is where retained readings are published.
func (p *Publisher) readingTopic() string {
	return p.cfg.TopicPrefix + "/reading"
}

// statusTopic is where retained online/offline status is published.
func (p *Publisher) statusTopic() string {
	return p.cfg.TopicPrefix + "/system/status"
}

// PublishReading publishes a reading as retained JSON to <prefix>/reading.
//
// Retained delivery means a newly connected subscriber immediately sees
// the most recent reading without waiting for the next sampling cycle.
//
// Parameters:
//   - r: The reading to publish (absent metrics serialise as null)
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (p *Publisher) PublishReading(r store.Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: encoding reading: %w", ErrPublishFailed, err)
	}
	return p.Publish(p.readingTopic(), payload, byte(p.cfg.QoS), true)
}

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to
//   - payload: The message payload (typically JSON)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (p *Publisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if !p.IsConnected() {
		return ErrNotConnected
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// IsConnected returns the current connection state.
func (p *Publisher) IsConnected() bool {
	p.connMu.RLock()
	defer p.connMu.RUnlock()
	return p.connected && p.client.IsConnected()
}

// Close gracefully disconnects from the MQTT broker.
//
// It publishes a graceful offline status (distinct from the LWT crash
// status) before disconnecting, so subscribers can tell a clean shutdown
// from a crash.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}

	if p.IsConnected() {
		payload := buildStatusPayload("offline", p.cfg.ClientID, "graceful_shutdown")
		token := p.client.Publish(p.statusTopic(), byte(p.cfg.QoS), true, payload)
		token.WaitTimeout(defaultPublishTimeout)
	}

	p.client.Disconnect(defaultDisconnectQuiesce)

	p.connMu.Lock()
	p.connected = false
	p.connMu.Unlock()

	return nil
}

// buildClientOptions creates paho MQTT options from the telemetry config.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on TLS setting)
//   - Client ID for identification
//   - Authentication credentials (if provided)
//   - Auto-reconnect with exponential backoff
//   - TLS configuration (if enabled)
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port))

	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	// Start fresh on connect, no persistent session on the broker.
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}

	return opts
}

// configureLWT sets up Last Will and Testament for offline detection.
//
// The LWT message is published by the broker if the publisher disconnects
// unexpectedly (crash, network failure, power loss). Subscribers use it
// to detect when the monitor goes dark mid-deployment.
func configureLWT(opts *pahomqtt.ClientOptions, cfg config.MQTTConfig) {
	willTopic := cfg.TopicPrefix + "/system/status"
	willPayload := buildStatusPayload("offline", cfg.ClientID, "unexpected_disconnect")
	opts.SetWill(willTopic, string(willPayload), 1, true)
}

// buildStatusPayload creates the JSON payload for status messages.
func buildStatusPayload(status, clientID, reason string) []byte {
	msg := map[string]string{
		"status":    status,
		"client_id": clientID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if reason != "" {
		msg["reason"] = reason
	}
	payload, _ := json.Marshal(msg)
	return payload
}
