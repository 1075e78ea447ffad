package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultURL               = "wss://captainup.com/mechanics/v2/firehose/events"
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultReconnectDelay    = 30 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultAckCapacity       = 100
	DefaultMetricsPort       = 9090
	DefaultMetricsPath       = "/metrics"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

func (c *Config) applyDefaults() {
	// Firehose defaults
	if c.Firehose.URL == "" {
		c.Firehose.URL = DefaultURL
	}
	if c.Firehose.HeartbeatInterval == 0 {
		c.Firehose.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Firehose.ReconnectDelay == 0 {
		c.Firehose.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Firehose.HandshakeTimeout == 0 {
		c.Firehose.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Firehose.WriteTimeout == 0 {
		c.Firehose.WriteTimeout = DefaultWriteTimeout
	}
	if c.Firehose.AckCapacity == 0 {
		c.Firehose.AckCapacity = DefaultAckCapacity
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
