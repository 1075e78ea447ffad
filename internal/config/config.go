package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration for the firehose consumer.
type Config struct {
	Firehose FirehoseConfig `yaml:"firehose"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// FirehoseConfig holds the feed connection settings.
type FirehoseConfig struct {
	URL               string        `yaml:"url"`
	AppID             string        `yaml:"app_id"`
	AppSecret         string        `yaml:"app_secret"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	AckCapacity       int           `yaml:"ack_capacity"` // remembered batch IDs
}

// MetricsConfig holds the ops HTTP server settings (/health, /metrics, /debug/acks).
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// JSON reports whether logs should be JSON encoded.
func (l LogConfig) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}
