package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.Firehose.validate(); err != nil {
		return err
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (f *FirehoseConfig) validate() error {
	if f.AppID == "" {
		return errors.New("firehose.app_id is required (or set APP_ID)")
	}
	if f.AppSecret == "" {
		return errors.New("firehose.app_secret is required (or set APP_SECRET)")
	}

	// The credentials go into the query string unescaped.
	if strings.ContainsAny(f.AppID, "#&") {
		return errors.New("firehose.app_id must not contain '#' or '&'")
	}
	if strings.ContainsAny(f.AppSecret, "#&") {
		return errors.New("firehose.app_secret must not contain '#' or '&'")
	}

	u, err := url.Parse(f.URL)
	if err != nil {
		return fmt.Errorf("firehose.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("firehose.url must use ws or wss, got %q", u.Scheme)
	}

	for _, d := range []struct {
		name string
		val  time.Duration
	}{
		{"firehose.heartbeat_interval", f.HeartbeatInterval},
		{"firehose.reconnect_delay", f.ReconnectDelay},
		{"firehose.handshake_timeout", f.HandshakeTimeout},
		{"firehose.write_timeout", f.WriteTimeout},
	} {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.val)
		}
	}

	if f.AckCapacity < 1 {
		return errors.New("firehose.ack_capacity must be >= 1")
	}
	return nil
}
