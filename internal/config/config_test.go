package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearCredentials keeps the host environment out of the test.
func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppID, "")
	t.Setenv(EnvAppSecret, "")
}

func TestLoad(t *testing.T) {
	clearCredentials(t)

	yaml := `
firehose:
  url: wss://staging.captainup.com/mechanics/v2/firehose/events
  app_id: app-123
  app_secret: s3cr3t
  heartbeat_interval: 10s
  ack_capacity: 50
metrics:
  enabled: true
  port: 9100
log:
  level: debug
  format: json
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://staging.captainup.com/mechanics/v2/firehose/events", cfg.Firehose.URL)
	assert.Equal(t, "app-123", cfg.Firehose.AppID)
	assert.Equal(t, "s3cr3t", cfg.Firehose.AppSecret)
	assert.Equal(t, 10*time.Second, cfg.Firehose.HeartbeatInterval)
	assert.Equal(t, 50, cfg.Firehose.AckCapacity)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.True(t, cfg.Log.JSON())

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	clearCredentials(t)
	t.Setenv("TEST_FIREHOSE_SECRET", "secret123")

	yaml := `
firehose:
  app_id: app-123
  app_secret: ${TEST_FIREHOSE_SECRET}
`
	cfg, err := Load(writeTempFile(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "secret123", cfg.Firehose.AppSecret)
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	t.Setenv(EnvAppID, "env-app")
	t.Setenv(EnvAppSecret, "env-secret")

	yaml := `
firehose:
  app_id: file-app
  app_secret: file-secret
`
	cfg, err := Load(writeTempFile(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "env-app", cfg.Firehose.AppID)
	assert.Equal(t, "env-secret", cfg.Firehose.AppSecret)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv(EnvAppID, "env-app")
	t.Setenv(EnvAppSecret, "env-secret")

	cfg, err := LoadAndValidate(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-app", cfg.Firehose.AppID)
	assert.Equal(t, DefaultURL, cfg.Firehose.URL)

	cfg, err = LoadAndValidate("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Firehose.AppSecret)
}

func TestLoad_DotEnv(t *testing.T) {
	clearCredentials(t)
	const key = "TEST_FIREHOSE_DOTENV_SECRET"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte(key+"=from-dotenv\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	yaml := `
firehose:
  app_id: app-123
  app_secret: ${` + key + `}
`
	cfg, err := Load(writeTempFile(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Firehose.AppSecret)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearCredentials(t)

	_, err := Load(writeTempFile(t, "firehose: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config yaml")
}

func TestLoadWithDefaults(t *testing.T) {
	clearCredentials(t)

	yaml := `
firehose:
  app_id: app-123
  app_secret: s3cr3t
`
	cfg, err := LoadWithDefaults(writeTempFile(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, DefaultURL, cfg.Firehose.URL)
	assert.Equal(t, DefaultHeartbeatInterval, cfg.Firehose.HeartbeatInterval)
	assert.Equal(t, DefaultReconnectDelay, cfg.Firehose.ReconnectDelay)
	assert.Equal(t, DefaultHandshakeTimeout, cfg.Firehose.HandshakeTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Firehose.WriteTimeout)
	assert.Equal(t, DefaultAckCapacity, cfg.Firehose.AckCapacity)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func validConfig() Config {
	cfg := Config{Firehose: FirehoseConfig{AppID: "app", AppSecret: "secret"}}
	cfg.applyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing app id",
			mutate:  func(c *Config) { c.Firehose.AppID = "" },
			wantErr: "firehose.app_id is required (or set APP_ID)",
		},
		{
			name:    "missing app secret",
			mutate:  func(c *Config) { c.Firehose.AppSecret = "" },
			wantErr: "firehose.app_secret is required (or set APP_SECRET)",
		},
		{
			name:    "secret with fragment marker",
			mutate:  func(c *Config) { c.Firehose.AppSecret = "abc#def" },
			wantErr: "firehose.app_secret must not contain '#' or '&'",
		},
		{
			name:    "app id with ampersand",
			mutate:  func(c *Config) { c.Firehose.AppID = "a&b" },
			wantErr: "firehose.app_id must not contain '#' or '&'",
		},
		{
			name:    "http url",
			mutate:  func(c *Config) { c.Firehose.URL = "https://captainup.com/firehose" },
			wantErr: `firehose.url must use ws or wss, got "https"`,
		},
		{
			name:    "negative reconnect delay",
			mutate:  func(c *Config) { c.Firehose.ReconnectDelay = -time.Second },
			wantErr: "firehose.reconnect_delay must be positive, got -1s",
		},
		{
			name:    "zero ack capacity",
			mutate:  func(c *Config) { c.Firehose.AckCapacity = -1 },
			wantErr: "firehose.ack_capacity must be >= 1",
		},
		{
			name:    "metrics port out of range",
			mutate:  func(c *Config) { c.Metrics.Port = 70000 },
			wantErr: "metrics.port must be between 1 and 65535, got 70000",
		},
		{
			name:    "metrics path",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: `metrics.path must start with /, got "metrics"`,
		},
		{
			name:    "log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: `log.format must be text or json, got "xml"`,
		},
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
