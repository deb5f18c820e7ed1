package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
	"github.com/greendilt/digicarbon/internal/session"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, greenops.UnitKilograms, cfg.Unit())
	assert.Equal(t, config.DefaultPrecision, cfg.Output.Precision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, config.DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, session.DefaultTTL, cfg.Server.SessionTTL)
	assert.Equal(t, session.DefaultDefaults(), cfg.SessionDefaults())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, "output.default_format"},
		{"unit", func(c *config.Config) { c.Output.Unit = "stone" }, "output.unit"},
		{"precision", func(c *config.Config) { c.Output.Precision = 9 }, "output.precision"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *config.Config) { c.Logging.Format = "text" }, "logging.format"},
		{"lifespan", func(c *config.Config) { c.Defaults.DeviceLifespanYears = 0.1 }, "defaults.device_lifespan_years"},
		{"NaN lifespan", func(c *config.Config) { c.Defaults.DeviceLifespanYears = math.NaN() }, "defaults.device_lifespan_years"},
		{"wifi", func(c *config.Config) { c.Defaults.WiFiHours = 30 }, "defaults"},
		{"NaN wifi", func(c *config.Config) { c.Defaults.WiFiHours = math.NaN() }, "defaults"},
		{"addr", func(c *config.Config) { c.Server.Addr = "" }, "server.addr"},
		{"ttl", func(c *config.Config) { c.Server.SessionTTL = 0 }, "server.session_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_JoinsAllFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Output.DefaultFormat = "xml"
	cfg.Server.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.default_format")
	assert.Contains(t, err.Error(), "server.addr")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvLogLevel:     "debug",
		config.EnvLogFormat:    "json",
		config.EnvOutputFormat: "ndjson",
		config.EnvAddr:         ":7000",
	}
	cfg := config.Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, config.FormatNDJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, ":7000", cfg.Server.Addr)

	untouched := config.Default()
	untouched.ApplyEnv(func(string) string { return "" })
	assert.Equal(t, config.Default(), untouched)
}

func TestLoad(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvAddr, "")

	t.Run("missing file yields defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.ConfigPath())
		assert.Equal(t, config.Default().Output, cfg.Output)
	})

	t.Run("file then environment", func(t *testing.T) {
		path := writeOverlay(t, "output:\n  default_format: json\nserver:\n  addr: \":1\"\n")
		t.Setenv(config.EnvAddr, ":2")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.FormatJSON, cfg.Output.DefaultFormat)
		assert.Equal(t, ":2", cfg.Server.Addr)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := config.Load(writeOverlay(t, "output:\n  precision: -1\n"))
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv(config.EnvOutputFormat, "csv")
		_, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.PlainEmails = footprint.EmailNone
	cfg.Defaults.CloudStorage = footprint.Cloud50To100GB
	cfg.Defaults.IdleBehavior = footprint.IdleNoComputer
	cfg.Output.Unit = "lb"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg.SetConfigPath(path)
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plain_emails: none")
	assert.Contains(t, string(data), "session_ttl: 30m0s")

	loaded := config.Default()
	require.NoError(t, config.MergeYAMLFile(loaded, path))
	loaded.SetConfigPath(path)
	assert.Equal(t, cfg, loaded)
}

func TestSave_NoPath(t *testing.T) {
	require.Error(t, config.Default().Save())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/var/log/digicarbon.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/var/log/digicarbon.log", got.File)
}
