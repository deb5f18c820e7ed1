// Package config loads the digicarbon configuration file
// (~/.digicarbon/config.yaml), applies environment overrides and exposes the
// effective settings for output, logging, form defaults and the HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
	"github.com/greendilt/digicarbon/internal/logging"
	"github.com/greendilt/digicarbon/internal/session"
)

// Environment variables.
const (
	EnvHome         = "DIGICARBON_HOME"
	EnvConfig       = "DIGICARBON_CONFIG"
	EnvLogLevel     = "DIGICARBON_LOG_LEVEL"
	EnvLogFormat    = "DIGICARBON_LOG_FORMAT"
	EnvOutputFormat = "DIGICARBON_OUTPUT_FORMAT"
	EnvAddr         = "DIGICARBON_ADDR"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Defaults.
const (
	DefaultAddr       = "127.0.0.1:8080"
	DefaultPrecision  = 2
	MaxPrecision      = 6
	DefaultSessionTTL = session.DefaultTTL
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the whole configuration file.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Server   ServerConfig   `yaml:"server"`

	configPath string
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Unit          string `yaml:"unit"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the root logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// DefaultsConfig holds the initial values of a fresh questionnaire.
type DefaultsConfig struct {
	DeviceLifespanYears float64                `yaml:"device_lifespan_years"`
	PlainEmails         footprint.EmailBucket  `yaml:"plain_emails"`
	AttachmentEmails    footprint.EmailBucket  `yaml:"attachment_emails"`
	CloudStorage        footprint.CloudBucket  `yaml:"cloud_storage"`
	WiFiHours           float64                `yaml:"wifi_hours"`
	IdleBehavior        footprint.IdleBehavior `yaml:"idle_behavior"`
}

// ServerConfig controls `digicarbon serve`.
type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := session.DefaultDefaults()
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Unit:          string(greenops.UnitKilograms),
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  zerolog.InfoLevel.String(),
			Format: logging.FormatConsole,
		},
		Defaults: DefaultsConfig{
			DeviceLifespanYears: d.DeviceLifespanYears,
			PlainEmails:         d.Habits.PlainEmails,
			AttachmentEmails:    d.Habits.AttachmentEmails,
			CloudStorage:        d.Habits.CloudStorage,
			WiFiHours:           d.Habits.WiFiHours,
			IdleBehavior:        d.Habits.Idle,
		},
		Server: ServerConfig{
			Addr:       DefaultAddr,
			SessionTTL: DefaultSessionTTL,
		},
	}
}

// New returns the effective configuration: the defaults, overlaid with the
// config file when it exists, then the environment. A broken file is logged
// and ignored.
func New() *Config {
	cfg, err := Load(ConfigPath())
	if err != nil {
		log.Warn().
			Str(logging.FieldComponent, "config").
			Err(err).
			Msg("ignoring configuration file")
		cfg = Default()
		cfg.configPath = ConfigPath()
		cfg.ApplyEnv(os.Getenv)
	}
	return cfg
}

// Load reads path over the defaults and applies the environment. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if path != "" {
		if err := MergeYAMLFile(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks every setting and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...)))
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		fail("output.default_format", "%q is not one of table, json, ndjson", c.Output.DefaultFormat)
	}
	if _, err := greenops.ParseUnit(c.Output.Unit); err != nil {
		fail("output.unit", "%v", err)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		fail("output.precision", "%d outside [0, %d]", c.Output.Precision, MaxPrecision)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		fail("logging.level", "%q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		fail("logging.format", "%q is not one of console, json", c.Logging.Format)
	}

	d := c.Defaults
	if !footprint.ValidLifespan(d.DeviceLifespanYears) {
		fail("defaults.device_lifespan_years", "%g outside [%g, %g]",
			d.DeviceLifespanYears, footprint.MinLifespanYears, footprint.MaxLifespanYears)
	}
	habits := c.SessionDefaults().Habits
	if err := habits.Validate(); err != nil {
		fail("defaults", "%v", err)
	}

	if c.Server.Addr == "" {
		fail("server.addr", "must not be empty")
	}
	if c.Server.SessionTTL <= 0 {
		fail("server.session_ttl", "%s must be positive", c.Server.SessionTTL)
	}
	return errors.Join(errs...)
}

// SessionDefaults converts the defaults section for the session controller.
func (c *Config) SessionDefaults() session.Defaults {
	return session.Defaults{
		DeviceLifespanYears: c.Defaults.DeviceLifespanYears,
		Habits: footprint.HabitProfile{
			PlainEmails:      c.Defaults.PlainEmails,
			AttachmentEmails: c.Defaults.AttachmentEmails,
			CloudStorage:     c.Defaults.CloudStorage,
			WiFiHours:        c.Defaults.WiFiHours,
			Idle:             c.Defaults.IdleBehavior,
		},
	}
}

// Unit returns the configured display unit, kilograms when invalid.
func (c *Config) Unit() greenops.Unit {
	u, err := greenops.ParseUnit(c.Output.Unit)
	if err != nil {
		return greenops.UnitKilograms
	}
	return u
}

// ConfigPath returns the path the configuration was loaded from.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no configuration path set")
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
