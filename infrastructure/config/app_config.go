package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	// DefaultPageSize matches the grid size of the explorer
	DefaultPageSize = 60

	// DefaultRefreshIntervalMs is the live clock cadence
	DefaultRefreshIntervalMs = 1000

	// DST classification strategies
	DSTStrategySampled  = "sampled"
	DSTStrategyZoneName = "zone-name"
	DSTStrategyRules    = "rules"
)

// ExplorerConfig holds timezone explorer behaviour
type ExplorerConfig struct {
	// PageSize is the number of timezones per page
	PageSize int `json:"page_size,omitempty" env:"TZEXPLORER_PAGE_SIZE"`

	// RefreshIntervalMs is the watch refresh interval in milliseconds
	RefreshIntervalMs int `json:"refresh_interval_ms,omitempty" env:"TZEXPLORER_REFRESH_INTERVAL_MS"`

	// DSTStrategy selects the DST classifier: sampled, zone-name or rules
	DSTStrategy string `json:"dst_strategy,omitempty" env:"TZEXPLORER_DST_STRATEGY"`

	// DefaultLocale is used when the preferred locale cannot format
	DefaultLocale string `json:"default_locale,omitempty" env:"TZEXPLORER_DEFAULT_LOCALE"`

	// LocalTimezone overrides detection of the user's timezone
	LocalTimezone string `json:"local_timezone,omitempty" env:"TZEXPLORER_LOCAL_TIMEZONE"`

	// ZoneinfoDirs is a comma-separated list of zoneinfo roots searched before the built-in ones
	ZoneinfoDirs string `json:"zoneinfo_dirs,omitempty" env:"TZEXPLORER_ZONEINFO_DIRS"`
}

// PreferencesConfig holds preference store configuration
type PreferencesConfig struct {
	// DatabasePath is the SQLite file for display preferences and favorites
	DatabasePath string `json:"database_path,omitempty" env:"TZEXPLORER_PREFERENCES_DB_PATH"`

	// DisableWatch turns off change notification from other processes
	DisableWatch bool `json:"disable_watch,omitempty" env:"TZEXPLORER_PREFERENCES_DISABLE_WATCH"`
}

// PrometheusConfig holds Prometheus Remote Write configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL
	RemoteWriteURL string `json:"remote_write_url" env:"TZEXPLORER_PROMETHEUS_REMOTE_WRITE_URL"`

	// Username is the username for Remote Write authentication
	Username string `json:"username" env:"TZEXPLORER_PROMETHEUS_USERNAME"`

	// Password is the password for Remote Write authentication
	Password string `json:"password" env:"TZEXPLORER_PROMETHEUS_PASSWORD"`

	// HostLabel is the host label attached to every series (hostname when empty)
	HostLabel string `json:"host_label,omitempty" env:"TZEXPLORER_PROMETHEUS_HOST_LABEL"`

	// IntervalSec is the push interval in seconds
	IntervalSec int `json:"interval_seconds,omitempty" env:"TZEXPLORER_PROMETHEUS_INTERVAL_SECONDS"`

	// TimeoutSec is the request timeout in seconds
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"TZEXPLORER_PROMETHEUS_TIMEOUT_SECONDS"`
}

// DaemonConfig holds menu-bar clock configuration
type DaemonConfig struct {
	// PidFile is the path to the PID file written while the tray runs
	PidFile string `json:"pid_file,omitempty" env:"TZEXPLORER_DAEMON_PID_FILE"`

	// TrayFavoritesLimit caps how many favorites are listed in the menu
	TrayFavoritesLimit int `json:"tray_favorites_limit,omitempty" env:"TZEXPLORER_DAEMON_TRAY_FAVORITES_LIMIT"`
}

// PromtailConfig holds Loki push configuration
type PromtailConfig struct {
	// URL is the Loki push endpoint; logs go to stderr when empty
	URL string `json:"url" env:"TZEXPLORER_LOKI_URL"`

	// Username is the basic auth username
	Username string `json:"username" env:"TZEXPLORER_LOKI_USERNAME"`

	// Password is the basic auth password
	Password string `json:"password" env:"TZEXPLORER_LOKI_PASSWORD"`

	// BatchWaitSeconds is the maximum time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"TZEXPLORER_LOKI_BATCH_WAIT_SECONDS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn or error
	Level string `json:"level,omitempty" env:"TZEXPLORER_LOG_LEVEL"`

	// Debug echoes Loki-bound logs to stderr
	Debug bool `json:"debug,omitempty" env:"TZEXPLORER_LOG_DEBUG"`

	// Promtail holds Loki configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	Explorer    *ExplorerConfig    `json:"explorer,omitempty"`
	Preferences *PreferencesConfig `json:"preferences,omitempty"`
	Prometheus  *PrometheusConfig  `json:"prometheus,omitempty"`
	Daemon      *DaemonConfig      `json:"daemon,omitempty"`
	Logging     *LoggingConfig     `json:"logging,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1,
		Explorer: &ExplorerConfig{
			PageSize:          DefaultPageSize,
			RefreshIntervalMs: DefaultRefreshIntervalMs,
			DSTStrategy:       DSTStrategySampled,
			DefaultLocale:     "en-US",
		},
		Preferences: &PreferencesConfig{
			DatabasePath: "", // resolved by DefaultPreferencesPath
		},
		Prometheus: &PrometheusConfig{
			IntervalSec: 600,
			TimeoutSec:  30,
		},
		Daemon: &DaemonConfig{
			PidFile:            filepath.Join(os.TempDir(), "tzexplorer.pid"),
			TrayFavoritesLimit: 10,
		},
		Logging: &LoggingConfig{
			Level: "warn",
			Debug: false,
			Promtail: &PromtailConfig{
				BatchWaitSeconds: 1,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// MinimalDefaultConfig returns the settings written to a fresh config file.
// Sections left out keep their built-in defaults when loaded.
func MinimalDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1,
		Explorer: &ExplorerConfig{
			PageSize:          DefaultPageSize,
			RefreshIntervalMs: DefaultRefreshIntervalMs,
			DSTStrategy:       DSTStrategySampled,
			DefaultLocale:     "en-US",
		},
		Logging: &LoggingConfig{
			Level: "warn",
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// DefaultPreferencesPath returns ~/.config/tzexplorer/preferences.db
func DefaultPreferencesPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tzexplorer", "preferences.db"), nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads configuration from defaults and environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()
	config.MarkDefaults()

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv overlays TZEXPLORER_* environment variables using Netflix/go-env
func (c *AppConfig) LoadFromEnv() error {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	if c.Explorer != nil {
		original := *c.Explorer
		if _, err := env.UnmarshalFromEnviron(c.Explorer); err != nil {
			return fmt.Errorf("failed to unmarshal Explorer environment variables: %w", err)
		}
		c.trackEnv("Explorer.PageSize", "TZEXPLORER_PAGE_SIZE", c.Explorer.PageSize != original.PageSize)
		c.trackEnv("Explorer.RefreshIntervalMs", "TZEXPLORER_REFRESH_INTERVAL_MS", c.Explorer.RefreshIntervalMs != original.RefreshIntervalMs)
		c.trackEnv("Explorer.DSTStrategy", "TZEXPLORER_DST_STRATEGY", c.Explorer.DSTStrategy != original.DSTStrategy)
		c.trackEnv("Explorer.DefaultLocale", "TZEXPLORER_DEFAULT_LOCALE", c.Explorer.DefaultLocale != original.DefaultLocale)
		c.trackEnv("Explorer.LocalTimezone", "TZEXPLORER_LOCAL_TIMEZONE", c.Explorer.LocalTimezone != original.LocalTimezone)
		c.trackEnv("Explorer.ZoneinfoDirs", "TZEXPLORER_ZONEINFO_DIRS", c.Explorer.ZoneinfoDirs != original.ZoneinfoDirs)
	}

	if c.Preferences != nil {
		original := *c.Preferences
		if _, err := env.UnmarshalFromEnviron(c.Preferences); err != nil {
			return fmt.Errorf("failed to unmarshal Preferences environment variables: %w", err)
		}
		c.trackEnv("Preferences.DatabasePath", "TZEXPLORER_PREFERENCES_DB_PATH", c.Preferences.DatabasePath != original.DatabasePath)
		c.trackEnv("Preferences.DisableWatch", "TZEXPLORER_PREFERENCES_DISABLE_WATCH", c.Preferences.DisableWatch != original.DisableWatch)
	}

	if c.Prometheus != nil {
		original := *c.Prometheus
		if _, err := env.UnmarshalFromEnviron(c.Prometheus); err != nil {
			return fmt.Errorf("failed to unmarshal Prometheus environment variables: %w", err)
		}
		c.trackEnv("Prometheus.RemoteWriteURL", "TZEXPLORER_PROMETHEUS_REMOTE_WRITE_URL", c.Prometheus.RemoteWriteURL != original.RemoteWriteURL)
		c.trackEnv("Prometheus.Username", "TZEXPLORER_PROMETHEUS_USERNAME", c.Prometheus.Username != original.Username)
		c.trackEnv("Prometheus.Password", "TZEXPLORER_PROMETHEUS_PASSWORD", c.Prometheus.Password != original.Password)
		c.trackEnv("Prometheus.HostLabel", "TZEXPLORER_PROMETHEUS_HOST_LABEL", c.Prometheus.HostLabel != original.HostLabel)
		c.trackEnv("Prometheus.IntervalSec", "TZEXPLORER_PROMETHEUS_INTERVAL_SECONDS", c.Prometheus.IntervalSec != original.IntervalSec)
		c.trackEnv("Prometheus.TimeoutSec", "TZEXPLORER_PROMETHEUS_TIMEOUT_SECONDS", c.Prometheus.TimeoutSec != original.TimeoutSec)
	}

	if c.Daemon != nil {
		original := *c.Daemon
		if _, err := env.UnmarshalFromEnviron(c.Daemon); err != nil {
			return fmt.Errorf("failed to unmarshal Daemon environment variables: %w", err)
		}
		c.trackEnv("Daemon.PidFile", "TZEXPLORER_DAEMON_PID_FILE", c.Daemon.PidFile != original.PidFile)
		c.trackEnv("Daemon.TrayFavoritesLimit", "TZEXPLORER_DAEMON_TRAY_FAVORITES_LIMIT", c.Daemon.TrayFavoritesLimit != original.TrayFavoritesLimit)
	}

	if c.Logging != nil {
		level, debug := c.Logging.Level, c.Logging.Debug
		if _, err := env.UnmarshalFromEnviron(c.Logging); err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.trackEnv("Logging.Level", "TZEXPLORER_LOG_LEVEL", c.Logging.Level != level)
		c.trackEnv("Logging.Debug", "TZEXPLORER_LOG_DEBUG", c.Logging.Debug != debug)

		// Handle Promtail nested struct
		if c.Logging.Promtail != nil {
			original := *c.Logging.Promtail
			if _, err := env.UnmarshalFromEnviron(c.Logging.Promtail); err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			c.trackEnv("Promtail.URL", "TZEXPLORER_LOKI_URL", c.Logging.Promtail.URL != original.URL)
			c.trackEnv("Promtail.Username", "TZEXPLORER_LOKI_USERNAME", c.Logging.Promtail.Username != original.Username)
			c.trackEnv("Promtail.Password", "TZEXPLORER_LOKI_PASSWORD", c.Logging.Promtail.Password != original.Password)
			c.trackEnv("Promtail.BatchWaitSeconds", "TZEXPLORER_LOKI_BATCH_WAIT_SECONDS", c.Logging.Promtail.BatchWaitSeconds != original.BatchWaitSeconds)
		}
	}

	return nil
}

// trackEnv records an environment override when the variable is set and changed the value
func (c *AppConfig) trackEnv(field, envName string, changed bool) {
	if changed && os.Getenv(envName) != "" {
		c.ConfigSources[field] = SourceEnvironment
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if c.Explorer != nil {
		if err := c.validateExplorer(); err != nil {
			return err
		}
	}

	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}

	if c.Daemon != nil {
		if c.Daemon.TrayFavoritesLimit < 0 {
			return fmt.Errorf("tray favorites limit cannot be negative")
		}
	}

	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	return nil
}

// validateExplorer validates Explorer configuration
func (c *AppConfig) validateExplorer() error {
	if c.Explorer.PageSize < 1 || c.Explorer.PageSize > 1000 {
		return fmt.Errorf("page size must be between 1 and 1000, got %d", c.Explorer.PageSize)
	}

	if c.Explorer.RefreshIntervalMs < 100 {
		return fmt.Errorf("refresh interval must be at least 100ms, got %d", c.Explorer.RefreshIntervalMs)
	}

	switch c.Explorer.DSTStrategy {
	case DSTStrategySampled, DSTStrategyZoneName, DSTStrategyRules:
	default:
		return fmt.Errorf("invalid dst strategy: %s (must be %s, %s, or %s)",
			c.Explorer.DSTStrategy, DSTStrategySampled, DSTStrategyZoneName, DSTStrategyRules)
	}

	if len(strings.TrimSpace(c.Explorer.DefaultLocale)) < 2 {
		return fmt.Errorf("default locale must be a BCP 47 tag, got %q", c.Explorer.DefaultLocale)
	}

	if c.Explorer.LocalTimezone != "" {
		if _, err := time.LoadLocation(c.Explorer.LocalTimezone); err != nil {
			return fmt.Errorf("local timezone is invalid: %w", err)
		}
	}

	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	// Skip validation if RemoteWriteURL is empty (metrics disabled)
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	if c.Prometheus.IntervalSec < 60 {
		return fmt.Errorf("prometheus interval must be at least 60 seconds")
	}

	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}

	if c.Prometheus.TimeoutSec >= c.Prometheus.IntervalSec {
		return fmt.Errorf("prometheus timeout must be less than interval")
	}

	if (c.Prometheus.Username == "") != (c.Prometheus.Password == "") {
		return fmt.Errorf("prometheus username and password must be set together")
	}

	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	if c.Logging.Promtail != nil && c.Logging.Promtail.URL != "" {
		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}
	}

	return nil
}

// ZoneinfoDirList returns the configured zoneinfo roots
func (c *AppConfig) ZoneinfoDirList() []string {
	if c.Explorer == nil {
		return []string{}
	}
	return splitCommaSeparated(c.Explorer.ZoneinfoDirs)
}

// RefreshInterval returns the live clock cadence
func (c *AppConfig) RefreshInterval() time.Duration {
	if c.Explorer == nil || c.Explorer.RefreshIntervalMs <= 0 {
		return DefaultRefreshIntervalMs * time.Millisecond
	}
	return time.Duration(c.Explorer.RefreshIntervalMs) * time.Millisecond
}

// MarkDefaults marks all configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	for _, field := range []string{
		"Version",
		"Explorer.PageSize", "Explorer.RefreshIntervalMs", "Explorer.DSTStrategy",
		"Explorer.DefaultLocale", "Explorer.LocalTimezone", "Explorer.ZoneinfoDirs",
		"Preferences.DatabasePath", "Preferences.DisableWatch",
		"Prometheus.RemoteWriteURL", "Prometheus.Username", "Prometheus.Password",
		"Prometheus.HostLabel", "Prometheus.IntervalSec", "Prometheus.TimeoutSec",
		"Daemon.PidFile", "Daemon.TrayFavoritesLimit",
		"Logging.Level", "Logging.Debug",
		"Promtail.URL", "Promtail.Username", "Promtail.Password",
		"Promtail.BatchWaitSeconds",
	} {
		c.ConfigSources[field] = SourceDefault
	}
}

// MergeJSONConfig merges JSON configuration into the current configuration.
// Zero values in the JSON file leave the current value in place.
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	if jsonConfig.Version != 0 {
		c.Version = jsonConfig.Version
		c.ConfigSources["Version"] = SourceJSONFile
	}

	if jsonConfig.Explorer != nil {
		if c.Explorer == nil {
			c.Explorer = &ExplorerConfig{}
		}
		c.mergeExplorerConfig(jsonConfig.Explorer)
	}

	if jsonConfig.Preferences != nil {
		if c.Preferences == nil {
			c.Preferences = &PreferencesConfig{}
		}
		mergeString(&c.Preferences.DatabasePath, jsonConfig.Preferences.DatabasePath, "Preferences.DatabasePath", c.ConfigSources)
		// Note: bool field
		c.Preferences.DisableWatch = jsonConfig.Preferences.DisableWatch
		c.ConfigSources["Preferences.DisableWatch"] = SourceJSONFile
	}

	if jsonConfig.Prometheus != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergePrometheusConfig(jsonConfig.Prometheus)
	}

	if jsonConfig.Daemon != nil {
		if c.Daemon == nil {
			c.Daemon = &DaemonConfig{}
		}
		mergeString(&c.Daemon.PidFile, jsonConfig.Daemon.PidFile, "Daemon.PidFile", c.ConfigSources)
		mergeInt(&c.Daemon.TrayFavoritesLimit, jsonConfig.Daemon.TrayFavoritesLimit, "Daemon.TrayFavoritesLimit", c.ConfigSources)
	}

	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeLoggingConfig(jsonConfig.Logging)
	}
}

// mergeExplorerConfig merges Explorer configuration from JSON
func (c *AppConfig) mergeExplorerConfig(jsonConfig *ExplorerConfig) {
	mergeInt(&c.Explorer.PageSize, jsonConfig.PageSize, "Explorer.PageSize", c.ConfigSources)
	mergeInt(&c.Explorer.RefreshIntervalMs, jsonConfig.RefreshIntervalMs, "Explorer.RefreshIntervalMs", c.ConfigSources)
	mergeString(&c.Explorer.DSTStrategy, jsonConfig.DSTStrategy, "Explorer.DSTStrategy", c.ConfigSources)
	mergeString(&c.Explorer.DefaultLocale, jsonConfig.DefaultLocale, "Explorer.DefaultLocale", c.ConfigSources)
	mergeString(&c.Explorer.LocalTimezone, jsonConfig.LocalTimezone, "Explorer.LocalTimezone", c.ConfigSources)
	mergeString(&c.Explorer.ZoneinfoDirs, jsonConfig.ZoneinfoDirs, "Explorer.ZoneinfoDirs", c.ConfigSources)
}

// mergePrometheusConfig merges Prometheus configuration from JSON
func (c *AppConfig) mergePrometheusConfig(jsonConfig *PrometheusConfig) {
	mergeString(&c.Prometheus.RemoteWriteURL, jsonConfig.RemoteWriteURL, "Prometheus.RemoteWriteURL", c.ConfigSources)
	mergeString(&c.Prometheus.Username, jsonConfig.Username, "Prometheus.Username", c.ConfigSources)
	mergeString(&c.Prometheus.Password, jsonConfig.Password, "Prometheus.Password", c.ConfigSources)
	mergeString(&c.Prometheus.HostLabel, jsonConfig.HostLabel, "Prometheus.HostLabel", c.ConfigSources)
	mergeInt(&c.Prometheus.IntervalSec, jsonConfig.IntervalSec, "Prometheus.IntervalSec", c.ConfigSources)
	mergeInt(&c.Prometheus.TimeoutSec, jsonConfig.TimeoutSec, "Prometheus.TimeoutSec", c.ConfigSources)
}

// mergeLoggingConfig merges Logging configuration from JSON
func (c *AppConfig) mergeLoggingConfig(jsonConfig *LoggingConfig) {
	mergeString(&c.Logging.Level, jsonConfig.Level, "Logging.Level", c.ConfigSources)

	// Note: bool field
	c.Logging.Debug = jsonConfig.Debug
	c.ConfigSources["Logging.Debug"] = SourceJSONFile

	if jsonConfig.Promtail != nil {
		if c.Logging.Promtail == nil {
			c.Logging.Promtail = &PromtailConfig{}
		}
		p := c.Logging.Promtail
		mergeString(&p.URL, jsonConfig.Promtail.URL, "Promtail.URL", c.ConfigSources)
		mergeString(&p.Username, jsonConfig.Promtail.Username, "Promtail.Username", c.ConfigSources)
		mergeString(&p.Password, jsonConfig.Promtail.Password, "Promtail.Password", c.ConfigSources)
		mergeInt(&p.BatchWaitSeconds, jsonConfig.Promtail.BatchWaitSeconds, "Promtail.BatchWaitSeconds", c.ConfigSources)
	}
}

func mergeString(dst *string, value, field string, sources ConfigSourceMap) {
	if value != "" {
		*dst = value
		sources[field] = SourceJSONFile
	}
}

func mergeInt(dst *int, value int, field string, sources ConfigSourceMap) {
	if value != 0 {
		*dst = value
		sources[field] = SourceJSONFile
	}
}

// splitCommaSeparated splits a comma-separated string into a slice of strings
// It also trims whitespace from each element
func splitCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
