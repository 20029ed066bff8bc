// Package config handles configuration loading for econwatch.
// It supports YAML config files, a .env file, and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/econwatch/internal/datalog"
	"github.com/seenimoa/econwatch/internal/datasource"
	"github.com/seenimoa/econwatch/pkg/models"
	"github.com/seenimoa/econwatch/pkg/utils"
)

// EnvPrefix prefixes every environment override, e.g. ECONWATCH_LOG_PATH.
const EnvPrefix = "ECONWATCH"

// Config represents the complete application configuration.
type Config struct {
	FRED       FREDConfig                 `mapstructure:"fred"       yaml:"fred"`
	Log        LogConfig                  `mapstructure:"log"        yaml:"log"`
	Indicators []models.Indicator         `mapstructure:"indicators" yaml:"indicators"`
	Output     OutputConfig               `mapstructure:"output"     yaml:"output"`
	Releases   []datasource.ReleaseSource `mapstructure:"releases"   yaml:"releases"`
	Logging    LoggingConfig              `mapstructure:"logging"    yaml:"logging"`
}

// FREDConfig holds FRED API settings.
type FREDConfig struct {
	APIKey         string `mapstructure:"api_key"          yaml:"api_key"`
	BaseURL        string `mapstructure:"base_url"         yaml:"base_url"`
	TimeoutSec     int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"`
	RequestsPerSec int    `mapstructure:"requests_per_sec" yaml:"requests_per_sec"`
	ScrapeFallback bool   `mapstructure:"scrape_fallback"  yaml:"scrape_fallback"`
}

// LogConfig locates the append-only data log.
type LogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	ReportDir   string `mapstructure:"report_dir"   yaml:"report_dir"`
	ChartDir    string `mapstructure:"chart_dir"    yaml:"chart_dir"`
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"` // "png" or "svg"
	ChartWidth  int    `mapstructure:"chart_width"  yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level"   yaml:"level"`  // "debug", "info", "warn", "error"
	Format  string `mapstructure:"format"  yaml:"format"` // "text" or "json"
	Tracing bool   `mapstructure:"tracing" yaml:"tracing"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.econwatch/config.yaml (home directory)
//  3. /etc/econwatch/config.yaml (system)
//
// A .env file in the working directory is loaded first; it never overrides
// variables already set in the environment.
func Load() (*Config, error) {
	loadDotEnv()
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".econwatch"))
	v.AddConfigPath("/etc/econwatch")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults + env vars.
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("fred.api_key", "")
	v.SetDefault("fred.base_url", "https://api.stlouisfed.org/fred")
	v.SetDefault("fred.timeout_sec", 15)
	v.SetDefault("fred.requests_per_sec", 2)
	v.SetDefault("fred.scrape_fallback", true)

	v.SetDefault("log.path", "real_data.log")

	v.SetDefault("indicators", indicatorMaps(models.DefaultIndicators()))

	v.SetDefault("output.report_dir", ".")
	v.SetDefault("output.chart_dir", ".")
	v.SetDefault("output.chart_format", "png")
	v.SetDefault("output.chart_width", 1600)
	v.SetDefault("output.chart_height", 1000)

	v.SetDefault("releases", releaseMaps(datasource.DefaultReleaseSources))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.tracing", false)
}

// overrideFromEnv reads the FRED key from its conventional variable when the
// prefixed one is unset.
func overrideFromEnv(cfg *Config) {
	if cfg.FRED.APIKey != "" {
		return
	}
	if key := os.Getenv("FRED_API_KEY"); key != "" {
		cfg.FRED.APIKey = key
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Log.Path) == "" {
		return errors.New("config: log.path is empty")
	}
	if len(c.Indicators) == 0 {
		return errors.New("config: no indicators configured")
	}
	for _, ind := range c.Indicators {
		if ind.SeriesID == "" {
			return fmt.Errorf("config: indicator %q has no series_id", ind.Key)
		}
	}
	if err := datalog.CheckKeys(models.IndicatorKeys(c.Indicators)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Output.ChartFormat {
	case "png", "svg":
	default:
		return fmt.Errorf("config: output.chart_format %q must be png or svg", c.Output.ChartFormat)
	}
	return nil
}

// YAML renders the effective configuration with secrets masked.
func (c *Config) YAML() (string, error) {
	masked := *c
	if masked.FRED.APIKey != "" {
		masked.FRED.APIKey = utils.MaskSecret(masked.FRED.APIKey)
	}
	b, err := yaml.Marshal(&masked)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(b), nil
}

func loadDotEnv() {
	// Missing .env is the common case.
	_ = godotenv.Load()
}

func indicatorMaps(inds []models.Indicator) []map[string]any {
	out := make([]map[string]any, len(inds))
	for i, ind := range inds {
		out[i] = map[string]any{"key": ind.Key, "series_id": ind.SeriesID, "label": ind.Label}
	}
	return out
}

func releaseMaps(srcs []datasource.ReleaseSource) []map[string]any {
	out := make([]map[string]any, len(srcs))
	for i, s := range srcs {
		out[i] = map[string]any{"name": s.Name, "url": s.URL}
	}
	return out
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
