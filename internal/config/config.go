package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. DASHA_DEPTH
const EnvPrefix = "DASHA"

// CacheConfig holds the timeline cache settings
type CacheConfig struct {
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Cleanup time.Duration `mapstructure:"cleanup" yaml:"cleanup"`
}

// Config holds all runtime configuration. Values are populated from
// ~/.dasha/config.yaml, DASHA_* env vars and CLI flags.
type Config struct {
	DaysPerYear   float64     `mapstructure:"days_per_year" yaml:"days_per_year"`
	TimelineYears float64     `mapstructure:"timeline_years" yaml:"timeline_years"`
	Depth         int         `mapstructure:"depth" yaml:"depth"`
	KPDepth       int         `mapstructure:"kp_depth" yaml:"kp_depth"`
	DBPath        string      `mapstructure:"db_path" yaml:"db_path"` // empty uses the store default
	Workers       int         `mapstructure:"workers" yaml:"workers"`
	Verbose       bool        `mapstructure:"verbose" yaml:"verbose"`
	Cache         CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// DefaultConfigPath returns ~/.dasha/config.yaml
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dasha", "config.yaml")
}

// Init points viper at the config file and environment. An explicit
// cfgFile must exist; the default location is optional.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("days_per_year", 365.25)
	viper.SetDefault("timeline_years", 120.0)
	viper.SetDefault("depth", 3)
	viper.SetDefault("kp_depth", 2)
	viper.SetDefault("db_path", "")
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("verbose", false)
	viper.SetDefault("cache.ttl", 10*time.Minute)
	viper.SetDefault("cache.cleanup", 20*time.Minute)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with
func (c Config) Validate() error {
	switch {
	case c.DaysPerYear <= 0:
		return fmt.Errorf("days_per_year must be > 0, got %v", c.DaysPerYear)
	case c.TimelineYears <= 0:
		return fmt.Errorf("timeline_years must be > 0, got %v", c.TimelineYears)
	case c.Depth < 1 || c.Depth > 5:
		return fmt.Errorf("depth must be between 1 and 5, got %d", c.Depth)
	case c.KPDepth < 1 || c.KPDepth > 3:
		return fmt.Errorf("kp_depth must be between 1 and 3, got %d", c.KPDepth)
	case c.Workers < 1:
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	case c.Cache.TTL < 0 || c.Cache.Cleanup < 0:
		return fmt.Errorf("cache durations must not be negative")
	}
	return nil
}
