package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

var (
	instance *Config
	mu       sync.RWMutex
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger   LoggerConfig             `mapstructure:"logger"`
	Postgres PostgresConfig           `mapstructure:"postgres"`
	Planner  PlannerConfig            `mapstructure:"planner"`
	Effects  []schemas.EffectSpec     `mapstructure:"effects"`
	Policies []schemas.PlatformPolicy `mapstructure:"policies"`
}

// ColorConfig defines the color settings for different log levels, used for
// console output.
type ColorConfig struct {
	Debug string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" json:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error string `mapstructure:"error" json:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// PostgresConfig holds settings for the optional plan archive. An empty URL
// disables archiving entirely.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// PlannerConfig holds the tunables of the plan builder and the variation
// sampler. These are deliberately configuration, not constants: the useful
// values differ per deployment.
type PlannerConfig struct {
	// Window is the session inactivity window. Within it, repeat parameter
	// vectors for the same effect are suppressed; once it elapses the
	// anti-repeat memory for the session is dropped.
	Window time.Duration `mapstructure:"window"`
	// Tolerance is the per-parameter relative tolerance (fraction of the
	// parameter's range) under which a candidate counts as a repeat.
	Tolerance float64 `mapstructure:"tolerance"`
	// RetryBudget bounds collision resampling before forced perturbation.
	RetryBudget int `mapstructure:"retry_budget"`
	// MinOffset is the forced-perturbation step, as a fraction of the
	// parameter's range.
	MinOffset float64 `mapstructure:"min_offset"`
	// SweepBatch is how many session records a single history access may
	// examine for lazy eviction.
	SweepBatch int `mapstructure:"sweep_batch"`
	// Seed fixes the RNG seed; zero seeds from the wall clock.
	Seed int64 `mapstructure:"seed"`
}

// SetDefaults registers default values on the given viper instance so the
// application can run with a minimal (or absent) config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "mediamorph")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("planner.window", 10*time.Minute)
	v.SetDefault("planner.tolerance", 0.05)
	v.SetDefault("planner.retry_budget", 8)
	v.SetDefault("planner.min_offset", 0.08)
	v.SetDefault("planner.sweep_batch", 4)
}

// NewDefaultConfig returns a fully populated configuration with the built-in
// effect registry and platform policies. Used by tests and as the baseline
// when no config file is present.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "mediamorph",
		},
		Planner: PlannerConfig{
			Window:      10 * time.Minute,
			Tolerance:   0.05,
			RetryBudget: 8,
			MinOffset:   0.08,
			SweepBatch:  4,
		},
		Effects:  DefaultEffects(),
		Policies: DefaultPolicies(),
	}
}

// ApplyBuiltins fills in the built-in effect set and policies when the loaded
// configuration leaves them empty.
func (c *Config) ApplyBuiltins() {
	if len(c.Effects) == 0 {
		c.Effects = DefaultEffects()
	}
	if len(c.Policies) == 0 {
		c.Policies = DefaultPolicies()
	}
}

// Validate checks the planner tunables for values the sampler cannot work
// with. Registry and policy contents are validated by their own constructors.
func (c *Config) Validate() error {
	p := c.Planner
	if p.Window <= 0 {
		return fmt.Errorf("planner.window must be positive, got %s", p.Window)
	}
	if p.Tolerance < 0 || p.Tolerance >= 1 {
		return fmt.Errorf("planner.tolerance must be in [0, 1), got %g", p.Tolerance)
	}
	if p.RetryBudget < 0 {
		return fmt.Errorf("planner.retry_budget must not be negative, got %d", p.RetryBudget)
	}
	if p.MinOffset <= 0 || p.MinOffset >= 1 {
		return fmt.Errorf("planner.min_offset must be in (0, 1), got %g", p.MinOffset)
	}
	if p.SweepBatch < 1 {
		return fmt.Errorf("planner.sweep_batch must be at least 1, got %d", p.SweepBatch)
	}
	return nil
}

// Set stores the configuration globally.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// Get returns the loaded configuration instance.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("configuration not initialized; call config.Set() in the root command")
	}
	return instance
}
