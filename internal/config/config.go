// Package config loads BuildMSM settings from defaults, an optional TOML
// file, MSMBUILD_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

// EnvPrefix is the prefix of environment overrides (MSMBUILD_LAG_TIME, …).
const EnvPrefix = "MSMBUILD"

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds BuildMSM settings.
type Config struct {
	Input         string    `mapstructure:"input"`
	OutputDir     string    `mapstructure:"output_dir"`
	LagTime       int       `mapstructure:"lag_time"`
	NStates       int       `mapstructure:"n_states"` // 0: max label + 1
	Symmetrize    string    `mapstructure:"symmetrize"`
	Prior         float64   `mapstructure:"prior"`
	SlidingWindow bool      `mapstructure:"sliding_window"`
	Trimming      bool      `mapstructure:"trimming"`
	MinSupport    float64   `mapstructure:"min_support"`
	ZeroRowPolicy string    `mapstructure:"zero_row_policy"`
	MLETolerance  float64   `mapstructure:"mle_tolerance"`
	MLEMaxIter    int       `mapstructure:"mle_max_iter"`
	MLEFallback   bool      `mapstructure:"mle_fallback"`
	DenseLimit    int       `mapstructure:"dense_limit"`
	Force         bool      `mapstructure:"force"`
	MetricsFile   string    `mapstructure:"metrics_file"`
	Log           LogConfig `mapstructure:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"input":           "input",
	"output-dir":      "output_dir",
	"lag-time":        "lag_time",
	"n-states":        "n_states",
	"symmetrize":      "symmetrize",
	"prior":           "prior",
	"sliding-window":  "sliding_window",
	"trimming":        "trimming",
	"min-support":     "min_support",
	"zero-row-policy": "zero_row_policy",
	"mle-tolerance":   "mle_tolerance",
	"mle-max-iter":    "mle_max_iter",
	"mle-fallback":    "mle_fallback",
	"dense-limit":     "dense_limit",
	"force":           "force",
	"metrics-file":    "metrics_file",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output_dir", "./Data")
	v.SetDefault("lag_time", 1)
	v.SetDefault("n_states", 0)
	v.SetDefault("symmetrize", symmetrize.MLE.String())
	v.SetDefault("prior", 0.0)
	v.SetDefault("sliding_window", true)
	v.SetDefault("trimming", true)
	v.SetDefault("min_support", 1.0)
	v.SetDefault("zero_row_policy", stationary.ZeroRowKeep.String())
	v.SetDefault("mle_tolerance", symmetrize.DefaultTolerance)
	v.SetDefault("mle_max_iter", symmetrize.DefaultMaxIter)
	v.SetDefault("mle_fallback", false)
	v.SetDefault("dense_limit", stationary.DefaultDenseLimit)
	v.SetDefault("force", false)
	v.SetDefault("metrics_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load resolves the configuration. configFile may be empty, in which case
// $MSMBUILD_CONFIG is used when set. flags may be nil; only flags the user
// changed override lower layers.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return c, nil
}

// Validate checks values that the engine would otherwise reject later.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, fmt.Errorf("input: required: %w", ErrInvalid))
	}
	if c.LagTime <= 0 {
		errs = append(errs, fmt.Errorf("lag_time %d: must be positive: %w", c.LagTime, ErrInvalid))
	}
	if c.NStates < 0 {
		errs = append(errs, fmt.Errorf("n_states %d: must be ≥ 0: %w", c.NStates, ErrInvalid))
	}
	if _, err := symmetrize.ParseMethod(c.Symmetrize); err != nil {
		errs = append(errs, fmt.Errorf("symmetrize: %w: %w", ErrInvalid, err))
	}
	if !finiteNonNegative(c.Prior) {
		errs = append(errs, fmt.Errorf("prior %v: must be finite and ≥ 0: %w", c.Prior, ErrInvalid))
	}
	if !finiteNonNegative(c.MinSupport) {
		errs = append(errs, fmt.Errorf("min_support %v: must be finite and ≥ 0: %w", c.MinSupport, ErrInvalid))
	}
	if _, err := stationary.ParseZeroRowPolicy(c.ZeroRowPolicy); err != nil {
		errs = append(errs, fmt.Errorf("zero_row_policy: %w: %w", ErrInvalid, err))
	}
	if !(c.MLETolerance > 0) {
		errs = append(errs, fmt.Errorf("mle_tolerance %v: must be > 0: %w", c.MLETolerance, ErrInvalid))
	}
	if c.MLEMaxIter < 1 {
		errs = append(errs, fmt.Errorf("mle_max_iter %d: must be ≥ 1: %w", c.MLEMaxIter, ErrInvalid))
	}
	if c.DenseLimit < 0 {
		errs = append(errs, fmt.Errorf("dense_limit %d: must be ≥ 0: %w", c.DenseLimit, ErrInvalid))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json: %w", c.Log.Format, ErrInvalid))
	}

	return errors.Join(errs...)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
