package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/younsl/reclaimd/internal/models"
	"github.com/younsl/reclaimd/pkg/utils"
)

// Environment variable names read by FromEnv.
const (
	EnvRegion              = "RECLAIMD_REGION"
	EnvTopicARN            = "RECLAIMD_TOPIC_ARN"
	EnvCPUThreshold        = "RECLAIMD_CPU_THRESHOLD"
	EnvWindowMinutes       = "RECLAIMD_WINDOW_MINUTES"
	EnvGranularityMinutes  = "RECLAIMD_GRANULARITY_MINUTES"
	EnvAggregation         = "RECLAIMD_AGGREGATION"
	EnvIndeterminatePolicy = "RECLAIMD_INDETERMINATE_POLICY"
	EnvNotifyOnNoAction    = "RECLAIMD_NOTIFY_ON_NO_ACTION"
	EnvMaxConcurrency      = "RECLAIMD_MAX_CONCURRENCY"
	EnvRunTimeoutMinutes   = "RECLAIMD_RUN_TIMEOUT_MINUTES"
	EnvDryRun              = "RECLAIMD_DRY_RUN"
	EnvEstimateSavings     = "RECLAIMD_ESTIMATE_SAVINGS"
)

// Config is the full configuration surface of one engine run. The
// engine treats it as immutable for the duration of a run.
type Config struct {
	// Region is the AWS region swept by the engine.
	Region string

	// TopicARN is the SNS topic run notifications are published to.
	// Empty disables publishing; the reporter then only logs.
	TopicARN string

	// CPUThreshold is the utilization percentage below which an
	// instance is considered idle.
	CPUThreshold float64

	// Window is the trailing metric window length.
	Window time.Duration

	// Granularity is the metric bucket size. It must divide Window.
	Granularity time.Duration

	// Aggregation selects latest-sample or window-mean classification.
	Aggregation models.AggregationMode

	// IndeterminatePolicy resolves instances with no metric history.
	IndeterminatePolicy models.IndeterminatePolicy

	// NotifyOnNoAction publishes a heartbeat notification even when
	// the run terminated nothing.
	NotifyOnNoAction bool

	// MaxConcurrency bounds concurrent evaluations.
	MaxConcurrency int

	// RunTimeout aborts a run that exceeds it. Zero means no limit.
	RunTimeout time.Duration

	// DryRun evaluates and reports but never issues terminations.
	DryRun bool

	// EstimateSavings annotates terminated instances with their
	// estimated on-demand monthly cost in the summary notification.
	EstimateSavings bool
}

// Default returns the configuration used when no environment
// overrides are present.
func Default() Config {
	return Config{
		Region:              utils.GetDefaultRegion(),
		CPUThreshold:        10.0,
		Window:              30 * time.Minute,
		Granularity:         5 * time.Minute,
		Aggregation:         models.AggregationLatest,
		IndeterminatePolicy: models.IndeterminateAsActive,
		NotifyOnNoAction:    false,
		MaxConcurrency:      10,
		DryRun:              false,
		EstimateSavings:     true,
	}
}

// FromEnv builds a Config from the process environment on top of the
// defaults, then validates it.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvRegion); v != "" {
		cfg.Region = v
	}
	cfg.TopicARN = os.Getenv(EnvTopicARN)

	var err error
	if cfg.CPUThreshold, err = envFloat(EnvCPUThreshold, cfg.CPUThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Window, err = envMinutes(EnvWindowMinutes, cfg.Window); err != nil {
		return Config{}, err
	}
	if cfg.Granularity, err = envMinutes(EnvGranularityMinutes, cfg.Granularity); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(EnvAggregation); v != "" {
		if cfg.Aggregation, err = models.ParseAggregationMode(v); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv(EnvIndeterminatePolicy); v != "" {
		if cfg.IndeterminatePolicy, err = models.ParseIndeterminatePolicy(v); err != nil {
			return Config{}, err
		}
	}
	if cfg.NotifyOnNoAction, err = envBool(EnvNotifyOnNoAction, cfg.NotifyOnNoAction); err != nil {
		return Config{}, err
	}
	if cfg.MaxConcurrency, err = envInt(EnvMaxConcurrency, cfg.MaxConcurrency); err != nil {
		return Config{}, err
	}
	if cfg.RunTimeout, err = envMinutes(EnvRunTimeoutMinutes, cfg.RunTimeout); err != nil {
		return Config{}, err
	}
	if cfg.DryRun, err = envBool(EnvDryRun, cfg.DryRun); err != nil {
		return Config{}, err
	}
	if cfg.EstimateSavings, err = envBool(EnvEstimateSavings, cfg.EstimateSavings); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the engine relies on.
func (c Config) Validate() error {
	if !utils.IsValidRegion(c.Region) {
		return fmt.Errorf("invalid region %q", c.Region)
	}
	if c.CPUThreshold < 0 {
		return fmt.Errorf("cpu threshold must not be negative, got %.2f", c.CPUThreshold)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %s", c.Window)
	}
	if c.Granularity <= 0 {
		return fmt.Errorf("granularity must be positive, got %s", c.Granularity)
	}
	if c.Window%c.Granularity != 0 {
		return fmt.Errorf("granularity %s does not divide window %s", c.Granularity, c.Window)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1, got %d", c.MaxConcurrency)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("run timeout must not be negative, got %s", c.RunTimeout)
	}
	return nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return f, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}

func envMinutes(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return time.Duration(n) * time.Minute, nil
}
