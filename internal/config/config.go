// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"time"

	"github.com/okian/fightlab/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UploadTickMS and UploadStep shape the simulated upload.
	UploadTickMS int `koanf:"upload_tick_ms"`
	UploadStep   int `koanf:"upload_step"`

	// AnalysisDelayMS and SummaryDelayMS simulate backend latency.
	AnalysisDelayMS int `koanf:"analysis_delay_ms"`
	SummaryDelayMS  int `koanf:"summary_delay_ms"`

	// MaxUploadMB caps accepted file size when EnforceSizeLimit is set.
	MaxUploadMB      int  `koanf:"max_upload_mb"`
	EnforceSizeLimit bool `koanf:"enforce_size_limit"`

	// MaxSessions bounds concurrently held sessions.
	MaxSessions int `koanf:"max_sessions"`

	// EventBuffer is the per-pipeline event channel capacity.
	EventBuffer int `koanf:"event_buffer"`

	// EventLogSize is how many events each session retains.
	EventLogSize int `koanf:"event_log_size"`

	// Metrics naming and sampling.
	MetricsEnabled        bool              `koanf:"metrics_enabled"`
	MetricsNamespace      string            `koanf:"metrics_namespace"`
	MetricsSubsystem      string            `koanf:"metrics_subsystem"`
	MetricsPrefix         string            `koanf:"metrics_prefix"`
	MetricsRefreshMS      int               `koanf:"metrics_refresh_ms"`
	MetricsLabels         map[string]string `koanf:"metrics_labels"`
	MetricsLatencyBuckets []float64         `koanf:"metrics_latency_buckets"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        logger.FormatText,
		Addr:             ":9080",
		UploadTickMS:     200,
		UploadStep:       5,
		AnalysisDelayMS:  3000,
		SummaryDelayMS:   4000,
		MaxUploadMB:      200,
		EnforceSizeLimit: true,
		MaxSessions:      1024,
		EventBuffer:      64,
		EventLogSize:     512,
		MetricsEnabled:   true,
		MetricsNamespace: "fightlab",
		MetricsRefreshMS: 10000,
	}
}

// UploadTick returns the upload tick interval.
func (c *Config) UploadTick() time.Duration {
	return time.Duration(c.UploadTickMS) * time.Millisecond
}

// AnalysisDelay returns the simulated analysis latency.
func (c *Config) AnalysisDelay() time.Duration {
	return time.Duration(c.AnalysisDelayMS) * time.Millisecond
}

// SummaryDelay returns the simulated summarization latency.
func (c *Config) SummaryDelay() time.Duration {
	return time.Duration(c.SummaryDelayMS) * time.Millisecond
}

// MaxUploadBytes returns the size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// MetricsRefresh returns the system metrics sampling interval.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Validate checks ranges and returns an ErrInvalidConfig-wrapped error.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != logger.FormatText && c.LogFormat != logger.FormatJSON:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.UploadTickMS <= 0:
		return fmt.Errorf("%w: upload_tick_ms must be positive", ErrInvalidConfig)
	case c.UploadStep <= 0 || c.UploadStep > 100:
		return fmt.Errorf("%w: upload_step must be within 1..100", ErrInvalidConfig)
	case c.AnalysisDelayMS < 0 || c.SummaryDelayMS < 0:
		return fmt.Errorf("%w: processing delays must not be negative", ErrInvalidConfig)
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("%w: max_upload_mb must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.EventBuffer <= 0 || c.EventLogSize <= 0:
		return fmt.Errorf("%w: event_buffer and event_log_size must be positive", ErrInvalidConfig)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsLatencyBuckets); i++ {
		if c.MetricsLatencyBuckets[i] <= c.MetricsLatencyBuckets[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}
