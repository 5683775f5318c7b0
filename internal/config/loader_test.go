package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/fightlab/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FIGHTLAB_ADDR", ":8080")
			_ = os.Setenv("FIGHTLAB_UPLOAD_TICK_MS", "50")
			_ = os.Setenv("FIGHTLAB_UPLOAD_STEP", "10")
			_ = os.Setenv("FIGHTLAB_ENFORCE_SIZE_LIMIT", "false")
			_ = os.Setenv("FIGHTLAB_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.UploadTickMS, convey.ShouldEqual, 50)
				convey.So(cfg.UploadStep, convey.ShouldEqual, 10)
				convey.So(cfg.EnforceSizeLimit, convey.ShouldBeFalse)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# local overrides
addr: ":9090"
analysis_delay_ms: 100
summary_delay_ms: 200
max_sessions: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FIGHTLAB_CONFIG", tmpFile)
			_ = os.Setenv("FIGHTLAB_MAX_SESSIONS", "16")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.AnalysisDelayMS, convey.ShouldEqual, 100)
				convey.So(cfg.SummaryDelayMS, convey.ShouldEqual, 200)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 16)
				convey.So(cfg.UploadStep, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading metrics settings from a file", func() {
			yamlContent := `
metrics_namespace: ring
metrics_prefix: lab
metrics_refresh_ms: 2500
metrics_labels:
  env: staging
metrics_latency_buckets: [1, 10, 100]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FIGHTLAB_CONFIG", tmpFile)
			_ = os.Setenv("FIGHTLAB_METRICS_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they are decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "ring")
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "lab")
				convey.So(cfg.MetricsRefresh(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"env": "staging"})
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{1, 10, 100})
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FIGHTLAB_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FIGHTLAB_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FIGHTLAB_UPLOAD_STEP", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with an out-of-range step", func() {
			_ = os.Setenv("FIGHTLAB_UPLOAD_STEP", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "upload_step")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FIGHTLAB_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FIGHTLAB_CONFIG",
		"FIGHTLAB_ADDR",
		"FIGHTLAB_LOG_FORMAT",
		"FIGHTLAB_UPLOAD_TICK_MS",
		"FIGHTLAB_UPLOAD_STEP",
		"FIGHTLAB_ENFORCE_SIZE_LIMIT",
		"FIGHTLAB_MAX_SESSIONS",
		"FIGHTLAB_METRICS_ENABLED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fightlab-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
