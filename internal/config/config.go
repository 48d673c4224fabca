// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Insight (external reasoning service) settings. The numeric ranking
	// pipeline never depends on this service being reachable.
	InsightEnabled     bool          `env:"INSIGHT_ENABLED" envDefault:"true"`
	InsightBaseURL     string        `env:"INSIGHT_BASE_URL" envDefault:"http://localhost:8000"`
	InsightTimeout     time.Duration `env:"INSIGHT_TIMEOUT" envDefault:"20s"`
	InsightConcurrency int           `env:"INSIGHT_CONCURRENCY" envDefault:"4"`

	// Ranking limits. RankMaxLimit caps caller-supplied limits.
	RankDefaultLimit int `env:"RANK_DEFAULT_LIMIT" envDefault:"10"`
	RankMaxLimit     int `env:"RANK_MAX_LIMIT" envDefault:"50"`
	// ScoreConcurrency caps parallel score computations per request.
	ScoreConcurrency int `env:"SCORE_CONCURRENCY" envDefault:"8"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"match-engine"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Startup probe backoff for the insight service health check.
	ProbeMaxElapsedTime  time.Duration `env:"PROBE_MAX_ELAPSED_TIME" envDefault:"30s"`
	ProbeInitialInterval time.Duration `env:"PROBE_INITIAL_INTERVAL" envDefault:"1s"`
	ProbeMaxInterval     time.Duration `env:"PROBE_MAX_INTERVAL" envDefault:"10s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// ProbeBackoff returns the startup probe backoff settings; shortened in test
// environments so suites don't wait on an unreachable collaborator.
func (c Config) ProbeBackoff() (maxElapsedTime, initialInterval, maxInterval time.Duration) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond
	}
	return c.ProbeMaxElapsedTime, c.ProbeInitialInterval, c.ProbeMaxInterval
}
