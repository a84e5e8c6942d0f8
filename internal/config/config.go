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

	// OllamaBaseURL points at the local Ollama server that performs both
	// resume extraction and field-resolution completions.
	OllamaBaseURL string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string        `env:"OLLAMA_MODEL" envDefault:"llama3.1:8b"`
	OllamaTimeout time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"90s"`
	// ModelProbeTimeout bounds the availability check performed before an
	// active-model swap is committed.
	ModelProbeTimeout time.Duration `env:"MODEL_PROBE_TIMEOUT" envDefault:"10s"`

	// DBURL enables the Postgres resume repository when set; the in-memory
	// store is used otherwise.
	DBURL string `env:"DB_URL"`
	// RedisURL enables the gateway chat-response cache when set.
	RedisURL      string        `env:"REDIS_URL"`
	ChatCacheTTL  time.Duration `env:"CHAT_CACHE_TTL" envDefault:"10m"`
	TikaURL       string        `env:"TIKA_URL" envDefault:"http://localhost:9998"`
	OTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELService   string        `env:"OTEL_SERVICE_NAME" envDefault:"resume-autofill"`
	MaxUploadMB   int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSOrigins   string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RatePerMinute int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`

	// DefaultCountry is returned for country fields that resumes do not model.
	// Kept configurable; the default preserves historical behavior.
	DefaultCountry string `env:"DEFAULT_COUNTRY" envDefault:"India"`

	// BatchConcurrency caps the worker pool used for batch field resolution.
	BatchConcurrency int `env:"BATCH_CONCURRENCY" envDefault:"4"`

	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Gateway retry (transient network failures on list/probe calls).
	RetryInitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" envDefault:"500ms"`
	RetryMaxInterval     time.Duration `env:"RETRY_MAX_INTERVAL" envDefault:"5s"`
	RetryMaxElapsedTime  time.Duration `env:"RETRY_MAX_ELAPSED_TIME" envDefault:"15s"`
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
