// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret verifies identity tokens issued by the auth service (HS256). Required in production.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the expected iss claim on identity tokens (e.g. "gymgate-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// QRTokenTTL is the validity window for issued QR tokens (e.g. "60s").
	QRTokenTTL string `mapstructure:"QR_TOKEN_TTL"`
	// PersonCacheTTL is how long person directory lookups are cached in Redis (e.g. "30s").
	PersonCacheTTL string `mapstructure:"PERSON_CACHE_TTL"`
	// RedisAddr enables the person directory cache when set (e.g. localhost:6379).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword is the optional Redis auth password.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Telemetry (optional). When the OTLP endpoint is set, the server exports
	// traces, metrics, and scan-event logs; when Kafka brokers are set, scan
	// events are also produced to Kafka for the worker.
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for scan events (default gymgate-scans).
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// Worker-only: Loki URL for the scan-event worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the scan-event worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "gymgate-auth")
	v.SetDefault("QR_TOKEN_TTL", "60s")
	v.SetDefault("PERSON_CACHE_TTL", "30s")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "gymgate-scans")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "gymgate-scan-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.Env == "production" && cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set when APP_ENV=production")
	}

	return &cfg, nil
}

// TokenTTL parses QRTokenTTL as a time.Duration. Returns 60s if unset or invalid.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.QRTokenTTL)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// CacheTTL parses PersonCacheTTL as a time.Duration. Returns 30s if unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.PersonCacheTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the Kafka scan-event producer is enabled (non-empty list) and to create it.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
