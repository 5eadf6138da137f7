package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	Environment string

	OTLPEndpoint string
	OTLPInsecure bool

	AuthAddress        string
	AuthTimeout        time.Duration
	AuthMaxFailures    uint32
	AuthBreakerTimeout time.Duration

	// OrderRetention is how long shipped and received orders are kept by the purger.
	OrderRetention time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Environment: envDefault("ENVIRONMENT", "local"),
		AuthAddress: envDefault("AUTH_GRPC_ADDRESS", "localhost:50051"),

		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: !isFalsy(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")),
	}
	timeoutMS, err := positiveInt("AUTH_GRPC_TIMEOUT_MS", 3000)
	if err != nil {
		return Config{}, err
	}
	cfg.AuthTimeout = time.Duration(timeoutMS) * time.Millisecond

	maxFailures, err := positiveInt("AUTH_BREAKER_MAX_FAILURES", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.AuthMaxFailures = uint32(maxFailures)

	openSeconds, err := positiveInt("AUTH_BREAKER_OPEN_SECONDS", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.AuthBreakerTimeout = time.Duration(openSeconds) * time.Second

	retentionDays, err := positiveInt("ORDER_RETENTION_DAYS", 90)
	if err != nil {
		return Config{}, err
	}
	cfg.OrderRetention = time.Duration(retentionDays) * 24 * time.Hour
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isFalsy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "0" || value == "false" || value == "no"
}
