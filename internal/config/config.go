// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Preview server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// DefaultEndpoint is the process-wide endpoint tier of the resolution
	// chain: block directive > DefaultEndpoint > hardcoded fallback.
	// Empty means "not configured" and the fallback address applies.
	DefaultEndpoint string

	// QueryTimeout bounds each query execution.
	QueryTimeout time.Duration

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel            string
	MaxRequestBodyBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
// Invalid values are reported together rather than one at a time.
func Load() (Config, error) {
	var errs []error

	port, err := envInt("CYPHERDOC_PORT", 3000)
	errs = append(errs, err)
	readTimeout, err := envDuration("CYPHERDOC_READ_TIMEOUT", 30*time.Second)
	errs = append(errs, err)
	writeTimeout, err := envDuration("CYPHERDOC_WRITE_TIMEOUT", 30*time.Second)
	errs = append(errs, err)
	queryTimeout, err := envDuration("CYPHERDOC_QUERY_TIMEOUT", 10*time.Second)
	errs = append(errs, err)
	otelInsecure, err := envBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	errs = append(errs, err)
	maxBody, err := envInt("CYPHERDOC_MAX_REQUEST_BODY_BYTES", 1*1024*1024)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := Config{
		Port:                port,
		ReadTimeout:         readTimeout,
		WriteTimeout:        writeTimeout,
		DefaultEndpoint:     envStr("CYPHERDOC_ENDPOINT", ""),
		QueryTimeout:        queryTimeout,
		OTELEndpoint:        envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:        otelInsecure,
		ServiceName:         envStr("OTEL_SERVICE_NAME", "cypherdoc"),
		LogLevel:            envStr("CYPHERDOC_LOG_LEVEL", "info"),
		MaxRequestBodyBytes: int64(maxBody),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: CYPHERDOC_PORT must be in 1..65535, got %d", c.Port)
	}
	if c.QueryTimeout <= 0 {
		return errors.New("config: CYPHERDOC_QUERY_TIMEOUT must be positive")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return errors.New("config: CYPHERDOC_MAX_REQUEST_BODY_BYTES must be positive")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
