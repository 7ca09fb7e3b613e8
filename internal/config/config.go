// Package config loads host configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds host configuration loaded from the environment. The cart
// model itself needs none of this; it feeds the session layer and the
// order-entry command.
type Config struct {
	AppEnv           string
	ServiceName      string
	Currency         string
	LogLevel         string
	LogFormat        string
	MetricsNamespace string
	EnableTracing    bool
	TraceSampleRatio float64
	// PromoCodes holds overrides parsed from PROMO_CODES, nil when unset
	// so cart defaults stay untouched.
	PromoCodes map[string]float64
}

// Load reads configuration from environment variables and an optional
// .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	promoCodes, err := parsePromoCodes(k.String("PROMO_CODES"))
	if err != nil {
		return nil, fmt.Errorf("PROMO_CODES: %w", err)
	}

	cfg := &Config{
		AppEnv:           valueOrDefault(k.String("APP_ENV"), "development"),
		ServiceName:      valueOrDefault(k.String("SERVICE_NAME"), "toko-cart"),
		Currency:         valueOrDefault(k.String("CURRENCY"), "USD"),
		LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "console"),
		MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "tokocart"),
		EnableTracing:    parseBool(k.String("OBS_ENABLE_TRACING")),
		TraceSampleRatio: parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
		PromoCodes:       promoCodes,
	}
	return cfg, nil
}

// parsePromoCodes parses comma-separated CODE:PERCENT pairs, e.g.
// "HOLIDAY15:15,SALE10:12". Blank input yields a nil map.
func parsePromoCodes(value string) (map[string]float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	codes := make(map[string]float64)
	for _, pair := range strings.Split(trimmed, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, percent, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("entry %q: want CODE:PERCENT", pair)
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("entry %q: missing code", pair)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(percent), 64)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", pair, err)
		}
		codes[code] = p
	}
	if len(codes) == 0 {
		return nil, nil
	}
	return codes, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

// MustLoad behaves like Load but panics on error. Useful for command
// entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without
// leaking changes into the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
