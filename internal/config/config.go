package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the solver service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	LogLevel         string
	RedisURL         string
	CacheTTL         time.Duration
	EvalTimeout      time.Duration
	RateLimitMax     int
	RateLimitWindow  time.Duration
	ProblemMaxLength int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// CacheEnabled reports whether a Redis URL was configured.
func (c Config) CacheEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SOLVER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Math Solver")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("eval.timeout", "2s")
	v.SetDefault("rate_limit.max", 60)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("problem.max_length", 2000)

	cacheTTL, err := parseDuration(v, "cache.ttl", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	evalTimeout, err := parseDuration(v, "eval.timeout", 2*time.Second)
	if err != nil {
		return Config{}, err
	}

	window, err := parseDuration(v, "rate_limit.window", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		RedisURL:         v.GetString("redis.url"),
		CacheTTL:         cacheTTL,
		EvalTimeout:      evalTimeout,
		RateLimitMax:     v.GetInt("rate_limit.max"),
		RateLimitWindow:  window,
		ProblemMaxLength: v.GetInt("problem.max_length"),
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 60
	}

	if cfg.ProblemMaxLength <= 0 {
		cfg.ProblemMaxLength = 2000
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return fallback, nil
	}
	return parsed, nil
}
