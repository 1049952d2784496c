package app

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backends for the challenge store and the event bus.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
	BackendNone   = "none"
)

type Config struct {
	Env                  string        `env:"ENV"                   envDefault:"dev"`  // dev, staging, prod
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	DatabaseFile string        `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	SessionTTL   time.Duration `env:"AUTH_SESSION_TTL"   envDefault:"30m"`
	ChallengeTTL time.Duration `env:"AUTH_CHALLENGE_TTL" envDefault:"5m"`

	// ChallengeBackend is memory, redis or sql. Anything but memory lets
	// several replicas share ceremonies.
	ChallengeBackend string `env:"AUTH_CHALLENGE_BACKEND" envDefault:"memory"`
	RedisURL         string `env:"AUTH_REDIS_URL"`

	// EventsBackend is none, memory or redis.
	EventsBackend string `env:"AUTH_EVENTS_BACKEND" envDefault:"none"`

	RPID   string `env:"AUTH_WEBAUTHN_RP_ID"   envDefault:"localhost"`
	RPName string `env:"AUTH_WEBAUTHN_RP_NAME" envDefault:"Reel"`

	CORSOrigins []string `env:"AUTH_CORS_ORIGINS" envSeparator:","`
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether dev conveniences such as echoing login codes
// must be off.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}
	if c.ChallengeTTL <= 0 {
		errs = append(errs, errors.New("AUTH_CHALLENGE_TTL must be positive"))
	}
	if !slices.Contains([]string{BackendMemory, BackendRedis, BackendSQL}, c.ChallengeBackend) {
		errs = append(errs, fmt.Errorf("AUTH_CHALLENGE_BACKEND must be memory, redis or sql, got %q", c.ChallengeBackend))
	}
	if !slices.Contains([]string{BackendNone, BackendMemory, BackendRedis}, c.EventsBackend) {
		errs = append(errs, fmt.Errorf("AUTH_EVENTS_BACKEND must be none, memory or redis, got %q", c.EventsBackend))
	}
	if c.needsRedis() && c.RedisURL == "" {
		errs = append(errs, errors.New("AUTH_REDIS_URL is required for the redis backends"))
	}
	if c.RPID == "" {
		errs = append(errs, errors.New("AUTH_WEBAUTHN_RP_ID must not be empty"))
	}

	return errors.Join(errs...)
}

func (c Config) needsRedis() bool {
	return c.ChallengeBackend == BackendRedis || c.EventsBackend == BackendRedis
}
