// Package config provides configuration management for the packing slip service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Packing  PackingConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Events   EventsConfig
	Log      LogConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	// IdempotencyTTL is how long a successful write stays replayable. Zero turns replay off.
	IdempotencyTTL        time.Duration
	IdempotencyMaxEntries int
	CORSOrigins           []string
	SwaggerUser           string
	SwaggerPass           string
}

// PackingConfig holds packing slip generation settings.
type PackingConfig struct {
	DefaultBoxCapacity int64
	MaxBoxCapacity     int64
	// MaxBoxes bounds the boxes one slip or calculation may produce.
	MaxBoxes           int
	// ReservationTTL is how long an invoice may stay reserved before the sweeper releases it.
	ReservationTTL     time.Duration
	// SweepSchedule is a standard five-field cron spec or a descriptor such as "@every 1m".
	SweepSchedule      string
	SlipCacheSize      int
	SlipCacheTTL       time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled      bool
	APIKeys      map[string]bool
	JWTSecretKey string
	JWTIssuer    string
	// WriteRoles may generate packing slips. Empty means any authenticated caller.
	WriteRoles []string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// EventsConfig holds Kafka publishing configuration.
type EventsConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

var localOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Load creates a Config from environment variables. Variables from an optional
// .env file (or the file named by ENV_FILE) are loaded first and never override
// variables already set in the environment. Unparsable values fall back to
// their defaults.
func Load() Config {
	_ = godotenv.Load(str("ENV_FILE", ".env"))

	return Config{
		Server: ServerConfig{
			Port:                  str("PORT", "8080"),
			RateLimit:             number("RATE_LIMIT", 100),
			RateWindow:            duration("RATE_WINDOW", time.Minute),
			RequestTimeout:        duration("REQUEST_TIMEOUT", 30*time.Second),
			IdempotencyTTL:        duration("IDEMPOTENCY_TTL", 5*time.Minute),
			IdempotencyMaxEntries: number("IDEMPOTENCY_MAX_ENTRIES", 10000),
			CORSOrigins:           append(append([]string{}, localOrigins...), list("CORS_ORIGINS")...),
			SwaggerUser:           str("SWAGGER_USER", ""),
			SwaggerPass:           str("SWAGGER_PASS", ""),
		},
		Packing: PackingConfig{
			DefaultBoxCapacity: capacity("PACKING_DEFAULT_BOX_CAPACITY", 1000),
			MaxBoxCapacity:     capacity("PACKING_MAX_BOX_CAPACITY", 1_000_000),
			MaxBoxes:           number("PACKING_MAX_BOXES", 10_000),
			ReservationTTL:     duration("PACKING_RESERVATION_TTL", 2*time.Minute),
			SweepSchedule:      str("PACKING_SWEEP_SCHEDULE", "@every 1m"),
			SlipCacheSize:      number("PACKING_SLIP_CACHE_SIZE", 1000),
			SlipCacheTTL:       duration("PACKING_SLIP_CACHE_TTL", 10*time.Minute),
		},
		Auth: AuthConfig{
			Enabled:      flag("AUTH_ENABLED", false),
			APIKeys:      keySet(list("API_KEYS")),
			JWTSecretKey: str("JWT_SECRET_KEY", ""),
			JWTIssuer:    str("JWT_ISSUER", ""),
			WriteRoles:   list("AUTH_WRITE_ROLES"),
		},
		Database: DatabaseConfig{
			URI:                            str("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			DatabaseName:                   str("MONGODB_DATABASE", "packing_slips"),
			LogsTTL:                        duration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        flag("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: number("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: number("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          duration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Events: EventsConfig{
			Enabled:      flag("KAFKA_ENABLED", false),
			Brokers:      listOr("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:        str("KAFKA_PACKING_TOPIC", "packing-slips"),
			WriteTimeout: duration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level:  str("LOG_LEVEL", "info"),
			Pretty: flag("LOG_PRETTY", false),
		},
	}
}

// Validate reports settings that load cleanly but cannot work together.
func (c Config) Validate() error {
	var errs []error
	if c.Packing.DefaultBoxCapacity > c.Packing.MaxBoxCapacity {
		errs = append(errs, fmt.Errorf("default box capacity %d exceeds the maximum %d",
			c.Packing.DefaultBoxCapacity, c.Packing.MaxBoxCapacity))
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 && c.Auth.JWTSecretKey == "" {
		errs = append(errs, errors.New("auth is enabled but neither API_KEYS nor JWT_SECRET_KEY is set"))
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		errs = append(errs, errors.New("kafka is enabled without brokers"))
	}
	if c.Database.Enabled && c.Database.DatabaseName == "" {
		errs = append(errs, errors.New("mongodb is enabled without a database name"))
	}
	return errors.Join(errs...)
}

// lookup returns the parsed value of key, or def when the variable is unset
// or does not parse.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func str(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

func number(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

func flag(key string, def bool) bool {
	return lookup(key, def, strconv.ParseBool)
}

func duration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

// capacity only accepts positive box capacities.
func capacity(key string, def int64) int64 {
	return lookup(key, def, func(s string) (int64, error) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil && n <= 0 {
			err = fmt.Errorf("%s must be positive", key)
		}
		return n, err
	})
}

func list(key string) []string {
	return listOr(key, nil)
}

// listOr splits a comma separated variable, dropping blank items.
func listOr(key string, def []string) []string {
	items := strings.Split(os.Getenv(key), ",")
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func keySet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
