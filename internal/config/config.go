package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/database"
)

const envPrefix = "TRAVEL"

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// QueryConfig bounds list endpoints.
type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
	Timeout      time.Duration
}

// HTTPConfig holds server-level policies.
type HTTPConfig struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

// ServiceConfig holds all configuration for the travel service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	DBConfig           database.PostgresConfig
	JWTConfig          JWTConfig
	KafkaConfig        KafkaConfig
	Query              QueryConfig
	HTTP               HTTPConfig
	CancellationWindow time.Duration
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file, then TRAVEL_* environment variables.
func Load() (*ServiceConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "travel")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "15m")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "travel-")
	v.SetDefault("QUERY_DEFAULT_LIMIT", 10)
	v.SetDefault("QUERY_MAX_LIMIT", 100)
	v.SetDefault("QUERY_TIMEOUT", "5s")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("CANCELLATION_WINDOW", "24h")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("CORS_ORIGINS", "")
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	port := v.GetString("SERVICE_PORT")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}

	cfg := &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Query: QueryConfig{
			DefaultLimit: v.GetInt("QUERY_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("QUERY_MAX_LIMIT"),
			Timeout:      v.GetDuration("QUERY_TIMEOUT"),
		},
		HTTP: HTTPConfig{
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
			CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		},
		CancellationWindow: v.GetDuration("CANCELLATION_WINDOW"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *ServiceConfig) Validate() error {
	var errs []error
	if c.JWTConfig.Secret == "" {
		if c.IsDevelopment() {
			c.JWTConfig.Secret = "development-secret"
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required"))
		}
	}
	if c.Query.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("QUERY_DEFAULT_LIMIT must be at least 1, got %d", c.Query.DefaultLimit))
	}
	if c.Query.MaxLimit < c.Query.DefaultLimit {
		errs = append(errs, fmt.Errorf("QUERY_MAX_LIMIT (%d) must not be below QUERY_DEFAULT_LIMIT (%d)",
			c.Query.MaxLimit, c.Query.DefaultLimit))
	}
	if c.CancellationWindow < 0 {
		errs = append(errs, errors.New("CANCELLATION_WINDOW must not be negative"))
	}
	if len(c.KafkaConfig.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
