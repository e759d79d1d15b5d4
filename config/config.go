package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Auth      AuthConfig      `yaml:"auth"`
	Booking   BookingConfig   `yaml:"booking"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type HTTPConfig struct {
	Address               string `yaml:"address"`
	SwaggerDir            string `yaml:"swagger_dir"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

func (h HTTPConfig) RequestTimeout() time.Duration {
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Name          string `yaml:"name"`
	SSLMode       string `yaml:"ssl_mode"`
	MaxConns      int32  `yaml:"max_conns"`
	MigrationsDir string `yaml:"migrations_dir"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the postgres:// form used by the migration driver.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

type BookingConfig struct {
	CutoffHours        int `yaml:"cutoff_hours"`
	TxRetries          int `yaml:"tx_retries"`
	RetryBackoffMs     int `yaml:"retry_backoff_ms"`
	ReferenceAttempts  int `yaml:"reference_attempts"`
	FlightsCacheTTLSec int `yaml:"flights_cache_ttl_seconds"`
}

func (b BookingConfig) Cutoff() time.Duration {
	return time.Duration(b.CutoffHours) * time.Hour
}

func (b BookingConfig) RetryBackoff() time.Duration {
	return time.Duration(b.RetryBackoffMs) * time.Millisecond
}

func (b BookingConfig) FlightsCacheTTL() time.Duration {
	return time.Duration(b.FlightsCacheTTLSec) * time.Second
}

type RateLimitConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Prefix            string `yaml:"prefix"`
	Capacity          int    `yaml:"capacity"`
	RefillTokens      int    `yaml:"refill_tokens"`
	RefillIntervalSec int    `yaml:"refill_interval_seconds"`
}

func (r RateLimitConfig) RefillInterval() time.Duration {
	return time.Duration(r.RefillIntervalSec) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default holds the values used for anything the YAML file leaves out.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080", RequestTimeoutSeconds: 10},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, SSLMode: "disable", MaxConns: 10,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			BookingTopic:       "bookings",
			NotificationsTopic: "booking-notifications",
			GroupID:            "flightbooking-worker",
		},
		Auth: AuthConfig{TokenTTLHours: 24, BcryptCost: 10},
		Booking: BookingConfig{
			CutoffHours: 24, TxRetries: 3, RetryBackoffMs: 10, ReferenceAttempts: 5, FlightsCacheTTLSec: 30,
		},
		RateLimit: RateLimitConfig{
			Prefix: "rl:bookings", Capacity: 10, RefillTokens: 1, RefillIntervalSec: 6,
		},
		Log: LogConfig{Level: "info"},
	}
}

func (c *Config) applyEnv() {
	setString(&c.HTTP.Address, "HTTP_ADDRESS")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Booking.CutoffHours <= 0 {
		errs = append(errs, errors.New("booking.cutoff_hours must be positive"))
	}
	if c.Booking.ReferenceAttempts <= 0 {
		errs = append(errs, errors.New("booking.reference_attempts must be positive"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
