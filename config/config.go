package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	World     WorldConfig     `yaml:"world"`
	Partner   PartnerConfig   `yaml:"partner"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Web       WebConfig       `yaml:"web"`
	Messaging MessagingConfig `yaml:"messaging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver" env:"DATABASE_DRIVER"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT"`
	Database string `yaml:"database" env:"POSTGRES_DB"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig backs the partner response cache. An empty address keeps the
// cache in process memory.
type RedisConfig struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type WorldConfig struct {
	Host               string        `yaml:"host" env:"WORLD_HOST"`
	Port               int           `yaml:"port" env:"WORLD_PORT"`
	WorldID            int64         `yaml:"world_id" env:"WORLD_ID"`
	CreateNew          bool          `yaml:"create_new" env:"WORLD_CREATE_NEW"`
	InitialTrucks      int           `yaml:"initial_trucks"`
	SimSpeed           uint32        `yaml:"sim_speed"`
	DialTimeout        time.Duration `yaml:"dial_timeout"`
	ReadRetryDelay     time.Duration `yaml:"read_retry_delay"`
	StopTimeout        time.Duration `yaml:"stop_timeout"`
	WarehouseThreshold int           `yaml:"warehouse_threshold"`
	QueryInterval      time.Duration `yaml:"query_interval"`
}

// Address returns host:port for dialing the World.
func (w WorldConfig) Address() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

type PartnerConfig struct {
	BaseURL              string        `yaml:"base_url" env:"AMAZON_SERVICE_URL"`
	Timeout              time.Duration `yaml:"timeout"`
	MaxAttempts          int           `yaml:"max_attempts"`
	RetryDelay           time.Duration `yaml:"retry_delay"`
	RetrySweepInterval   time.Duration `yaml:"retry_sweep_interval"`
	RetryMinAge          time.Duration `yaml:"retry_min_age"`
	RetryMaxAge          time.Duration `yaml:"retry_max_age"`
	CacheCleanupInterval time.Duration `yaml:"cache_cleanup_interval"`
	CacheMaxEntries      int           `yaml:"cache_max_entries"`
	AsyncDispatch        bool          `yaml:"async_dispatch"`
}

type TrackingConfig struct {
	Retention           time.Duration `yaml:"retention"`
	CleanupInterval     time.Duration `yaml:"cleanup_interval"`
	ProcessedMaxEntries int           `yaml:"processed_max_entries"`
}

type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port" env:"WEB_PORT"`
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET"`
	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	// SecureCookies marks the session cookie Secure; enable behind TLS only.
	SecureCookies bool `yaml:"secure_cookies" env:"SECURE_COOKIES"`
}

type MessagingConfig struct {
	Backend             string        `yaml:"backend" env:"MESSAGING_BACKEND"` // "", "kafka" or "mqtt"
	Kafka               KafkaConfig   `yaml:"kafka"`
	MQTT                MQTTConfig    `yaml:"mqtt"`
	EventsTopic         string        `yaml:"events_topic"`
	OutboxDrainInterval time.Duration `yaml:"outbox_drain_interval"`
	OutboxRetention     time.Duration `yaml:"outbox_retention"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_ENDPOINT"`
	ServiceName  string `yaml:"service_name"`
}

func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "upsbridge.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "ups",
				User:     "ups",
				SSLMode:  "disable",
			},
		},
		World: WorldConfig{
			Host:               "localhost",
			Port:               12345,
			InitialTrucks:      5,
			SimSpeed:           100,
			DialTimeout:        10 * time.Second,
			ReadRetryDelay:     time.Second,
			StopTimeout:        5 * time.Second,
			WarehouseThreshold: 10,
			QueryInterval:      time.Minute,
		},
		Partner: PartnerConfig{
			BaseURL:              "http://amazon:8080",
			Timeout:              10 * time.Second,
			MaxAttempts:          3,
			RetryDelay:           5 * time.Second,
			RetrySweepInterval:   60 * time.Second,
			RetryMinAge:          time.Minute,
			RetryMaxAge:          24 * time.Hour,
			CacheCleanupInterval: time.Hour,
			CacheMaxEntries:      1000,
		},
		Tracking: TrackingConfig{
			Retention:           7 * 24 * time.Hour,
			CleanupInterval:     24 * time.Hour,
			ProcessedMaxEntries: 10000,
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			SessionSecret: "change-me-in-production",
			AdminUser:     "admin",
		},
		Messaging: MessagingConfig{
			Kafka:               KafkaConfig{Brokers: []string{"localhost:9092"}},
			MQTT:                MQTTConfig{Broker: "localhost", Port: 1883, ClientID: "upsbridge"},
			EventsTopic:         "ups.events",
			OutboxDrainInterval: 5 * time.Second,
			OutboxRetention:     24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "upsbridge",
		},
	}
}

// Load reads the YAML file at path over Defaults, then applies an optional
// .env file and environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads dotenv (when present) into the process environment and
// overlays tagged fields from the environment onto cfg.
func ApplyEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.World.Port <= 0 {
		return fmt.Errorf("world.port must be positive")
	}
	if c.World.WarehouseThreshold < 0 {
		return fmt.Errorf("world.warehouse_threshold must not be negative")
	}
	if c.World.ReadRetryDelay <= 0 || c.World.StopTimeout <= 0 {
		return fmt.Errorf("world retry delay and stop timeout must be positive")
	}
	if c.Partner.BaseURL == "" {
		return fmt.Errorf("partner.base_url is required")
	}
	if c.Partner.MaxAttempts <= 0 {
		return fmt.Errorf("partner.max_attempts must be positive")
	}
	if c.Partner.RetrySweepInterval <= 0 || c.Partner.CacheCleanupInterval <= 0 {
		return fmt.Errorf("partner sweep intervals must be positive")
	}
	if c.Tracking.Retention <= 0 || c.Tracking.CleanupInterval <= 0 {
		return fmt.Errorf("tracking retention and cleanup interval must be positive")
	}
	switch c.Messaging.Backend {
	case "", "kafka", "mqtt":
	default:
		return fmt.Errorf("unknown messaging backend: %s", c.Messaging.Backend)
	}
	return nil
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Lock()   { c.mu.Lock() }
func (c *Config) Unlock() { c.mu.Unlock() }
