// Package config loads process configuration from PIDSTORE_* environment
// variables and an optional config file named by PIDSTORE_CONFIG.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	pidstrings "pidstore/pkg/platform/strings"
)

const (
	EnvPrefix     = "PIDSTORE"
	ConfigFileEnv = "PIDSTORE_CONFIG"
)

var supportedDrivers = []string{"memory", "postgres", "sqlite", "mysql"}

// Config is the full process configuration.
type Config struct {
	Addr        string
	Environment string
	// SeedDemo saves a fixed set of demo persons at startup. Ignored in
	// production.
	SeedDemo    bool
	Log         LogConfig
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type HTTPConfig struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// TrustedProxies lists CIDRs allowed to set X-Forwarded-For. In the
	// environment it is a space or comma separated list.
	TrustedProxies []string
}

// DatabaseConfig selects the person store backend. Driver "memory" keeps
// records in process.
type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	TxTimeout       time.Duration
}

// RedisConfig enables the fetch cache when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig enables person events when Brokers is set.
type KafkaConfig struct {
	Brokers         string
	Topic           string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
	PublishTimeout  time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8000")
	v.SetDefault("environment", "dev")
	v.SetDefault("seed_demo", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.max_body_bytes", int64(1<<20))
	v.SetDefault("http.trusted_proxies", []string{})
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.tx_timeout", 5*time.Second)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "person.events")
	v.SetDefault("kafka.acks", "all")
	v.SetDefault("kafka.retries", 3)
	v.SetDefault("kafka.delivery_timeout", 30*time.Second)
	v.SetDefault("kafka.publish_timeout", 2*time.Second)
}

// Load builds the configuration. Environment variables override file values,
// e.g. PIDSTORE_DATABASE_DRIVER overrides database.driver.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Addr:        v.GetString("addr"),
		Environment: v.GetString("environment"),
		SeedDemo:    v.GetBool("seed_demo"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		HTTP: HTTPConfig{
			RequestTimeout: v.GetDuration("http.request_timeout"),
			MaxBodyBytes:   v.GetInt64("http.max_body_bytes"),
			TrustedProxies: trustedProxies(v),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			TxTimeout:       v.GetDuration("database.tx_timeout"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis.url"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
			CacheTTL:     v.GetDuration("redis.cache_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:         v.GetString("kafka.brokers"),
			Topic:           v.GetString("kafka.topic"),
			Acks:            v.GetString("kafka.acks"),
			Retries:         v.GetInt("kafka.retries"),
			DeliveryTimeout: v.GetDuration("kafka.delivery_timeout"),
			PublishTimeout:  v.GetDuration("kafka.publish_timeout"),
		},
	}
}

// trustedProxies accepts a YAML list or a space/comma separated env value.
func trustedProxies(v *viper.Viper) []string {
	var out []string
	for _, item := range v.GetStringSlice("http.trusted_proxies") {
		out = append(out, pidstrings.SplitList(item, ", ")...)
	}
	return pidstrings.DedupeAndTrim(out)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if !slices.Contains(supportedDrivers, c.Database.Driver) {
		return fmt.Errorf("unsupported database.driver %q (want one of %s)",
			c.Database.Driver, strings.Join(supportedDrivers, ", "))
	}
	if c.Database.Driver != "memory" && c.Database.URL == "" {
		return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be positive")
	}
	if c.Kafka.Brokers != "" && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}

// IsProduction reports whether the process runs in a production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}
