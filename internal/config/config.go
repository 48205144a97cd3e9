package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a PostgreSQL journal was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether object storage was configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// GreetingConfig controls the deferred greeting response.
type GreetingConfig struct {
	Path        string
	Body        string
	ContentType string
	DelayMs     int
	MaxPending  int
	ObjectKey   string
}

// Delay returns the configured delay as a duration.
func (c GreetingConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// AppConfig is the centralized configuration struct for the application.
// Values come from defaults, an optional config file, environment variables
// and command line flags, in increasing order of precedence.
type AppConfig struct {
	Host                  string
	Port                  string
	Timezone              string
	LogLevel              string
	ShutdownTimeoutSec    int
	JournalMemoryCapacity int
	Greeting              GreetingConfig
	Database              DatabaseConfig
	MinIO                 MinIOConfig
}

// Addr returns the listen address.
func (c *AppConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ShutdownTimeout returns the graceful shutdown grace period.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// Validate checks values that would make the server misbehave.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Greeting.DelayMs < 0 {
		errs = append(errs, fmt.Errorf("greeting delay must not be negative, got %d", c.Greeting.DelayMs))
	}
	if c.Greeting.MaxPending < 0 {
		errs = append(errs, fmt.Errorf("greeting max pending must not be negative, got %d", c.Greeting.MaxPending))
	}
	if !strings.HasPrefix(c.Greeting.Path, "/") {
		errs = append(errs, fmt.Errorf("greeting path must start with '/', got %q", c.Greeting.Path))
	} else if isReservedPath(c.Greeting.Path) {
		errs = append(errs, fmt.Errorf("greeting path %q collides with a built-in route", c.Greeting.Path))
	}
	if c.JournalMemoryCapacity <= 0 {
		errs = append(errs, fmt.Errorf("journal memory capacity must be positive, got %d", c.JournalMemoryCapacity))
	}
	return errors.Join(errs...)
}

// reservedPaths are served by the app itself and cannot carry the greeting.
var reservedPaths = []string{"/greeting", "/health", "/healthz", "/metrics", "/responses", "/swagger"}

// isReservedPath matches the way the router does: case-insensitive and
// ignoring a trailing slash.
func isReservedPath(path string) bool {
	p := strings.ToLower(strings.TrimSuffix(path, "/"))
	for _, r := range reservedPaths {
		if p == r || strings.HasPrefix(p, r+"/") {
			return true
		}
	}
	return false
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"host":     "HOST",
	"port":     "PORT",
	"delay-ms": "GREETING_DELAY_MS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT_SEC", 5)
	v.SetDefault("JOURNAL_MEMORY_CAPACITY", 1000)

	v.SetDefault("GREETING_PATH", "/")
	v.SetDefault("GREETING_BODY", "Hello World")
	v.SetDefault("GREETING_CONTENT_TYPE", "text/plain")
	v.SetDefault("GREETING_DELAY_MS", 2000)
	v.SetDefault("GREETING_MAX_PENDING", 0)
	v.SetDefault("GREETING_OBJECT_KEY", "greeting.txt")

	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)

	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "")
	v.SetDefault("MINIO_USE_SSL", false)
}

// Load reads configuration. flags may be nil; when given, the flags listed in
// flagKeys override every other source if they were set explicitly, and a
// "config" flag names a config file.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load(flags *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	configFile := v.GetString("CONFIG_FILE")
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("config"); f != nil && f.Changed {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &AppConfig{
		Host:                  v.GetString("HOST"),
		Port:                  v.GetString("PORT"),
		Timezone:              v.GetString("APP_TIMEZONE"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		ShutdownTimeoutSec:    v.GetInt("SHUTDOWN_TIMEOUT_SEC"),
		JournalMemoryCapacity: v.GetInt("JOURNAL_MEMORY_CAPACITY"),
		Greeting: GreetingConfig{
			Path:        v.GetString("GREETING_PATH"),
			Body:        v.GetString("GREETING_BODY"),
			ContentType: v.GetString("GREETING_CONTENT_TYPE"),
			DelayMs:     v.GetInt("GREETING_DELAY_MS"),
			MaxPending:  v.GetInt("GREETING_MAX_PENDING"),
			ObjectKey:   v.GetString("GREETING_OBJECT_KEY"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
