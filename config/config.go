package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for the durable session storage
const (
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// Config holds all client configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	App           AppConfig
	API           APIConfig
	Storage       StorageConfig
	Notifications NotificationConfig
	Serve         ServeConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type AppConfig struct {
	Env string
}

type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int // 0 leaves the transport defaults in charge
}

type StorageConfig struct {
	Driver   string
	StateDir string
	RedisURL string
	Profile  string
}

type NotificationConfig struct {
	DisplaySeconds         int
	ReminderDisplaySeconds int
}

type ServeConfig struct {
	Addr           string
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("API_BASE_URL", "http://localhost:8081")
	v.SetDefault("API_TIMEOUT_SECONDS", 0)
	v.SetDefault("STORAGE_DRIVER", StorageDriverFile)
	v.SetDefault("STATE_DIR", defaultStateDir())
	v.SetDefault("STORAGE_PROFILE", "default")
	v.SetDefault("NOTIFICATION_SECONDS", 6)
	v.SetDefault("REMINDER_NOTIFICATION_SECONDS", 10)
	v.SetDefault("SERVE_ADDR", "127.0.0.1:3000")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("SERVE_RATE_LIMIT", 20)
	v.SetDefault("SERVE_RATE_BURST", 40)
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("O11Y_SERVICE_NAME", "inkspire-client")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "inkspire-client")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		App: AppConfig{
			Env: v.GetString("APP_ENV"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			TimeoutSeconds: v.GetInt("API_TIMEOUT_SECONDS"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			StateDir: v.GetString("STATE_DIR"),
			RedisURL: v.GetString("REDIS_URL"),
			Profile:  v.GetString("STORAGE_PROFILE"),
		},
		Notifications: NotificationConfig{
			DisplaySeconds:         v.GetInt("NOTIFICATION_SECONDS"),
			ReminderDisplaySeconds: v.GetInt("REMINDER_NOTIFICATION_SECONDS"),
		},
		Serve: ServeConfig{
			Addr:           v.GetString("SERVE_ADDR"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			RateLimit:      v.GetFloat64("SERVE_RATE_LIMIT"),
			RateBurst:      v.GetInt("SERVE_RATE_BURST"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("API_TIMEOUT_SECONDS must not be negative")
	}

	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.StateDir == "" {
			return fmt.Errorf("STATE_DIR is required for the file storage driver")
		}
	case StorageDriverRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis storage driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of file, redis, memory, got %q", c.Storage.Driver)
	}

	if c.Notifications.DisplaySeconds <= 0 || c.Notifications.ReminderDisplaySeconds <= 0 {
		return fmt.Errorf("notification durations must be positive")
	}

	if c.Serve.Addr == "" {
		return fmt.Errorf("SERVE_ADDR is required")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// APITimeout returns the API client timeout, zero meaning none
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// NotificationDuration returns how long a notification stays visible
func (c *Config) NotificationDuration() time.Duration {
	return time.Duration(c.Notifications.DisplaySeconds) * time.Second
}

// ReminderNotificationDuration returns how long a pending-reminder notification stays visible
func (c *Config) ReminderNotificationDuration() time.Duration {
	return time.Duration(c.Notifications.ReminderDisplaySeconds) * time.Second
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".inkspire"
	}
	return filepath.Join(dir, "inkspire")
}
