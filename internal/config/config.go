// Package config loads shop-admin configuration from flags, environment
// variables (prefix SHOP_ADMIN_) and an optional config file through viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/Sternrassler/shop-admin/pkg/session"
	"github.com/Sternrassler/shop-admin/pkg/theme"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SHOP_ADMIN_API_BASE_URL for api.base_url.
const EnvPrefix = "SHOP_ADMIN"

// Keys understood by Load.
const (
	KeyAPIBaseURL     = "api.base_url"
	KeyAPIToken       = "api.token"
	KeyAPITimeout     = "api.timeout"
	KeyAPIMaxAttempts = "api.max_attempts"
	KeyServerAddr     = "server.addr"
	KeyRedisAddr      = "redis.addr"
	KeyRedisPassword  = "redis.password"
	KeyRedisDB        = "redis.db"
	KeySessionEnabled = "session.enabled"
	KeySessionTTL     = "session.ttl"
	KeyLogLevel       = "log.level"
	KeyLogPretty      = "log.pretty"
	KeyThemeDefault   = "theme.default"
)

var (
	ErrMissingBaseURL = errors.New("api.base_url is required")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Config is the complete runtime configuration.
type Config struct {
	API     APIConfig
	Server  ServerConfig
	Redis   RedisConfig
	Session SessionConfig
	Log     logging.Config
	Theme   theme.Mode
}

// APIConfig configures the backend API client.
type APIConfig struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr string
}

// RedisConfig configures the Redis connection used for session queries.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig configures query persistence.
type SessionConfig struct {
	Enabled bool
	TTL     time.Duration
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, "")
	v.SetDefault(KeyAPIToken, "")
	v.SetDefault(KeyAPITimeout, 30*time.Second)
	v.SetDefault(KeyAPIMaxAttempts, 1)
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeySessionEnabled, true)
	v.SetDefault(KeySessionTTL, session.DefaultTTL)
	v.SetDefault(KeyLogLevel, string(logging.LevelInfo))
	v.SetDefault(KeyLogPretty, false)
	v.SetDefault(KeyThemeDefault, string(theme.Light))
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges the config file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:     strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
			Token:       v.GetString(KeyAPIToken),
			Timeout:     v.GetDuration(KeyAPITimeout),
			MaxAttempts: v.GetInt(KeyAPIMaxAttempts),
		},
		Server: ServerConfig{
			Addr: v.GetString(KeyServerAddr),
		},
		Redis: RedisConfig{
			Addr:     v.GetString(KeyRedisAddr),
			Password: v.GetString(KeyRedisPassword),
			DB:       v.GetInt(KeyRedisDB),
		},
		Session: SessionConfig{
			Enabled: v.GetBool(KeySessionEnabled),
			TTL:     v.GetDuration(KeySessionTTL),
		},
		Log: logging.Config{
			Level:  logging.LogLevel(v.GetString(KeyLogLevel)),
			Pretty: v.GetBool(KeyLogPretty),
		},
	}

	mode, err := theme.ParseMode(v.GetString(KeyThemeDefault))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyThemeDefault, err)
	}
	cfg.Theme = mode

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL (got %q)", ErrInvalidConfig, KeyAPIBaseURL, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be > 0 (got %s)", ErrInvalidConfig, KeyAPITimeout, c.API.Timeout)
	}
	if c.API.MaxAttempts < 1 {
		return fmt.Errorf("%w: %s must be >= 1 (got %d)", ErrInvalidConfig, KeyAPIMaxAttempts, c.API.MaxAttempts)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("%w: %s must be >= 0 (got %d)", ErrInvalidConfig, KeyRedisDB, c.Redis.DB)
	}
	if c.Session.Enabled && c.Session.TTL <= 0 {
		return fmt.Errorf("%w: %s must be > 0 (got %s)", ErrInvalidConfig, KeySessionTTL, c.Session.TTL)
	}
	if !logging.ValidLevel(string(c.Log.Level)) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfig, KeyLogLevel, c.Log.Level)
	}
	return nil
}
