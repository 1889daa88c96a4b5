// Package config loads server settings from an optional TOML file and the
// environment. Environment values win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/sirupsen/logrus"
)

// Backend names where match records live.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Config represents the server configuration.
type Config struct {
	Port           string        `toml:"port"`
	Env            string        `toml:"env"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	LogLevel       string        `toml:"log_level"`
	Backend        Backend       `toml:"state_backend"`
	DatabaseURL    string        `toml:"database_url"`
	RedisAddr      string        `toml:"redis_addr"`
	RedisDB        int           `toml:"redis_db"`
	MatchTTL       time.Duration `toml:"match_ttl"`
	HistoryQueue   bool          `toml:"history_queue"`
	TokenExpire    string        `toml:"token_expire_time"`
	SigningKeyPath string        `toml:"signing_key_path"`

	Deadlines game.Deadlines `toml:"deadlines"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:      "8080",
		Env:       "development",
		LogLevel:  "info",
		Backend:   BackendMemory,
		RedisAddr: "localhost:6379",
		MatchTTL:  24 * time.Hour,
		Deadlines: game.DefaultDeadlines(),
	}
}

// Load reads the file named by GOSTOP_CONFIG, if any, and applies the
// environment on top.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("GOSTOP_CONFIG"))
}

// LoadFile reads path (skipped when empty) and applies the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Env, "GOSTOP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.TokenExpire, "TOKEN_EXPIRE_TIME")
	setString(&c.SigningKeyPath, "SIGNING_KEY_PATH")
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		c.Backend = Backend(v)
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}
	if v := os.Getenv("HISTORY_QUEUE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HISTORY_QUEUE: %w", err)
		}
		c.HistoryQueue = b
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"MATCH_TTL", &c.MatchTTL},
		{"PLAY_HAND_TIMEOUT", &c.Deadlines.PlayHand},
		{"MATCH_SELECT_TIMEOUT", &c.Deadlines.MatchSelect},
		{"GO_STOP_TIMEOUT", &c.Deadlines.GoStop},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate rejects an unknown backend or log level.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown state backend %q", c.Backend)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Production reports whether the server runs with production settings.
func (c *Config) Production() bool { return c.Env == "production" }

// Origins returns the CORS origins: the configured list in production, any
// http or https origin otherwise.
func (c *Config) Origins() []string {
	if c.Production() {
		return c.AllowedOrigins
	}
	return []string{"https://*", "http://*"}
}

// Level is the parsed log level. Validate has already checked it.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
