// Package config loads server and CLI settings from defaults, an optional
// YAML file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/state"
)

// FileEnv names the variable pointing at the YAML config file.
const FileEnv = "FORMSCHEMA_CONFIG"

// Store drivers.
const (
	DriverMemory = "memory"
)

// Config is the application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Store       StoreConfig       `yaml:"store"`
	Serializer  string            `yaml:"serializer"`
	Log         LogConfig         `yaml:"log"`
	Theme       ThemeConfig       `yaml:"theme"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Mode     string `yaml:"mode"`
	BasePath string `yaml:"basePath"`
}

// DefinitionsConfig points at declarative component files.
type DefinitionsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// StoreConfig selects the state backend.
type StoreConfig struct {
	Driver string        `yaml:"driver"`
	DSN    string        `yaml:"dsn"`
	Table  string        `yaml:"table"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ThemeConfig points at go-theme manifests.
type ThemeConfig struct {
	File    string `yaml:"file"`
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Addr: ":8080", Mode: "release", BasePath: "/api/v1"},
		Store:      StoreConfig{Driver: DriverMemory, Table: state.DefaultTable},
		Serializer: component.SerializerHierarchical,
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads .env (when present), the YAML file named by FORMSCHEMA_CONFIG,
// then environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.mergeEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Server.Mode = getEnv("SERVER_MODE", c.Server.Mode)
	c.Server.BasePath = getEnv("SERVER_BASE_PATH", c.Server.BasePath)
	c.Definitions.Dir = getEnv("DEFINITIONS_DIR", c.Definitions.Dir)
	c.Definitions.Watch = getEnvBool("DEFINITIONS_WATCH", c.Definitions.Watch)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = getEnv("STORE_DSN", c.Store.DSN)
	c.Store.Table = getEnv("STORE_TABLE", c.Store.Table)
	c.Store.Prefix = getEnv("STORE_PREFIX", c.Store.Prefix)
	c.Store.TTL = getEnvDuration("STORE_TTL", c.Store.TTL)
	c.Serializer = getEnv("SERIALIZER", c.Serializer)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Theme.File = getEnv("THEME_FILE", c.Theme.File)
	c.Theme.Name = getEnv("THEME_NAME", c.Theme.Name)
	c.Theme.Variant = getEnv("THEME_VARIANT", c.Theme.Variant)
}

// Validate rejects unknown drivers, serializers and log settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case state.DialectSQLite, state.DialectMySQL, state.DialectPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("config: store driver %q requires a dsn", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown store driver %q", c.Store.Driver))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, errors.New("config: store ttl must not be negative"))
	}
	if _, err := component.SerializerByName(c.Serializer); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", l.Level)
	}
	return level, nil
}

// NewLogger builds the configured slog logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := l.level()
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
