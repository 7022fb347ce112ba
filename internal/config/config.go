// Package config loads server configuration from defaults, an optional YAML file,
// an optional .env file and CRICKETREG_ environment variables
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "CRICKETREG"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StorageConfig struct {
	Type string `mapstructure:"type"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"pool_size"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SessionDuration time.Duration `mapstructure:"session_duration"`
}

type SchedulerConfig struct {
	SessionSweepInterval time.Duration `mapstructure:"session_sweep_interval"`
}

type ExportConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// BootstrapAdminConfig names an admin account created at startup when both fields are set
type BootstrapAdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type WebConfig struct {
	StaticDir string `mapstructure:"static_dir"`
}

// Config is the full server configuration
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Log            LogConfig            `mapstructure:"log"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Redis          RedisConfig          `mapstructure:"redis"`
	SQLite         SQLiteConfig         `mapstructure:"sqlite"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Scheduler      SchedulerConfig      `mapstructure:"scheduler"`
	Export         ExportConfig         `mapstructure:"export"`
	BootstrapAdmin BootstrapAdminConfig `mapstructure:"bootstrap_admin"`
	Web            WebConfig            `mapstructure:"web"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("sqlite.path", "data/cricketreg.db")
	v.SetDefault("auth.session_duration", 12*time.Hour)
	v.SetDefault("scheduler.session_sweep_interval", 15*time.Minute)
	v.SetDefault("export.timezone", "Asia/Kolkata")
	v.SetDefault("bootstrap_admin.username", "")
	v.SetDefault("bootstrap_admin.password", "")
	v.SetDefault("web.static_dir", "")
}

// Options select the optional files Load reads
type Options struct {
	// ConfigFile is a YAML file; empty means none
	ConfigFile string
	// EnvFile is a dotenv file; a missing file is ignored
	EnvFile string
}

// Load builds the configuration; environment variables override the file, which overrides defaults
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Redis.URL == "" {
			return errors.New("redis url is required when storage type is redis")
		}
	case StorageSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite path is required when storage type is sqlite")
		}
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis or sqlite", c.Storage.Type)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Auth.SessionDuration <= 0 {
		return errors.New("auth session duration must be positive")
	}
	if c.Scheduler.SessionSweepInterval <= 0 {
		return errors.New("session sweep interval must be positive")
	}
	if (c.BootstrapAdmin.Username == "") != (c.BootstrapAdmin.Password == "") {
		return errors.New("bootstrap admin needs both username and password")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// Location loads the export time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid export timezone %q: %w", c.Export.Timezone, err)
	}
	return loc, nil
}

// HasBootstrapAdmin reports whether a startup admin account is configured
func (c *Config) HasBootstrapAdmin() bool {
	return c.BootstrapAdmin.Username != "" && c.BootstrapAdmin.Password != ""
}
