package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. LUBRI_DATABASE_PATH.
const EnvPrefix = "LUBRI"

// Config holds all application settings.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClassifierConfig tunes confidence normalization.
type ClassifierConfig struct {
	Baseline       float64 `mapstructure:"baseline"`
	Floor          float64 `mapstructure:"floor"`
	UseStoredRules bool    `mapstructure:"use_stored_rules"`
}

// AlertsConfig controls the prioritized alert list and its refresh.
type AlertsConfig struct {
	DefaultRole  string        `mapstructure:"default_role"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Cap          int           `mapstructure:"cap"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CertDir         string        `mapstructure:"cert_dir"`
	TLSHosts        []string      `mapstructure:"tls_hosts"`
	TLS             bool          `mapstructure:"tls"`
}

// CacheConfig configures the optional Redis classification cache.
type CacheConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Enabled  bool          `mapstructure:"enabled"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "$HOME/.local/share/lubri/lubri.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("classifier.baseline", 2.0)
	v.SetDefault("classifier.floor", 0.3)
	v.SetDefault("classifier.use_stored_rules", true)
	v.SetDefault("alerts.cap", 7)
	v.SetDefault("alerts.poll_interval", "30s")
	v.SetDefault("alerts.default_role", "admin")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", "$HOME/.config/lubri/certs")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "24h")
}

// LoadDotEnv loads a .env file into the process environment if one exists.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// BindEnv wires LUBRI_* environment variables onto v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Server.CertDir = ExpandPath(cfg.Server.CertDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.Classifier.Baseline <= 0 {
		return fmt.Errorf("%w: classifier.baseline must be positive", common.ErrInvalidConfig)
	}
	if c.Classifier.Floor < 0 || c.Classifier.Floor >= 1 {
		return fmt.Errorf("%w: classifier.floor must be in [0, 1)", common.ErrInvalidConfig)
	}
	if c.Alerts.PollInterval < 0 {
		return fmt.Errorf("%w: alerts.poll_interval cannot be negative", common.ErrInvalidConfig)
	}
	if c.Server.TLS && strings.TrimSpace(c.Server.CertDir) == "" {
		return fmt.Errorf("%w: server.cert_dir", common.ErrMissingConfig)
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("%w: cache.addr", common.ErrMissingConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
