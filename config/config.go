package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigYAML is the built-in configuration every other source is merged over.
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	Mode          string `mapstructure:"mode"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// DatabaseConfig database connection settings.
// DSN wins when set; otherwise it is assembled from the discrete fields for the selected driver.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"sslmode"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// LogConfig process logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig write throttling; MaxWrites 0 disables it
type RateLimitConfig struct {
	MaxWrites int           `mapstructure:"max_writes"`
	Window    time.Duration `mapstructure:"window"`
}

var (
	// GlobalConfig the loaded configuration
	GlobalConfig *Config
)

// LoadConfig loads configuration.
// Precedence: environment > external file > embedded defaults.
// configPath is optional.
func LoadConfig(configPath string) (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			slog.Warn("cannot read config file", "path", configPath, "error", err)
		} else {
			slog.Info("merged config file", "path", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/expenses")
		externalViper.AddConfigPath("$HOME/.expenses")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("merge external config failed", "error", err)
			} else {
				slog.Info("merged config file", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("EXPENSES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// hosted Postgres providers hand out a plain connection URL
	if err := v.BindEnv("database.dsn", "EXPENSES_DATABASE_DSN", "DATABASE_URL", "POSTGRES_URL"); err != nil {
		return nil, fmt.Errorf("bind database dsn: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.Server.Port != "" && !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Server.Port) == "" {
		problems = append(problems, "server port cannot be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("invalid server mode '%s': must be one of debug, release, test", c.Server.Mode))
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			problems = append(problems, fmt.Sprintf("database host or dsn is required for driver %s", c.Database.Driver))
		}
		if c.Database.DSN != "" && c.Database.Driver == DriverPostgres && strings.Contains(c.Database.DSN, "://") {
			if _, err := url.Parse(c.Database.DSN); err != nil {
				problems = append(problems, fmt.Sprintf("invalid postgres url: %v", err))
			}
		}
	case DriverSQLite:
		if c.Database.DSN == "" && c.Database.SQLitePath == "" {
			problems = append(problems, "sqlite_path or dsn is required for driver sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be one of %s, %s, %s",
			c.Database.Driver, DriverMySQL, DriverPostgres, DriverSQLite))
	}

	switch strings.ToLower(c.Database.LogLevel) {
	case "silent", "error", "warn", "info":
	default:
		problems = append(problems, fmt.Sprintf("invalid database log level '%s'", c.Database.LogLevel))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	if c.RateLimit.MaxWrites < 0 {
		problems = append(problems, fmt.Sprintf("invalid rate_limit.max_writes %d: must not be negative", c.RateLimit.MaxWrites))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// DataSourceName returns the connection string handed to the driver.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			d.Username, d.Password, d.Host, d.Port, d.DBName, d.Charset)
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.Username, d.Password, d.DBName, d.SSLMode)
	default:
		return d.SQLitePath
	}
}

// EnsureSQLiteDir creates the directory holding a file-backed SQLite database.
func (d DatabaseConfig) EnsureSQLiteDir() error {
	if d.Driver != DriverSQLite {
		return nil
	}
	path := d.DataSourceName()
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory %s: %w", dir, err)
	}
	return nil
}

// SafeErrorMessage hides internal error detail from clients in release mode.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig logs the active configuration without secrets
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	db := GlobalConfig.Database
	target := db.Host + ":" + db.Port + "/" + db.DBName
	switch {
	case db.Driver == DriverSQLite:
		target = db.DataSourceName()
	case db.DSN != "":
		target = redactDSN(db.DSN)
	}
	slog.Info("active configuration",
		"port", GlobalConfig.Server.Port,
		"mode", GlobalConfig.Server.Mode,
		"db_driver", db.Driver,
		"db_target", target,
		"rate_limit", GlobalConfig.RateLimit.MaxWrites)
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "<dsn>"
	}
	return u.Redacted()
}
