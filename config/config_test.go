package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "operação falhou"
	testErr := errors.New("internal database error")

	// nil err falls back
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release hides detail
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug shows it
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// unloaded config counts as development
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/expenses.db", cfg.Database.DataSourceName())
	assert.Equal(t, 0, cfg.RateLimit.MaxWrites)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Same(t, cfg, GlobalConfig)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	defer func() { GlobalConfig = nil }()

	t.Setenv("EXPENSES_SERVER_PORT", "9090")
	t.Setenv("EXPENSES_DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/expenses?sslmode=disable")
	t.Setenv("EXPENSES_RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://app:secret@db:5432/expenses?sslmode=disable", cfg.Database.DataSourceName())
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadConfig_ExternalFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(dir, "custom.yaml")
	content := "server:\n  mode: debug\ndatabase:\n  driver: mysql\n  host: mysql.local\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "root:@tcp(mysql.local:3306)/expenses?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.DataSourceName())
	// untouched keys keep their embedded defaults
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "", Mode: "staging"},
		Database: DatabaseConfig{Driver: "oracle", LogLevel: "loud"},
		Log:      LogConfig{Level: "info", Format: "xml"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server port cannot be empty")
	assert.Contains(t, msg, "invalid server mode 'staging'")
	assert.Contains(t, msg, "invalid database driver 'oracle'")
	assert.Contains(t, msg, "invalid database log level 'loud'")
	assert.Contains(t, msg, "invalid log format 'xml'")
}

func TestDataSourceName_Postgres(t *testing.T) {
	d := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "localhost",
		Port:     "5432",
		Username: "app",
		Password: "pw",
		DBName:   "expenses",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=app password=pw dbname=expenses sslmode=disable", d.DataSourceName())
}

func TestEnsureSQLiteDir(t *testing.T) {
	dir := t.TempDir()
	d := DatabaseConfig{Driver: DriverSQLite, DSN: "file:" + filepath.Join(dir, "nested", "x.db") + "?_pragma=busy_timeout(5000)"}
	require.NoError(t, d.EnsureSQLiteDir())

	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"}.EnsureSQLiteDir())
}
