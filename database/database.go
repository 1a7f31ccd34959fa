package database

import (
	"fmt"
	"log/slog"
	"strings"

	"expenses/config"
	"expenses/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var DB *gorm.DB

// Init opens the configured database, migrates the schema and stores the handle in DB
func Init(cfg *config.Config) error {
	db, err := Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db

	slog.Info("database ready", "driver", cfg.Database.Driver)
	return nil
}

// Open connects with the driver named in cfg and applies the pool settings.
// Postgres goes through lib/pq. SQLite connections are opened with the pure-Go modernc.org/sqlite
// driver; the gorm dialector package still links mattn/go-sqlite3, which builds with cgo when it is on.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		// every :memory: connection is its own database, and sqlite serialises writers anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}

	return db, nil
}

// Migrate creates or updates the expenses table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Expense{}); err != nil {
		return fmt.Errorf("migrate expenses: %w", err)
	}
	return nil
}

// GetDB returns the shared connection
func GetDB() *gorm.DB {
	return DB
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := cfg.DataSourceName()
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        dsn,
		}), nil
	case config.DriverSQLite:
		if err := cfg.EnsureSQLiteDir(); err != nil {
			return nil, err
		}
		return &sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
