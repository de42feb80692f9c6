package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/welldanyogia/mailstore/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connection pool configuration
const (
	DefaultMaxIdleConns    = 10
	DefaultMaxOpenConns    = 100
	DefaultConnMaxLifetime = time.Hour
	DefaultConnMaxIdleTime = 10 * time.Minute
)

// Options holds connection settings
type Options struct {
	Driver       string
	DSN          string
	Production   bool
	MaxIdleConns int
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// Connect opens the connection pool for the configured driver
func Connect(opts Options) (*gorm.DB, error) {
	if opts.Production {
		if err := validateSSLMode(opts.DSN); err != nil {
			return nil, err
		}
	}

	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	logLevel := opts.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configureConnectionPool(db, opts); err != nil {
		return nil, err
	}

	slog.Info("Connected to database successfully", slog.String("driver", driverName(opts.Driver)))
	return db, nil
}

// dialectorFor returns the GORM dialector for a driver name
func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driverName(driver) {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func driverName(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return DriverPostgres
	}
	return driver
}

// validateSSLMode ensures SSL is enabled in production
func validateSSLMode(databaseURL string) error {
	if strings.Contains(databaseURL, "sslmode=disable") {
		return fmt.Errorf("SSL mode cannot be disabled in production")
	}

	// If no sslmode specified, it's okay (defaults to prefer/require depending on server)
	return nil
}

// poolSettings holds the limits applied to the underlying sql.DB
type poolSettings struct {
	maxIdle     int
	maxOpen     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

func poolSettingsFor(opts Options) poolSettings {
	ps := poolSettings{
		maxIdle:     opts.MaxIdleConns,
		maxOpen:     opts.MaxOpenConns,
		maxLifetime: DefaultConnMaxLifetime,
		maxIdleTime: DefaultConnMaxIdleTime,
	}
	if ps.maxIdle <= 0 {
		ps.maxIdle = DefaultMaxIdleConns
	}
	if ps.maxOpen <= 0 {
		ps.maxOpen = DefaultMaxOpenConns
	}

	// An in-memory SQLite database lives and dies with its single connection,
	// so that connection is never recycled
	if isSQLiteMemory(opts) {
		ps = poolSettings{maxIdle: 1, maxOpen: 1}
	}
	return ps
}

func isSQLiteMemory(opts Options) bool {
	return driverName(opts.Driver) == DriverSQLite &&
		(strings.Contains(opts.DSN, ":memory:") || strings.Contains(opts.DSN, "mode=memory"))
}

// configureConnectionPool sets up connection pool limits
func configureConnectionPool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ps := poolSettingsFor(opts)
	sqlDB.SetMaxIdleConns(ps.maxIdle)
	sqlDB.SetMaxOpenConns(ps.maxOpen)
	sqlDB.SetConnMaxLifetime(ps.maxLifetime)
	sqlDB.SetConnMaxIdleTime(ps.maxIdleTime)

	return nil
}

// Migrate creates or updates the mail table
func Migrate(db *gorm.DB) error {
	slog.Info("Running database migrations...")

	if err := db.AutoMigrate(&models.Mail{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database migrations completed successfully")
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
