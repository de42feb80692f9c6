package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL    string
	DatabaseDriver string
	DBMaxIdleConns int
	DBMaxOpenConns int
	DBAutoMigrate  bool

	// Server ports
	APIPort  int
	SMTPPort int

	// Features
	SMTPEnabled        bool
	SMTPDomain         string
	SMTPMaxMessageSize int64
	StrictMethodCheck  bool

	// Logging
	LogLevel string

	// Security
	AllowedOrigins string
	AppEnv         string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// DATABASE_URL, or the DB_PROD_* legacy deployment variables
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	cfg.DatabaseDriver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "postgres"
	}

	var err error
	if cfg.DBMaxIdleConns, err = intFromEnv("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = intFromEnv("DB_MAX_OPEN_CONNS", 100); err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate, err = boolFromEnv("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	// API_PORT (default: 8080)
	if cfg.APIPort, err = intFromEnv("API_PORT", 8080); err != nil {
		return nil, err
	}

	// SMTP ingest (default: disabled on port 2525)
	if cfg.SMTPEnabled, err = boolFromEnv("SMTP_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intFromEnv("SMTP_PORT", 2525); err != nil {
		return nil, err
	}
	cfg.SMTPDomain = os.Getenv("SMTP_DOMAIN")
	if cfg.SMTPDomain == "" {
		cfg.SMTPDomain = "localhost"
	}
	if size := os.Getenv("SMTP_MAX_MESSAGE_SIZE"); size != "" {
		v, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SMTP_MAX_MESSAGE_SIZE must be a valid integer: %w", err)
		}
		cfg.SMTPMaxMessageSize = v
	} else {
		cfg.SMTPMaxMessageSize = 25 * 1024 * 1024
	}

	// STRICT_METHOD_CHECK (default: false, unsupported methods answer 400)
	if cfg.StrictMethodCheck, err = boolFromEnv("STRICT_METHOD_CHECK", false); err != nil {
		return nil, err
	}

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	return cfg, nil
}

// dsnFromParts builds a PostgreSQL DSN from DB_PROD_HOST, DB_PROD_NAME, DB_USER and DB_PASS
func dsnFromParts() string {
	host := os.Getenv("DB_PROD_HOST")
	name := os.Getenv("DB_PROD_NAME")
	if host == "" || name == "" {
		return ""
	}

	parts := []string{"host=" + host, "dbname=" + name}
	if user := os.Getenv("DB_USER"); user != "" {
		parts = append(parts, "user="+user)
	}
	if pass := os.Getenv("DB_PASS"); pass != "" {
		parts = append(parts, "password="+pass)
	}
	return strings.Join(parts, " ")
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func boolFromEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a valid boolean: %w", key, err)
	}
	return v, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production-specific validation
	if cfg.IsProduction() {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		return fmt.Errorf("DatabaseDriver must be postgres or sqlite")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.SMTPEnabled && (c.SMTPPort <= 0 || c.SMTPPort > 65535) {
		return fmt.Errorf("SMTPPort must be between 1 and 65535")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DBMaxOpenConns must be positive")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}

	// Check for wildcard in production
	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}

	// Check for sslmode=disable in database URL
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Origins returns the allowed origins as a trimmed list
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// SlogLevel converts LOG_LEVEL into a slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("database_driver", c.DatabaseDriver),
		slog.Int("db_max_open_conns", c.DBMaxOpenConns),
		slog.Bool("db_auto_migrate", c.DBAutoMigrate),
		slog.Int("api_port", c.APIPort),
		slog.Bool("smtp_enabled", c.SMTPEnabled),
		slog.Int("smtp_port", c.SMTPPort),
		slog.Bool("strict_method_check", c.StrictMethodCheck),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("allowed_origins_set", c.AllowedOrigins != ""),
	)
}
