package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiredDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PROD_HOST", "")
	t.Setenv("DB_PROD_NAME", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.DBMaxIdleConns)
	assert.Equal(t, 100, cfg.DBMaxOpenConns)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.False(t, cfg.SMTPEnabled)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, "localhost", cfg.SMTPDomain)
	assert.Equal(t, int64(25*1024*1024), cfg.SMTPMaxMessageSize)
	assert.False(t, cfg.StrictMethodCheck)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.AppEnv)
}

func TestLoad_DSNFromLegacyDeploymentVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PROD_HOST", "db")
	t.Setenv("DB_PROD_NAME", "mail_prod")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=db dbname=mail_prod user=app password=secret", cfg.DatabaseURL)
}

func TestLoad_DatabaseURLWinsOverParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/direct")
	t.Setenv("DB_PROD_HOST", "db")
	t.Setenv("DB_PROD_NAME", "mail_prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/direct", cfg.DatabaseURL)
}

func TestLoad_FeatureFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:mail.db")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("STRICT_METHOD_CHECK", "true")
	t.Setenv("SMTP_ENABLED", "1")
	t.Setenv("SMTP_PORT", "2626")
	t.Setenv("SMTP_MAX_MESSAGE_SIZE", "1024")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.True(t, cfg.StrictMethodCheck)
	assert.True(t, cfg.SMTPEnabled)
	assert.Equal(t, 2626, cfg.SMTPPort)
	assert.Equal(t, int64(1024), cfg.SMTPMaxMessageSize)
	assert.False(t, cfg.DBAutoMigrate)
}

func TestLoad_InvalidInteger(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("API_PORT", "http")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_PORT must be a valid integer")
}

func TestLoad_InvalidBoolean(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("STRICT_METHOD_CHECK", "maybe")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STRICT_METHOD_CHECK must be a valid boolean")
}

func TestValidateProduction_RequiresAllowedOrigins(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		AppEnv:         "production",
		AllowedOrigins: "",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_ORIGINS is required")
}

func TestValidateProduction_NoWildcardOrigins(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		AppEnv:         "production",
		AllowedOrigins: "*",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wildcard")
}

func TestValidateProduction_NoSSLDisable(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test?sslmode=disable",
		AppEnv:         "production",
		AllowedOrigins: "http://example.com",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode=disable")
}

func TestLoadWithValidation_FailFast(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test?sslmode=disable")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "http://example.com")

	_, err := LoadWithValidation()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode=disable")
}

func TestLoadWithValidation_DevelopmentAllowsInsecure(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test?sslmode=disable")
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadWithValidation()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		DatabaseDriver: "postgres",
		APIPort:        0,
		DBMaxOpenConns: 10,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "APIPort")
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		DatabaseDriver: "mysql",
		APIPort:        8080,
		DBMaxOpenConns: 10,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DatabaseDriver")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		DatabaseDriver: "postgres",
		APIPort:        8080,
		SMTPPort:       2525,
		DBMaxOpenConns: 10,
	}

	assert.NoError(t, cfg.Validate())
}

func TestOrigins_TrimsAndDropsEmpty(t *testing.T) {
	cfg := &Config{AllowedOrigins: " http://localhost:3000, ,http://example.com "}

	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.Origins())
	assert.Empty(t, (&Config{}).Origins())
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "bogus"}).SlogLevel())
}
