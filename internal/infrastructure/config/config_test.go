package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CUSTOMS_APP_NAME":                os.Getenv("CUSTOMS_APP_NAME"),
		"CUSTOMS_DATABASE_DRIVER":         os.Getenv("CUSTOMS_DATABASE_DRIVER"),
		"CUSTOMS_APP_ENV":                 os.Getenv("CUSTOMS_APP_ENV"),
		"CUSTOMS_APP_PORT":                os.Getenv("CUSTOMS_APP_PORT"),
		"CUSTOMS_DATABASE_HOST":           os.Getenv("CUSTOMS_DATABASE_HOST"),
		"CUSTOMS_DATABASE_PORT":           os.Getenv("CUSTOMS_DATABASE_PORT"),
		"CUSTOMS_DATABASE_USER":           os.Getenv("CUSTOMS_DATABASE_USER"),
		"CUSTOMS_DATABASE_PASSWORD":       os.Getenv("CUSTOMS_DATABASE_PASSWORD"),
		"CUSTOMS_DATABASE_DBNAME":         os.Getenv("CUSTOMS_DATABASE_DBNAME"),
		"CUSTOMS_DATABASE_SSLMODE":        os.Getenv("CUSTOMS_DATABASE_SSLMODE"),
		"CUSTOMS_DATABASE_MAX_OPEN_CONNS": os.Getenv("CUSTOMS_DATABASE_MAX_OPEN_CONNS"),
		"CUSTOMS_DATABASE_MAX_IDLE_CONNS": os.Getenv("CUSTOMS_DATABASE_MAX_IDLE_CONNS"),
		"CUSTOMS_JWT_SECRET":              os.Getenv("CUSTOMS_JWT_SECRET"),
		"APP_ENV":                         os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "customs-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "customs", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 587, cfg.SMTP.Port)
		assert.Equal(t, "NCS1001", cfg.Bootstrap.SuperAdminServiceNumber)
		assert.Equal(t, "superadmin@customs.gov.ng", cfg.Bootstrap.SuperAdminEmail)
		assert.NotEmpty(t, cfg.Bootstrap.SuperAdminPassword)
	})

	t.Run("loads values from environment variables with CUSTOMS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_APP_NAME", "test-app")
		os.Setenv("CUSTOMS_APP_ENV", "testing")
		os.Setenv("CUSTOMS_APP_PORT", "9000")
		os.Setenv("CUSTOMS_DATABASE_HOST", "testdb.local")
		os.Setenv("CUSTOMS_DATABASE_PORT", "5433")
		os.Setenv("CUSTOMS_DATABASE_USER", "testuser")
		os.Setenv("CUSTOMS_DATABASE_PASSWORD", "testpass")
		os.Setenv("CUSTOMS_DATABASE_DBNAME", "testdb")
		os.Setenv("CUSTOMS_DATABASE_SSLMODE", "require")
		os.Setenv("CUSTOMS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("CUSTOMS_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("driver defaults to postgres", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Database.Driver)
	})

	t.Run("accepts sqlite driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_DATABASE_DRIVER", "sqlite")
		os.Setenv("CUSTOMS_DATABASE_DBNAME", "customs.db")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "customs.db", cfg.Database.DSN())
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CUSTOMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"CUSTOMS_APP_ENV":                        os.Getenv("CUSTOMS_APP_ENV"),
		"CUSTOMS_JWT_SECRET":                     os.Getenv("CUSTOMS_JWT_SECRET"),
		"CUSTOMS_DATABASE_PASSWORD":              os.Getenv("CUSTOMS_DATABASE_PASSWORD"),
		"CUSTOMS_DATABASE_SSLMODE":               os.Getenv("CUSTOMS_DATABASE_SSLMODE"),
		"CUSTOMS_COOKIE_SECURE":                  os.Getenv("CUSTOMS_COOKIE_SECURE"),
		"CUSTOMS_SMTP_HOST":                      os.Getenv("CUSTOMS_SMTP_HOST"),
		"CUSTOMS_BOOTSTRAP_SUPER_ADMIN_PASSWORD": os.Getenv("CUSTOMS_BOOTSTRAP_SUPER_ADMIN_PASSWORD"),
		"APP_ENV":                                os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("CUSTOMS_APP_ENV", "production")
		os.Setenv("CUSTOMS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("CUSTOMS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CUSTOMS_DATABASE_SSLMODE", "require")
		os.Setenv("CUSTOMS_COOKIE_SECURE", "true")
		os.Setenv("CUSTOMS_SMTP_HOST", "smtp.customs.gov.ng")
		os.Setenv("CUSTOMS_BOOTSTRAP_SUPER_ADMIN_PASSWORD", "SeedPassword42")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMS_APP_ENV", "production")
		os.Setenv("CUSTOMS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CUSTOMS_DATABASE_SSLMODE", "require")
		os.Setenv("CUSTOMS_COOKIE_SECURE", "true")
		os.Setenv("CUSTOMS_SMTP_HOST", "smtp.customs.gov.ng")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CUSTOMS_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CUSTOMS_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CUSTOMS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects sqlite driver in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CUSTOMS_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver must be 'postgres' in production")

		os.Unsetenv("CUSTOMS_DATABASE_DRIVER")
	})

	t.Run("requires smtp.host in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CUSTOMS_SMTP_HOST")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.host is required in production")
	})

	t.Run("requires bootstrap password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CUSTOMS_BOOTSTRAP_SUPER_ADMIN_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bootstrap.super_admin_password is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestSMTPConfig_Addr(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.customs.gov.ng", Port: 587}
	assert.Equal(t, "smtp.customs.gov.ng:587", cfg.Addr())
}
