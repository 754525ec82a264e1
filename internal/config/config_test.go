package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("BOT_PASSWORD", "test_password")
	t.Setenv("DB_PASSWORD", "test_db_password")
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Run("valid integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "180")

		n, err := getEnvInt("TEST_INT", 365)
		assert.NoError(t, err)
		assert.Equal(t, 180, n)
	})

	t.Run("not set uses default", func(t *testing.T) {
		os.Unsetenv("TEST_INT_NOT_SET")

		n, err := getEnvInt("TEST_INT_NOT_SET", 365)
		assert.NoError(t, err)
		assert.Equal(t, 365, n)
	})

	t.Run("invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "a lot")

		_, err := getEnvInt("TEST_INT", 365)
		assert.Error(t, err)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("BOT_PASSWORD", "")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_MissingBotPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_PASSWORD", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "BOT_PASSWORD")
}

func TestLoad_MissingDBPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PASSWORD", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_WithDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_USER", "")
	t.Setenv("MAX_INTERVAL_DAYS", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "test_password", cfg.BotPassword)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "lingoflow", cfg.Database.Name)
	assert.Equal(t, "lingoflow", cfg.Database.User)
	assert.Equal(t, 365, cfg.Scheduler.MaxIntervalDays)
}

func TestLoad_CustomMaxInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_INTERVAL_DAYS", "180")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 180, cfg.Scheduler.MaxIntervalDays)
}

func TestLoad_InvalidMaxInterval(t *testing.T) {
	setRequiredEnv(t)

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("MAX_INTERVAL_DAYS", "forever")

		cfg, err := Load()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("not positive", func(t *testing.T) {
		t.Setenv("MAX_INTERVAL_DAYS", "0")

		cfg, err := Load()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}
