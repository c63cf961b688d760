package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/riceledger/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "STORAGE_DRIVER", "MONGODB_URI", "MONGODB_DB_NAME",
		"TIMEZONE", "REPORT_CRON_SCHEDULE", "REPORT_CLIENT_IDS", "CORS_ALLOWED_ORIGINS",
		"METRICS_ENABLED", "WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL",
		"WHATSAPP_API_VERSION", "WHATSAPP_REPORT_RECIPIENT", "GOOGLE_SHEETS_CREDENTIALS_PATH",
		"GOOGLE_SHEET_DATABASE_ID",
	} {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, config.DriverMongoDB, cfg.Storage.Driver)
	assert.Equal(t, "riceledger", cfg.MongoDB.DBName)
	assert.Equal(t, "0 6 1 * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_DRIVER=memory\nREPORT_CLIENT_IDS=c1, c2 ,\nTIMEZONE=UTC\n"), 0o600))

	// godotenv does not override variables that are already set, even empty ones.
	for _, key := range []string{"STORAGE_DRIVER", "REPORT_CLIENT_IDS", "TIMEZONE"} {
		require.NoError(t, os.Unsetenv(key))
	}
	t.Cleanup(func() {
		for _, key := range []string{"STORAGE_DRIVER", "REPORT_CLIENT_IDS", "TIMEZONE"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"c1", "c2"}, cfg.Reporting.ClientIDs)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":     {"STORAGE_DRIVER": "postgres"},
		"bad timezone":       {"TIMEZONE": "Mars/Olympus"},
		"half whatsapp":      {"WHATSAPP_TOKEN": "token"},
		"half sheets":        {"GOOGLE_SHEET_DATABASE_ID": "sheet"},
		"bad metrics toggle": {"METRICS_ENABLED": "maybe"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
