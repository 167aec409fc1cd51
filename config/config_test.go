package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsesDefaultsWithoutEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, "log", cfg.Notifier.Driver)
	assert.Equal(t, 10*time.Second, cfg.Booking.SlotLockTTL)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestLoadReadsEnvFileAndEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9000\nJWT_SECRET=from-file\nSLOT_LOCK_TTL=3s\nDB_NAME=clinic\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_NAME", "clinic_override")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 3*time.Second, cfg.Booking.SlotLockTTL)
	assert.Equal(t, "clinic_override", cfg.DB.Name)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadSplitsCORSOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example, http://localhost:3000,,")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://clinic.example", "http://localhost:3000"}, cfg.App.CORSOrigins)
}
