package config

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ADDR", "DATABASE_PATH", "APP_ENV", "LOG_LEVEL", "PUBLIC_URL",
		"COORDINATOR_PASSWORD", "COORDINATOR_PASSWORD_HASH", "COOKIE_SECRET", "DISPLAY_TZ",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_FailsClosedWithoutSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingCoordinatorSecret)
}

func TestLoad_HashesPlainPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("COORDINATOR_PASSWORD", "pebble-time")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword(cfg.CoordinatorPasswordHash, []byte("pebble-time")))
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "loaners.db", cfg.DatabasePath)
	assert.False(t, cfg.Production())
	assert.True(t, cfg.EphemeralCookieKey)
	assert.Len(t, cfg.CookieHashKey, 32)
}

func TestLoad_AcceptsPrecomputedHash(t *testing.T) {
	clearEnv(t)
	h, err := bcrypt.GenerateFromPassword([]byte("sweep"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("COORDINATOR_PASSWORD_HASH", string(h))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, h, cfg.CoordinatorPasswordHash)
}

func TestLoad_RejectsBadHash(t *testing.T) {
	clearEnv(t)
	t.Setenv("COORDINATOR_PASSWORD_HASH", "not-a-hash")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CookieSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("COORDINATOR_PASSWORD", "x")

	key := strings.Repeat("ab", 32)
	t.Setenv("COOKIE_SECRET", key)
	cfg, err := Load()
	require.NoError(t, err)
	want, _ := hex.DecodeString(key)
	assert.Equal(t, want, cfg.CookieHashKey)
	assert.False(t, cfg.EphemeralCookieKey)

	t.Setenv("COOKIE_SECRET", "too-short")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_ProductionAndPublicURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("COORDINATOR_PASSWORD", "x")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PUBLIC_URL", "https://gear.example.org/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, "https://gear.example.org", cfg.PublicURL)
}

func TestLoad_DisplayTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("COORDINATOR_PASSWORD", "pebble-time")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.Location.String())

	t.Setenv("DISPLAY_TZ", "Not/AZone")
	_, err = Load()
	assert.Error(t, err)
}
