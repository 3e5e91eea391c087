// Package config builds the process-wide configuration once at startup.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingCoordinatorSecret is returned when no coordinator password is configured.
// The service refuses to start rather than fall back to a guessable default.
var ErrMissingCoordinatorSecret = errors.New("COORDINATOR_PASSWORD or COORDINATOR_PASSWORD_HASH must be set")

type Config struct {
	Addr         string
	DatabasePath string
	Environment  string
	LogLevel     string
	PublicURL    string
	// zone used when rendering timestamps on pages
	Location *time.Location

	// bcrypt hash of the shared coordinator password
	CoordinatorPasswordHash []byte
	// HMAC key for the coordinator cookie
	CookieHashKey []byte
	// true when CookieHashKey was generated because COOKIE_SECRET was unset
	EphemeralCookieKey bool
}

func (c *Config) Production() bool {
	return c.Environment == "production"
}

// LoadEnv reads .env from the working directory if present. Variables already
// set in the process environment take precedence.
func LoadEnv() error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "loaners.db"),
		Environment:  getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		PublicURL:    strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),
	}

	loc, err := time.LoadLocation(getEnv("DISPLAY_TZ", "America/New_York"))
	if err != nil {
		return nil, fmt.Errorf("DISPLAY_TZ: %w", err)
	}
	cfg.Location = loc

	hash, err := coordinatorHash()
	if err != nil {
		return nil, err
	}
	cfg.CoordinatorPasswordHash = hash

	key, ephemeral, err := cookieKey()
	if err != nil {
		return nil, err
	}
	cfg.CookieHashKey = key
	cfg.EphemeralCookieKey = ephemeral

	return cfg, nil
}

func coordinatorHash() ([]byte, error) {
	if h := strings.TrimSpace(os.Getenv("COORDINATOR_PASSWORD_HASH")); h != "" {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("COORDINATOR_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		return []byte(h), nil
	}
	pw := os.Getenv("COORDINATOR_PASSWORD")
	if pw == "" {
		return nil, ErrMissingCoordinatorSecret
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash coordinator password: %w", err)
	}
	return h, nil
}

// cookieKey accepts COOKIE_SECRET as hex or as a raw string of at least 32 bytes.
func cookieKey() ([]byte, bool, error) {
	raw := strings.TrimSpace(os.Getenv("COOKIE_SECRET"))
	if raw == "" {
		return securecookie.GenerateRandomKey(32), true, nil
	}
	if b, err := hex.DecodeString(raw); err == nil && len(b) >= 32 {
		return b, false, nil
	}
	if len(raw) < 32 {
		return nil, false, errors.New("COOKIE_SECRET must be at least 32 bytes")
	}
	return []byte(raw), false, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
