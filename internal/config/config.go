package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for every configurable value. The session secret default exists
// for local development only; production deployments must override it.
const (
	DefaultPort          = 3856
	DefaultDatabasePath  = "data/storyboard.db"
	DefaultUploadDir     = "data/uploads"
	DefaultSessionSecret = "storyboard-secret-change-in-production"
	DefaultSessionMaxAge = 60 * 24 * time.Hour // 60 days
	DefaultAuthUsername  = "admin"
	DefaultAuthPassword  = "admin"
	DefaultCORSOrigin    = "*"
)

// Config carries the full environment-supplied configuration surface.
type Config struct {
	// Port is the HTTP listening port (PORT).
	Port int
	// DatabasePath is the SQLite file path (STORYBOARD_DB_PATH).
	DatabasePath string
	// UploadDir is where uploaded images are stored (STORYBOARD_UPLOAD_DIR).
	UploadDir string
	// SessionSecret signs the session cookie (SESSION_SECRET).
	SessionSecret string
	// SessionMaxAge bounds session lifetime (SESSION_MAX_AGE, seconds).
	SessionMaxAge time.Duration
	// AuthUsername is the single editor username (AUTH_USERNAME).
	AuthUsername string
	// AuthPassword is the plaintext fallback password (AUTH_PASSWORD),
	// used only when AuthPasswordHash is empty.
	AuthPassword string
	// AuthPasswordHash is the bcrypt hash of the editor password
	// (AUTH_PASSWORD_HASH).
	AuthPasswordHash string
	// CORSOrigin is the allowed cross-origin value (CORS_ORIGIN); "*"
	// echoes the caller's origin.
	CORSOrigin string
	// Production is true when STORYBOARD_ENV=production; it hardens cookie
	// and key handling.
	Production bool
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Unset variables fall back to the documented defaults.
// PRE: none
// POST: returns a fully populated Config or an error naming the bad variable
func Load() (Config, error) {
	// A missing .env file is fine; explicit env always wins.
	_ = godotenv.Load()

	cfg := Config{
		Port:             DefaultPort,
		DatabasePath:     envOrDefault("STORYBOARD_DB_PATH", DefaultDatabasePath),
		UploadDir:        envOrDefault("STORYBOARD_UPLOAD_DIR", DefaultUploadDir),
		SessionSecret:    envOrDefault("SESSION_SECRET", DefaultSessionSecret),
		SessionMaxAge:    DefaultSessionMaxAge,
		AuthUsername:     envOrDefault("AUTH_USERNAME", DefaultAuthUsername),
		AuthPassword:     envOrDefault("AUTH_PASSWORD", DefaultAuthPassword),
		AuthPasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		CORSOrigin:       envOrDefault("CORS_ORIGIN", DefaultCORSOrigin),
		Production:       os.Getenv("STORYBOARD_ENV") == "production",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("PORT must be a valid port number, got %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("SESSION_MAX_AGE must be a positive number of seconds, got %q", v)
		}
		cfg.SessionMaxAge = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
