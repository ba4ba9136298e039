package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the file.
const (
	EnvPort      = "PORT"
	EnvHost      = "SALONSITE_HOST"
	EnvSiteDir   = "SALONSITE_SITE_DIR"
	EnvBackend   = "SALONSITE_CONTENT_BACKEND"
	EnvFile      = "SALONSITE_CONTENT_FILE"
	EnvRemoteURL = "SALONSITE_REMOTE_URL"
	EnvNATSURL   = "SALONSITE_NATS_URL"
	EnvLogLevel  = "SALONSITE_LOG_LEVEL"
	EnvLogFormat = "SALONSITE_LOG_FORMAT"
)

// loadEnvFile loads .env and .env.local when present. Variables already set in
// the process environment win.
func loadEnvFile() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := env(EnvPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	setString(&cfg.Server.Host, EnvHost)
	setString(&cfg.Server.SiteDir, EnvSiteDir)
	if v := env(EnvBackend); v != "" {
		cfg.Content.Backend = Backend(v)
	}
	setString(&cfg.Content.File, EnvFile)
	setString(&cfg.Content.RemoteURL, EnvRemoteURL)
	setString(&cfg.NATS.URL, EnvNATSURL)
	if v := env(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := env(EnvLogFormat); v != "" {
		cfg.Logging.Format = LogFormat(v)
	}
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func setString(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}
