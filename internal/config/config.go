package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseDSN string // postgres DSN; empty means embedded sqlite file
	DataDir     string // sqlite file + preferences store live here
	ExportDir   string // PDF exports land in <ExportDir>/Download
	Env         string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	cfg.DataDir = getEnv("DATA_DIR", defaultDataDir())
	cfg.ExportDir = getEnv("EXPORT_DIR", defaultExportDir())
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

// defaultDataDir mirrors the per-user application-data directory convention.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ventepos")
	}
	return "."
}

// defaultExportDir points at the user's documents folder when resolvable.
func defaultExportDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Documents")
	}
	return "."
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
