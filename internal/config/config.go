package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults for anything unset.
func Load() Config {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return Config{
		Port:     getenv("HOMECART_PORT", "8080"),
		DBPath:   getenv("HOMECART_DB_PATH", "homecart.db"),
		LogLevel: getenv("HOMECART_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
