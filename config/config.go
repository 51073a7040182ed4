package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	SQLitePath     string
	JWTSecret      []byte
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// Load reads configuration from the environment, loading .env first if
// one is present.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file found, using environment variables")
	}

	ttlHours := envInt("JWT_TTL_HOURS", 168) // 7 days

	return &Config{
		Port:           envDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     envDefault("SQLITE_PATH", "foodhub.db"),
		JWTSecret:      []byte(envDefault("JWT_SECRET", "foodhub_dev_secret")),
		TokenTTL:       time.Duration(ttlHours) * time.Hour,
		AllowedOrigins: csv(envDefault("ALLOWED_ORIGINS", "*")),
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
