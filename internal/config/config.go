package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir          string
	DataURL          string
	HistoryDBPath    string
	TimeLimitMinutes float64
	Addr             string
	HTTPTimeout      time.Duration
	CORSOrigins      []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		DataDir:          getEnv("VOCAB_DATA_DIR", "./data"),
		DataURL:          strings.TrimSpace(os.Getenv("VOCAB_DATA_URL")),
		HistoryDBPath:    getEnv("VOCAB_HISTORY_DB", defaultHistoryPath()),
		TimeLimitMinutes: envFloat("VOCAB_TIME_LIMIT_MINUTES", 20),
		Addr:             getEnv("ADDR", ":8080"),
		HTTPTimeout:      envDuration("HTTP_TIMEOUT", 5*time.Second),
		CORSOrigins:      csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".vocab-exam", "history.db")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	parsed, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	parsed, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func csvOr(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
