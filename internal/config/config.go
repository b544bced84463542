package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr        string
	StoreBackend      string
	DBPath            string
	MediaPath         string
	AIBackend         string
	OllamaHost        string
	OllamaModel       string
	ClaudeAPIKey      string
	ClaudeModel       string
	AITimeout         time.Duration
	AIRateLimit       float64
	AIRateBurst       int
	ActivityBackend   string
	RedisAddr         string
	ReminderSchedule  string
	ReminderWindow    time.Duration
	SeedFile          string
	DefaultCoverImage string
	LogLevel          string
	LogFormat         string
	LogFile           string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		StoreBackend:      getEnv("STORE_BACKEND", "sqlite"),
		DBPath:            getEnv("DB_PATH", "/data/mediaflow.db"),
		MediaPath:         getEnv("MEDIA_PATH", "/data/media"),
		AIBackend:         getEnv("AI_BACKEND", "ollama"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llava"),
		ClaudeAPIKey:      getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:       getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		AITimeout:         getEnvDuration("AI_TIMEOUT", 90*time.Second),
		AIRateLimit:       getEnvFloat("AI_RATE_LIMIT", 1),
		AIRateBurst:       getEnvInt("AI_RATE_BURST", 5),
		ActivityBackend:   getEnv("ACTIVITY_BACKEND", "memory"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		ReminderSchedule:  getEnv("REMINDER_SCHEDULE", "@daily"),
		ReminderWindow:    getEnvDuration("REMINDER_WINDOW", 72*time.Hour),
		SeedFile:          getEnv("SEED_FILE", ""),
		DefaultCoverImage: getEnv("DEFAULT_COVER_IMAGE", "https://placehold.co/600x400.png"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogFile:           getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultVal)
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "default", defaultVal)
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultVal)
		return defaultVal
	}
	return d
}
