package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// Vault server
	VaultPath string

	// Hugging Face Hub
	HFEndpoint string
	HFToken    string

	// Media server
	FFmpegPath    string
	JobRetention  time.Duration // 0 = keep jobs for the process lifetime
	MaxActiveJobs int           // 0 = no cap on concurrent batch jobs

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		VaultPath: getEnv("VAULT_PATH", ""),

		HFEndpoint: getEnv("HF_ENDPOINT", ""),
		HFToken:    getEnv("HF_TOKEN", ""),

		FFmpegPath:    getEnv("FFMPEG_PATH", ""),
		JobRetention:  parseDuration(getEnv("MCPTOOLS_JOB_RETENTION", "0")),
		MaxActiveJobs: parseInt(getEnv("MCPTOOLS_MAX_ACTIVE_JOBS", "0")),

		LogFile:  getEnv("MCPTOOLS_LOG_FILE", "/tmp/mcptools.log"),
		LogLevel: parseLogLevel(getEnv("MCPTOOLS_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
