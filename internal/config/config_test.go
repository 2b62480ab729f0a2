package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"VAULT_PATH", "HF_ENDPOINT", "HF_TOKEN", "FFMPEG_PATH",
		"MCPTOOLS_JOB_RETENTION", "MCPTOOLS_MAX_ACTIVE_JOBS",
		"MCPTOOLS_LOG_FILE", "MCPTOOLS_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Empty(t, cfg.VaultPath)
	assert.Empty(t, cfg.HFEndpoint)
	assert.Empty(t, cfg.HFToken)
	assert.Empty(t, cfg.FFmpegPath)
	assert.Equal(t, time.Duration(0), cfg.JobRetention)
	assert.Equal(t, 0, cfg.MaxActiveJobs)
	assert.Equal(t, "/tmp/mcptools.log", cfg.LogFile)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VAULT_PATH", "/data/vault")
	t.Setenv("HF_TOKEN", "hf_abc")
	t.Setenv("MCPTOOLS_JOB_RETENTION", "2h")
	t.Setenv("MCPTOOLS_MAX_ACTIVE_JOBS", "4")
	t.Setenv("MCPTOOLS_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "/data/vault", cfg.VaultPath)
	assert.Equal(t, "hf_abc", cfg.HFToken)
	assert.Equal(t, 2*time.Hour, cfg.JobRetention)
	assert.Equal(t, 4, cfg.MaxActiveJobs)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestParseDurationRejectsNegative(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseDuration("-5m"))
	assert.Equal(t, time.Duration(0), parseDuration("nonsense"))
	assert.Equal(t, 30*time.Second, parseDuration("30s"))
}

func TestParseIntRejectsNegative(t *testing.T) {
	assert.Equal(t, 0, parseInt("-3"))
	assert.Equal(t, 0, parseInt("x"))
	assert.Equal(t, 7, parseInt("7"))
}
