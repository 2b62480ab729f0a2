// Package tools provides MCP tool handlers and registration for the media,
// hub, and vault servers.
package tools

import (
	"log/slog"

	"github.com/mcptools/mcptools-go/internal/hub"
	"github.com/mcptools/mcptools-go/internal/jobs"
	"github.com/mcptools/mcptools-go/internal/media"
	"github.com/mcptools/mcptools-go/internal/metrics"
	"github.com/mcptools/mcptools-go/internal/vault"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture. Each server populates
// only the fields its tools need.
type Dependencies struct {
	Jobs    *jobs.Registry
	Runner  *jobs.Runner
	Codec   *media.Codec
	Presets map[string]media.Preset
	Hub     *hub.Client
	Vault   *vault.Store
	Metrics *metrics.Collector
	Logger  *slog.Logger
}
