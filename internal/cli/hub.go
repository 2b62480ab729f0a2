package cli

import (
	"context"
	"log/slog"

	"github.com/mcptools/mcptools-go/internal/config"
	"github.com/mcptools/mcptools-go/internal/hub"
	"github.com/mcptools/mcptools-go/internal/metrics"
	"github.com/mcptools/mcptools-go/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Run the Hugging Face Hub MCP server",
	Long: `Run the Hugging Face Hub server over stdio.

Exposes search_hub, compare_models, and hub_download tools plus
hf://models, hf://datasets, and hf://spaces resources. Set HF_TOKEN for
authenticated requests and HF_ENDPOINT to target a mirror.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve("mcptools-hub", buildHub)
	},
}

func buildHub(ctx context.Context, cfg config.Config, logger *slog.Logger) (*tools.Dependencies, func(*mcp.Server, *tools.Dependencies), error) {
	deps := &tools.Dependencies{
		Hub:     hub.NewClient(cfg.HFEndpoint, cfg.HFToken),
		Metrics: metrics.NewCollector(),
		Logger:  logger,
	}
	return deps, tools.RegisterHub, nil
}
