package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcptools/mcptools-go/internal/config"
	"github.com/mcptools/mcptools-go/internal/metrics"
	"github.com/mcptools/mcptools-go/internal/tools"
	"github.com/mcptools/mcptools-go/internal/vault"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Run the markdown vault MCP server",
	Long: `Run the markdown vault server over stdio.

Operates on the directory named by VAULT_PATH: create and read notes
with YAML frontmatter, list by glob, full-text search, and append nodes
to .canvas files. Paths outside the vault are rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve("mcptools-vault", buildVault)
	},
}

func buildVault(ctx context.Context, cfg config.Config, logger *slog.Logger) (*tools.Dependencies, func(*mcp.Server, *tools.Dependencies), error) {
	if cfg.VaultPath == "" {
		return nil, nil, fmt.Errorf("VAULT_PATH is not set")
	}

	store, err := vault.NewStore(cfg.VaultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open vault: %w", err)
	}

	deps := &tools.Dependencies{
		Vault:   store,
		Metrics: metrics.NewCollector(),
		Logger:  logger,
	}
	return deps, tools.RegisterVault, nil
}
