// Package cli provides the command-line interface for mcptools.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcptools/mcptools-go/internal/config"
	"github.com/mcptools/mcptools-go/internal/server"
	"github.com/mcptools/mcptools-go/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mcptools",
	Short: "MCP protocol adapters for local tooling",
	Long: `mcptools hosts a family of MCP servers over stdio:

  media   batch media processing with background job tracking
  hub     Hugging Face Hub search, comparison, and downloads
  vault   markdown vault notes, search, and canvas files

Each subcommand runs one server until the client disconnects or a
shutdown signal arrives.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(hubCmd)
	rootCmd.AddCommand(vaultCmd)
}

// serve runs one MCP server over stdio: loads config, sets up logging,
// wires dependencies via build, and blocks until disconnect or signal.
func serve(name string, build func(ctx context.Context, cfg config.Config, logger *slog.Logger) (*tools.Dependencies, func(*mcp.Server, *tools.Dependencies), error)) error {
	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("mcptools starting",
		"server", name,
		"version", Version,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	deps, register, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build dependencies", "server", name, "error", err)
		return err
	}

	srv := server.New(name, Version, logger)
	srv.Setup()
	register(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections", "server", name)

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("shutdown complete", "server", name)
	return nil
}
