package cli

import (
	"context"
	"log/slog"

	"github.com/mcptools/mcptools-go/internal/config"
	"github.com/mcptools/mcptools-go/internal/jobs"
	"github.com/mcptools/mcptools-go/internal/media"
	"github.com/mcptools/mcptools-go/internal/metrics"
	"github.com/mcptools/mcptools-go/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Run the media processing MCP server",
	Long: `Run the media processing server over stdio.

Single-file tools (resize_image, convert_image, watermark_image,
compress_image, apply_preset) run synchronously. batch_process starts a
background job over a glob pattern and returns a job id; poll it with
get_batch_status. Video operations need ffmpeg on PATH (or FFMPEG_PATH).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve("mcptools-media", buildMedia)
	},
}

func buildMedia(ctx context.Context, cfg config.Config, logger *slog.Logger) (*tools.Dependencies, func(*mcp.Server, *tools.Dependencies), error) {
	codec := media.NewCodec(cfg.FFmpegPath)
	if !codec.FFmpegAvailable() {
		logger.Warn("ffmpeg not found, video operations disabled", "path", cfg.FFmpegPath)
	}

	registry := jobs.NewRegistry(cfg.JobRetention)
	runner := jobs.NewRunner(registry, codec, cfg.MaxActiveJobs, logger)

	deps := &tools.Dependencies{
		Jobs:    registry,
		Runner:  runner,
		Codec:   codec,
		Presets: media.DefaultPresets(),
		Metrics: metrics.NewCollector(),
		Logger:  logger,
	}
	return deps, tools.RegisterMedia, nil
}
