package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMedia registers the media server's tools: the batch job subsystem
// plus single-file operations and presets.
// This is called from the serve command after server creation but before Run().
func RegisterMedia(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Liveness check - answers pong, or echoes the given text",
	}, NewPingHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_process",
		Description: "Apply one operation (resize, convert, watermark, compress) to every file matching a glob pattern; returns a job id immediately",
	}, NewBatchProcessHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_batch_status",
		Description: "Report one batch job's progress by id (with per-file detail), or list all jobs",
	}, NewGetBatchStatusHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_batch",
		Description: "Cooperatively stop a running batch job between files",
	}, NewCancelBatchHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resize_image",
		Description: "Resize a single image or video",
	}, NewResizeImageHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_image",
		Description: "Convert a single file to another format",
	}, NewConvertImageHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "watermark_image",
		Description: "Overlay watermark text on a single file",
	}, NewWatermarkImageHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compress_image",
		Description: "Re-encode a single file at lower quality",
	}, NewCompressImageHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_preset",
		Description: "Apply a named preset (web_optimized, social_media, thumbnail, high_quality) to an image",
	}, NewApplyPresetHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "server_stats",
		Description: "Report uptime and per-operation timing statistics",
	}, NewServerStatsHandler(deps))
}

// RegisterHub registers the Hugging Face Hub server's tools and resources.
func RegisterHub(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Liveness check - answers pong, or echoes the given text",
	}, NewPingHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_hub",
		Description: "Search Hugging Face Hub for models, datasets, or spaces",
	}, NewSearchHubHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_models",
		Description: "Compare multiple models by downloads, task, and likes",
	}, NewCompareModelsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inference_api_run",
		Description: "Run a model through the Hugging Face serverless Inference API",
	}, NewInferenceRunHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hub_download",
		Description: "Download a file from a Hub repository",
	}, NewHubDownloadHandler(deps))

	// Write tools need an access token; without one they are not offered at
	// all rather than failing on every call.
	if deps.Hub != nil && deps.Hub.HasToken() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "hf_repo_create",
			Description: "Create a model or dataset repository on the Hub",
		}, NewRepoCreateHandler(deps))

		mcp.AddTool(server, &mcp.Tool{
			Name:        "hf_upload_file",
			Description: "Upload a local file to a Hub repository",
		}, NewUploadFileHandler(deps))
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "server_stats",
		Description: "Report uptime and per-operation timing statistics",
	}, NewServerStatsHandler(deps))

	AddHubResources(server, deps)
}

// RegisterVault registers the markdown vault server's tools.
func RegisterVault(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Liveness check - answers pong, or echoes the given text",
	}, NewPingHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_note",
		Description: "Create or replace a markdown note, optionally with YAML frontmatter",
	}, NewCreateNoteHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_note",
		Description: "Read a note: frontmatter, content, and wiki-link targets",
	}, NewReadNoteHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_notes",
		Description: "List note paths matching a glob pattern",
	}, NewListNotesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Full-text search across note content and frontmatter",
	}, NewSearchNotesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_canvas_node",
		Description: "Append a node to an Obsidian-style .canvas file",
	}, NewCreateCanvasNodeHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "server_stats",
		Description: "Report uptime and per-operation timing statistics",
	}, NewServerStatsHandler(deps))
}
