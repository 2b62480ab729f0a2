package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcptools/mcptools-go/internal/hub"
	"github.com/mcptools/mcptools-go/internal/metrics"
)

// SearchHubInput defines the input schema for the search_hub tool.
type SearchHubInput struct {
	Query string `json:"query" jsonschema:"required,Search query text"`
	Type  string `json:"type,omitempty" jsonschema:"model dataset or space, default model"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results 1-50, default 10"`
}

// NewSearchHubHandler creates the search_hub tool handler.
func NewSearchHubHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchHubInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchHubInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Query == "" {
			return ErrorResult("Query cannot be empty", "Provide a search query"), nil, nil
		}

		repoType := hub.RepoModel
		if input.Type != "" {
			var err error
			repoType, err = hub.ParseRepoType(input.Type)
			if err != nil {
				return ErrorResult(err.Error(), ""), nil, nil
			}
		}
		limit := input.Limit
		if limit <= 0 {
			limit = 10
		}
		if limit > 50 {
			return ErrorResult("Limit must be 1-50", "Reduce limit value"), nil, nil
		}

		start := time.Now()
		repos, err := deps.Hub.Search(ctx, repoType, input.Query, limit)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpHubRequest, time.Since(start), err != nil)
		}
		if err != nil {
			deps.Logger.Error("hub search failed", "query", input.Query, "error", err)
			return ErrorResult("Hub search failed", "Check network connection and search terms"), nil, nil
		}

		lines := make([]string, 0, len(repos))
		for _, r := range repos {
			lines = append(lines, formatRepoLine(repoType, r))
		}
		deps.Logger.Info("hub search completed", "query", input.Query, "type", repoType, "results", len(repos))
		return TextResult(fmt.Sprintf("Found %d %ss:\n\n%s", len(repos), repoType, FormatResults(lines))), nil, nil
	}
}

func formatRepoLine(repoType hub.RepoType, r hub.Repo) string {
	switch repoType {
	case hub.RepoSpace:
		sdk := r.SDK
		if sdk == "" {
			sdk = "N/A"
		}
		return fmt.Sprintf("**%s** - %s", r.ID, sdk)
	case hub.RepoDataset:
		return fmt.Sprintf("**%s** (down %d)", r.ID, r.Downloads)
	default:
		task := r.PipelineTag
		if task == "" {
			task = "N/A"
		}
		return fmt.Sprintf("**%s** (down %d) - %s", r.ID, r.Downloads, task)
	}
}

// CompareModelsInput defines the input schema for the compare_models tool.
type CompareModelsInput struct {
	ModelIDs []string `json:"model_ids" jsonschema:"required,Models to compare"`
}

// NewCompareModelsHandler creates the compare_models tool handler. Produces
// a downloads-sorted table with basic recommendations.
func NewCompareModelsHandler(deps *Dependencies) mcp.ToolHandlerFor[CompareModelsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompareModelsInput) (
		*mcp.CallToolResult, any, error,
	) {
		if len(input.ModelIDs) == 0 {
			return ErrorResult("At least one model id is required", ""), nil, nil
		}

		repos := make([]hub.Repo, 0, len(input.ModelIDs))
		for _, id := range input.ModelIDs {
			start := time.Now()
			repo, err := deps.Hub.Info(ctx, hub.RepoModel, id)
			if deps.Metrics != nil {
				deps.Metrics.Record(metrics.OpHubRequest, time.Since(start), err != nil)
			}
			if err != nil {
				return ErrorResult(fmt.Sprintf("Model %s not found or inaccessible", id), "Check model id spelling and availability"), nil, nil
			}
			repos = append(repos, repo)
		}

		sort.Slice(repos, func(i, j int) bool { return repos[i].Downloads > repos[j].Downloads })

		var b strings.Builder
		b.WriteString("Model Comparison:\n\n")
		fmt.Fprintf(&b, "%-40s %-12s %-24s %-8s\n", "Model", "Downloads", "Task", "Likes")
		b.WriteString(strings.Repeat("-", 88) + "\n")
		for _, r := range repos {
			task := r.PipelineTag
			if task == "" {
				task = "unknown"
			}
			fmt.Fprintf(&b, "%-40s %-12d %-24s %-8d\n", r.ID, r.Downloads, task, r.Likes)
		}
		fmt.Fprintf(&b, "\nRecommendations:\n- Most popular: %s (%d downloads)\n", repos[0].ID, repos[0].Downloads)

		return TextResult(b.String()), nil, nil
	}
}

// HubDownloadInput defines the input schema for the hub_download tool.
type HubDownloadInput struct {
	RepoID   string `json:"repo_id" jsonschema:"required,Repository id like bert-base-uncased"`
	Filename string `json:"filename" jsonschema:"required,File to download"`
	LocalDir string `json:"local_dir,omitempty" jsonschema:"Local directory to save to, default ."`
}

// NewHubDownloadHandler creates the hub_download tool handler.
func NewHubDownloadHandler(deps *Dependencies) mcp.ToolHandlerFor[HubDownloadInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input HubDownloadInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.RepoID == "" || input.Filename == "" {
			return ErrorResult("repo_id and filename are required", ""), nil, nil
		}

		start := time.Now()
		dest, err := deps.Hub.Download(ctx, input.RepoID, input.Filename, input.LocalDir)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpHubRequest, time.Since(start), err != nil)
		}
		if err != nil {
			return ErrorResult(fmt.Sprintf("Download failed: %v", err), "Check the repo id and filename exist"), nil, nil
		}
		return TextResult(fmt.Sprintf("Downloaded %s from %s to %s", input.Filename, input.RepoID, dest)), nil, nil
	}
}

// InferenceRunInput defines the input schema for the inference_api_run tool.
type InferenceRunInput struct {
	ModelID    string         `json:"model_id" jsonschema:"required,Model id to run"`
	Inputs     string         `json:"inputs" jsonschema:"required,Input text for the model"`
	Parameters map[string]any `json:"parameters,omitempty" jsonschema:"Optional inference parameters"`
}

// NewInferenceRunHandler creates the inference_api_run tool handler. Calls
// the serverless Inference API so no local model weights are needed.
func NewInferenceRunHandler(deps *Dependencies) mcp.ToolHandlerFor[InferenceRunInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input InferenceRunInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.ModelID == "" || input.Inputs == "" {
			return ErrorResult("model_id and inputs are required", ""), nil, nil
		}

		start := time.Now()
		raw, err := deps.Hub.Infer(ctx, input.ModelID, input.Inputs, input.Parameters)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpHubRequest, time.Since(start), err != nil)
		}
		if err != nil {
			deps.Logger.Error("inference request failed", "model_id", input.ModelID, "error", err)
			return ErrorResult(fmt.Sprintf("Inference API request failed: %v", err),
				"Check model availability and API limits"), nil, nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(raw)
		}
		return TextResult(fmt.Sprintf("Inference result:\n```json\n%s\n```", pretty.String())), nil, nil
	}
}

// RepoCreateInput defines the input schema for the hf_repo_create tool.
type RepoCreateInput struct {
	RepoID   string `json:"repo_id" jsonschema:"required,Repository id to create"`
	RepoType string `json:"repo_type,omitempty" jsonschema:"model or dataset, default model"`
	Private  bool   `json:"private,omitempty" jsonschema:"Create as a private repository"`
}

// NewRepoCreateHandler creates the hf_repo_create tool handler.
func NewRepoCreateHandler(deps *Dependencies) mcp.ToolHandlerFor[RepoCreateInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RepoCreateInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.RepoID == "" {
			return ErrorResult("repo_id is required", ""), nil, nil
		}

		repoType := hub.RepoModel
		if input.RepoType != "" {
			var err error
			repoType, err = hub.ParseRepoType(input.RepoType)
			if err != nil || repoType == hub.RepoSpace {
				return ErrorResult(fmt.Sprintf("Invalid repo type %q", input.RepoType), "Use model or dataset"), nil, nil
			}
		}

		start := time.Now()
		err := deps.Hub.CreateRepo(ctx, repoType, input.RepoID, input.Private)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpHubRequest, time.Since(start), err != nil)
		}
		if err != nil {
			deps.Logger.Error("repo create failed", "repo_id", input.RepoID, "error", err)
			return ErrorResult(fmt.Sprintf("Repository creation failed: %v", err),
				"Check token permissions and that the repo does not already exist"), nil, nil
		}

		deps.Logger.Info("repo created", "repo_id", input.RepoID, "type", repoType, "private", input.Private)
		return TextResult(fmt.Sprintf("Created %s repository: %s", repoType, input.RepoID)), nil, nil
	}
}

// UploadFileInput defines the input schema for the hf_upload_file tool.
type UploadFileInput struct {
	RepoID        string `json:"repo_id" jsonschema:"required,Target repository id"`
	LocalPath     string `json:"local_path" jsonschema:"required,Local file to upload"`
	PathInRepo    string `json:"path_in_repo" jsonschema:"required,Destination path inside the repository"`
	CommitMessage string `json:"commit_message,omitempty" jsonschema:"Commit message for the upload"`
}

// NewUploadFileHandler creates the hf_upload_file tool handler.
func NewUploadFileHandler(deps *Dependencies) mcp.ToolHandlerFor[UploadFileInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input UploadFileInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.RepoID == "" || input.LocalPath == "" || input.PathInRepo == "" {
			return ErrorResult("repo_id, local_path and path_in_repo are required", ""), nil, nil
		}

		message := input.CommitMessage
		if message == "" {
			message = "Upload file via MCP"
		}

		start := time.Now()
		err := deps.Hub.UploadFile(ctx, input.RepoID, input.LocalPath, input.PathInRepo, message)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpHubRequest, time.Since(start), err != nil)
		}
		if err != nil {
			deps.Logger.Error("file upload failed", "repo_id", input.RepoID, "path", input.PathInRepo, "error", err)
			return ErrorResult(fmt.Sprintf("Upload failed: %v", err),
				"Check the local path exists and the token can write to the repo"), nil, nil
		}

		return TextResult(fmt.Sprintf("Uploaded %s to %s/%s", input.LocalPath, input.RepoID, input.PathInRepo)), nil, nil
	}
}

// hubResources lists the browsable Hub collections exposed as MCP resources.
var hubResources = []struct {
	uri, name, description string
	repoType               hub.RepoType
}{
	{"hf://models", "Hugging Face Models", "Browse models on Hugging Face Hub", hub.RepoModel},
	{"hf://datasets", "Hugging Face Datasets", "Browse datasets on Hugging Face Hub", hub.RepoDataset},
	{"hf://spaces", "Hugging Face Spaces", "Browse Spaces (demo apps) on Hugging Face Hub", hub.RepoSpace},
}

// AddHubResources registers the hf:// listing resources.
func AddHubResources(server *mcp.Server, deps *Dependencies) {
	for _, res := range hubResources {
		repoType := res.repoType
		uri := res.uri
		server.AddResource(&mcp.Resource{
			URI:         res.uri,
			Name:        res.name,
			Description: res.description,
			MIMEType:    "application/json",
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			repos, err := deps.Hub.List(ctx, repoType, 20)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", repoType, err)
			}
			body, err := json.MarshalIndent(repos, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: uri, MIMEType: "application/json", Text: string(body)},
				},
			}, nil
		})
	}
}
