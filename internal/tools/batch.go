package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcptools/mcptools-go/internal/jobs"
)

// BatchProcessInput defines the input schema for the batch_process tool.
type BatchProcessInput struct {
	Pattern         string         `json:"pattern" jsonschema:"required,Glob pattern selecting input files"`
	Operation       string         `json:"operation" jsonschema:"required,One of: resize convert watermark compress"`
	OutputDirectory string         `json:"output_directory" jsonschema:"required,Directory processed files are written to"`
	Parameters      map[string]any `json:"parameters,omitempty" jsonschema:"Operation parameters merged over the defaults"`
}

// NewBatchProcessHandler creates the batch_process tool handler. It allocates
// a job and returns immediately; progress is observable via get_batch_status.
func NewBatchProcessHandler(deps *Dependencies) mcp.ToolHandlerFor[BatchProcessInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input BatchProcessInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Pattern == "" {
			return ErrorResult("Pattern cannot be empty", "Provide a glob pattern like ./photos/*.jpg"), nil, nil
		}

		op, err := jobs.ParseOperation(input.Operation)
		if err != nil {
			return ErrorResult(err.Error(), "Use resize, convert, watermark, or compress"), nil, nil
		}

		files, err := doublestar.FilepathGlob(input.Pattern)
		if err != nil {
			return ErrorResult(fmt.Sprintf("Invalid glob pattern %q: %v", input.Pattern, err), "Check the pattern syntax"), nil, nil
		}
		if len(files) == 0 {
			// Not an error: report it and create no job.
			return TextResult(fmt.Sprintf("No files matched pattern %q", input.Pattern)), nil, nil
		}

		id, err := deps.Runner.Submit(files, op, input.OutputDirectory, input.Parameters)
		if err != nil {
			return ErrorResult(fmt.Sprintf("Batch submission failed: %v", err), "Check the output directory is writable"), nil, nil
		}

		return TextResult(fmt.Sprintf(
			"Started batch %s job %s for %d files. Poll get_batch_status with this id for progress.",
			op, id, len(files),
		)), nil, nil
	}
}

// GetBatchStatusInput defines the input schema for the get_batch_status tool.
type GetBatchStatusInput struct {
	JobID string `json:"job_id,omitempty" jsonschema:"Job id to inspect; omit to list all jobs"`
}

// jobSummary is the JSON shape reported for one job.
type jobSummary struct {
	ID        string           `json:"id"`
	Operation string           `json:"operation"`
	Status    string           `json:"status"`
	Progress  int              `json:"progress"`
	Completed int              `json:"completed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	Duration  string           `json:"duration"`
	Files     []jobs.FileEntry `json:"files,omitempty"`
}

func summarize(job jobs.Job, withFiles bool) jobSummary {
	duration := "in progress"
	if job.Status.Terminal() {
		duration = fmt.Sprintf("%.1fs", job.Duration.Seconds())
	}
	s := jobSummary{
		ID:        job.ID,
		Operation: string(job.Operation),
		Status:    string(job.Status),
		Progress:  job.Progress,
		Completed: job.Completed,
		Failed:    job.Failed,
		Total:     job.Total,
		Duration:  duration,
	}
	if withFiles {
		s.Files = job.Files
	}
	return s
}

// NewGetBatchStatusHandler creates the get_batch_status tool handler.
// With a job id it reports that job including per-file detail; without one
// it lists every job in submission order.
func NewGetBatchStatusHandler(deps *Dependencies) mcp.ToolHandlerFor[GetBatchStatusInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetBatchStatusInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.JobID != "" {
			job, err := deps.Jobs.Get(input.JobID)
			if err != nil {
				if errors.Is(err, jobs.ErrJobNotFound) {
					return ErrorResult(fmt.Sprintf("Job not found: %s", input.JobID), "Use get_batch_status without an id to list known jobs"), nil, nil
				}
				return ErrorResult(fmt.Sprintf("Status lookup failed: %v", err), ""), nil, nil
			}
			out, _ := json.MarshalIndent(summarize(job, true), "", "  ")
			return TextResult(string(out)), nil, nil
		}

		all := deps.Jobs.List()
		summaries := make([]jobSummary, 0, len(all))
		for _, job := range all {
			summaries = append(summaries, summarize(job, false))
		}
		out, _ := json.MarshalIndent(summaries, "", "  ")
		return TextResult(string(out)), nil, nil
	}
}

// CancelBatchInput defines the input schema for the cancel_batch tool.
type CancelBatchInput struct {
	JobID string `json:"job_id" jsonschema:"required,Job id to cancel"`
}

// NewCancelBatchHandler creates the cancel_batch tool handler. Cancellation
// is cooperative: the runner stops between files, and remaining entries are
// marked failed.
func NewCancelBatchHandler(deps *Dependencies) mcp.ToolHandlerFor[CancelBatchInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CancelBatchInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.JobID == "" {
			return ErrorResult("Job id is required", ""), nil, nil
		}
		if err := deps.Jobs.Cancel(input.JobID); err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				return ErrorResult(fmt.Sprintf("Job not found: %s", input.JobID), "Use get_batch_status without an id to list known jobs"), nil, nil
			}
			return ErrorResult(fmt.Sprintf("Cancel failed: %v", err), ""), nil, nil
		}
		return TextResult(fmt.Sprintf("Cancellation requested for job %s; it stops after the file in flight.", input.JobID)), nil, nil
	}
}
