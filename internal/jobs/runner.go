package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Transformer is the media-codec collaborator applied to each file.
// Implementations must be safe for concurrent use across jobs.
type Transformer interface {
	// Transform applies op to inputPath and writes the result to outputPath.
	Transform(ctx context.Context, inputPath, outputPath string, op Operation, params map[string]any) error

	// OutputName reports the base name Transform will produce for input.
	// Operations that rewrite the extension (convert) must account for it
	// here so collision handling sees the name that actually lands on disk.
	OutputName(input string, op Operation, params map[string]any) string
}

// Runner executes batch jobs without blocking the submitter. Per-file work
// runs on a goroutine per job; files within one job are strictly sequential.
type Runner struct {
	registry *Registry
	codec    Transformer
	logger   *slog.Logger

	// sem caps concurrently running jobs when non-nil.
	sem chan struct{}
}

// NewRunner creates a runner. maxActive caps concurrently running jobs;
// 0 means uncapped.
func NewRunner(registry *Registry, codec Transformer, maxActive int, logger *slog.Logger) *Runner {
	var sem chan struct{}
	if maxActive > 0 {
		sem = make(chan struct{}, maxActive)
	}
	return &Runner{
		registry: registry,
		codec:    codec,
		logger:   logger,
		sem:      sem,
	}
}

// Submit allocates a job for the given files and returns its id immediately.
// Processing happens in the background; progress is observable only through
// the registry. Submission-time failures create no job.
func (r *Runner) Submit(files []string, op Operation, outputDir string, params map[string]any) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no input files")
	}
	if outputDir == "" {
		return "", fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	id := r.registry.Create(op, files)

	ctx, cancel := context.WithCancel(context.Background())
	r.registry.bindCancel(id, cancel)

	go r.run(ctx, cancel, id, files, op, outputDir, params)

	r.logger.Info("batch job submitted", "job_id", id, "operation", op, "files", len(files), "output_dir", outputDir)
	return id, nil
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, id string, files []string, op Operation, outputDir string, params map[string]any) {
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("batch job goroutine panicked", "job_id", id, "panic", rec)
			r.registry.abort(id, fmt.Sprintf("batch aborted: %v", rec))
		}
	}()

	if r.sem != nil {
		select {
		case r.sem <- struct{}{}:
			defer func() { <-r.sem }()
		case <-ctx.Done():
			r.registry.abort(id, "batch canceled")
			return
		}
	}

	used := make(map[string]int, len(files))
	for i, in := range files {
		if ctx.Err() != nil {
			r.logger.Info("batch job canceled", "job_id", id, "processed", i, "total", len(files))
			r.registry.abort(id, "batch canceled")
			return
		}

		r.registry.fileProcessing(id, i)

		out := outputPath(outputDir, r.codec.OutputName(in, op, params), used)
		err := r.codec.Transform(ctx, in, out, op, params)
		if err != nil {
			// Failure isolation: record it and keep going with the next file.
			r.logger.Warn("file transform failed", "job_id", id, "input", in, "error", err)
		}
		r.registry.fileDone(id, i, err)
	}

	job, err := r.registry.Get(id)
	if err != nil {
		return
	}
	r.logger.Info("batch job finished",
		"job_id", id,
		"status", job.Status,
		"completed", job.Completed,
		"failed", job.Failed,
		"duration_ms", job.Duration.Milliseconds(),
	)
}

// outputPath joins a produced base name to the output directory. When two
// inputs in the same batch produce the same name, later files get a
// -1, -2, ... suffix before the extension instead of silently overwriting.
func outputPath(dir, base string, used map[string]int) string {
	n := used[base]
	used[base] = n + 1
	if n == 0 {
		return filepath.Join(dir, base)
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
}
