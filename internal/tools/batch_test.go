package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcptools/mcptools-go/internal/jobs"
)

// okTransformer succeeds on everything except inputs listed in failOn.
type okTransformer struct {
	failOn map[string]bool
}

func (f *okTransformer) Transform(ctx context.Context, in, out string, op jobs.Operation, params map[string]any) error {
	if f.failOn[in] {
		return fmt.Errorf("transform failed")
	}
	return nil
}

func (f *okTransformer) OutputName(in string, op jobs.Operation, params map[string]any) string {
	return filepath.Base(in)
}

func batchDeps(t *testing.T, codec jobs.Transformer) *Dependencies {
	t.Helper()
	registry := jobs.NewRegistry(0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Dependencies{
		Jobs:   registry,
		Runner: jobs.NewRunner(registry, codec, 0, logger),
		Logger: logger,
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
}

func TestBatchProcessValidation(t *testing.T) {
	deps := batchDeps(t, &okTransformer{})
	handler := NewBatchProcessHandler(deps)

	res, _, err := handler(context.Background(), nil, BatchProcessInput{
		Operation:       "resize",
		OutputDirectory: t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Pattern cannot be empty")

	res, _, err = handler(context.Background(), nil, BatchProcessInput{
		Pattern:         "*.jpg",
		Operation:       "sharpen",
		OutputDirectory: t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unknown operation")
}

func TestBatchProcessNoMatchesCreatesNoJob(t *testing.T) {
	deps := batchDeps(t, &okTransformer{})
	handler := NewBatchProcessHandler(deps)

	pattern := filepath.Join(t.TempDir(), "*.jpg")
	res, _, err := handler(context.Background(), nil, BatchProcessInput{
		Pattern:         pattern,
		Operation:       "resize",
		OutputDirectory: t.TempDir(),
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "No files matched")

	// The job listing is unchanged.
	assert.Empty(t, deps.Jobs.List())
}

func TestBatchProcessAndStatus(t *testing.T) {
	deps := batchDeps(t, &okTransformer{})
	in := t.TempDir()
	writeFiles(t, in, "a.jpg", "b.jpg", "c.jpg")

	res, _, err := NewBatchProcessHandler(deps)(context.Background(), nil, BatchProcessInput{
		Pattern:         filepath.Join(in, "*.jpg"),
		Operation:       "resize",
		OutputDirectory: t.TempDir(),
		Parameters:      map[string]any{"width": float64(320)},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "3 files")

	all := deps.Jobs.List()
	require.Len(t, all, 1)
	id := all[0].ID

	statusHandler := NewGetBatchStatusHandler(deps)
	require.Eventually(t, func() bool {
		job, err := deps.Jobs.Get(id)
		return err == nil && job.Status.Terminal()
	}, 2*time.Second, 5*time.Millisecond)

	res, _, err = statusHandler(context.Background(), nil, GetBatchStatusInput{JobID: id})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
	assert.Equal(t, id, summary["id"])
	assert.Equal(t, "completed", summary["status"])
	assert.Equal(t, float64(100), summary["progress"])
	assert.Len(t, summary["files"], 3)

	// Listing all jobs omits per-file detail.
	res, _, err = statusHandler(context.Background(), nil, GetBatchStatusInput{})
	require.NoError(t, err)
	var listing []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &listing))
	require.Len(t, listing, 1)
	assert.NotContains(t, listing[0], "files")
}

func TestGetBatchStatusUnknownJob(t *testing.T) {
	deps := batchDeps(t, &okTransformer{})

	res, _, err := NewGetBatchStatusHandler(deps)(context.Background(), nil, GetBatchStatusInput{JobID: "deadbeef"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Job not found: deadbeef")
}

func TestCancelBatchUnknownJob(t *testing.T) {
	deps := batchDeps(t, &okTransformer{})

	res, _, err := NewCancelBatchHandler(deps)(context.Background(), nil, CancelBatchInput{JobID: "deadbeef"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Job not found")

	res, _, err = NewCancelBatchHandler(deps)(context.Background(), nil, CancelBatchInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
