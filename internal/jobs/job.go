// Package jobs implements the batch-processing job subsystem: an in-memory
// registry of asynchronous multi-file jobs with per-file status tracking and
// polling-based progress retrieval.
package jobs

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Operation identifies a per-file media transformation.
type Operation string

const (
	OpResize    Operation = "resize"
	OpConvert   Operation = "convert"
	OpWatermark Operation = "watermark"
	OpCompress  Operation = "compress"
)

// ParseOperation validates a user-supplied operation name.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpResize, OpConvert, OpWatermark, OpCompress:
		return Operation(s), nil
	}
	return "", fmt.Errorf("unknown operation %q (expected resize, convert, watermark, or compress)", s)
}

// Status represents the lifecycle state of a batch job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Terminal reports whether no further mutation of the job can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// FileStatus represents the per-file processing state.
// Transitions are strictly forward: pending -> processing -> completed|failed.
type FileStatus string

const (
	FilePending    FileStatus = "pending"
	FileProcessing FileStatus = "processing"
	FileCompleted  FileStatus = "completed"
	FileFailed     FileStatus = "failed"
)

// FileEntry is the status record for one input file of a job.
type FileEntry struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// Job is an immutable snapshot of one batch job. Snapshots are what readers
// get; live records are owned by the Registry and never escape it.
type Job struct {
	ID        string
	Operation Operation
	Status    Status
	Total     int
	Completed int
	Failed    int
	Progress  int
	StartedAt time.Time
	EndedAt   *time.Time
	Duration  time.Duration
	Files     []FileEntry
}

// record is the live, registry-owned state of a job. All mutation goes
// through Registry methods while holding the registry lock.
type record struct {
	id        string
	operation Operation
	status    Status
	total     int
	completed int
	failed    int
	progress  int
	startedAt time.Time
	endedAt   *time.Time
	duration  time.Duration
	files     []FileEntry

	// cancel signals the runner goroutine to stop between files.
	cancel context.CancelFunc
}

func (rec *record) snapshot() Job {
	files := make([]FileEntry, len(rec.files))
	copy(files, rec.files)

	var ended *time.Time
	if rec.endedAt != nil {
		t := *rec.endedAt
		ended = &t
	}

	return Job{
		ID:        rec.id,
		Operation: rec.operation,
		Status:    rec.status,
		Total:     rec.total,
		Completed: rec.completed,
		Failed:    rec.failed,
		Progress:  rec.progress,
		StartedAt: rec.startedAt,
		EndedAt:   ended,
		Duration:  rec.duration,
		Files:     files,
	}
}

// recomputeProgress derives the rounded completion percentage.
func (rec *record) recomputeProgress() {
	if rec.total == 0 {
		rec.progress = 100
		return
	}
	rec.progress = int(math.Round(float64(rec.completed+rec.failed) / float64(rec.total) * 100))
}

// finalize stamps the end time and duration. Caller decides the terminal status.
func (rec *record) finalize(status Status) {
	rec.status = status
	now := time.Now()
	rec.endedAt = &now
	rec.duration = now.Sub(rec.startedAt)
}
