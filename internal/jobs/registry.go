package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound indicates a status or cancel request for an unknown job id.
// Non-fatal: callers report it and carry on.
var ErrJobNotFound = errors.New("job not found")

// Registry is the process-wide authoritative store of all batch jobs, keyed
// by identifier. It owns every record; mutation happens only through its
// synchronized methods, and readers receive snapshots.
type Registry struct {
	mu        sync.RWMutex
	jobs      map[string]*record
	order     []string // submission order
	retention time.Duration
}

// NewRegistry creates a registry. Terminal jobs older than retention are
// evicted; retention 0 keeps jobs for the process lifetime.
func NewRegistry(retention time.Duration) *Registry {
	return &Registry{
		jobs:      make(map[string]*record),
		retention: retention,
	}
}

// Create allocates a new running job for the given files and returns its id.
func (r *Registry) Create(op Operation, files []string) string {
	entries := make([]FileEntry, len(files))
	for i, f := range files {
		entries[i] = FileEntry{Path: f, Status: FilePending}
	}

	rec := &record{
		id:        uuid.New().String()[:8], // short id for convenience
		operation: op,
		status:    StatusRunning,
		total:     len(files),
		startedAt: time.Now(),
		files:     entries,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpiredLocked()
	r.jobs[rec.id] = rec
	r.order = append(r.order, rec.id)
	return rec.id
}

// Get returns a snapshot of one job, or ErrJobNotFound.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return rec.snapshot(), nil
}

// List returns snapshots of all jobs in submission order.
func (r *Registry) List() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpiredLocked()

	out := make([]Job, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.jobs[id].snapshot())
	}
	return out
}

// Cancel signals the job's runner to stop between files. Canceling a
// terminal job is a no-op.
func (r *Registry) Cancel(id string) error {
	r.mu.Lock()
	rec, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	cancel := rec.cancel
	terminal := rec.status.Terminal()
	r.mu.Unlock()

	if !terminal && cancel != nil {
		cancel()
	}
	return nil
}

// bindCancel attaches the runner's cancellation handle to a job.
func (r *Registry) bindCancel(id string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.jobs[id]; ok {
		rec.cancel = cancel
	}
}

// fileProcessing marks the file at idx as being worked on.
func (r *Registry) fileProcessing(id string, idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || idx < 0 || idx >= len(rec.files) {
		return
	}
	if rec.files[idx].Status == FilePending {
		rec.files[idx].Status = FileProcessing
	}
}

// fileDone records a terminal per-file outcome, advances the counters,
// recomputes progress, and finalizes the job once every entry is terminal.
func (r *Registry) fileDone(id string, idx int, ferr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || idx < 0 || idx >= len(rec.files) {
		return
	}

	if ferr != nil {
		rec.files[idx].Status = FileFailed
		rec.files[idx].Error = ferr.Error()
		rec.failed++
	} else {
		rec.files[idx].Status = FileCompleted
		rec.completed++
	}
	rec.recomputeProgress()

	if rec.completed+rec.failed == rec.total && !rec.status.Terminal() {
		rec.finalize(StatusCompleted)
	}
}

// abort marks every non-terminal entry failed with the given reason so
// completed+failed == total holds, then finalizes the job as canceled.
func (r *Registry) abort(id, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.status.Terminal() {
		return
	}

	for i := range rec.files {
		switch rec.files[i].Status {
		case FilePending, FileProcessing:
			rec.files[i].Status = FileFailed
			rec.files[i].Error = reason
			rec.failed++
		}
	}
	rec.recomputeProgress()
	rec.finalize(StatusCanceled)
}

// evictExpiredLocked drops terminal jobs past the retention age.
// Caller must hold the write lock.
func (r *Registry) evictExpiredLocked() {
	if r.retention <= 0 {
		return
	}

	cutoff := time.Now().Add(-r.retention)
	kept := r.order[:0]
	for _, id := range r.order {
		rec := r.jobs[id]
		if rec.status.Terminal() && rec.endedAt != nil && rec.endedAt.Before(cutoff) {
			delete(r.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
}
