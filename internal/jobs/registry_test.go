package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry(0)

	id := r.Create(OpResize, []string{"a.jpg", "b.jpg", "c.jpg"})
	require.NotEmpty(t, id)
	assert.Len(t, id, 8)

	job, err := r.Get(id)
	require.NoError(t, err)

	assert.Equal(t, id, job.ID)
	assert.Equal(t, OpResize, job.Operation)
	assert.Equal(t, StatusRunning, job.Status)
	assert.Equal(t, 3, job.Total)
	assert.Equal(t, 0, job.Completed)
	assert.Equal(t, 0, job.Failed)
	assert.Equal(t, 0, job.Progress)
	assert.Nil(t, job.EndedAt)

	require.Len(t, job.Files, 3)
	for i, f := range job.Files {
		assert.Equal(t, FilePending, f.Status, "file %d", i)
		assert.Empty(t, f.Error)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(0)

	_, err := r.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestRegistryListSubmissionOrder(t *testing.T) {
	r := NewRegistry(0)

	first := r.Create(OpConvert, []string{"a.png"})
	second := r.Create(OpCompress, []string{"b.png"})
	third := r.Create(OpWatermark, []string{"c.png"})

	got := r.List()
	require.Len(t, got, 3)
	assert.Equal(t, first, got[0].ID)
	assert.Equal(t, second, got[1].ID)
	assert.Equal(t, third, got[2].ID)
}

func TestRegistryFileDoneCountersAndProgress(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create(OpResize, []string{"a.jpg", "b.jpg", "c.jpg"})

	r.fileProcessing(id, 0)
	job, _ := r.Get(id)
	assert.Equal(t, FileProcessing, job.Files[0].Status)

	r.fileDone(id, 0, nil)
	job, _ = r.Get(id)
	assert.Equal(t, 1, job.Completed)
	assert.Equal(t, 33, job.Progress) // round(1/3*100)
	assert.Equal(t, StatusRunning, job.Status)

	r.fileProcessing(id, 1)
	r.fileDone(id, 1, errors.New("corrupt header"))
	job, _ = r.Get(id)
	assert.Equal(t, 1, job.Completed)
	assert.Equal(t, 1, job.Failed)
	assert.Equal(t, 67, job.Progress) // round(2/3*100)
	assert.Equal(t, FileFailed, job.Files[1].Status)
	assert.Equal(t, "corrupt header", job.Files[1].Error)

	r.fileProcessing(id, 2)
	r.fileDone(id, 2, nil)
	job, _ = r.Get(id)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.EndedAt)
	assert.LessOrEqual(t, job.Completed+job.Failed, job.Total)
}

func TestRegistryAbortMarksRemainingFailed(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create(OpConvert, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"})

	r.fileProcessing(id, 0)
	r.fileDone(id, 0, nil)
	r.fileProcessing(id, 1)

	r.abort(id, "batch canceled")

	job, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, job.Status)
	assert.Equal(t, 1, job.Completed)
	assert.Equal(t, 3, job.Failed)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, job.Total, job.Completed+job.Failed)

	// File 0 keeps its completed outcome; the rest carry the abort reason.
	assert.Equal(t, FileCompleted, job.Files[0].Status)
	for _, f := range job.Files[1:] {
		assert.Equal(t, FileFailed, f.Status)
		assert.Equal(t, "batch canceled", f.Error)
	}

	// Aborting a terminal job changes nothing.
	r.abort(id, "again")
	again, _ := r.Get(id)
	assert.Equal(t, job.Failed, again.Failed)
}

func TestRegistryCancelUnknown(t *testing.T) {
	r := NewRegistry(0)
	err := r.Cancel("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create(OpResize, []string{"a.jpg"})

	job, err := r.Get(id)
	require.NoError(t, err)

	// Mutating the snapshot must not leak into the registry.
	job.Files[0].Status = FileFailed
	job.Files[0].Error = "tampered"

	fresh, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, FilePending, fresh.Files[0].Status)
	assert.Empty(t, fresh.Files[0].Error)
}

func TestRegistryRetentionEviction(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)

	done := r.Create(OpCompress, []string{"a.jpg"})
	r.fileProcessing(done, 0)
	r.fileDone(done, 0, nil)

	running := r.Create(OpCompress, []string{"b.jpg"})

	time.Sleep(25 * time.Millisecond)

	got := r.List()
	require.Len(t, got, 1)
	assert.Equal(t, running, got[0].ID)

	_, err := r.Get(done)
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestRegistryZeroRetentionKeepsJobs(t *testing.T) {
	r := NewRegistry(0)

	id := r.Create(OpResize, []string{"a.jpg"})
	r.fileProcessing(id, 0)
	r.fileDone(id, 0, nil)

	time.Sleep(5 * time.Millisecond)
	assert.Len(t, r.List(), 1)
}
