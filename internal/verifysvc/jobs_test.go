package verifysvc

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mjpearson/pagedfile/core/pagedfile"
)

func TestJobStoreVerifiesCleanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.dat")
	cf, err := pagedfile.Open(path, pagedfile.ModeReadWrite, pagedfile.PolicyAll)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data := make([]byte, pagedfile.LogicalPageSize*3+10)
	if err := cf.Write(data, uint64(len(data))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := cf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store := NewJobStore()
	job := store.Create(path, pagedfile.PolicyAll, nil)

	job = waitForCompletion(t, store, job.ID)
	if job.Status != JobStatusCompleted {
		t.Fatalf("job status = %s, want %s (err=%s)", job.Status, JobStatusCompleted, job.Error)
	}
	if job.PagesBad != 0 {
		t.Errorf("PagesBad = %d, want 0", job.PagesBad)
	}
	if job.Progress != 100 {
		t.Errorf("Progress = %d, want 100", job.Progress)
	}
}

func TestJobStoreFailsOnMissingFile(t *testing.T) {
	store := NewJobStore()
	job := store.Create(filepath.Join(t.TempDir(), "does-not-exist.dat"), pagedfile.PolicyAll, nil)

	job = waitForCompletion(t, store, job.ID)
	if job.Status != JobStatusFailed {
		t.Fatalf("job status = %s, want %s", job.Status, JobStatusFailed)
	}
	if job.Error == "" {
		t.Errorf("expected Error to be set")
	}
}

func waitForCompletion(t *testing.T, store *JobStore, id string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := store.Get(id)
		if !ok {
			t.Fatalf("job %s not found", id)
		}
		if job.Status == JobStatusCompleted || job.Status == JobStatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return nil
}
