// Package verifysvc runs asynchronous checksum-verification jobs over a
// pagedfile.CheckedFile and streams their progress to WebSocket clients.
package verifysvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mjpearson/pagedfile/core/checkederrs"
	"github.com/mjpearson/pagedfile/core/pagedfile"
)

// JobStatus represents the current state of a verification job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job tracks one asynchronous full-file verification pass.
type Job struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"` // 0-100
	PagesOK     int       `json:"pages_ok"`
	PagesBad    int       `json:"pages_bad"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	CompletedAt string    `json:"completed_at,omitempty"`
}

// JobStore manages verification jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates an empty job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Create starts a new verification job for path and returns it immediately;
// the verification itself runs in the background.
func (s *JobStore) Create(path string, policy pagedfile.ChecksumPolicy, hub *Hub) *Job {
	s.mu.Lock()
	now := time.Now().UTC().Format(time.RFC3339)
	job := &Job{
		ID:        uuid.New().String(),
		Path:      path,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.run(job, policy, hub)
	return job
}

// Get retrieves a job by ID.
func (s *JobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// List returns every tracked job.
func (s *JobStore) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

func (s *JobStore) update(job *Job, fn func(*Job)) {
	s.mu.Lock()
	fn(job)
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	s.mu.Unlock()
}

// run verifies every physical page of the file at job.Path, reading it one
// page at a time from the start. The policy argument is not used: the file
// is always opened with PolicyAll, since the job's purpose is to surface
// every bad page, not to sample them.
func (s *JobStore) run(job *Job, policy pagedfile.ChecksumPolicy, hub *Hub) {
	s.update(job, func(j *Job) { j.Status = JobStatusRunning })
	if hub != nil {
		hub.Broadcast(job.ID, ProgressMessage{Type: "progress", Progress: 0, Message: "starting"})
	}

	cf, err := pagedfile.Open(job.Path, pagedfile.ModeRead, pagedfile.PolicyAll)
	if err != nil {
		s.fail(job, hub, err)
		return
	}
	defer cf.Close()

	total := cf.Length(pagedfile.Logical)
	chunk := uint64(pagedfile.LogicalPageSize)
	buf := make([]byte, chunk)

	var read uint64
	for read < total {
		n := chunk
		if remaining := total - read; remaining < n {
			n = remaining
		}
		if err := cf.Read(buf[:n], n); err != nil {
			var badSum *checkederrs.BadChecksumError
			if errorsAsBadChecksum(err, &badSum) {
				s.update(job, func(j *Job) { j.PagesBad++ })
				if hub != nil {
					hub.Broadcast(job.ID, ProgressMessage{
						Type: "progress", Progress: percent(read, total),
						Message: fmt.Sprintf("bad checksum at page %d", badSum.Page),
					})
				}
				// A failed Read leaves the cursor where it was; step past the bad page.
				if _, err := cf.Seek(int64(read+n), pagedfile.SeekStart, pagedfile.Logical); err != nil {
					s.fail(job, hub, err)
					return
				}
			} else {
				s.fail(job, hub, err)
				return
			}
		} else {
			s.update(job, func(j *Job) { j.PagesOK++ })
		}
		read += n

		progress := percent(read, total)
		s.update(job, func(j *Job) { j.Progress = progress })
		if hub != nil {
			hub.Broadcast(job.ID, ProgressMessage{Type: "progress", Progress: progress})
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	s.update(job, func(j *Job) {
		j.Status = JobStatusCompleted
		j.Progress = 100
		j.CompletedAt = now
	})
	if hub != nil {
		hub.Broadcast(job.ID, ProgressMessage{Type: "complete", Progress: 100})
	}
}

func (s *JobStore) fail(job *Job, hub *Hub, err error) {
	now := time.Now().UTC().Format(time.RFC3339)
	s.update(job, func(j *Job) {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		j.CompletedAt = now
	})
	if hub != nil {
		hub.Broadcast(job.ID, ProgressMessage{Type: "error", Message: err.Error()})
	}
}

func percent(done, total uint64) int {
	if total == 0 {
		return 100
	}
	return int(done * 100 / total)
}

// errorsAsBadChecksum is a thin wrapper around checkederrs.As so callers
// above don't need to import errors directly just for this one check.
func errorsAsBadChecksum(err error, target **checkederrs.BadChecksumError) bool {
	return checkederrs.As(err, target)
}
