package web

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/thanhpk/randstr"

	"github.com/bearbyt3z/bear-tunes/internal/config"
)

// JobStatus represents the current status of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobDone     = errors.New("job already finished")
)

// Done reports whether the job reached a final state.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Job is one curation run over a directory.
type Job struct {
	ID          string
	Directory   string
	Config      config.Config
	Status      JobStatus
	Processed   int
	Total       int
	Failed      int
	Skipped     int
	Error       string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Cancel      context.CancelFunc
}

// JobManager keeps curation jobs in memory and fans updates out to
// subscribers. Callers always receive copies of the stored jobs.
type JobManager struct {
	jobs      map[string]*Job
	mu        sync.RWMutex
	listeners map[string][]chan Job
	now       func() time.Time
}

const jobRetention = 1 * time.Hour

// NewJobManager creates a new job manager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:      make(map[string]*Job),
		listeners: make(map[string][]chan Job),
		now:       time.Now,
	}
}

// StartCleanup starts a background goroutine that removes old completed jobs.
// Stops when ctx is cancelled.
func (jm *JobManager) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				jm.cleanup()
			}
		}
	}()
}

func (jm *JobManager) cleanup() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	cutoff := jm.now().Add(-jobRetention)
	for id, job := range jm.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(jm.jobs, id)
			for _, ch := range jm.listeners[id] {
				close(ch)
			}
			delete(jm.listeners, id)
		}
	}
}

// CreateJob registers a pending job for dir.
func (jm *JobManager) CreateJob(dir string, cfg config.Config) Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        generateJobID(),
		Directory: dir,
		Config:    cfg,
		Status:    StatusPending,
		CreatedAt: jm.now(),
	}

	jm.jobs[job.ID] = job
	return *job
}

// GetJob retrieves a job by ID
func (jm *JobManager) GetJob(id string) (Job, error) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, ok := jm.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return *job, nil
}

// ListJobs returns all jobs, oldest first.
func (jm *JobManager) ListJobs() []Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs
}

// UpdateJob applies fn to the stored job and notifies subscribers. A job in a
// final state keeps that state.
func (jm *JobManager) UpdateJob(id string, fn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, ok := jm.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	oldStatus := job.Status
	fn(job)
	if oldStatus.Done() {
		job.Status = oldStatus
	}

	if oldStatus != job.Status {
		switch job.Status {
		case StatusRunning:
			if job.StartedAt == nil {
				now := jm.now()
				job.StartedAt = &now
			}
		case StatusCompleted, StatusFailed, StatusCancelled:
			if job.CompletedAt == nil {
				now := jm.now()
				job.CompletedAt = &now
			}
		}
	}

	jm.notifyListeners(id, *job)
	return nil
}

// CancelJob moves a pending or running job to cancelled and stops its run.
// The final-state check and the transition happen under one lock, so a job
// that finishes concurrently keeps its own status and yields ErrJobDone.
func (jm *JobManager) CancelJob(id string) (Job, error) {
	var cancel context.CancelFunc
	var finished JobStatus
	err := jm.UpdateJob(id, func(j *Job) {
		if j.Status.Done() {
			finished = j.Status
			return
		}
		cancel = j.Cancel
		j.Status = StatusCancelled
	})
	if err != nil {
		return Job{}, err
	}
	if finished != "" {
		return Job{}, fmt.Errorf("%w: %s", ErrJobDone, finished)
	}

	if cancel != nil {
		cancel()
	}
	return jm.GetJob(id)
}

// Subscribe subscribes to job updates
func (jm *JobManager) Subscribe(jobID string) <-chan Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	ch := make(chan Job, 10)
	jm.listeners[jobID] = append(jm.listeners[jobID], ch)
	return ch
}

// Unsubscribe removes a listener
func (jm *JobManager) Unsubscribe(jobID string, ch <-chan Job) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	listeners := jm.listeners[jobID]
	for i, listener := range listeners {
		if listener == ch {
			jm.listeners[jobID] = append(listeners[:i], listeners[i+1:]...)
			close(listener)
			break
		}
	}
}

// notifyListeners drops the update for subscribers whose buffer is full.
func (jm *JobManager) notifyListeners(jobID string, job Job) {
	for _, ch := range jm.listeners[jobID] {
		select {
		case ch <- job:
		default:
		}
	}
}

func generateJobID() string {
	return "job_" + randstr.Hex(8)
}
