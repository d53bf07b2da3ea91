package web

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bearbyt3z/bear-tunes/internal/config"
)

func TestCleanup(t *testing.T) {
	jm := NewJobManager()
	cfg := config.DefaultConfig()

	old := jm.CreateJob("/music/old", cfg)
	jm.UpdateJob(old.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	jm.mu.Lock()
	past := time.Now().Add(-2 * time.Hour)
	jm.jobs[old.ID].CompletedAt = &past
	jm.mu.Unlock()

	recent := jm.CreateJob("/music/recent", cfg)
	jm.UpdateJob(recent.ID, func(j *Job) {
		j.Status = StatusCompleted
	})

	running := jm.CreateJob("/music/running", cfg)
	jm.UpdateJob(running.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	ch := jm.Subscribe(old.ID)
	jm.cleanup()

	if _, err := jm.GetJob(old.ID); err == nil {
		t.Error("old completed job should have been cleaned up")
	}
	if _, ok := <-ch; ok {
		t.Error("subscribers of a pruned job should be closed")
	}
	if _, err := jm.GetJob(recent.ID); err != nil {
		t.Error("recent completed job should NOT have been cleaned up")
	}
	if _, err := jm.GetJob(running.ID); err != nil {
		t.Error("running job should NOT have been cleaned up")
	}
}

func TestCreateJobUniqueIDs(t *testing.T) {
	jm := NewJobManager()
	cfg := config.DefaultConfig()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		job := jm.CreateJob("/music", cfg)
		if ids[job.ID] {
			t.Fatalf("duplicate job ID: %s", job.ID)
		}
		ids[job.ID] = true
	}
}

func TestJobIDFormat(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob("/music", config.DefaultConfig())
	if !strings.HasPrefix(job.ID, "job_") {
		t.Errorf("job ID should start with 'job_', got %q", job.ID)
	}
}

func TestUpdateJobTimestamps(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", config.DefaultConfig())

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})
	j, _ := jm.GetJob(job.ID)
	if j.StartedAt == nil {
		t.Error("StartedAt should be set when status changes to running")
	}

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	j, _ = jm.GetJob(job.ID)
	if j.CompletedAt == nil {
		t.Error("CompletedAt should be set when status changes to completed")
	}
}

func TestUpdateJobKeepsFinalStatus(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", config.DefaultConfig())

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCancelled
	})
	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
		j.Processed = 3
	})

	j, _ := jm.GetJob(job.ID)
	if j.Status != StatusCancelled {
		t.Errorf("status = %s, want %s", j.Status, StatusCancelled)
	}
	if j.Processed != 3 {
		t.Errorf("Processed = %d, want 3", j.Processed)
	}
}

func TestGetJobReturnsCopy(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", config.DefaultConfig())

	j, _ := jm.GetJob(job.ID)
	j.Processed = 42

	again, _ := jm.GetJob(job.ID)
	if again.Processed != 0 {
		t.Error("modifying a returned job should not change the stored one")
	}
}

func TestListJobsOldestFirst(t *testing.T) {
	jm := NewJobManager()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	jm.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first := jm.CreateJob("/a", config.DefaultConfig())
	second := jm.CreateJob("/b", config.DefaultConfig())

	jobs := jm.ListJobs()
	if len(jobs) != 2 || jobs[0].ID != first.ID || jobs[1].ID != second.ID {
		t.Errorf("ListJobs() order wrong: %+v", jobs)
	}
}

func TestUpdateJobNotFound(t *testing.T) {
	jm := NewJobManager()
	err := jm.UpdateJob("nonexistent", func(j *Job) {})
	if err == nil {
		t.Error("UpdateJob should return error for nonexistent job")
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", config.DefaultConfig())

	ch := jm.Subscribe(job.ID)

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	select {
	case update := <-ch:
		if update.Status != StatusRunning {
			t.Errorf("expected status running, got %s", update.Status)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for update")
	}

	jm.Unsubscribe(job.ID, ch)
}

func TestCancelJob(t *testing.T) {
	jm := NewJobManager()
	cfg := config.DefaultConfig()

	cancelled := 0
	running := jm.CreateJob("/music/running", cfg)
	jm.UpdateJob(running.ID, func(j *Job) {
		j.Status = StatusRunning
		j.Cancel = func() { cancelled++ }
	})

	job, err := jm.CancelJob(running.ID)
	if err != nil {
		t.Fatalf("CancelJob() error: %v", err)
	}
	if job.Status != StatusCancelled || job.CompletedAt == nil {
		t.Errorf("job = %+v, want cancelled with a completion time", job)
	}
	if cancelled != 1 {
		t.Errorf("cancel called %d times, want 1", cancelled)
	}

	if _, err := jm.CancelJob(running.ID); !errors.Is(err, ErrJobDone) {
		t.Errorf("second CancelJob() error = %v, want ErrJobDone", err)
	}
	if cancelled != 1 {
		t.Errorf("cancel called %d times after a second cancel, want 1", cancelled)
	}

	if _, err := jm.CancelJob("job_missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("CancelJob() on unknown job error = %v, want ErrJobNotFound", err)
	}
}

func TestCancelJobKeepsFinishedStatus(t *testing.T) {
	jm := NewJobManager()

	called := false
	job := jm.CreateJob("/music/done", config.DefaultConfig())
	jm.UpdateJob(job.ID, func(j *Job) {
		j.Cancel = func() { called = true }
		j.Status = StatusCompleted
	})

	if _, err := jm.CancelJob(job.ID); !errors.Is(err, ErrJobDone) {
		t.Fatalf("CancelJob() error = %v, want ErrJobDone", err)
	}
	if called {
		t.Error("cancel should not run for a finished job")
	}
	if j, _ := jm.GetJob(job.ID); j.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", j.Status, StatusCompleted)
	}
}
