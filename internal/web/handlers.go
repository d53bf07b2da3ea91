package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bearbyt3z/bear-tunes/internal/pipeline"
)

const timeLayout = "2006-01-02 15:04:05"

type CurateRequest struct {
	Directory string `json:"directory"`
	DryRun    bool   `json:"dry_run"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	Directory   string    `json:"directory"`
	Status      JobStatus `json:"status"`
	Processed   int       `json:"processed"`
	Total       int       `json:"total"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   string    `json:"created_at"`
	StartedAt   *string   `json:"started_at,omitempty"`
	CompletedAt *string   `json:"completed_at,omitempty"`
}

func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	var req CurateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Directory == "" {
		http.Error(w, "directory is required", http.StatusBadRequest)
		return
	}
	dir, err := filepath.Abs(req.Directory)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		http.Error(w, "not a directory: "+req.Directory, http.StatusBadRequest)
		return
	}

	jobConfig := s.config
	jobConfig.DryRun = jobConfig.DryRun || req.DryRun

	job := s.jobMgr.CreateJob(dir, jobConfig)
	s.logger.Info("Created job %s for directory: %s", job.ID, dir)

	ctx, cancel := context.WithCancel(s.ctx)
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Cancel = cancel
	})
	go s.processJob(ctx, cancel, job)

	writeJSON(w, http.StatusAccepted, s.jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = s.jobToResponse(job)
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobMgr.GetJob(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.jobToResponse(job))
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, err := s.jobMgr.CancelJob(jobID)
	switch {
	case errors.Is(err, ErrJobNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrJobDone):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Info("Cancelled job %s", jobID)

	writeJSON(w, http.StatusOK, map[string]string{"status": string(job.Status)})
}

func (s *Server) processJob(ctx context.Context, cancel context.CancelFunc, job Job) {
	defer cancel()

	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})
	s.logger.Info("Starting job %s", job.ID)

	hooks := pipeline.Hooks{
		OnTotal: func(total int) {
			s.jobMgr.UpdateJob(job.ID, func(j *Job) {
				j.Total = total
			})
		},
		OnProgress: func(_ string, err error) {
			s.jobMgr.UpdateJob(job.ID, func(j *Job) {
				j.Processed++
				if err != nil {
					j.Failed++
				}
			})
		},
	}

	stats, err := s.run(ctx, job.Config, job.Directory, hooks)
	switch {
	case errors.Is(err, context.Canceled):
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Status = StatusCancelled
		})
	case err != nil:
		s.logger.Error("Job %s failed: %v", job.ID, err)
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
		})
	default:
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Status = StatusCompleted
			j.Failed = stats.Failed
			j.Skipped = stats.Skipped
		})
		s.logger.Info("Job %s completed: %d tagged, %d skipped, %d failed",
			job.ID, stats.Tagged, stats.Skipped, stats.Failed)
	}
}

func (s *Server) jobToResponse(job Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		Directory: job.Directory,
		Status:    job.Status,
		Processed: job.Processed,
		Total:     job.Total,
		Failed:    job.Failed,
		Skipped:   job.Skipped,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(timeLayout),
	}

	if job.StartedAt != nil {
		resp.StartedAt = formatTime(*job.StartedAt)
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = formatTime(*job.CompletedAt)
	}
	return resp
}

func formatTime(t time.Time) *string {
	s := t.Format(timeLayout)
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
