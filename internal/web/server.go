package web

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/pipeline"
	"github.com/bearbyt3z/bear-tunes/internal/prompt"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RunFunc processes a directory the way pipeline.Run does.
type RunFunc func(ctx context.Context, cfg config.Config, dir string, hooks pipeline.Hooks) (pipeline.Stats, error)

type Server struct {
	ctx    context.Context
	jobMgr *JobManager
	config config.Config
	logger *logger.Logger
	run    RunFunc
}

// NewServer creates the job API. Jobs are cancelled together with ctx.
func NewServer(ctx context.Context, jobMgr *JobManager, cfg config.Config, log *logger.Logger) *Server {
	s := &Server{
		ctx:    ctx,
		jobMgr: jobMgr,
		config: cfg,
		logger: log,
	}
	s.run = s.runPipeline
	return s
}

// runPipeline answers prompts automatically since nobody watches the job's terminal.
func (s *Server) runPipeline(ctx context.Context, cfg config.Config, dir string, hooks pipeline.Hooks) (pipeline.Stats, error) {
	tmpDir, err := utils.CreateTempDir()
	if err != nil {
		return pipeline.Stats{}, err
	}
	defer utils.Cleanup(tmpDir)

	return pipeline.Run(ctx, cfg, s.logger, dir, tmpDir, prompt.Auto{Yes: cfg.AssumeYes}, hooks)
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/curate", s.handleCurate)
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("POST /api/jobs/{id}/cancel", s.handleCancelJob)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
