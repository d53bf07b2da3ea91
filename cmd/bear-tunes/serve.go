package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/bearbyt3z/bear-tunes/internal/shutdown"
	"github.com/bearbyt3z/bear-tunes/internal/web"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

func init() {
	cmdRoot.AddCommand(cmdServe())
}

func cmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP job API for curating directories in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, configPath, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log := newLogger(cfg, configPath)
			defer log.Close()

			if err := utils.CheckDependencies(requiredTools(cfg)...); err != nil {
				return err
			}

			sh := shutdown.New(log)
			sh.Listen()

			jobMgr := web.NewJobManager()
			jobMgr.StartCleanup(sh.Context())
			server := web.NewServer(sh.Context(), jobMgr, cfg, log)

			httpServer := &http.Server{
				Addr:         cfg.Listen,
				Handler:      server.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Starting job API on %s", cfg.Listen)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				sh.Shutdown()
				return err
			case <-sh.Context().Done():
			}

			log.Info("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				log.Error("Server shutdown error: %v", err)
			}

			log.Info("Server stopped")
			return nil
		},
	}
	cmd.Flags().StringP("listen", "l", "", "Address to listen on (default from config, :8080)")
	cmd.Flags().BoolP("dry-run", "n", false, "Run every job in dry-run mode")
	cmd.Flags().BoolP("yes", "y", false, "Accept weak matches in jobs")
	return cmd
}
