package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
	"github.com/bearbyt3z/bear-tunes/internal/pipeline"
	"github.com/bearbyt3z/bear-tunes/internal/progress"
	"github.com/bearbyt3z/bear-tunes/internal/prompt"
	"github.com/bearbyt3z/bear-tunes/internal/shutdown"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

func init() {
	cmdRoot.AddCommand(cmdTag())
}

func cmdTag() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [directory]",
		Short: "Identify, tag and rename the audio files of a directory",
		Example: `  # Preview matches and new names
  bear-tunes tag --dry-run ~/Downloads/promo

  # Tag without questions and file tracks below ~/Music
  bear-tunes tag -y -o ~/Music ~/Downloads/promo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg, configPath, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log := newLogger(cfg, configPath)
			defer log.Close()

			sh := shutdown.New(log)
			sh.Listen()
			defer sh.Shutdown()

			return runTag(sh, cfg, log, dir)
		},
	}
	addTagFlags(cmd.Flags())
	return cmd
}

// requiredTools lists the external programs the configuration relies on.
func requiredTools(cfg config.Config) []string {
	var tools []string
	if cfg.TagBackend == config.BackendTools {
		tools = append(tools, "eyeD3", "metaflac")
	}
	if cfg.ConvertFLAC && !cfg.DryRun {
		tools = append(tools, "flac", "lame")
	}
	return tools
}

// newPrompter asks on the terminal unless the run is non-interactive.
func newPrompter(cfg config.Config) metadata.Prompter {
	if cfg.Interactive && !cfg.AssumeYes {
		return prompt.NewTerminal()
	}
	return prompt.Auto{Yes: cfg.AssumeYes}
}

func runTag(sh *shutdown.Handler, cfg config.Config, log *logger.Logger, dir string) error {
	log.Debug("Checking dependencies...")
	if err := utils.CheckDependencies(requiredTools(cfg)...); err != nil {
		return fmt.Errorf("dependency check failed: %w", err)
	}

	tmpDir, err := utils.CreateTempDir()
	if err != nil {
		return fmt.Errorf("error creating temporary folder: %w", err)
	}
	log.Debug("Temporary folder: %s", tmpDir)

	sh.AddCleanup(func() {
		log.Debug("Cleaning up...")
		if err := utils.Cleanup(tmpDir); err != nil {
			log.Warn("Error during cleanup: %v", err)
		}
	})

	prompter := newPrompter(cfg)
	_, interactive := prompter.(*prompt.Terminal)

	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnTotal: func(total int) {
			if !cfg.Verbose && !interactive {
				bar = progress.New(total, os.Stdout)
				log.SetProgressBar(true)
			}
		},
		OnProgress: func(path string, err error) {
			if bar != nil {
				bar.Increment(path, err != nil)
			}
		},
	}

	stats, err := pipeline.Run(sh.Context(), cfg, log, dir, tmpDir, prompter, hooks)

	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}

	if err != nil {
		return err
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d tracks could not be processed, see the log for details", stats.Failed, stats.Total)
	}
	log.Info("=== Process completed successfully ===")
	return nil
}
