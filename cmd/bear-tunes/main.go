package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
)

var cmdRoot = &cobra.Command{
	Use:   "bear-tunes",
	Short: "Identify dance music files on Beatport, tag them and give them proper names",
	Long: `bear-tunes looks up every MP3/FLAC file of a directory in the Beatport catalog,
writes the canonical metadata and artwork into its tags and renames it.

Config file locations (checked in order):
  ./bear-tunes.yaml
  ./bear-tunes.yml
  $XDG_CONFIG_HOME/bear-tunes/config.yaml
  ~/.bear-tunes.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cmdRoot.PersistentFlags().StringP("config", "c", "", "Path to config file")
	cmdRoot.PersistentFlags().BoolP("verbose", "v", false, "Show detailed output")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config (or the first one found)
// and applies the command line flags on top of it.
// Priority: CLI flags > config file > defaults
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	if err := applyFlags(cmd.Flags(), &cfg); err != nil {
		return config.Config{}, "", err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("configuration error: %w", err)
	}
	return cfg, configPath, nil
}

// newLogger creates the console logger and attaches the log files.
func newLogger(cfg config.Config, configPath string) *logger.Logger {
	log := logger.New(cfg.Verbose)
	if cfg.LogDir != "" {
		if err := log.SetLogDir(cfg.LogDir); err != nil {
			log.Warn("Failed to setup file logging: %v", err)
		} else {
			log.Debug("Logging to: %s", cfg.LogDir)
		}
	}
	if configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}
	return log
}
