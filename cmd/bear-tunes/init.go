package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bearbyt3z/bear-tunes/internal/config"
)

func init() {
	cmdRoot.AddCommand(cmdInitConfig())
}

func cmdInitConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			force, _ := cmd.Flags().GetBool("force")
			out := cmd.OutOrStdout()

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(out, "Config file already exists at: %s\n", path)
				fmt.Fprintln(out, "Use --force if you want to recreate it.")
				return nil
			}

			if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}

			fmt.Fprintf(out, "Created default config file at: %s\n", path)
			fmt.Fprintln(out, "\nYou can now edit this file to customize your settings, e.g.:")
			fmt.Fprintln(out, "  filename_pattern: \"%artists% - %title%\"")
			fmt.Fprintln(out, "  tag_backend: tools or native")
			fmt.Fprintln(out, "  id3_versions: [\"2.4\", \"1.1\"]")
			fmt.Fprintln(out, "  convert_flac: true/false")
			return nil
		},
	}
	cmd.Flags().String("path", config.GetDefaultConfigPath(), "Where to write the config file")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}
