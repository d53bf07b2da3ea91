package main

import (
	"github.com/spf13/pflag"

	"github.com/bearbyt3z/bear-tunes/internal/config"
)

// applyFlags copies the flags given on the command line into cfg. Flags left
// at their defaults do not override the config file.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "verbose":
			cfg.Verbose, err = flags.GetBool(f.Name)
		case "dry-run":
			cfg.DryRun, err = flags.GetBool(f.Name)
		case "output":
			cfg.OutputDir, err = flags.GetString(f.Name)
			cfg.OutputDir = config.ExpandHome(cfg.OutputDir)
		case "backend":
			cfg.TagBackend, err = flags.GetString(f.Name)
		case "no-convert":
			var noConvert bool
			noConvert, err = flags.GetBool(f.Name)
			cfg.ConvertFLAC = !noConvert
		case "yes":
			cfg.AssumeYes, err = flags.GetBool(f.Name)
		case "ascii":
			cfg.ASCIIFilenames, err = flags.GetBool(f.Name)
		case "filename-pattern":
			cfg.FilenamePattern, err = flags.GetString(f.Name)
		case "directory-pattern":
			cfg.DirectoryPattern, err = flags.GetString(f.Name)
		case "listen":
			cfg.Listen, err = flags.GetString(f.Name)
		}
	})
	return err
}

// addTagFlags registers the flags shared by commands that run the pipeline.
func addTagFlags(flags *pflag.FlagSet) {
	flags.BoolP("dry-run", "n", false, "Identify tracks and show planned names without writing anything")
	flags.StringP("output", "o", "", "Move renamed files below this directory (default: rename in place)")
	flags.String("backend", config.BackendTools, "Tag writer backend: tools (eyeD3/metaflac) or native")
	flags.Bool("no-convert", false, "Tag FLAC files as they are instead of converting them to MP3")
	flags.BoolP("yes", "y", false, "Accept weak matches without asking")
	flags.Bool("ascii", false, "Fold accented letters in new file names to ASCII")
	flags.String("filename-pattern", "", "File name pattern, e.g. \"%artists% - %title%\"")
	flags.String("directory-pattern", "", "Directory pattern below --output, e.g. \"%genre%/%artists%\"")
}
