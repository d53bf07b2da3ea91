// Package pipeline runs the identify, tag and rename steps over a directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bearbyt3z/bear-tunes/internal/command"
	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/converter"
	"github.com/bearbyt3z/bear-tunes/internal/downloader"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
	"github.com/bearbyt3z/bear-tunes/internal/prober"
	"github.com/bearbyt3z/bear-tunes/internal/provider/beatport"
	"github.com/bearbyt3z/bear-tunes/internal/renamer"
	"github.com/bearbyt3z/bear-tunes/internal/tagwriter"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

type Hooks struct {
	OnTotal    func(total int)
	OnProgress func(path string, err error)
	OnWarning  func(msg string)
}

// Stats summarizes a directory run.
type Stats struct {
	Total     int
	Converted int
	Tagged    int
	Skipped   int
	Failed    int
}

type Resolver interface {
	Resolve(ctx context.Context, path string) (metadata.TrackInfo, error)
}

type Tagger interface {
	Save(ctx context.Context, path string, info *metadata.TrackInfo) error
}

type Converter interface {
	Convert(ctx context.Context, in, out string) (string, error)
}

// Pipeline processes audio files one at a time. A nil Converter leaves FLAC
// files in place and tags them directly.
type Pipeline struct {
	Resolver  Resolver
	Tagger    Tagger
	Renamer   *renamer.Renamer
	Converter Converter
	OutputDir string
	DryRun    bool
	Logger    *logger.Logger
}

// New wires the catalog, tag writer, renamer and converter described by cfg.
// Staged artwork goes to tmpDir.
func New(cfg config.Config, log *logger.Logger, tmpDir string, prompter metadata.Prompter) (*Pipeline, error) {
	runner := command.ExecRunner{}

	backend, err := tagwriter.NewBackend(cfg.TagBackend, runner, cfg.ID3Versions, cfg.DomainURL, log)
	if err != nil {
		return nil, err
	}

	catalog := beatport.New(cfg.DomainURL, log)
	p := &Pipeline{
		Resolver: metadata.NewResolver(catalog, prober.Taglib{}, prompter, log, cfg.LengthDifferenceAccepted),
		Tagger:   tagwriter.New(backend, downloader.New(log, tmpDir), log, cfg.DryRun),
		Renamer: &renamer.Renamer{
			FilenamePattern:  cfg.FilenamePattern,
			DirectoryPattern: cfg.DirectoryPattern,
			ASCII:            cfg.ASCIIFilenames,
		},
		OutputDir: config.ExpandHome(cfg.OutputDir),
		DryRun:    cfg.DryRun,
		Logger:    log,
	}
	if cfg.ConvertFLAC {
		p.Converter = converter.New(cfg, runner, log, tmpDir)
	}
	return p, nil
}

// Run processes every audio file below dir with a pipeline built from cfg.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger, dir, tmpDir string, prompter metadata.Prompter, hooks Hooks) (Stats, error) {
	p, err := New(cfg, log, tmpDir, prompter)
	if err != nil {
		return Stats{}, err
	}
	return p.Process(ctx, dir, hooks)
}

// Process walks dir and handles each audio file. A failing track is logged
// and counted, never returned; only a missing directory or cancellation end
// the run early.
func (p *Pipeline) Process(ctx context.Context, dir string, hooks Hooks) (Stats, error) {
	files, err := utils.FindAudioFiles(dir)
	if err != nil {
		return Stats{}, err
	}
	if len(files) == 0 {
		return Stats{}, fmt.Errorf("there are no suitable files in directory: %s", dir)
	}

	stats := Stats{Total: len(files)}
	if hooks.OnTotal != nil {
		hooks.OnTotal(stats.Total)
	}

	produced := make(map[string]bool)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if produced[file] {
			p.Logger.Debug("Skipping %s, converted in this run", filepath.Base(file))
			if hooks.OnProgress != nil {
				hooks.OnProgress(file, nil)
			}
			continue
		}

		p.Logger.Info("=== [%d/%d] %s ===", i+1, len(files), filepath.Base(file))
		err := p.processTrack(ctx, file, produced, &stats)
		switch {
		case err == nil:
			stats.Tagged++
		case errors.Is(err, metadata.ErrSkipped):
			stats.Skipped++
			p.Logger.Info("  Skipped: %s", filepath.Base(file))
		default:
			stats.Failed++
			msg := p.report(file, err)
			if hooks.OnWarning != nil {
				hooks.OnWarning(msg)
			}
		}

		if hooks.OnProgress != nil {
			hooks.OnProgress(file, err)
		}
	}

	p.Logger.Info("Done: %d tagged, %d skipped, %d failed, %d converted",
		stats.Tagged, stats.Skipped, stats.Failed, stats.Converted)
	return stats, nil
}

// processTrack is the per-track error boundary.
func (p *Pipeline) processTrack(ctx context.Context, path string, produced map[string]bool, stats *Stats) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing %s: %v", filepath.Base(path), r)
		}
	}()

	if p.Converter != nil && strings.EqualFold(filepath.Ext(path), ".flac") {
		if p.DryRun {
			p.Logger.Info("  [dry-run] Would convert %s to mp3", filepath.Base(path))
		} else {
			p.Logger.Info("  Converting flac to mp3: %s", filepath.Base(path))
			mp3, err := p.Converter.Convert(ctx, path, "")
			if err != nil {
				return err
			}
			produced[mp3] = true
			stats.Converted++
			path = mp3
		}
	}

	info, err := p.Resolver.Resolve(ctx, path)
	if err != nil {
		return err
	}
	p.Logger.Info("  Matched: %s", info.FullName())
	p.Logger.Debug("  URL: %s", info.URL)

	if err := p.Tagger.Save(ctx, path, &info); err != nil {
		return err
	}

	if p.DryRun {
		dest, err := p.Renamer.Destination(path, &info, p.OutputDir)
		if err != nil {
			return err
		}
		p.Logger.Info("  [dry-run] Would move to %s", dest)
		return nil
	}

	dest, err := p.Renamer.Rename(path, &info, p.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	if dest != path {
		p.Logger.Info("  Moved to %s", dest)
	}
	return nil
}

func (p *Pipeline) report(path string, err error) string {
	var (
		miss      *metadata.LookupMissError
		malformed *metadata.MalformedDataError
		missing   *renamer.MissingFieldError
		invalid   *renamer.InvalidFieldError
		tool      *command.ToolFailure
		conv      *converter.Error
	)

	name := filepath.Base(path)
	var msg string
	switch {
	case errors.As(err, &miss):
		msg = fmt.Sprintf("%s: no acceptable match: %v", name, miss)
	case errors.As(err, &malformed):
		msg = fmt.Sprintf("%s: malformed catalog data: %v", name, malformed)
	case errors.As(err, &missing), errors.As(err, &invalid):
		msg = fmt.Sprintf("%s: cannot build new name: %v", name, err)
	case errors.As(err, &tool):
		msg = fmt.Sprintf("%s: external tool failed: %v", name, tool)
	case errors.As(err, &conv):
		msg = fmt.Sprintf("%s: conversion failed with code %d: %s", name, conv.Status, conv.Msg)
	default:
		msg = fmt.Sprintf("%s: %v", name, err)
	}

	if miss != nil {
		p.Logger.Warn("  %s", msg)
	} else {
		p.Logger.Error("  %s", msg)
	}
	return msg
}
