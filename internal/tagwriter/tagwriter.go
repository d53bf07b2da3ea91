// Package tagwriter stages artwork and writes resolved metadata into audio files.
package tagwriter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
	"github.com/bearbyt3z/bear-tunes/internal/command"
	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/downloader"
	"github.com/bearbyt3z/bear-tunes/internal/frames"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

// ErrUnsupportedContainer is returned for files that are neither MP3 nor FLAC.
var ErrUnsupportedContainer = errors.New("unsupported audio container")

// Backend writes one track's metadata and staged artwork into a file.
type Backend interface {
	Write(ctx context.Context, path string, t *metadata.TrackInfo, art artwork.Staged) error
}

// Fetcher downloads a batch of URLs into staged files.
type Fetcher interface {
	DownloadAll(ctx context.Context, urls []string) []downloader.Result
}

// Tagger downloads the artwork of a track and hands everything to a Backend.
type Tagger struct {
	backend Backend
	fetcher Fetcher
	logger  *logger.Logger
	dryRun  bool
}

// New creates a Tagger. A nil fetcher disables artwork.
func New(backend Backend, fetcher Fetcher, log *logger.Logger, dryRun bool) *Tagger {
	return &Tagger{backend: backend, fetcher: fetcher, logger: log, dryRun: dryRun}
}

// Save writes info into the file at path. Staged artwork is removed afterwards
// whatever the outcome.
func (t *Tagger) Save(ctx context.Context, path string, info *metadata.TrackInfo) error {
	if frames.ContainerOf(path) == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedContainer, filepath.Base(path))
	}

	if t.dryRun {
		t.logger.Info("  [dry-run] Would write tags of %s", info.FullName())
		return nil
	}

	art := t.stage(ctx, info)
	defer func() {
		if err := art.Remove(); err != nil {
			t.logger.Warn("  Cannot remove staged artwork: %v", err)
		}
	}()

	if err := t.backend.Write(ctx, path, info, art); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (t *Tagger) stage(ctx context.Context, info *metadata.TrackInfo) artwork.Staged {
	if t.fetcher == nil {
		return artwork.Staged{}
	}

	var cover, logotype string
	if info.Album != nil {
		cover = info.Album.Artwork
	}
	if info.Publisher != nil {
		logotype = info.Publisher.Logotype
	}

	results := t.fetcher.DownloadAll(ctx, []string{cover, info.Waveform, logotype})
	paths := make([]string, len(results))
	for i, r := range results {
		if r.Err != nil {
			t.logger.Warn("  Cannot download artwork %s: %v", r.URL, r.Err)
			continue
		}
		paths[i] = r.Path
	}

	return artwork.Staged{FrontCover: paths[0], Waveform: paths[1], PublisherLogotype: paths[2]}
}

// NewBackend returns the backend named by kind, "tools" or "native".
func NewBackend(kind string, runner command.Runner, versions []string, owner string, log *logger.Logger) (Backend, error) {
	switch kind {
	case config.BackendTools, "":
		return &ToolsBackend{Runner: runner, Versions: versions, Owner: owner, Logger: log}, nil
	case config.BackendNative:
		return &NativeBackend{Versions: versions, Owner: owner, Logger: log}, nil
	}
	return nil, fmt.Errorf("unknown tag backend %q", kind)
}
