package tagwriter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
	"github.com/bearbyt3z/bear-tunes/internal/command"
	"github.com/bearbyt3z/bear-tunes/internal/frames"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

// ToolsBackend writes tags with eyeD3 (MP3) and metaflac (FLAC).
type ToolsBackend struct {
	Runner   command.Runner
	Versions []string
	Owner    string
	Logger   *logger.Logger
	IsImage  func(path string) bool
}

// Write runs one eyeD3 invocation per configured ID3 version, or the metaflac
// invocations for FLAC. A failed ID3 version does not stop the next one.
func (b *ToolsBackend) Write(ctx context.Context, path string, t *metadata.TrackInfo, art artwork.Staged) error {
	opts := frames.Options{Owner: b.Owner, IsImage: b.IsImage}

	switch frames.ContainerOf(path) {
	case frames.MP3:
		var errs []error
		for _, v := range b.Versions {
			plan := frames.Assemble(frames.MP3, frames.Version(v), t, art, opts)
			cmd := command.Command{Name: "eyeD3", Args: frames.EyeD3Args(plan, path)}
			if err := b.run(ctx, cmd, fmt.Sprintf("ID3 v%s tags written", v)); err != nil {
				errs = append(errs, fmt.Errorf("ID3 v%s: %w", v, err))
			}
		}
		return errors.Join(errs...)

	case frames.FLAC:
		plan := frames.Assemble(frames.FLAC, "", t, art, opts)
		for _, args := range frames.MetaflacInvocations(plan, path) {
			if err := b.run(ctx, command.Command{Name: "metaflac", Args: args}, "FLAC tags written"); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedContainer, filepath.Base(path))
}

func (b *ToolsBackend) run(ctx context.Context, cmd command.Command, success string) error {
	b.Logger.Debug("  $ %s", cmd)

	res, err := b.Runner.Run(ctx, cmd)
	if err != nil {
		b.Logger.Error("  %v", err)
		return err
	}

	if b.Logger.Verbose {
		if out := strings.TrimSpace(res.Stdout); out != "" {
			b.Logger.Debug("%s", out)
		}
	} else {
		b.Logger.Info("  %s", success)
	}
	return nil
}
