// Package converter transcodes FLAC files to MP3 with flac and lame.
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
	"github.com/bearbyt3z/bear-tunes/internal/command"
	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

// Status codes of path validation failures.
const (
	StatusNotFLAC            = 101
	StatusInputInaccessible  = 102
	StatusOutputNotMP3       = 103
	StatusOutputInvalid      = 104
	StatusOutputInaccessible = 105
)

// Error reports a conversion that could not start because of its paths.
type Error struct {
	Status int
	Path   string
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Path, e.Msg, e.Status)
}

// Converter runs `flac --decode --stdout <in> | lame <opts> - <out>`.
type Converter struct {
	Runner       command.Runner
	Lame         config.LameConfig
	TransferTags bool
	DeleteSource bool
	TmpDir       string
	Logger       *logger.Logger
	// Pictures opens the picture blocks of a source file. Defaults to
	// reading the file with go-flac.
	Pictures func(path string) artwork.Container
}

// New creates a converter from the configuration.
func New(cfg config.Config, runner command.Runner, log *logger.Logger, tmpDir string) *Converter {
	c := &Converter{
		Runner:       runner,
		Lame:         cfg.Lame,
		TransferTags: cfg.TransferTags,
		DeleteSource: cfg.DeleteFLAC,
		TmpDir:       tmpDir,
		Logger:       log,
	}
	if cfg.TagBackend == config.BackendTools {
		c.Pictures = func(path string) artwork.Container { return artwork.Metaflac{Runner: runner, Path: path} }
	}
	return c
}

// LameArgs returns the encoder options derived from the configuration.
func LameArgs(l config.LameConfig) []string {
	var args []string
	switch l.BitrateMethod {
	case "vbr":
		args = append(args, "--vbr-new", "-b"+strconv.Itoa(l.MinBitrate), "-B"+strconv.Itoa(l.MaxBitrate))
	case "abr":
		args = append(args, "--abr", strconv.Itoa(l.Bitrate))
	default:
		args = append(args, "--cbr", "-b"+strconv.Itoa(l.Bitrate))
	}

	args = append(args, "-m", l.ChannelMode, "-q"+strconv.Itoa(l.Quality))

	switch l.ReplayGain {
	case "fast":
		args = append(args, "--replaygain-fast")
	case "none":
		args = append(args, "--noreplaygain")
	default:
		args = append(args, "--replaygain-accurate")
	}
	return args
}

// OutputPath validates the input file and resolves where the MP3 is written.
// An empty output means next to the input; a directory keeps the input name.
func OutputPath(in, out string) (string, error) {
	info, err := os.Lstat(in)
	if err != nil {
		return "", &Error{Status: StatusInputInaccessible, Path: in, Msg: "cannot access input file"}
	}
	if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(in), ".flac") {
		return "", &Error{Status: StatusNotFLAC, Path: in, Msg: "not a file with .flac extension"}
	}

	if out == "" {
		return utils.ReplaceExtension(in, ".mp3"), nil
	}

	info, err = os.Stat(out)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(out, utils.ReplaceExtension(filepath.Base(in), ".mp3")), nil
	case err == nil && info.Mode().IsRegular():
		if !strings.EqualFold(filepath.Ext(out), ".mp3") {
			return "", &Error{Status: StatusOutputNotMP3, Path: out, Msg: "output file does not have .mp3 extension"}
		}
		return out, nil
	case err == nil:
		return "", &Error{Status: StatusOutputInvalid, Path: out, Msg: "output is neither a file nor a directory"}
	case errors.Is(err, os.ErrNotExist) && strings.EqualFold(filepath.Ext(out), ".mp3"):
		if dir, err := os.Stat(filepath.Dir(out)); err == nil && dir.IsDir() {
			return out, nil
		}
	}
	return "", &Error{Status: StatusOutputInaccessible, Path: out, Msg: "cannot access output path"}
}

// Convert transcodes in and returns the path of the MP3 file.
func (c *Converter) Convert(ctx context.Context, in, out string) (string, error) {
	dest, err := OutputPath(in, out)
	if err != nil {
		return "", err
	}

	lameArgs := LameArgs(c.Lame)
	c.Logger.Debug("  Using lame options: %s", strings.Join(lameArgs, " "))

	decode := command.Command{Name: "flac", Args: []string{"--decode", "--stdout", "--silent", in}}
	encode := command.Command{Name: "lame", Args: append(append(lameArgs, "--quiet", "-"), dest)}
	if _, err := c.Runner.Pipe(ctx, decode, encode); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to convert %s: %w", filepath.Base(in), err)
	}

	c.logSizes(in, dest)

	if c.TransferTags {
		if err := c.transfer(ctx, in, dest); err != nil {
			c.Logger.Warn("  Cannot transfer tags to %s: %v", filepath.Base(dest), err)
		}
	}

	if c.DeleteSource {
		if err := os.Remove(in); err != nil {
			c.Logger.Warn("  Cannot delete %s: %v", filepath.Base(in), err)
		}
	}

	return dest, nil
}

func (c *Converter) logSizes(in, out string) {
	inInfo, err := os.Stat(in)
	if err != nil {
		return
	}
	outInfo, err := os.Stat(out)
	if err != nil {
		return
	}
	c.Logger.Info("  Converted %s (%s) to %s (%s)",
		filepath.Base(in), humanize.Bytes(uint64(inInfo.Size())),
		filepath.Base(out), humanize.Bytes(uint64(outInfo.Size())))
}
