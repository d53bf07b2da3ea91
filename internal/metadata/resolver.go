package metadata

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

const defaultLengthDifferenceAccepted = 3.0

// Resolver identifies a local file on the catalog and returns its canonical metadata.
type Resolver struct {
	catalog  Catalog
	prober   Prober
	prompter Prompter
	logger   *logger.Logger

	lengthDifferenceAccepted float64
}

// NewResolver creates a new Resolver. The prober may be nil, in which case
// durations are not compared. A negative lengthDifference selects the default.
func NewResolver(c Catalog, p Prober, prompter Prompter, log *logger.Logger, lengthDifference float64) *Resolver {
	if lengthDifference < 0 {
		lengthDifference = defaultLengthDifferenceAccepted
	}
	return &Resolver{
		catalog:                  c,
		prober:                   p,
		prompter:                 prompter,
		logger:                   log,
		lengthDifferenceAccepted: lengthDifference,
	}
}

// Resolve finds the catalog entry for the audio file at path. A sibling
// "<name>.url" shortcut overrides the search. Returns a *LookupMissError when
// no acceptable candidate exists and ErrSkipped when the user opts out.
func (r *Resolver) Resolve(ctx context.Context, path string) (TrackInfo, error) {
	if err := ctx.Err(); err != nil {
		return TrackInfo{}, err
	}

	var local TrackInfo
	if r.prober != nil {
		probed, err := r.prober.Probe(path)
		if err != nil {
			r.logger.Debug("  Incomplete local data for %s: %v", filepath.Base(path), err)
		}
		local = probed
	}

	trackURL, err := r.sidecarURL(path)
	if err != nil {
		return TrackInfo{}, err
	}

	if trackURL == "" {
		trackURL, err = r.search(ctx, path, local.Details)
		if err != nil {
			return TrackInfo{}, err
		}
	} else {
		r.logger.Info("  Using URL from shortcut file: %s", trackURL)
	}

	info, err := r.catalog.Track(ctx, trackURL)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("failed to fetch track data from %s: %w", trackURL, err)
	}
	if info.URL == "" {
		info.URL = trackURL
	}

	if err := r.checkDuration(&info, local.Details); err != nil {
		return TrackInfo{}, err
	}

	return info, nil
}

func (r *Resolver) sidecarURL(path string) (string, error) {
	sidecar := utils.ReplaceExtension(path, ".url")
	trackURL, err := utils.ReadURLFile(sidecar)
	switch {
	case err == nil:
		return trackURL, nil
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	case errors.Is(err, utils.ErrNoURL):
		r.logger.Warn("  URL file exists but does not contain a track URL: %s", sidecar)
		return "", fmt.Errorf("%w: %v", ErrSkipped, err)
	default:
		return "", err
	}
}

func (r *Resolver) search(ctx context.Context, path string, details *TrackDetails) (string, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	keywords := SplitKeywords(name)

	candidates, err := r.catalog.Search(ctx, keywords)
	if err != nil {
		return "", fmt.Errorf("%s search failed: %w", r.catalog.Name(), err)
	}
	r.logger.Debug("  %d candidates for keywords [%s]", len(candidates), strings.Join(keywords, " "))

	best := FindBestMatch(candidates, keywords, details)
	if best.Score < 0 {
		return "", &LookupMissError{Keywords: keywords, Best: best}
	}

	if !Accepted(best, keywords) {
		r.logger.Warn("  Best match score %d is below %d: %s", best.Score, max(MinAcceptedScore, len(keywords)), best.FullName())
		r.logger.Warn("  Score keywords: [%s]", strings.Join(best.ScoreKeywords, ", "))
		r.logger.Warn("  Name keywords:  [%s]", strings.Join(keywords, ", "))
		r.logger.Warn("  URL: %s", best.URL)
		if r.prompter == nil || !r.prompter.Confirm("Proceed with the found track?") {
			return "", &LookupMissError{Keywords: keywords, Best: best}
		}
	}

	r.logger.Debug("  Matched %s (score %d)", best.FullName(), best.Score)
	return best.URL, nil
}

// checkDuration compares the catalog length with the local one and offers to
// mark the title as a radio edit when they differ too much.
func (r *Resolver) checkDuration(info *TrackInfo, local *TrackDetails) error {
	if local == nil || local.Duration <= 0 || info.Details == nil || info.Details.Duration <= 0 {
		return nil
	}

	diff := math.Abs(info.Details.Duration - local.Duration)
	if diff <= r.lengthDifferenceAccepted {
		return nil
	}

	r.logger.Warn("  Track length differs: local %s, catalog %s",
		utils.SecondsToTimeFormat(local.Duration), utils.SecondsToTimeFormat(info.Details.Duration))

	if r.prompter == nil {
		return nil
	}
	switch r.prompter.Choose(`Change it to "Radio Edit"?`, "y", "n", "s") {
	case "y":
		info.Title = ForceRadioEdit(info.Title)
	case "s":
		return ErrSkipped
	}
	return nil
}
