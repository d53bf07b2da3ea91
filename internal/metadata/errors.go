package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSkipped is returned when a track is deliberately left untouched.
var ErrSkipped = errors.New("track skipped")

// LookupMissError reports that no candidate cleared the acceptance threshold.
type LookupMissError struct {
	Keywords []string
	Best     MatchingTrack
}

func (e *LookupMissError) Error() string {
	if e.Best.Score < 0 {
		return fmt.Sprintf("no catalog results for keywords [%s]", strings.Join(e.Keywords, " "))
	}
	return fmt.Sprintf("best match %q scored %d of %d keywords", e.Best.FullName(), e.Best.Score, len(e.Keywords))
}

// MalformedDataError reports a catalog document missing its expected structure.
type MalformedDataError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedDataError) Error() string {
	msg := e.Reason
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDataError) Unwrap() error { return e.Err }
