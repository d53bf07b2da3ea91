package metadata

import (
	"math"
	"strings"
)

// MinAcceptedScore is the lowest score a match may have regardless of keyword count.
const MinAcceptedScore = 2

// MatchingTrack is a catalog search result scored against the input keywords.
type MatchingTrack struct {
	TrackInfo
	Score         int
	ScoreKeywords []string
	Duration      float64 // candidate length in seconds, 0 when unknown
}

// ScoreCandidate normalizes a search result and counts how many input
// keywords (case-insensitive) appear among the candidate's own keywords.
func ScoreCandidate(c CandidateRecord, input []string) MatchingTrack {
	title := FormatTitle(c.Name, c.MixName)

	var artistNames, remixerNames []string
	for _, a := range c.Artists {
		switch a.Role {
		case RoleArtist:
			artistNames = append(artistNames, a.Name)
		case RoleRemixer:
			remixerNames = append(remixerNames, a.Name)
		}
	}
	artists := BuildArtists(artistNames, title)

	candidateKeywords := make(map[string]bool)
	for _, k := range SplitKeywords(strings.Join(artists, " "), title) {
		candidateKeywords[ReplacePathForbiddenChars(strings.ToLower(k))] = true
	}

	scoreKeywords := []string{}
	seen := make(map[string]bool)
	for _, k := range input {
		k = strings.ToLower(k)
		if candidateKeywords[k] && !seen[k] {
			seen[k] = true
			scoreKeywords = append(scoreKeywords, k)
		}
	}

	return MatchingTrack{
		TrackInfo: TrackInfo{
			URL:      c.URL,
			Artists:  artists,
			Title:    title,
			Remixers: BuildArtists(remixerNames, title),
			Released: c.Released,
		},
		Score:         len(scoreKeywords),
		ScoreKeywords: scoreKeywords,
		Duration:      roundDuration(float64(c.LengthMS) / 1000),
	}
}

// FindBestMatch scans every candidate and returns the best one according to
// Better. Without candidates the result has Score -1 and no URL.
func FindBestMatch(candidates []CandidateRecord, input []string, reference *TrackDetails) MatchingTrack {
	winner := MatchingTrack{Score: -1}
	for _, c := range candidates {
		if m := ScoreCandidate(c, input); Better(m, winner, reference) {
			winner = m
		}
	}
	return winner
}

// Better reports whether c should replace the current winner w. Candidates are
// ordered by score, then by earlier release date (unknown dates last), then by
// the distance of their duration to the reference duration. Ties keep w.
func Better(c, w MatchingTrack, reference *TrackDetails) bool {
	if c.Score != w.Score {
		return c.Score > w.Score
	}

	if !c.Released.Equal(w.Released) {
		if c.Released.IsZero() {
			return false
		}
		return w.Released.IsZero() || c.Released.Before(w.Released)
	}

	if reference == nil || reference.Duration <= 0 || c.Duration <= 0 {
		return false
	}
	if w.Duration <= 0 {
		return true
	}
	ref := roundDuration(reference.Duration)
	return roundDuration(math.Abs(c.Duration-ref)) < roundDuration(math.Abs(w.Duration-ref))
}

// Accepted reports whether the winner's score clears the acceptance threshold.
func Accepted(m MatchingTrack, input []string) bool {
	return m.Score >= max(MinAcceptedScore, len(input))
}

func roundDuration(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}
