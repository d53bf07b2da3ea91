package metadata

import (
	"context"
	"strings"
	"time"
)

// TrackInfo contains the canonical metadata resolved for a single audio file.
// Zero values mean the field is absent and its tag must be omitted. Artists
// and Remixers distinguish nil (unknown) from empty (known to be none).
type TrackInfo struct {
	URL       string
	Artists   []string
	Title     string
	Remixers  []string
	Released  time.Time
	Year      int
	Genre     string
	BPM       int
	Key       string
	ISRC      string
	UFID      string
	Waveform  string
	Album     *AlbumInfo
	Publisher *PublisherInfo
	Details   *TrackDetails
}

// AlbumInfo describes the release a track belongs to.
type AlbumInfo struct {
	Artists       []string
	Title         string
	CatalogNumber string
	TrackNumber   int
	TrackTotal    int
	URL           string
	Artwork       string
}

// PublisherInfo describes the label that published a release.
type PublisherInfo struct {
	Name     string
	URL      string
	Logotype string
}

// TrackDetails holds properties of the local file used for disambiguation.
type TrackDetails struct {
	Duration float64 // seconds
}

// FullName returns "artists - title".
func (t *TrackInfo) FullName() string {
	return strings.Join(t.Artists, ", ") + " - " + t.Title
}

// ReleasedDate returns the release date as YYYY-MM-DD, or "" when unknown.
func (t *TrackInfo) ReleasedDate() string {
	if t.Released.IsZero() {
		return ""
	}
	return t.Released.Format(time.DateOnly)
}

// ArtistRole tells apart the credits attached to a search result.
type ArtistRole string

const (
	RoleArtist  ArtistRole = "Artist"
	RoleRemixer ArtistRole = "Remixer"
)

// CandidateArtist is one credit on a search result.
type CandidateArtist struct {
	Name string
	Role ArtistRole
}

// CandidateRecord is one search result from the catalog, prior to normalization.
type CandidateRecord struct {
	ID       int64
	URL      string
	Name     string
	MixName  string
	Artists  []CandidateArtist
	Released time.Time
	LengthMS int64
}

// Catalog is the remote service tracks are identified against.
type Catalog interface {
	Name() string
	Search(ctx context.Context, keywords []string) ([]CandidateRecord, error)
	Track(ctx context.Context, trackURL string) (TrackInfo, error)
}

// Prober reads the tags and properties of a local audio file. On error the
// returned TrackInfo still holds whatever could be read.
type Prober interface {
	Probe(path string) (TrackInfo, error)
}

// Prompter asks the user to confirm decisions the resolver cannot make alone.
type Prompter interface {
	Confirm(question string) bool
	Choose(question string, options ...string) string
}
