// Package frames turns resolved track metadata into ordered tag operations for
// MP3 (ID3) and FLAC (Vorbis comment) containers.
package frames

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

// Kind is the class of a tag operation.
type Kind int

const (
	Text Kind = iota
	UserText
	URL
	UniqueID
	Picture
	Remove
	RemoveUserText
	RemoveComments
	RemoveReplayGain
	RemovePictures
	PreserveTimes
)

// IsData reports whether the kind carries track metadata rather than cleanup.
func (k Kind) IsData() bool {
	return k <= Picture
}

// Frame is one tag operation. ID is the ID3 frame ID, the Vorbis field name,
// the user text description or, for UniqueID, the owner identifier.
type Frame struct {
	Kind  Kind
	ID    string
	Value string
	Image *artwork.BlockExport
}

// Container is the tag container family of an audio file.
type Container string

const (
	MP3  Container = "mp3"
	FLAC Container = "flac"
)

// ContainerOf returns the container for a file path, or "" if unsupported.
func ContainerOf(path string) Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return MP3
	case ".flac":
		return FLAC
	}
	return ""
}

// Version is an ID3 tag version such as "2.4" or "1.1".
type Version string

// Major returns the major tag version, 1 or 2.
func (v Version) Major() int {
	major, _, _ := strings.Cut(string(v), ".")
	n, _ := strconv.Atoi(major)
	return n
}

// Minor returns the minor tag version.
func (v Version) Minor() int {
	_, minor, _ := strings.Cut(string(v), ".")
	n, _ := strconv.Atoi(minor)
	return n
}

// Plan is the operation list for one write to one container.
type Plan struct {
	Container Container
	Version   Version
	Frames    []Frame
}

// DataFrames returns only the frames that carry metadata.
func (p Plan) DataFrames() []Frame {
	var data []Frame
	for _, f := range p.Frames {
		if f.Kind.IsData() {
			data = append(data, f)
		}
	}
	return data
}

// Options configure an assembly.
type Options struct {
	// Owner identifies the unique file ID issuer, usually the catalog domain.
	Owner string
	// IsImage decides whether a staged file may be embedded. Defaults to
	// content sniffing.
	IsImage func(path string) bool
}

// Assemble builds the operation list writing t and the staged artwork into a
// container. Version only matters for MP3 and is carried into the plan so the
// same metadata can be written once per tag version.
func Assemble(c Container, v Version, t *metadata.TrackInfo, art artwork.Staged, opts Options) Plan {
	if opts.IsImage == nil {
		opts.IsImage = artwork.IsImage
	}

	plan := Plan{Container: c, Version: v}
	switch c {
	case MP3:
		plan.Frames = append(plan.Frames, id3Cleanup...)
		plan.Frames = append(plan.Frames, walk(id3Table, t, opts.Owner)...)
		plan.Frames = append(plan.Frames, pictures(art, opts)...)
	case FLAC:
		if art.Any() {
			plan.Frames = append(plan.Frames, Frame{Kind: RemovePictures})
		}
		plan.Frames = append(plan.Frames, vorbisCleanup...)
		plan.Frames = append(plan.Frames, walk(vorbisTable, t, opts.Owner)...)
		plan.Frames = append(plan.Frames, pictures(art, opts)...)
	}
	return plan
}

// mapping binds one TrackInfo value to the frames that carry it.
type mapping struct {
	value  func(t *metadata.TrackInfo) string
	frames []Frame
}

func walk(table []mapping, t *metadata.TrackInfo, owner string) []Frame {
	var out []Frame
	for _, m := range table {
		value := m.value(t)
		if value == "" {
			continue
		}
		for _, f := range m.frames {
			f.Value = value
			if f.Kind == UniqueID {
				f.ID = owner
			}
			out = append(out, f)
		}
	}
	return out
}

func pictures(art artwork.Staged, opts Options) []Frame {
	var out []Frame
	for _, e := range art.Entries() {
		if !opts.IsImage(e.Path) {
			continue
		}
		img := e
		out = append(out, Frame{Kind: Picture, ID: strconv.Itoa(int(e.Type)), Value: e.Path, Image: &img})
	}
	return out
}

func text(id string) Frame     { return Frame{Kind: Text, ID: id} }
func userText(id string) Frame { return Frame{Kind: UserText, ID: id} }
func url(id string) Frame      { return Frame{Kind: URL, ID: id} }

var id3Cleanup = []Frame{
	{Kind: Remove, ID: "PRIV"},
	{Kind: RemoveComments},
	{Kind: Remove, ID: "TCOP"},
	{Kind: RemoveUserText, ID: "DESCRIPTION"},
	{Kind: Remove, ID: "TAUT"},
	{Kind: PreserveTimes},
}

var id3Table = []mapping{
	{artistsValue, []Frame{text("TPE1")}},
	{titleValue, []Frame{text("TIT2")}},
	{remixersValue, []Frame{text("TPE4")}},
	{albumTitleValue, []Frame{text("TALB")}},
	{albumArtistsValue, []Frame{text("TPE2")}},
	{trackNumberValue, []Frame{text("TRCK")}},
	{yearValue, []Frame{text("TYER")}},
	{releasedValue, []Frame{text("TORY"), text("TRDA"), text("TDAT"), text("TDRC"), text("TDOR"), text("TDRL")}},
	{urlValue, []Frame{url("WOAF")}},
	{publisherURLValue, []Frame{url("WPUB")}},
	{bpmValue, []Frame{text("TBPM")}},
	{keyValue, []Frame{text("TKEY"), userText("INITIALKEY")}},
	{catalogNumberValue, []Frame{userText("CATALOGNUMBER"), userText("CATALOG #")}},
	{genreValue, []Frame{text("TCON")}},
	{publisherNameValue, []Frame{text("TPUB"), text("TIT1")}},
	{isrcValue, []Frame{text("TSRC")}},
	{ufidValue, []Frame{{Kind: UniqueID}}},
}

var vorbisCleanup = []Frame{
	{Kind: PreserveTimes},
	{Kind: Remove, ID: "PRIV"},
	{Kind: Remove, ID: "COMMENT"},
	{Kind: Remove, ID: "DESCRIPTION"},
	{Kind: Remove, ID: "COPYRIGHT"},
	{Kind: Remove, ID: "DISCNUMBER"},
	{Kind: Remove, ID: "DISCTOTAL"},
	{Kind: Remove, ID: "COMPOSER"},
	{Kind: Remove, ID: "LYRICS"},
	{Kind: RemoveReplayGain},
}

var vorbisTable = []mapping{
	{artistsValue, []Frame{text("ARTIST")}},
	{titleValue, []Frame{text("TITLE")}},
	{remixersValue, []Frame{text("REMIXED BY")}},
	{albumTitleValue, []Frame{text("ALBUM")}},
	{albumArtistsValue, []Frame{text("ALBUMARTIST")}},
	{trackNumberOnlyValue, []Frame{text("TRACKNUMBER")}},
	{trackTotalValue, []Frame{text("TRACKTOTAL")}},
	{yearValue, []Frame{text("DATE")}},
	{releasedValue, []Frame{text("RELEASE DATE"), text("ORIGINAL RELEASE DATE")}},
	{urlValue, []Frame{text("FILE WEBPAGE URL")}},
	{publisherURLValue, []Frame{text("PUBLISHER URL")}},
	{bpmValue, []Frame{text("BPM")}},
	{keyValue, []Frame{text("INITIAL KEY"), text("INITIALKEY")}},
	{catalogNumberValue, []Frame{text("CATALOGNUMBER"), text("CATALOG #")}},
	{genreValue, []Frame{text("GENRE")}},
	{publisherNameValue, []Frame{text("PUBLISHER"), text("GROUPING")}},
	{ufidValue, []Frame{text("UFID")}},
	{isrcValue, []Frame{text("ISRC")}},
}

func joinNames(names []string) string {
	var kept []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, ", ")
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func artistsValue(t *metadata.TrackInfo) string  { return joinNames(t.Artists) }
func titleValue(t *metadata.TrackInfo) string    { return strings.TrimSpace(t.Title) }
func remixersValue(t *metadata.TrackInfo) string { return joinNames(t.Remixers) }
func yearValue(t *metadata.TrackInfo) string     { return positive(t.Year) }
func releasedValue(t *metadata.TrackInfo) string { return t.ReleasedDate() }
func urlValue(t *metadata.TrackInfo) string      { return t.URL }
func bpmValue(t *metadata.TrackInfo) string      { return positive(t.BPM) }
func keyValue(t *metadata.TrackInfo) string      { return t.Key }
func genreValue(t *metadata.TrackInfo) string    { return t.Genre }
func isrcValue(t *metadata.TrackInfo) string     { return t.ISRC }
func ufidValue(t *metadata.TrackInfo) string     { return t.UFID }

func albumTitleValue(t *metadata.TrackInfo) string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Title
}

func albumArtistsValue(t *metadata.TrackInfo) string {
	if t.Album == nil {
		return ""
	}
	return joinNames(t.Album.Artists)
}

func trackNumberValue(t *metadata.TrackInfo) string {
	number := trackNumberOnlyValue(t)
	if number == "" {
		return ""
	}
	if total := trackTotalValue(t); total != "" {
		return number + "/" + total
	}
	return number
}

func trackNumberOnlyValue(t *metadata.TrackInfo) string {
	if t.Album == nil {
		return ""
	}
	return positive(t.Album.TrackNumber)
}

func trackTotalValue(t *metadata.TrackInfo) string {
	if t.Album == nil {
		return ""
	}
	return positive(t.Album.TrackTotal)
}

func catalogNumberValue(t *metadata.TrackInfo) string {
	if t.Album == nil {
		return ""
	}
	return t.Album.CatalogNumber
}

func publisherNameValue(t *metadata.TrackInfo) string {
	if t.Publisher == nil {
		return ""
	}
	return t.Publisher.Name
}

func publisherURLValue(t *metadata.TrackInfo) string {
	if t.Publisher == nil {
		return ""
	}
	return t.Publisher.URL
}
