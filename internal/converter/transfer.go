package converter

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
)

// Vorbis comment names copied to ID3 text frames in addition to the
// standard fields.
var textFields = []struct {
	comment string
	frame   string
}{
	{"remixed by", "TPE4"},
	{"bpm", "TBPM"},
	{"initial key", "TKEY"},
	{"initialkey", "TKEY"},
	{"isrc", "TSRC"},
	{"publisher", "TPUB"},
	{"organization", "TPUB"},
	{"grouping", "TIT1"},
	{"release date", "TDRL"},
}

var userTextFields = []struct {
	comment     string
	description string
}{
	{"catalognumber", "CATALOGNUMBER"},
	{"catalog #", "CATALOG #"},
	{"initialkey", "INITIALKEY"},
}

// transfer copies the tags and selected pictures of a FLAC file into an MP3.
func (c *Converter) transfer(ctx context.Context, flacPath, mp3Path string) error {
	src, err := os.Open(flacPath)
	if err != nil {
		return err
	}
	defer src.Close()

	meta, err := tag.ReadFrom(src)
	if err != nil {
		return fmt.Errorf("failed to read tags of source: %w", err)
	}

	var pictures []artwork.BlockExport
	if c.TmpDir != "" {
		pictures, err = artwork.ExportBlocks(ctx, c.pictures(flacPath), c.TmpDir, c.Logger,
			artwork.CoverFront, artwork.BrightColouredFish, artwork.PublisherLogotype)
		if err != nil {
			c.Logger.Warn("  %v", err)
		}
		defer func() {
			for _, p := range pictures {
				os.Remove(p.Path)
			}
		}()
	}

	out, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer out.Close()

	out.SetVersion(4)
	out.SetDefaultEncoding(id3v2.EncodingUTF8)

	setText(out, "TPE1", meta.Artist())
	setText(out, "TIT2", meta.Title())
	setText(out, "TALB", meta.Album())
	setText(out, "TPE2", meta.AlbumArtist())
	setText(out, "TCON", meta.Genre())
	if year := meta.Year(); year > 0 {
		setText(out, "TYER", strconv.Itoa(year))
	}
	if n, total := meta.Track(); n > 0 {
		track := strconv.Itoa(n)
		if total > 0 {
			track += "/" + strconv.Itoa(total)
		}
		setText(out, "TRCK", track)
	}

	raw := lowerKeys(meta.Raw())
	for _, f := range textFields {
		setText(out, f.frame, raw[f.comment])
	}
	for _, f := range userTextFields {
		if v := raw[f.comment]; v != "" {
			out.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: f.description,
				Value:       v,
			})
		}
	}
	if v := raw["file webpage url"]; v != "" {
		out.AddFrame("WOAF", id3v2.UnknownFrame{Body: []byte(v)})
	}

	for _, p := range pictures {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			c.Logger.Warn("  Cannot read exported picture: %v", err)
			continue
		}
		out.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    p.MIMEType,
			PictureType: byte(p.Type),
			Description: p.Type.Label(),
			Picture:     data,
		})
	}

	if err := out.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	c.Logger.Debug("  Transferred tags and %d pictures", len(pictures))
	return nil
}

func (c *Converter) pictures(path string) artwork.Container {
	if c.Pictures != nil {
		return c.Pictures(path)
	}
	return artwork.NativeFLAC{Path: path}
}

func setText(t *id3v2.Tag, id, value string) {
	if value = strings.TrimSpace(value); value != "" {
		t.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
}

func lowerKeys(raw map[string]interface{}) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[strings.ToLower(k)] = s
		}
	}
	return out
}
