package tagwriter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
	"github.com/bearbyt3z/bear-tunes/internal/frames"
	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

const vendor = "bear-tunes"

// NativeBackend writes tags in-process with id3v2 (MP3) and go-flac (FLAC).
// ID3v1 versions are not supported and are skipped.
type NativeBackend struct {
	Versions []string
	Owner    string
	Logger   *logger.Logger
	IsImage  func(path string) bool
}

func (b *NativeBackend) Write(ctx context.Context, path string, t *metadata.TrackInfo, art artwork.Staged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := frames.Options{Owner: b.Owner, IsImage: b.IsImage}

	switch frames.ContainerOf(path) {
	case frames.MP3:
		var errs []error
		for _, v := range b.Versions {
			version := frames.Version(v)
			if version.Major() != 2 {
				b.Logger.Debug("  Skipping ID3 v%s, not supported by the native backend", v)
				continue
			}
			plan := frames.Assemble(frames.MP3, version, t, art, opts)
			if err := writeID3(path, plan); err != nil {
				b.Logger.Error("  ID3 v%s: %v", v, err)
				errs = append(errs, fmt.Errorf("ID3 v%s: %w", v, err))
				continue
			}
			b.Logger.Info("  ID3 v%s tags written", v)
		}
		return errors.Join(errs...)

	case frames.FLAC:
		plan := frames.Assemble(frames.FLAC, "", t, art, opts)
		if err := writeVorbis(path, plan); err != nil {
			return err
		}
		b.Logger.Info("  FLAC tags written")
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedContainer, filepath.Base(path))
}

func writeID3(path string, plan frames.Plan) error {
	restore, err := keepTimes(path, plan)
	if err != nil {
		return err
	}

	minor := plan.Version.Minor()
	if minor != 3 && minor != 4 {
		return fmt.Errorf("unsupported ID3 version %s", plan.Version)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(byte(minor))
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	for _, f := range plan.Frames {
		switch f.Kind {
		case frames.Remove:
			tag.DeleteFrames(f.ID)
		case frames.RemoveComments:
			tag.DeleteFrames("COMM")
		case frames.RemoveUserText:
			deleteUserText(tag, f.ID)
		case frames.Text:
			tag.AddTextFrame(f.ID, id3v2.EncodingUTF8, f.Value)
		case frames.UserText:
			deleteUserText(tag, f.ID)
			tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: f.ID,
				Value:       f.Value,
			})
		case frames.URL:
			tag.DeleteFrames(f.ID)
			tag.AddFrame(f.ID, id3v2.UnknownFrame{Body: []byte(f.Value)})
		case frames.UniqueID:
			deleteUniqueID(tag, f.ID)
			tag.AddFrame("UFID", id3v2.UFIDFrame{OwnerIdentifier: f.ID, Identifier: []byte(f.Value)})
		case frames.Picture:
			data, mime, err := readImage(f.Image.Path)
			if err != nil {
				return err
			}
			deletePictures(tag, byte(f.Image.Type))
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    mime,
				PictureType: byte(f.Image.Type),
				Description: f.Image.Type.Label(),
				Picture:     data,
			})
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return restore()
}

// keep deletes the frames of id that match, leaving the others in place.
func keep(tag *id3v2.Tag, id string, match func(id3v2.Framer) bool) {
	var kept []id3v2.Framer
	for _, f := range tag.GetFrames(id) {
		if !match(f) {
			kept = append(kept, f)
		}
	}
	tag.DeleteFrames(id)
	for _, f := range kept {
		tag.AddFrame(id, f)
	}
}

func deleteUserText(tag *id3v2.Tag, description string) {
	keep(tag, "TXXX", func(f id3v2.Framer) bool {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		return ok && strings.EqualFold(udtf.Description, description)
	})
}

func deleteUniqueID(tag *id3v2.Tag, owner string) {
	keep(tag, "UFID", func(f id3v2.Framer) bool {
		ufid, ok := f.(id3v2.UFIDFrame)
		return ok && ufid.OwnerIdentifier == owner
	})
}

func deletePictures(tag *id3v2.Tag, pictureType byte) {
	keep(tag, "APIC", func(f id3v2.Framer) bool {
		pic, ok := f.(id3v2.PictureFrame)
		return ok && pic.PictureType == pictureType
	})
}

func writeVorbis(path string, plan frames.Plan) error {
	restore, err := keepTimes(path, plan)
	if err != nil {
		return err
	}

	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	cmts := flacvorbis.New()
	cmts.Vendor = vendor
	var meta []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			if parsed, err := flacvorbis.ParseFromMetaDataBlock(*block); err == nil {
				cmts = parsed
			}
			continue
		}
		meta = append(meta, block)
	}

	for _, fr := range plan.Frames {
		switch fr.Kind {
		case frames.RemovePictures:
			meta = dropBlocks(meta, flac.Picture, flac.Padding)
		case frames.Remove:
			removeComments(cmts, func(key string) bool { return key == fr.ID })
		case frames.RemoveReplayGain:
			removeComments(cmts, func(key string) bool { return strings.HasPrefix(key, "REPLAYGAIN_") })
		case frames.Text, frames.UserText, frames.URL, frames.UniqueID:
			name := fr.ID
			if fr.Kind == frames.UniqueID {
				name = "UFID"
			}
			removeComments(cmts, func(key string) bool { return key == name })
			if err := cmts.Add(name, fr.Value); err != nil {
				return fmt.Errorf("add %s: %w", name, err)
			}
		case frames.Picture:
			data, mime, err := readImage(fr.Image.Path)
			if err != nil {
				return err
			}
			block := artwork.PictureBlock(fr.Image.Type, mime, data)
			meta = append(meta, &block)
		}
	}

	cmtBlock := cmts.Marshal()
	f.Meta = insertAfterStreamInfo(meta, &cmtBlock)

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return restore()
}

func removeComments(cmts *flacvorbis.MetaDataBlockVorbisComment, match func(key string) bool) {
	kept := cmts.Comments[:0]
	for _, c := range cmts.Comments {
		key, _, _ := strings.Cut(c, "=")
		if !match(strings.ToUpper(key)) {
			kept = append(kept, c)
		}
	}
	cmts.Comments = kept
}

func dropBlocks(meta []*flac.MetaDataBlock, types ...flac.BlockType) []*flac.MetaDataBlock {
	var kept []*flac.MetaDataBlock
	for _, block := range meta {
		drop := false
		for _, t := range types {
			if block.Type == t {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, block)
		}
	}
	return kept
}

func insertAfterStreamInfo(meta []*flac.MetaDataBlock, block *flac.MetaDataBlock) []*flac.MetaDataBlock {
	if len(meta) == 0 || meta[0].Type != flac.StreamInfo {
		return append([]*flac.MetaDataBlock{block}, meta...)
	}
	out := make([]*flac.MetaDataBlock, 0, len(meta)+1)
	out = append(out, meta[0], block)
	return append(out, meta[1:]...)
}

func readImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read artwork: %w", err)
	}
	return data, mimetype.Detect(data).String(), nil
}

// keepTimes records the modification time when the plan asks to preserve it
// and returns a function restoring it.
func keepTimes(path string, plan frames.Plan) (func() error, error) {
	preserve := false
	for _, f := range plan.Frames {
		if f.Kind == frames.PreserveTimes {
			preserve = true
			break
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !preserve {
		return func() error { return nil }, nil
	}
	modTime := info.ModTime()
	return func() error {
		return os.Chtimes(path, time.Now(), modTime)
	}, nil
}
