package artwork

import (
	"context"
	"fmt"
	"os"

	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"
)

// NativeFLAC reads picture blocks by parsing the FLAC file directly.
// Block numbers count every metadata block, STREAMINFO being #0.
type NativeFLAC struct {
	Path string
}

func (n NativeFLAC) Pictures(ctx context.Context) (Directory, error) {
	f, err := flac.ParseFile(n.Path)
	if err != nil {
		return Directory{}, fmt.Errorf("failed to parse %s: %w", n.Path, err)
	}

	var dir Directory
	for i, meta := range f.Meta {
		if meta.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		dir.Numbers = append(dir.Numbers, i)
		dir.Types = append(dir.Types, BlockType(pic.PictureType))
		dir.MIMETypes = append(dir.MIMETypes, pic.MIME)
	}
	return dir, nil
}

func (n NativeFLAC) ExportPicture(ctx context.Context, number int, dest string) error {
	f, err := flac.ParseFile(n.Path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", n.Path, err)
	}
	if number < 0 || number >= len(f.Meta) || f.Meta[number].Type != flac.Picture {
		return fmt.Errorf("block #%d is not a picture", number)
	}

	pic, err := flacpicture.ParseFromMetaDataBlock(*f.Meta[number])
	if err != nil {
		return fmt.Errorf("failed to decode picture block #%d: %w", number, err)
	}
	return os.WriteFile(dest, pic.ImageData, 0644)
}

// PictureBlock builds a FLAC picture block for image data. Dimensions are
// filled in for JPEG and PNG images only.
func PictureBlock(t BlockType, mimeType string, data []byte) flac.MetaDataBlock {
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureType(t), t.Label(), data, mimeType)
	if err != nil {
		pic = &flacpicture.MetadataBlockPicture{
			PictureType: flacpicture.PictureType(t),
			MIME:        mimeType,
			Description: t.Label(),
			ImageData:   data,
		}
	}
	return pic.Marshal()
}
