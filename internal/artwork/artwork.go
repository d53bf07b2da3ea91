package artwork

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/thanhpk/randstr"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
)

// BlockType is the picture type code of an embedded picture block.
type BlockType int

const (
	FileIcon           BlockType = 1
	CoverFront         BlockType = 3
	CoverBack          BlockType = 4
	BrightColouredFish BlockType = 17
	PublisherLogotype  BlockType = 20
)

var blockLabels = map[BlockType]string{
	FileIcon:           "File Icon",
	CoverFront:         "Front Cover",
	CoverBack:          "Back Cover",
	BrightColouredFish: "Waveform",
	PublisherLogotype:  "Publisher Logotype",
}

// Label is the human readable description attached to a picture of this type.
func (b BlockType) Label() string {
	if label, ok := blockLabels[b]; ok {
		return label
	}
	return fmt.Sprintf("Picture %d", int(b))
}

// BlockExport describes one embedded picture and, once exported, its staged file.
type BlockExport struct {
	Number   int
	Type     BlockType
	MIMEType string
	Path     string
}

// Directory lists the picture blocks of a container. The slices are parallel
// but may disagree in length when the listing is incomplete.
type Directory struct {
	Numbers   []int
	Types     []BlockType
	MIMETypes []string
}

// Container gives access to the embedded pictures of an audio file.
type Container interface {
	Pictures(ctx context.Context) (Directory, error)
	ExportPicture(ctx context.Context, number int, dest string) error
}

// ListBlocks pairs the picture blocks of c by position. Mismatched listings
// are truncated to the shortest slice with a warning.
func ListBlocks(ctx context.Context, c Container, log *logger.Logger) ([]BlockExport, error) {
	dir, err := c.Pictures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list picture blocks: %w", err)
	}

	n := min(len(dir.Numbers), len(dir.Types), len(dir.MIMETypes))
	if n != len(dir.Numbers) || n != len(dir.Types) || n != len(dir.MIMETypes) {
		log.Warn("Picture block listing is inconsistent: %d blocks, %d types, %d MIME types",
			len(dir.Numbers), len(dir.Types), len(dir.MIMETypes))
	}

	blocks := make([]BlockExport, 0, n)
	for i := 0; i < n; i++ {
		blocks = append(blocks, BlockExport{
			Number:   dir.Numbers[i],
			Type:     dir.Types[i],
			MIMEType: dir.MIMETypes[i],
		})
	}
	return blocks, nil
}

// ExportBlocks writes every block of a wanted type to a randomly named file in
// dir. With no wanted types nothing is exported. Blocks that fail to export
// are logged and left out of the result.
func ExportBlocks(ctx context.Context, c Container, dir string, log *logger.Logger, wanted ...BlockType) ([]BlockExport, error) {
	blocks, err := ListBlocks(ctx, c, log)
	if err != nil {
		return nil, err
	}

	want := make(map[BlockType]bool, len(wanted))
	for _, t := range wanted {
		want[t] = true
	}

	var exported []BlockExport
	for _, b := range blocks {
		if !want[b.Type] {
			continue
		}
		b.Path = filepath.Join(dir, randstr.Hex(20)+Extension(b.MIMEType))
		if err := c.ExportPicture(ctx, b.Number, b.Path); err != nil {
			log.Warn("Cannot export picture block #%d (%s): %v", b.Number, b.Type.Label(), err)
			os.Remove(b.Path)
			continue
		}
		exported = append(exported, b)
	}
	return exported, nil
}

// Extension returns the file extension, with its dot, for a MIME type.
func Extension(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" {
		return "." + sub
	}
	return ""
}

// Staged holds locally downloaded artwork waiting to be embedded. Empty paths
// mean the image is not available.
type Staged struct {
	FrontCover        string
	Waveform          string
	PublisherLogotype string
}

// Any reports whether at least one image is staged.
func (s Staged) Any() bool {
	return s.FrontCover != "" || s.Waveform != "" || s.PublisherLogotype != ""
}

// Entries returns the staged images in embedding order with their block types.
func (s Staged) Entries() []BlockExport {
	var entries []BlockExport
	for _, e := range []BlockExport{
		{Type: CoverFront, Path: s.FrontCover},
		{Type: BrightColouredFish, Path: s.Waveform},
		{Type: PublisherLogotype, Path: s.PublisherLogotype},
	} {
		if e.Path != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// Remove deletes every staged file. It is safe to call more than once.
func (s Staged) Remove() error {
	var firstErr error
	for _, e := range s.Entries() {
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// IsImage reports whether the content of path is detected as an image.
func IsImage(path string) bool {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(m.String(), "image")
}
