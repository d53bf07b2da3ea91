package tagwriter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
)

var oldTime = time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)

func writeFLAC(t *testing.T, comments ...string) string {
	t.Helper()
	cmts := flacvorbis.New()
	cmts.Comments = comments
	cmtBlock := cmts.Marshal()
	oldPic := artwork.PictureBlock(artwork.CoverFront, "image/gif", []byte("GIF89a"))

	f := &flac.File{
		Meta: []*flac.MetaDataBlock{
			{Type: flac.StreamInfo, Data: make([]byte, 34)},
			&cmtBlock,
			&oldPic,
			{Type: flac.Padding, Data: make([]byte, 16)},
		},
		Frames: []byte{0xFF, 0xF8, 0x00, 0x00},
	}
	path := filepath.Join(t.TempDir(), "track.flac")
	require.NoError(t, f.Save(path))
	require.NoError(t, os.Chtimes(path, oldTime, oldTime))
	return path
}

func TestNativeBackendFLAC(t *testing.T) {
	path := writeFLAC(t, "ARTIST=Old Artist", "COMMENT=ripped", "REPLAYGAIN_TRACK_GAIN=-3 dB", "MOOD=dark")

	cover := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(cover, pngBytes(t), 0644))

	b := &NativeBackend{Owner: owner, Logger: quietLogger()}
	require.NoError(t, b.Write(context.Background(), path, sampleTrack(), artwork.Staged{FrontCover: cover}))

	f, err := flac.ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, flac.StreamInfo, f.Meta[0].Type)
	assert.Equal(t, flac.VorbisComment, f.Meta[1].Type)

	cmts, err := flacvorbis.ParseFromMetaDataBlock(*f.Meta[1])
	require.NoError(t, err)
	assert.Contains(t, cmts.Comments, "ARTIST=Deadmau5")
	assert.Contains(t, cmts.Comments, "TITLE=Strobe (Original Mix)")
	assert.Contains(t, cmts.Comments, "TRACKNUMBER=3")
	assert.Contains(t, cmts.Comments, "INITIAL KEY=Bm")
	assert.Contains(t, cmts.Comments, "UFID=track-1234")
	assert.Contains(t, cmts.Comments, "MOOD=dark")
	assert.NotContains(t, cmts.Comments, "ARTIST=Old Artist")
	assert.NotContains(t, cmts.Comments, "COMMENT=ripped")
	assert.NotContains(t, cmts.Comments, "REPLAYGAIN_TRACK_GAIN=-3 dB")

	var pictures []*flacpicture.MetadataBlockPicture
	for _, block := range f.Meta {
		assert.NotEqual(t, flac.Padding, block.Type)
		if block.Type == flac.Picture {
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			require.NoError(t, err)
			pictures = append(pictures, pic)
		}
	}
	require.Len(t, pictures, 1)
	assert.Equal(t, "image/png", pictures[0].MIME)
	assert.Equal(t, "Front Cover", pictures[0].Description)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(oldTime), "modification time changed to %s", info.ModTime())
}

func TestNativeBackendFLACKeepsPicturesWithoutArtwork(t *testing.T) {
	path := writeFLAC(t, "ARTIST=Old Artist")

	b := &NativeBackend{Logger: quietLogger()}
	require.NoError(t, b.Write(context.Background(), path, sampleTrack(), artwork.Staged{}))

	f, err := flac.ParseFile(path)
	require.NoError(t, err)
	pictures := 0
	for _, block := range f.Meta {
		if block.Type == flac.Picture {
			pictures++
		}
	}
	assert.Equal(t, 1, pictures)
}

func writeMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")
	audio := append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 413)...)
	require.NoError(t, os.WriteFile(path, audio, 0644))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.AddTextFrame("TPE1", id3v2.EncodingUTF8, "Old Artist")
	tag.AddTextFrame("TCOP", id3v2.EncodingUTF8, "(c) someone")
	tag.AddCommentFrame(id3v2.CommentFrame{Encoding: id3v2.EncodingUTF8, Language: "eng", Text: "ripped"})
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{Encoding: id3v2.EncodingUTF8, Description: "DESCRIPTION", Value: "promo"})
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{Encoding: id3v2.EncodingUTF8, Description: "MOOD", Value: "dark"})
	require.NoError(t, tag.Save())
	require.NoError(t, tag.Close())
	return path
}

func TestNativeBackendMP3(t *testing.T) {
	path := writeMP3(t)
	cover := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(cover, pngBytes(t), 0644))

	b := &NativeBackend{Versions: []string{"2.4", "1.1"}, Owner: owner, Logger: quietLogger()}
	require.NoError(t, b.Write(context.Background(), path, sampleTrack(), artwork.Staged{FrontCover: cover}))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, byte(4), tag.Version())
	assert.Equal(t, "Deadmau5", tag.Artist())
	assert.Equal(t, "Strobe (Original Mix)", tag.Title())
	assert.Equal(t, "3/10", tag.GetTextFrame("TRCK").Text)
	assert.Equal(t, "mau5trap", tag.GetTextFrame("TIT1").Text)
	assert.Empty(t, tag.GetFrames("COMM"))
	assert.Empty(t, tag.GetFrames("TCOP"))

	descriptions := map[string]string{}
	for _, f := range tag.GetFrames("TXXX") {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		require.True(t, ok)
		descriptions[udtf.Description] = udtf.Value
	}
	assert.Equal(t, map[string]string{"MOOD": "dark", "INITIALKEY": "Bm"}, descriptions)

	ufids := tag.GetFrames("UFID")
	require.Len(t, ufids, 1)
	ufid, ok := ufids[0].(id3v2.UFIDFrame)
	require.True(t, ok)
	assert.Equal(t, owner, ufid.OwnerIdentifier)
	assert.Equal(t, []byte("track-1234"), ufid.Identifier)

	pictures := tag.GetFrames("APIC")
	require.Len(t, pictures, 1)
	pic, ok := pictures[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, byte(artwork.CoverFront), pic.PictureType)
	assert.Equal(t, "image/png", pic.MimeType)
}
