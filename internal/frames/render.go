package frames

import (
	"strconv"
	"strings"

	"github.com/bearbyt3z/bear-tunes/internal/artwork"
)

// eyeD3 has dedicated options for these frames.
var eyeD3Options = map[string]string{
	"TPE1": "--artist",
	"TPE2": "--album-artist",
	"TBPM": "--bpm",
	"TCON": "--genre",
	"TPUB": "--publisher",
}

var eyeD3ImageTypes = map[artwork.BlockType]string{
	artwork.FileIcon:           "ICON",
	artwork.CoverFront:         "FRONT_COVER",
	artwork.CoverBack:          "BACK_COVER",
	artwork.BrightColouredFish: "BRIGHT_COLORED_FISH",
	artwork.PublisherLogotype:  "PUBLISHER_LOGO",
}

// EscapeColons protects ':' inside eyeD3 option values, where it separates fields.
func EscapeColons(s string) string {
	return strings.ReplaceAll(s, ":", `\:`)
}

// EyeD3Args renders an MP3 plan as eyeD3 arguments ending with the track path.
func EyeD3Args(p Plan, path string) []string {
	args := []string{"--v2", "--to-v" + string(p.Version), "--verbose"}

	for _, f := range p.Frames {
		switch f.Kind {
		case Text:
			if opt, ok := eyeD3Options[f.ID]; ok {
				args = append(args, opt, f.Value)
			} else {
				args = append(args, "--text-frame", f.ID+":"+EscapeColons(f.Value))
			}
		case UserText:
			args = append(args, "--user-text-frame", f.ID+":"+EscapeColons(f.Value))
		case URL:
			args = append(args, "--url-frame", f.ID+":"+EscapeColons(f.Value))
		case UniqueID:
			args = append(args, "--unique-file-id", EscapeColons(f.ID)+":"+f.Value)
		case Picture:
			args = append(args, "--add-image",
				EscapeColons(f.Image.Path)+":"+eyeD3ImageTypes[f.Image.Type]+":"+f.Image.Type.Label())
		case Remove:
			args = append(args, "--remove-frame", f.ID)
		case RemoveUserText:
			args = append(args, "--user-text-frame", f.ID+":")
		case RemoveComments:
			args = append(args, "--remove-all-comments")
		case PreserveTimes:
			args = append(args, "--preserve-file-times")
		}
	}

	return append(args, path)
}

// MetaflacInvocations renders a FLAC plan as one or two metaflac argument
// lists. Existing pictures are removed in a separate first call.
func MetaflacInvocations(p Plan, path string) [][]string {
	var prefix []string
	for _, f := range p.Frames {
		if f.Kind == PreserveTimes {
			prefix = append(prefix, "--preserve-modtime")
			break
		}
	}
	prefix = append(prefix, "--dont-use-padding")

	var invocations [][]string
	args := append([]string{}, prefix...)

	for _, f := range p.Frames {
		switch f.Kind {
		case RemovePictures:
			remove := append(append([]string{}, prefix...), "--remove", "--block-type=PICTURE,PADDING", path)
			invocations = append(invocations, remove)
		case Remove:
			args = append(args, "--remove-tag="+f.ID)
		case RemoveReplayGain:
			args = append(args, "--remove-replay-gain")
		case Text, UserText, URL, UniqueID:
			name := f.ID
			if f.Kind == UniqueID {
				name = "UFID"
			}
			args = append(args, "--remove-tag="+name, "--set-tag="+name+"="+f.Value)
		case Picture:
			args = append(args, "--import-picture-from="+
				strconv.Itoa(int(f.Image.Type))+"||"+f.Image.Type.Label()+"||"+f.Image.Path)
		}
	}

	return append(invocations, append(args, path))
}
