package artwork

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bearbyt3z/bear-tunes/internal/command"
)

var (
	blockNumberLine = regexp.MustCompile(`^METADATA block #(\d+)`)
	pictureTypeLine = regexp.MustCompile(`^\s+type: (\d+) \((.*)\)\s*$`)
	mimeTypeLine    = regexp.MustCompile(`^\s+MIME type: (\S+)`)
)

// Metaflac reads picture blocks through the metaflac tool.
type Metaflac struct {
	Runner command.Runner
	Path   string
}

func (m Metaflac) Pictures(ctx context.Context) (Directory, error) {
	res, err := m.Runner.Run(ctx, command.Command{
		Name: "metaflac",
		Args: []string{"--list", "--block-type=PICTURE", m.Path},
	})
	if err != nil {
		return Directory{}, err
	}
	return ParseListing(res.Stdout), nil
}

func (m Metaflac) ExportPicture(ctx context.Context, number int, dest string) error {
	_, err := m.Runner.Run(ctx, command.Command{
		Name: "metaflac",
		Args: []string{
			fmt.Sprintf("--block-number=%d", number),
			"--export-picture-to=" + dest,
			m.Path,
		},
	})
	return err
}

// ParseListing extracts block numbers, picture types and MIME types from the
// output of "metaflac --list --block-type=PICTURE". Each list is collected on
// its own so a truncated listing yields slices of different lengths.
func ParseListing(out string) Directory {
	var dir Directory
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if m := blockNumberLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			dir.Numbers = append(dir.Numbers, n)
			continue
		}
		if m := mimeTypeLine.FindStringSubmatch(line); m != nil {
			dir.MIMETypes = append(dir.MIMETypes, m[1])
			continue
		}
		// the block header carries "type: 6 (PICTURE)" as well
		if m := pictureTypeLine.FindStringSubmatch(line); m != nil && m[2] != "PICTURE" {
			n, _ := strconv.Atoi(m[1])
			dir.Types = append(dir.Types, BlockType(n))
		}
	}
	return dir
}
