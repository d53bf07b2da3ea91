// Package renamer moves tagged tracks to names bound from their metadata.
package renamer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bearbyt3z/bear-tunes/internal/metadata"
	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

var fieldPattern = regexp.MustCompile(`%\w+%`)

// MissingFieldError reports a pattern field that has no value in the track.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("pattern field %q is not defined for this track", e.Field)
}

// InvalidFieldError reports a pattern token that names no known field.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("pattern contains unknown field %q", e.Field)
}

// field returns the value of a named field and whether it is defined.
type field func(t *metadata.TrackInfo) (string, bool)

func text(s string) (string, bool) { return s, s != "" }

func number(n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	return strconv.Itoa(n), true
}

func list(names []string) (string, bool) {
	if names == nil {
		return "", false
	}
	return strings.Join(names, ", "), true
}

var fields = map[string]field{
	"url":      func(t *metadata.TrackInfo) (string, bool) { return text(t.URL) },
	"artists":  func(t *metadata.TrackInfo) (string, bool) { return list(t.Artists) },
	"title":    func(t *metadata.TrackInfo) (string, bool) { return text(t.Title) },
	"remixers": func(t *metadata.TrackInfo) (string, bool) { return list(t.Remixers) },
	"released": func(t *metadata.TrackInfo) (string, bool) { return text(t.ReleasedDate()) },
	"year":     func(t *metadata.TrackInfo) (string, bool) { return number(t.Year) },
	"genre":    func(t *metadata.TrackInfo) (string, bool) { return text(t.Genre) },
	"bpm":      func(t *metadata.TrackInfo) (string, bool) { return number(t.BPM) },
	"key":      func(t *metadata.TrackInfo) (string, bool) { return text(t.Key) },
	"isrc":     func(t *metadata.TrackInfo) (string, bool) { return text(t.ISRC) },
	"ufid":     func(t *metadata.TrackInfo) (string, bool) { return text(t.UFID) },
	"waveform": func(t *metadata.TrackInfo) (string, bool) { return text(t.Waveform) },
	"album": func(t *metadata.TrackInfo) (string, bool) {
		if t.Album == nil {
			return "", false
		}
		return t.Album.Title, true
	},
	"publisher": func(t *metadata.TrackInfo) (string, bool) {
		if t.Publisher == nil {
			return "", false
		}
		return t.Publisher.Name, true
	},
}

// BindPattern replaces every %field% token of pattern with the value of that
// field. List fields are joined with ", ". Defined but empty lists bind to "".
// Scalar fields follow the TrackInfo convention that the zero value means
// absent: an empty string or a non-positive number is a MissingFieldError.
// Album and publisher are defined by their presence, so an empty album title
// binds to "".
func BindPattern(pattern string, t *metadata.TrackInfo) (string, error) {
	var bindErr error
	bound := fieldPattern.ReplaceAllStringFunc(pattern, func(token string) string {
		if bindErr != nil {
			return token
		}
		name := strings.Trim(token, "%")
		get, ok := fields[name]
		if !ok {
			bindErr = &InvalidFieldError{Field: name}
			return token
		}
		value, defined := get(t)
		if !defined {
			bindErr = &MissingFieldError{Field: name}
			return token
		}
		return value
	})
	if bindErr != nil {
		return "", bindErr
	}
	return bound, nil
}

// Renamer moves files to <outputDir>/<directory pattern>/<filename pattern><ext>.
type Renamer struct {
	FilenamePattern  string
	DirectoryPattern string
	// ASCII folds accented letters in the new names to their base letters.
	ASCII bool
}

// Destination computes the new path of the file without touching it. An
// empty outputDir keeps the file in its directory and ignores DirectoryPattern.
func (r *Renamer) Destination(path string, t *metadata.TrackInfo, outputDir string) (string, error) {
	filename, err := BindPattern(r.FilenamePattern, t)
	if err != nil {
		return "", err
	}
	filename = r.clean(filename) + filepath.Ext(path)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(path), filename), nil
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		return "", fmt.Errorf("cannot access output directory %s: %w", outputDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path %s is not a directory", outputDir)
	}

	parts := []string{outputDir}
	for _, segment := range strings.Split(r.DirectoryPattern, "/") {
		if segment == "" {
			continue
		}
		bound, err := BindPattern(segment, t)
		if err != nil {
			return "", err
		}
		if bound = r.clean(bound); bound != "" {
			parts = append(parts, bound)
		}
	}
	return filepath.Join(append(parts, filename)...), nil
}

// Rename moves the file at path to its destination and returns the new path.
func (r *Renamer) Rename(path string, t *metadata.TrackInfo, outputDir string) (string, error) {
	dest, err := r.Destination(path, t, outputDir)
	if err != nil {
		return "", err
	}
	if err := utils.MoveFile(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (r *Renamer) clean(name string) string {
	name = strings.TrimSpace(metadata.ReplacePathForbiddenChars(name))
	if r.ASCII {
		name = foldASCII(name)
	}
	return name
}

func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
