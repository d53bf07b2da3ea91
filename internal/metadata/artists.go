package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	majorPattern = regexp.MustCompile(`(?i)maj(or)?`)
	minorPattern = regexp.MustCompile(`(?i)min(or)?`)
	spacePattern = regexp.MustCompile(`\s`)
)

// BuildArtists copies names, skipping empty ones and any name already credited
// in a "feat."/"ft." clause of title. A nil or empty input yields an empty list.
func BuildArtists(names []string, title string) []string {
	artists := []string{}
	for _, name := range names {
		if name == "" {
			continue
		}
		if title != "" {
			credited := regexp.MustCompile(`(?i)(feat|ft).+` + regexp.QuoteMeta(name))
			if credited.MatchString(title) {
				continue
			}
		}
		artists = append(artists, ReplaceTagForbiddenChars(name))
	}
	return artists
}

// BuildGenreTag returns "genre" or "genre | subgenre", or "" without a genre.
func BuildGenreTag(genre, subgenre string) string {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return ""
	}
	if subgenre = strings.TrimSpace(subgenre); subgenre != "" {
		return genre + " | " + subgenre
	}
	return genre
}

// BuildKeyTag shortens a catalog key name such as "A♭ Minor" to "Abm".
func BuildKeyTag(key string) (string, error) {
	tag := strings.TrimSpace(key)
	tag = strings.Replace(tag, "♭ ", "b", 1)
	tag = strings.Replace(tag, "♯ ", "#", 1)
	tag = replaceFirst(majorPattern, tag, "")
	tag = replaceFirst(minorPattern, tag, "m")
	tag = spacePattern.ReplaceAllString(tag, "")

	if utf8.RuneCountInString(tag) > 3 {
		return "", fmt.Errorf("wrong key tag %q created from %q", tag, key)
	}
	return tag, nil
}
