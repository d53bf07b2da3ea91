// Package prober reads the existing tags and length of local audio files.
package prober

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.senan.xyz/taglib"

	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

// Taglib probes files with TagLib.
type Taglib struct{}

// Probe returns the tags found in the file and its duration. Only fields that
// are present in the file are set.
func (Taglib) Probe(path string) (metadata.TrackInfo, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return metadata.TrackInfo{}, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}
	info := FromTags(tags)

	props, err := taglib.ReadProperties(path)
	if err != nil {
		return info, fmt.Errorf("failed to read properties of %s: %w", path, err)
	}
	if props.Length > 0 {
		info.Details = &metadata.TrackDetails{Duration: props.Length.Seconds()}
	}
	return info, nil
}

// FromTags maps a TagLib property map onto a TrackInfo.
func FromTags(tags map[string][]string) metadata.TrackInfo {
	info := metadata.TrackInfo{
		URL:      first(tags, "WWWAUDIOFILE"),
		Artists:  tags[taglib.Artist],
		Title:    first(tags, taglib.Title),
		Remixers: tags["REMIXER"],
		Genre:    first(tags, taglib.Genre),
		Key:      first(tags, taglib.InitialKey),
		ISRC:     first(tags, taglib.ISRC),
	}

	if bpm, err := strconv.Atoi(first(tags, taglib.BPM)); err == nil && bpm > 0 {
		info.BPM = bpm
	}

	if date := first(tags, taglib.Date); date != "" {
		if t, err := time.Parse(time.DateOnly, date); err == nil {
			info.Released = t
			info.Year = t.Year()
		} else if year, err := strconv.Atoi(date[:min(4, len(date))]); err == nil && year > 0 {
			info.Year = year
		}
	}

	if album := first(tags, taglib.Album); album != "" {
		info.Album = &metadata.AlbumInfo{Title: album, Artists: tags[taglib.AlbumArtist]}
		if n, total, ok := strings.Cut(first(tags, taglib.TrackNumber), "/"); n != "" {
			info.Album.TrackNumber, _ = strconv.Atoi(n)
			if ok {
				info.Album.TrackTotal, _ = strconv.Atoi(total)
			}
		}
	}

	if label := first(tags, taglib.Label); label != "" {
		info.Publisher = &metadata.PublisherInfo{Name: label}
	}
	return info
}

func first(tags map[string][]string, key string) string {
	if values := tags[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}
