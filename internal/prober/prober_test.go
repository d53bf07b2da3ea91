package prober

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

func TestFromTags(t *testing.T) {
	info := FromTags(map[string][]string{
		"ARTIST":      {"A", "B"},
		"TITLE":       {"Song (Original Mix)"},
		"ALBUM":       {"EP"},
		"ALBUMARTIST": {"A"},
		"TRACKNUMBER": {"2/4"},
		"DATE":        {"2020-05-01"},
		"BPM":         {"124"},
		"INITIALKEY":  {"Fm"},
		"LABEL":       {"Label"},
	})

	assert.Equal(t, []string{"A", "B"}, info.Artists)
	assert.Equal(t, "Song (Original Mix)", info.Title)
	assert.Equal(t, 124, info.BPM)
	assert.Equal(t, "Fm", info.Key)
	assert.Equal(t, 2020, info.Year)
	assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), info.Released)
	assert.Equal(t, &metadata.AlbumInfo{Title: "EP", Artists: []string{"A"}, TrackNumber: 2, TrackTotal: 4}, info.Album)
	assert.Equal(t, &metadata.PublisherInfo{Name: "Label"}, info.Publisher)
	assert.Nil(t, info.Remixers)
}

func TestFromTagsYearOnly(t *testing.T) {
	info := FromTags(map[string][]string{"DATE": {"1999"}, "BPM": {"fast"}})
	assert.Equal(t, 1999, info.Year)
	assert.True(t, info.Released.IsZero())
	assert.Zero(t, info.BPM)
	assert.Nil(t, info.Album)
	assert.Nil(t, info.Publisher)
}
