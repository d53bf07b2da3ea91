package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFitLabel(t *testing.T) {
	assert.Equal(t, labelWidth, runewidth.StringWidth(fitLabel("short.mp3")))
	assert.Equal(t, labelWidth, runewidth.StringWidth(fitLabel(strings.Repeat("音", 40))))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(fitLabel(strings.Repeat("a", 50))), "…"))
}

func TestBarRendersProgress(t *testing.T) {
	var out bytes.Buffer
	b := New(2, &out)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b.startTime = clock
	b.now = func() time.Time { return clock }

	clock = clock.Add(time.Second)
	b.Increment("first.mp3", false)
	assert.Contains(t, out.String(), "1/2 (50.0%) failed: 0")
	assert.Contains(t, out.String(), "first.mp3")

	out.Reset()
	clock = clock.Add(time.Second)
	b.Increment("second.mp3", true)
	assert.Contains(t, out.String(), "2/2 (100.0%) failed: 1")

	out.Reset()
	b.Finish()
	assert.True(t, strings.HasSuffix(out.String(), "\n"))

	out.Reset()
	b.Finish()
	assert.Empty(t, out.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h1m", formatDuration(61*time.Minute))
}
