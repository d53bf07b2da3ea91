package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	barWidth   = 30
	labelWidth = 32
)

// Bar draws the position of a directory run on a single terminal line,
// followed by the name of the last processed file.
type Bar struct {
	out       io.Writer
	total     int
	current   int
	failed    int
	label     string
	mu        sync.Mutex
	startTime time.Time
	lastPrint time.Time
	done      bool
	now       func() time.Time
}

// New creates a new progress bar writing to out.
func New(total int, out io.Writer) *Bar {
	return &Bar{
		out:       out,
		total:     total,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Increment records one processed file. Redraws are throttled to every
// 500ms except for the last file.
func (b *Bar) Increment(label string, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	b.label = label
	if failed {
		b.failed++
	}

	now := b.now()
	if now.Sub(b.lastPrint) > 500*time.Millisecond || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.done {
		b.current = b.total
		b.label = ""
		b.render()
		fmt.Fprintln(b.out)
		b.done = true
	}
}

func (b *Bar) render() {
	if b.done || b.total <= 0 {
		return
	}

	percentage := float64(b.current) / float64(b.total) * 100
	elapsed := b.now().Sub(b.startTime)

	var eta time.Duration
	if b.current > 0 {
		eta = elapsed / time.Duration(b.current) * time.Duration(b.total-b.current)
	}

	filled := barWidth * b.current / b.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(b.out, "\r[%s] %d/%d (%.1f%%) failed: %d - ETA: %s %s",
		bar,
		b.current,
		b.total,
		percentage,
		b.failed,
		formatDuration(eta),
		fitLabel(b.label),
	)
}

// fitLabel truncates or pads the label to a fixed number of terminal
// columns so that wide characters do not shift the line.
func fitLabel(label string) string {
	return runewidth.FillRight(runewidth.Truncate(label, labelWidth, "…"), labelWidth)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
