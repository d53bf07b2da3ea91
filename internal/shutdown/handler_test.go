package shutdown

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
)

func TestShutdownRunsCleanupsOnce(t *testing.T) {
	h := New(logger.NewWithWriters(false, io.Discard, io.Discard))

	var order []string
	h.AddCleanup(func() { order = append(order, "first") })
	h.AddCleanup(func() { order = append(order, "second") })

	h.Shutdown()
	h.Shutdown()

	assert.Equal(t, []string{"second", "first"}, order)
	require.ErrorIs(t, h.Context().Err(), context.Canceled)
}

func TestShutdownWaitsForWork(t *testing.T) {
	h := New(logger.NewWithWriters(false, io.Discard, io.Discard))

	started := make(chan struct{})
	finished := false
	h.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished = true
	})
	<-started

	cleanedAfterWork := false
	h.AddCleanup(func() { cleanedAfterWork = finished })

	h.Shutdown()
	assert.True(t, finished)
	assert.True(t, cleanedAfterWork)
}
