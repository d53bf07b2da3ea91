package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
)

// Handler cancels running work on SIGINT/SIGTERM and runs the registered
// cleanups, such as removing the artwork staging directory.
type Handler struct {
	ctx        context.Context
	cancel     context.CancelFunc
	log        *logger.Logger
	wg         sync.WaitGroup
	once       sync.Once
	cleanupFns []func()
	mu         sync.Mutex
}

// New creates a new shutdown handler
func New(log *logger.Logger) *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Context is cancelled once shutdown starts.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// AddCleanup registers fn to run on shutdown. Cleanups run in reverse order
// of registration.
func (h *Handler) AddCleanup(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanupFns = append(h.cleanupFns, fn)
}

// Listen starts listening for shutdown signals
func (h *Handler) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			h.log.Warn("Received %s, stopping after the current track...", sig)
			h.Shutdown()
		case <-h.ctx.Done():
		}
		signal.Stop(sigChan)
	}()
}

// Shutdown cancels the context, waits for tracked work and runs the
// cleanups. Only the first call has an effect.
func (h *Handler) Shutdown() {
	h.once.Do(func() {
		h.cancel()
		h.wg.Wait()

		h.mu.Lock()
		fns := h.cleanupFns
		h.cleanupFns = nil
		h.mu.Unlock()

		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}

// Go runs fn in a goroutine that Shutdown waits for.
func (h *Handler) Go(fn func(ctx context.Context)) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		fn(h.ctx)
	}()
}

// Wait waits for all work started with Go.
func (h *Handler) Wait() {
	h.wg.Wait()
}
