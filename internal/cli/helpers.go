package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/rewind/internal/demo"
	"github.com/aretw0/rewind/internal/logging"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"github.com/aretw0/rewind/pkg/observability"
	"github.com/aretw0/rewind/pkg/store"
)

// errInterrupted is reported by InterruptibleReader once its cancel channel closes.
var errInterrupted = errors.New("interrupted")

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger configures the application logger from cfg.
// It writes to Stderr (to separate from Stdout REPL output).
func NewLogger(cfg LogConfig) *slog.Logger {
	return logging.New(cfg.SlogLevel())
}

// NewCounterStore builds the demo counter store used by every command.
// In debug mode every store event is logged.
func NewCounterStore(cfg Config, logger *slog.Logger, opts ...store.Option) *store.Store[demo.Counter] {
	storeOpts := []store.Option{
		store.WithLogger(logger),
		store.WithEnhancerOptions(enhancer.WithInitialMessage(cfg.History.InitialMessage)),
	}
	if cfg.Log.Debug {
		storeOpts = append(storeOpts, store.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	return store.New(demo.Reduce, append(storeOpts, opts...)...)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// InterruptibleReader wraps an io.Reader (like os.Stdin) and checks for a cancellation signal.
type InterruptibleReader struct {
	base   io.Reader
	cancel <-chan struct{}
}

func NewInterruptibleReader(base io.Reader, cancel <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{
		base:   base,
		cancel: cancel,
	}
}

func (r *InterruptibleReader) Read(p []byte) (n int, err error) {
	// Check before blocking
	select {
	case <-r.cancel:
		return 0, errInterrupted
	default:
	}

	// Read (This blocks!)
	n, err = r.base.Read(p)

	// Check after returning
	select {
	case <-r.cancel:
		return 0, errInterrupted
	default:
	}
	return n, err
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, errInterrupted) ||
		errors.Is(err, io.EOF)
}

// handleExecutionError turns interruptions into a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

// describe renders the one-line summary printed after every REPL command.
func describe(st enhancer.State[demo.Counter]) string {
	msg := ""
	if e, ok := st.History.Current(); ok && e.Message != "" {
		msg = fmt.Sprintf(" (%s)", e.Message)
	}
	return fmt.Sprintf("value=%d head=%d/%d%s", st.Base.Value, st.History.Head(), st.History.Len(), msg)
}

// reason names a rejection for the user.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		return "no such history entry"
	case errors.Is(err, domain.ErrInvalidPayload):
		return "invalid argument"
	}
	return err.Error()
}
