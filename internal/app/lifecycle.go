package app

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc is a function called during shutdown.
// It receives a context that may be cancelled if shutdown times out.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Lifecycle runs named shutdown hooks once, last registered first.
type Lifecycle struct {
	mu           sync.Mutex
	hooks        []hook
	shutdownCh   chan struct{}
	timeout      time.Duration
	shutdownOnce sync.Once
	err          error
}

// NewLifecycle creates a new lifecycle manager with the specified shutdown timeout.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	return &Lifecycle{
		shutdownCh: make(chan struct{}),
		timeout:    timeout,
	}
}

// OnShutdown registers a function to be called during shutdown.
// Functions are called in reverse order of registration (LIFO).
func (l *Lifecycle) OnShutdown(name string, fn ShutdownFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook{name: name, fn: fn})
}

// Hooks returns the registered hook names in the order they will run.
func (l *Lifecycle) Hooks() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.hooks))
	for i := len(l.hooks) - 1; i >= 0; i-- {
		names = append(names, l.hooks[i].name)
	}
	return names
}

// WatchSignals returns a context that is cancelled on SIGINT or SIGTERM,
// or when shutdown starts.
func (l *Lifecycle) WatchSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-l.shutdownCh:
			stop()
		case <-ctx.Done():
		}
	}()
	return ctx, stop
}

// Shutdown calls every hook in reverse order of registration. All hooks run
// even if one fails; their errors are joined. Later calls return the result
// of the first.
func (l *Lifecycle) Shutdown() error {
	l.shutdownOnce.Do(func() {
		close(l.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		l.mu.Lock()
		hooks := make([]hook, len(l.hooks))
		copy(hooks, l.hooks)
		l.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i].fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		l.err = stderrors.Join(errs...)
	})

	return l.err
}

// ShutdownCh returns a channel that's closed when shutdown starts.
func (l *Lifecycle) ShutdownCh() <-chan struct{} {
	return l.shutdownCh
}

// IsShuttingDown returns true if shutdown has been initiated.
func (l *Lifecycle) IsShuttingDown() bool {
	select {
	case <-l.shutdownCh:
		return true
	default:
		return false
	}
}

// Timeout returns the configured shutdown timeout.
func (l *Lifecycle) Timeout() time.Duration {
	return l.timeout
}
