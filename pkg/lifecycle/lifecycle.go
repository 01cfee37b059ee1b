// Package lifecycle scopes a batch run: a context cancelled by OS signals or
// an explicit shutdown, and release hooks that run on every exit path.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"
)

type hook struct {
	name string
	fn   func() error
}

// Coordinator owns the run context and the resources acquired during startup.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc
	stop   func()

	mu    sync.Mutex
	hooks []hook
	done  bool
}

// New creates a Coordinator whose context is cancelled when any of the given
// signals arrives or Shutdown is called.
func New(parent context.Context, signals ...os.Signal) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	stop := func() {}
	if len(signals) > 0 {
		var stopNotify context.CancelFunc
		ctx, stopNotify = signal.NotifyContext(ctx, signals...)
		stop = stopNotify
	}
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		stop:   stop,
	}
}

// Context returns the run context, cancelled on signal or shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnShutdown registers a release hook. Hooks run in reverse registration
// order so later resources are released before the ones they depend on.
func (c *Coordinator) OnShutdown(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook{name: name, fn: fn})
}

// Shutdown cancels the context and runs release hooks within the timeout.
// Hook errors are joined. Calling Shutdown more than once is a no-op.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	hooks := c.hooks
	c.hooks = nil
	c.mu.Unlock()

	c.cancel()
	c.stop()

	errs := make(chan error, 1)
	go func() {
		var joined []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i].fn(); err != nil {
				joined = append(joined, fmt.Errorf("%s: %w", hooks[i].name, err))
			}
		}
		errs <- errors.Join(joined...)
	}()

	select {
	case err := <-errs:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
