// Package loop drives a renderer from a display refresh tick.
//
// Input handlers Submit commands from any goroutine. The goroutine that owns the display calls
// Frame once per tick: queued commands are applied first, then the picture is recomputed only
// if something changed since the last render. Commands never run during a render.
package loop

import (
	"context"
	"log"
	"sync"
	"time"
)

// Controller serializes commands and renders for one Target.
type Controller struct {
	target Target

	mu         sync.Mutex
	pending    []Command
	generation uint64 // bumped by every effective command
	rendered   uint64 // generation of the last successful render

	onCommandError func(Command, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCommandErrorHandler replaces the default handler, which logs rejected commands.
func WithCommandErrorHandler(fn func(Command, error)) Option {
	return func(c *Controller) { c.onCommandError = fn }
}

// New returns a controller whose first Frame renders.
func New(t Target, opts ...Option) *Controller {
	c := &Controller{
		target:     t,
		generation: 1,
		onCommandError: func(cmd Command, err error) {
			log.Printf("loop: %s rejected: %v", cmd, err)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit queues commands. Safe for concurrent use.
func (c *Controller) Submit(cmds ...Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, cmds...)
}

// Invalidate forces the next Frame to render even if no command changed anything.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}

// Generation counts view changes; it starts at 1.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Dirty reports whether queued commands or an unrendered change are waiting.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0 || c.generation != c.rendered
}

// Frame applies queued commands and renders into buf if the view changed.
// Rejected commands go to the command error handler and do not stop the others.
// The returned error is a render error; the frame stays dirty in that case.
func (c *Controller) Frame(buf []byte) (rendered bool, err error) {
	c.mu.Lock()
	cmds := c.pending
	c.pending = nil
	c.mu.Unlock()

	var changed uint64
	for _, cmd := range cmds {
		ok, err := cmd.Apply(c.target)
		if err != nil {
			c.onCommandError(cmd, err)
			continue
		}
		if ok {
			changed++
		}
	}

	c.mu.Lock()
	c.generation += changed
	gen := c.generation
	dirty := gen != c.rendered
	c.mu.Unlock()

	if !dirty {
		return false, nil
	}

	if err := c.target.Render(buf); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.rendered = gen
	c.mu.Unlock()
	return true, nil
}

// Run calls Frame every interval until ctx is done, handing each new picture to onFrame.
// It returns on the first render or onFrame error.
func (c *Controller) Run(ctx context.Context, interval time.Duration, buf []byte, onFrame func(buf []byte) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		rendered, err := c.Frame(buf)
		if err != nil {
			return err
		}
		if rendered {
			if err := onFrame(buf); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-ticker.C:
		}
	}
}
