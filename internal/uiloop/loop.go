// Package uiloop implements the task queue that owns every view and the
// calendar state. Background timers post work here instead of touching
// views directly.
package uiloop

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/starford/daycal/internal/apperr"
)

// Poster accepts tasks for later execution on the UI loop.
type Poster interface {
	Post(fn func()) bool
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(fn func()) bool

// Post calls f(fn).
func (f PosterFunc) Post(fn func()) bool { return f(fn) }

// Loop runs posted tasks one at a time, in FIFO order, on a single goroutine.
//
// Concurrency model: the loop goroutine is the only one allowed to touch
// view state. Public methods hand work over through a channel.
type Loop struct {
	logger *slog.Logger
	tasks  chan func()

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// New starts a loop with the given queue capacity.
func New(logger *slog.Logger, buffer int) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 256
	}
	l := &Loop{
		logger:  logger,
		tasks:   make(chan func(), buffer),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.stopCh:
			return
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("uiloop: task panicked", slog.String("error", fmt.Sprint(r)))
		}
	}()
	fn()
}

// Post queues fn. It returns false once the loop is closed. Post blocks
// while the queue is full.
func (l *Loop) Post(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from a task running on the loop itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}
	if l.closed.Load() {
		return apperr.ErrClosed
	}
	select {
	case l.tasks <- task:
	case <-l.stopped:
		return apperr.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return apperr.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop after the task in progress; queued tasks are dropped.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.stopCh)
	}
	<-l.stopped
}

// Inline runs every posted task immediately on the posting goroutine. It
// suits single-goroutine callers such as one-shot CLI rendering.
var Inline Poster = PosterFunc(func(fn func()) bool {
	fn()
	return true
})
