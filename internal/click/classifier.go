// Package click turns raw press timestamps on one target into logical
// single or multi clicks.
package click

import (
	"sync"
	"time"

	"github.com/starford/daycal/internal/uiloop"
)

// Kind classifies one logical interaction.
type Kind int

const (
	Single Kind = iota + 1
	Multi
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return "unknown"
	}
}

// DefaultInterval is used when New gets a non-positive interval.
const DefaultInterval = 400 * time.Millisecond

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// Option configures a Classifier.
type Option func(*Classifier)

// WithAfterFunc replaces the timer used to defer single-click emission.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Classifier) { c.afterFunc = fn }
}

// WithPoster routes deferred emissions through p, typically the UI loop.
func WithPoster(p uiloop.Poster) Option {
	return func(c *Classifier) { c.poster = p }
}

// Classifier emits exactly one Kind per logical interaction.
//
// A second press within the interval of the previous one emits Multi right
// away; later presses that keep arriving within the interval of their
// predecessor belong to the same interaction and emit nothing. A press with
// no follow-up emits Single once the interval has elapsed.
type Classifier struct {
	interval  time.Duration
	emit      func(Kind)
	afterFunc AfterFunc
	poster    uiloop.Poster

	mu        sync.Mutex
	last      time.Time
	multi     bool
	gen       uint64
	stopTimer func() bool
	stopped   bool
}

// New creates a classifier calling emit once per interaction.
func New(interval time.Duration, emit func(Kind), opts ...Option) *Classifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Classifier{
		interval: interval,
		emit:     emit,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		poster: uiloop.Inline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interval returns the grouping threshold.
func (c *Classifier) Interval() time.Duration { return c.interval }

// Press records the start of an interaction at the given instant.
func (c *Classifier) Press(at time.Time) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}

	if !c.last.IsZero() && at.Sub(c.last) <= c.interval {
		c.last = at
		if c.multi {
			c.mu.Unlock()
			return
		}
		c.multi = true
		c.cancelLocked()
		c.mu.Unlock()
		c.emit(Multi)
		return
	}

	c.last = at
	c.multi = false
	c.cancelLocked()
	c.gen++
	gen := c.gen
	c.stopTimer = c.afterFunc(c.interval, func() {
		c.poster.Post(func() { c.fireSingle(gen) })
	})
	c.mu.Unlock()
}

func (c *Classifier) fireSingle(gen uint64) {
	c.mu.Lock()
	if c.stopped || gen != c.gen || c.multi {
		c.mu.Unlock()
		return
	}
	// Invalidate so a late duplicate post cannot emit twice.
	c.gen++
	c.stopTimer = nil
	c.mu.Unlock()
	c.emit(Single)
}

// cancelLocked drops any pending single emission.
func (c *Classifier) cancelLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	c.gen++
}

// Stop cancels a pending emission; later presses are ignored.
func (c *Classifier) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.cancelLocked()
}
