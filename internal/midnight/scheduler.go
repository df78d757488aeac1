// Package midnight fires a callback shortly after every local midnight so
// views can move their "today" highlight.
package midnight

import (
	"sync"
	"time"

	"github.com/starford/daycal/internal/uiloop"
)

// Offset past midnight at which the first fire happens.
const Offset = time.Second

// Period between fires after the first one.
const Period = 24 * time.Hour

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithPeriod replaces the 24h repeat period.
func WithPeriod(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.period = d
		}
	}
}

// WithTimers replaces the timer constructor. after must return a channel that
// receives once when d elapses and a function that stops it.
func WithTimers(after func(d time.Duration) (<-chan time.Time, func() bool)) Option {
	return func(s *Scheduler) { s.after = after }
}

// Scheduler posts fn to a UI loop at 00:00:01 local time of each day.
type Scheduler struct {
	poster uiloop.Poster
	fn     func()
	now    func() time.Time
	period time.Duration
	after  func(d time.Duration) (<-chan time.Time, func() bool)

	once    sync.Once
	stopCh  chan struct{}
	stopped chan struct{}
}

// Start launches the timer goroutine. fn never runs on that goroutine; it is
// handed to poster on every fire.
func Start(poster uiloop.Poster, fn func(), opts ...Option) *Scheduler {
	s := &Scheduler{
		poster: poster,
		fn:     fn,
		now:    time.Now,
		period: Period,
		after: func(d time.Duration) (<-chan time.Time, func() bool) {
			t := time.NewTimer(d)
			return t.C, t.Stop
		},
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// NextFire returns 00:00:01 of the day after now, in now's location.
func NextFire(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(Offset)
}

func (s *Scheduler) run() {
	defer close(s.stopped)

	now := s.now()
	wait := NextFire(now).Sub(now)
	for {
		c, stop := s.after(wait)
		select {
		case <-s.stopCh:
			stop()
			return
		case <-c:
			s.poster.Post(s.fn)
			wait = s.period
		}
	}
}

// Stop cancels the pending fire and waits for the timer goroutine to exit.
// It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	<-s.stopped
}
