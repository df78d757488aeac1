// Package state holds the calendar cursor shared by every view.
package state

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/daycal/internal/caldate"
)

// Listener is called after the cursor moved from old to new.
type Listener func(old, new caldate.Date)

type subscription struct {
	id int
	fn Listener
}

// State owns the cursor. Mutators are meant to run on the UI loop; reads are
// safe from any goroutine.
//
// Listeners run synchronously on the goroutine that made the mutation, in
// registration order, after the new value has been stored. No lock is held
// while they run, so a listener may read or even mutate the state.
type State struct {
	logger *slog.Logger

	mu        sync.RWMutex
	cursor    caldate.Date
	listeners []subscription
	nextID    int
}

// New creates a State with the cursor at date.
func New(date caldate.Date, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	if date.IsZero() {
		date = caldate.Today()
	}
	return &State{logger: logger, cursor: caldate.Of(date.Year, date.Month, date.Day)}
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Date returns the cursor.
func (s *State) Date() caldate.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Year returns the cursor's year.
func (s *State) Year() int { return s.Date().Year }

// Month returns the cursor's month.
func (s *State) Month() time.Month { return s.Date().Month }

// DayOfMonth returns the cursor's day of month.
func (s *State) DayOfMonth() int { return s.Date().Day }

// DayOfWeek returns the cursor's weekday.
func (s *State) DayOfWeek() time.Weekday { return s.Date().Weekday() }

// YearMonth returns the cursor's month.
func (s *State) YearMonth() caldate.YearMonth { return s.Date().YearMonth() }

// ToNextDay moves the cursor one day forward.
func (s *State) ToNextDay() { s.update(func(d caldate.Date) caldate.Date { return d.AddDays(1) }) }

// ToPrevDay moves the cursor one day back.
func (s *State) ToPrevDay() { s.update(func(d caldate.Date) caldate.Date { return d.AddDays(-1) }) }

// ToNextMonth moves the cursor one month forward, clamping the day.
func (s *State) ToNextMonth() { s.update(func(d caldate.Date) caldate.Date { return d.AddMonths(1) }) }

// ToPrevMonth moves the cursor one month back, clamping the day.
func (s *State) ToPrevMonth() { s.update(func(d caldate.Date) caldate.Date { return d.AddMonths(-1) }) }

// ToNextYear moves the cursor one year forward, clamping Feb 29.
func (s *State) ToNextYear() { s.update(func(d caldate.Date) caldate.Date { return d.AddYears(1) }) }

// ToPrevYear moves the cursor one year back, clamping Feb 29.
func (s *State) ToPrevYear() { s.update(func(d caldate.Date) caldate.Date { return d.AddYears(-1) }) }

// ToYear keeps month and day, clamping Feb 29.
func (s *State) ToYear(year int) {
	s.update(func(d caldate.Date) caldate.Date { return d.WithYear(year) })
}

// ToMonth keeps year and day, clamping the day to the new month.
func (s *State) ToMonth(month time.Month) {
	s.update(func(d caldate.Date) caldate.Date { return d.WithMonth(month) })
}

// ToDayOfMonth clamps day to the current month.
func (s *State) ToDayOfMonth(day int) {
	s.update(func(d caldate.Date) caldate.Date { return d.WithDay(day) })
}

// ToYearAndMonth moves to year-month keeping the day where possible.
func (s *State) ToYearAndMonth(year int, month time.Month) {
	s.update(func(d caldate.Date) caldate.Date { return caldate.Of(year, month, d.Day) })
}

// ToYearAndMonthAndDay jumps to the given date, clamped.
func (s *State) ToYearAndMonthAndDay(year int, month time.Month, day int) {
	s.update(func(caldate.Date) caldate.Date { return caldate.Of(year, month, day) })
}

// ToMonthAndDay keeps the year.
func (s *State) ToMonthAndDay(month time.Month, day int) {
	s.update(func(d caldate.Date) caldate.Date { return caldate.Of(d.Year, month, day) })
}

// ToDate jumps to date, clamped.
func (s *State) ToDate(date caldate.Date) {
	s.ToYearAndMonthAndDay(date.Year, date.Month, date.Day)
}

func (s *State) update(next func(caldate.Date) caldate.Date) {
	s.mu.Lock()
	old := s.cursor
	s.cursor = next(old)
	updated := s.cursor
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if updated == old {
		return
	}
	for _, sub := range listeners {
		s.notify(sub.fn, old, updated)
	}
}

func (s *State) notify(fn Listener, old, updated caldate.Date) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state: listener panicked",
				slog.String("from", old.String()),
				slog.String("to", updated.String()),
				slog.String("error", fmt.Sprint(r)))
		}
	}()
	fn(old, updated)
}
