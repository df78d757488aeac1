package dayinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/daycal/internal/apperr"
	"github.com/starford/daycal/internal/caldate"
)

// Scope is the granularity of a Change.
type Scope int

const (
	ScopeDate Scope = iota + 1
	ScopeMonth
	ScopeYear
)

func (s Scope) String() string {
	switch s {
	case ScopeDate:
		return "date"
	case ScopeMonth:
		return "month"
	case ScopeYear:
		return "year"
	default:
		return "unknown"
	}
}

// Change tells listeners which dates may have new infos. Only the field
// matching Scope is set.
type Change struct {
	Scope Scope
	Date  caldate.Date
	Month caldate.YearMonth
	Year  int
}

// Covers reports whether d falls inside the change.
func (c Change) Covers(d caldate.Date) bool {
	switch c.Scope {
	case ScopeDate:
		return c.Date == d
	case ScopeMonth:
		return c.Month.Contains(d)
	case ScopeYear:
		return c.Year == d.Year
	default:
		return false
	}
}

// Key renders the changed date, month or year as text.
func (c Change) Key() string {
	switch c.Scope {
	case ScopeDate:
		return c.Date.String()
	case ScopeMonth:
		return c.Month.String()
	case ScopeYear:
		return fmt.Sprintf("%04d", c.Year)
	default:
		return ""
	}
}

// Listener receives changes. A returned error is logged and does not stop
// delivery to other listeners.
type Listener func(Change) error

type subscription struct {
	id int
	fn Listener
}

// Cache maps dates to infos loaded from a Repository. Entries are never
// evicted. Reads are safe from any goroutine; listeners run on the caller
// of the mutating method, with no lock held.
type Cache struct {
	repo   Repository
	logger *slog.Logger

	mu     sync.RWMutex
	byDate map[caldate.Date]Info

	lmu       sync.Mutex
	listeners []subscription
	nextID    int
}

// NewCache returns an empty cache over repo.
func NewCache(repo Repository, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{repo: repo, logger: logger, byDate: make(map[caldate.Date]Info)}
}

// Subscribe registers fn and returns a function that removes it.
func (c *Cache) Subscribe(fn Listener) (unsubscribe func()) {
	c.lmu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	c.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.lmu.Lock()
			defer c.lmu.Unlock()
			for i, s := range c.listeners {
				if s.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Find returns the cached info for date. A miss never triggers a load.
func (c *Cache) Find(date caldate.Date) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byDate[date]
	if !ok {
		return Info{}, false
	}
	return i.clone(), true
}

// Len returns the number of cached infos.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byDate)
}

// LoadWindow merges the infos of three consecutive months and emits one
// month change for each of them, in order, even if a month is empty or its
// load failed. Load errors are joined and returned.
func (c *Cache) LoadWindow(ctx context.Context, prev, cur, next caldate.YearMonth) error {
	var errs []error
	for _, ym := range []caldate.YearMonth{prev, cur, next} {
		found, err := c.repo.FindAllByMonth(ctx, ym)
		if err != nil {
			errs = append(errs, fmt.Errorf("dayinfo: load month %s: %w", ym, err))
			continue
		}
		c.merge(found)
		c.logger.Debug("dayinfo: month loaded", slog.String("month", ym.String()), slog.Int("count", len(found)))
	}
	c.emit(
		Change{Scope: ScopeMonth, Month: prev},
		Change{Scope: ScopeMonth, Month: cur},
		Change{Scope: ScopeMonth, Month: next},
	)
	return errors.Join(errs...)
}

// LoadYear merges every info of year and emits a single year change. Like
// LoadWindow it emits even when the repository fails, so listeners redraw
// from whatever the cache holds.
func (c *Cache) LoadYear(ctx context.Context, year int) error {
	found, err := c.repo.FindAllByYear(ctx, year)
	if err == nil {
		c.merge(found)
		c.logger.Debug("dayinfo: year loaded", slog.Int("year", year), slog.Int("count", len(found)))
	}
	c.emit(Change{Scope: ScopeYear, Year: year})
	if err != nil {
		return fmt.Errorf("dayinfo: load year %d: %w", year, err)
	}
	return nil
}

// Set replaces the info for info.Date. An info equal to the cached one emits
// nothing; any other value emits one date change. An info with neither header
// nor content clears the date. The entry is kept even if persisting fails, in
// which case the returned error wraps apperr.ErrPersist.
func (c *Cache) Set(ctx context.Context, info Info) error {
	info = info.clone()
	empty := !info.HasHeader() && !info.HasContent()

	c.mu.Lock()
	old, had := c.byDate[info.Date]
	if empty {
		delete(c.byDate, info.Date)
	} else {
		c.byDate[info.Date] = info
	}
	c.mu.Unlock()

	if (empty && had) || (!empty && (!had || !old.Equal(info))) {
		c.emit(Change{Scope: ScopeDate, Date: info.Date})
	}
	return c.persist(ctx, info)
}

func (c *Cache) persist(ctx context.Context, info Info) error {
	u, ok := c.repo.(Updater)
	if !ok {
		return nil
	}
	saved, err := u.Update(ctx, info)
	switch {
	case err != nil:
		return fmt.Errorf("dayinfo: update %s: %w: %w", info.Date, apperr.ErrPersist, err)
	case !saved:
		return fmt.Errorf("dayinfo: update %s: %w", info.Date, apperr.ErrPersist)
	}
	return nil
}

// RefreshDate re-reads date. When the repository has no info for it the
// cache is left as is and nothing is emitted.
func (c *Cache) RefreshDate(ctx context.Context, date caldate.Date) error {
	info, found, err := c.repo.FindBy(ctx, date)
	if err != nil {
		return fmt.Errorf("dayinfo: refresh %s: %w", date, err)
	}
	if !found {
		return nil
	}
	c.mu.Lock()
	c.byDate[date] = info.clone()
	c.mu.Unlock()
	c.emit(Change{Scope: ScopeDate, Date: date})
	return nil
}

// RefreshMonth reloads ym together with its neighbours.
func (c *Cache) RefreshMonth(ctx context.Context, ym caldate.YearMonth) error {
	return c.LoadWindow(ctx, ym.Prev(), ym, ym.Next())
}

// ReloadMonth replaces the cached infos of ym with the repository's, dropping
// dates the repository no longer has, and emits one month change. It serves
// external edits of the backing store.
func (c *Cache) ReloadMonth(ctx context.Context, ym caldate.YearMonth) error {
	found, err := c.repo.FindAllByMonth(ctx, ym)
	if err != nil {
		return fmt.Errorf("dayinfo: reload month %s: %w", ym, err)
	}
	c.mu.Lock()
	for d := range c.byDate {
		if _, ok := found[d]; !ok && ym.Contains(d) {
			delete(c.byDate, d)
		}
	}
	c.mu.Unlock()
	c.merge(found)
	c.emit(Change{Scope: ScopeMonth, Month: ym})
	return nil
}

// RefreshYear reloads year.
func (c *Cache) RefreshYear(ctx context.Context, year int) error {
	return c.LoadYear(ctx, year)
}

func (c *Cache) merge(found map[caldate.Date]Info) {
	if len(found) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, i := range found {
		i.Date = d
		c.byDate[d] = i.clone()
	}
}

// emit delivers changes to each listener in registration order.
func (c *Cache) emit(changes ...Change) {
	c.lmu.Lock()
	listeners := make([]subscription, len(c.listeners))
	copy(listeners, c.listeners)
	c.lmu.Unlock()

	for _, s := range listeners {
		for _, ch := range changes {
			c.deliver(s.fn, ch)
		}
	}
}

func (c *Cache) deliver(fn Listener, ch Change) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("dayinfo: listener panicked",
				slog.String("scope", ch.Scope.String()),
				slog.String("key", ch.Key()),
				slog.String("error", fmt.Sprint(r)))
		}
	}()
	if err := fn(ch); err != nil {
		c.logger.Error("dayinfo: listener failed",
			slog.String("scope", ch.Scope.String()),
			slog.String("key", ch.Key()),
			slog.String("error", err.Error()))
	}
}
