// Package calservice exposes the calendar state, the day-info cache and both
// views to outer surfaces (HTTP, MCP, CLI). Every call runs on the UI loop,
// so a Service may be used from any goroutine.
package calservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/daycal/internal/apperr"
	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/click"
	"github.com/starford/daycal/internal/daydb"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/locale"
	"github.com/starford/daycal/internal/midnight"
	"github.com/starford/daycal/internal/sse"
	"github.com/starford/daycal/internal/state"
	"github.com/starford/daycal/internal/uiloop"
	"github.com/starford/daycal/internal/view"
)

// Publisher receives calendar events. *sse.Broker implements it.
type Publisher interface {
	Publish(event sse.Event)
	PublishChange(scope, key string)
}

// Searcher is implemented by repositories that can search day infos.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]daydb.SearchResult, error)
}

// Config configures a Service.
type Config struct {
	Repo           dayinfo.Repository
	Initial        caldate.Date
	FirstDayOfWeek time.Weekday
	Locale         string
	ClickInterval  time.Duration
	Publisher      Publisher
	Logger         *slog.Logger

	Now             func() time.Time
	ClickOptions    []click.Option
	MidnightOptions []midnight.Option
	NoMidnight      bool
}

// Service owns the UI loop and everything that lives on it.
type Service struct {
	loop   *uiloop.Loop
	state  *state.State
	cache  *dayinfo.Cache
	month  *view.MonthView
	year   *view.YearView
	names  locale.Names
	repo   dayinfo.Repository
	pub    Publisher
	search Searcher
	now    func() time.Time
	logger *slog.Logger

	unsub []func()
}

// New starts the UI loop and builds the views on it. The cursor starts at
// cfg.Initial, or today when it is zero.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("calservice: repository is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Publisher == nil {
		cfg.Publisher = nopPublisher{}
	}
	initial := cfg.Initial
	if initial.IsZero() {
		initial = caldate.FromTime(cfg.Now())
	}

	s := &Service{
		loop:   uiloop.New(cfg.Logger, 0),
		state:  state.New(initial, cfg.Logger),
		cache:  dayinfo.NewCache(cfg.Repo, cfg.Logger),
		names:  locale.New(cfg.Locale),
		repo:   cfg.Repo,
		pub:    cfg.Publisher,
		now:    cfg.Now,
		logger: cfg.Logger,
	}
	s.search, _ = cfg.Repo.(Searcher)

	var buildErr error
	err := s.loop.Do(ctx, func() {
		s.unsub = append(s.unsub,
			s.state.Subscribe(s.onCursor),
			s.cache.Subscribe(s.onChange),
		)
		base := view.Config{
			State:           s.state,
			Cache:           s.cache,
			Poster:          s.loop,
			Names:           &s.names,
			Mouse:           view.MouseFuncs{Single: s.clicked(sse.TypeClickSingle), Multi: s.clicked(sse.TypeClickMulti)},
			ClickInterval:   cfg.ClickInterval,
			ClickOptions:    cfg.ClickOptions,
			MidnightOptions: cfg.MidnightOptions,
			NoMidnight:      cfg.NoMidnight,
			Now:             cfg.Now,
			Logger:          cfg.Logger,
		}
		if s.month, buildErr = view.NewMonthView(view.MonthConfig{Config: base, FirstDayOfWeek: cfg.FirstDayOfWeek}); buildErr != nil {
			return
		}
		s.year, buildErr = view.NewYearView(view.YearConfig{Config: base})
	})
	if err == nil {
		err = buildErr
	}
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("calservice: build views: %w", err)
	}
	return s, nil
}

// Close tears the views down and stops the UI loop.
func (s *Service) Close() {
	_ = s.loop.Do(context.Background(), func() {
		if s.month != nil {
			s.month.Close()
		}
		if s.year != nil {
			s.year.Close()
		}
		for _, u := range s.unsub {
			u()
		}
		s.unsub = nil
	})
	s.loop.Close()
}

// Names returns the locale used for titles and tooltips.
func (s *Service) Names() locale.Names { return s.names }

// CanSearch reports whether the repository supports Search.
func (s *Service) CanSearch() bool { return s.search != nil }

func (s *Service) onCursor(old, updated caldate.Date) {
	s.pub.Publish(sse.Event{Type: sse.TypeCursorMoved, Data: CursorMove{From: old, To: updated}})
}

func (s *Service) onChange(ch dayinfo.Change) error {
	s.pub.PublishChange(ch.Scope.String(), ch.Key())
	return nil
}

func (s *Service) clicked(kind string) func(caldate.Date, dayinfo.Info, bool) {
	return func(date caldate.Date, info dayinfo.Info, found bool) {
		s.pub.Publish(sse.Event{Type: kind, Data: s.day(date, info, found)})
	}
}

// do runs fn on the loop and reports ErrClosed once the service is closed.
func (s *Service) do(ctx context.Context, fn func()) error {
	if err := s.loop.Do(ctx, fn); err != nil {
		return fmt.Errorf("calservice: %w", err)
	}
	return nil
}

// Cursor returns the selected date.
func (s *Service) Cursor(ctx context.Context) (Cursor, error) {
	var c Cursor
	err := s.do(ctx, func() { c = cursorOf(s.state.Date()) })
	return c, err
}

// Navigate moves the cursor. OpDate takes target as YYYY-MM-DD; the other
// ops ignore it.
func (s *Service) Navigate(ctx context.Context, op Op, target string) (Cursor, error) {
	var date caldate.Date
	switch op {
	case OpDate:
		d, err := caldate.Parse(target)
		if err != nil {
			return Cursor{}, fmt.Errorf("calservice: navigate: %w", err)
		}
		date = d
	case OpToday:
		date = caldate.FromTime(s.now())
	default:
		if _, ok := moves[op]; !ok {
			return Cursor{}, fmt.Errorf("calservice: navigate %q: %w", op, apperr.ErrInvalidInput)
		}
	}

	var c Cursor
	err := s.do(ctx, func() {
		if move, ok := moves[op]; ok {
			move(s.state)
		} else {
			s.state.ToDate(date)
		}
		c = cursorOf(s.state.Date())
	})
	return c, err
}

// Month returns a copy of the month view.
func (s *Service) Month(ctx context.Context) (MonthSnapshot, error) {
	var snap MonthSnapshot
	err := s.do(ctx, func() {
		names := s.month.WeekdayNames()
		snap = MonthSnapshot{
			Month:    s.month.Month(),
			Title:    s.month.Title(),
			Weekdays: names[:],
			Cursor:   s.state.Date(),
			Cells:    s.month.States(),
		}
	})
	return snap, err
}

// Year returns a copy of the year view.
func (s *Service) Year(ctx context.Context) (YearSnapshot, error) {
	var snap YearSnapshot
	err := s.do(ctx, func() {
		snap = YearSnapshot{
			Year:   s.year.Year(),
			Title:  s.year.Title(),
			Cursor: s.state.Date(),
			Cells:  s.year.States(),
		}
	})
	return snap, err
}

// DayInfo returns the info of date. Dates outside the cached window are
// read from the repository without touching the cache.
func (s *Service) DayInfo(ctx context.Context, date caldate.Date) (Day, error) {
	var (
		info  dayinfo.Info
		found bool
	)
	if err := s.do(ctx, func() { info, found = s.cache.Find(date) }); err != nil {
		return Day{}, err
	}
	if !found {
		var err error
		if info, found, err = s.repo.FindBy(ctx, date); err != nil {
			return Day{}, fmt.Errorf("calservice: find %s: %w", date, err)
		}
	}
	return s.day(date, info, found), nil
}

// SetDayInfo stores info. An info without header and content clears the date.
// The cache keeps the new value even when persisting fails; the error then
// wraps apperr.ErrPersist.
func (s *Service) SetDayInfo(ctx context.Context, info dayinfo.Info) (Day, error) {
	var setErr error
	if err := s.do(ctx, func() { setErr = s.cache.Set(ctx, info) }); err != nil {
		return Day{}, err
	}
	found := info.HasHeader() || info.HasContent()
	return s.day(info.Date, info, found), setErr
}

// Refresh re-reads a date, a month window or a year from the repository.
// key is YYYY-MM-DD, YYYY-MM or YYYY according to scope.
func (s *Service) Refresh(ctx context.Context, scope dayinfo.Scope, key string) error {
	var run func() error
	switch scope {
	case dayinfo.ScopeDate:
		d, err := caldate.Parse(key)
		if err != nil {
			return fmt.Errorf("calservice: refresh: %w", err)
		}
		run = func() error { return s.cache.RefreshDate(ctx, d) }
	case dayinfo.ScopeMonth:
		ym, err := caldate.ParseYearMonth(key)
		if err != nil {
			return fmt.Errorf("calservice: refresh: %w", err)
		}
		run = func() error { return s.cache.RefreshMonth(ctx, ym) }
	case dayinfo.ScopeYear:
		y, err := parseYear(key)
		if err != nil {
			return fmt.Errorf("calservice: refresh: %w", err)
		}
		run = func() error { return s.cache.RefreshYear(ctx, y) }
	default:
		return fmt.Errorf("calservice: refresh scope %d: %w", scope, apperr.ErrInvalidInput)
	}

	var runErr error
	if err := s.do(ctx, func() { runErr = run() }); err != nil {
		return err
	}
	return runErr
}

// Invalidate queues a reload of ym without waiting for it. File watchers
// call it from their own goroutine.
func (s *Service) Invalidate(ym caldate.YearMonth) {
	s.loop.Post(func() {
		if err := s.cache.ReloadMonth(context.Background(), ym); err != nil {
			s.logger.Warn("calservice: reload failed", slog.String("month", ym.String()), slog.String("error", err.Error()))
		}
	})
}

// Press feeds a raw press on a month or year cell. It reports false when the
// index is out of range or the cell is hidden.
func (s *Service) Press(ctx context.Context, grid Grid, index int) (bool, error) {
	var ok bool
	at := s.now()
	err := s.do(ctx, func() {
		switch grid {
		case GridYear:
			ok = s.year.Press(index, at)
		default:
			ok = s.month.Press(index, at)
		}
	})
	return ok, err
}

// Hover toggles month focus on the year view.
func (s *Service) Hover(ctx context.Context, index int, on bool) error {
	return s.do(ctx, func() { s.year.Hover(index, on) })
}

// Search looks up day infos by text. It fails with apperr.ErrUnsupported when
// the repository cannot search.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]daydb.SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("calservice: search: %w", apperr.ErrUnsupported)
	}
	return s.search.Search(ctx, query, limit)
}

func (s *Service) day(date caldate.Date, info dayinfo.Info, found bool) Day {
	d := Day{Date: date, Found: found, Content: []string{}}
	if !found {
		d.Text = s.names.DayMonth(date)
		return d
	}
	d.Header = info.Header
	if len(info.Content) > 0 {
		d.Content = info.Content
	}
	d.Text = info.Text(dayinfo.DefaultFormatter(s.names))
	return d
}

type nopPublisher struct{}

func (nopPublisher) Publish(sse.Event)         {}
func (nopPublisher) PublishChange(_, _ string) {}
