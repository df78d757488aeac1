// Package view binds the calendar state, the day-info cache and the grid
// mapper into month and year grids of reusable cells.
//
// Every exported method, and every state or cache mutation a view listens
// to, must run on the UI loop given in Config.Poster. Background work (the
// midnight timer and deferred single clicks) is posted there.
package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/click"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/locale"
	"github.com/starford/daycal/internal/midnight"
	"github.com/starford/daycal/internal/state"
	"github.com/starford/daycal/internal/uiloop"
)

// Config holds the collaborators shared by both views.
type Config struct {
	State *state.State
	Cache *dayinfo.Cache

	// Poster is the UI loop; required. Timer callbacks are posted to it.
	// Single-goroutine callers pass uiloop.Inline.
	Poster uiloop.Poster

	// Names localizes titles and default texts. Defaults to English.
	Names *locale.Names
	// Formatter renders infos without their own Format.
	Formatter dayinfo.Formatter
	// DefaultText renders dates without an info.
	DefaultText func(caldate.Date) string

	Mouse  MouseCallback
	Styles StyleRules

	ClickInterval   time.Duration
	ClickOptions    []click.Option
	MidnightOptions []midnight.Option
	// NoMidnight disables the rollover scheduler.
	NoMidnight bool

	// Now defaults to time.Now and decides which cell is today.
	Now    func() time.Time
	Logger *slog.Logger
}

var (
	errNoCollaborators = errors.New("view: state and cache are required")
	errNoLoop          = errors.New("view: poster is required")
)

func (c *Config) withDefaults() error {
	if c.State == nil || c.Cache == nil {
		return errNoCollaborators
	}
	if c.Poster == nil {
		return errNoLoop
	}
	if c.Names == nil {
		n := locale.New("")
		c.Names = &n
	}
	if c.Formatter == nil {
		c.Formatter = dayinfo.DefaultFormatter(*c.Names)
	}
	if c.DefaultText == nil {
		c.DefaultText = dayinfo.DefaultText(*c.Names)
	}
	if c.Mouse == nil {
		c.Mouse = MouseFuncs{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// base carries what month and year views share: the cell set, the date
// index, style bookkeeping and subscriptions.
type base struct {
	cfg    Config
	cells  []*Cell
	byDate map[caldate.Date]*Cell
	styles styler

	unsubState func()
	unsubCache func()
	timer      *midnight.Scheduler
	closed     bool
}

func newBase(cfg Config, n int) *base {
	b := &base{
		cfg:    cfg,
		cells:  make([]*Cell, n),
		byDate: make(map[caldate.Date]*Cell, n),
		styles: styler{rules: cfg.Styles},
	}
	for i := range b.cells {
		c := newCell(i)
		opts := append([]click.Option{click.WithPoster(cfg.Poster)}, cfg.ClickOptions...)
		c.clicks = click.New(cfg.ClickInterval, func(k click.Kind) { b.clicked(c, k) }, opts...)
		b.cells[i] = c
	}
	return b
}

// start subscribes to the collaborators and starts the midnight timer.
func (b *base) start(onState state.Listener, refill func()) {
	b.unsubState = b.cfg.State.Subscribe(onState)
	b.unsubCache = b.cfg.Cache.Subscribe(func(ch dayinfo.Change) error {
		b.onCacheChange(ch)
		return nil
	})
	if !b.cfg.NoMidnight {
		b.timer = midnight.Start(b.cfg.Poster, func() {
			if !b.closed {
				refill()
			}
		}, b.cfg.MidnightOptions...)
	}
}

func (b *base) today() caldate.Date {
	return caldate.FromTime(b.cfg.Now())
}

func (b *base) loadErr(op string, err error) {
	if err != nil {
		b.cfg.Logger.Warn("view: "+op+" failed", slog.String("error", err.Error()))
	}
}

func (b *base) ctx() context.Context {
	return context.Background()
}

// refreshText rebinds the label and tooltip of c to the cache.
func (b *base) refreshText(c *Cell) {
	if c.hidden {
		return
	}
	info, found := b.cfg.Cache.Find(c.date)
	c.hasInfo = found
	if found {
		c.tooltip = info.Text(b.cfg.Formatter)
		return
	}
	c.tooltip = b.cfg.DefaultText(c.date)
}

// onCacheChange updates only the cells inside the change.
func (b *base) onCacheChange(ch dayinfo.Change) {
	if b.closed {
		return
	}
	if ch.Scope == dayinfo.ScopeDate {
		if c, ok := b.byDate[ch.Date]; ok {
			b.refreshText(c)
		}
		return
	}
	for _, c := range b.cells {
		if !c.hidden && ch.Covers(c.date) {
			b.refreshText(c)
		}
	}
}

func (b *base) markSelected() {
	sel := b.cfg.State.Date()
	for _, c := range b.cells {
		c.set(FlagSelected, !c.hidden && c.date == sel)
	}
}

func (b *base) clicked(c *Cell, k click.Kind) {
	if b.closed || c.hidden {
		return
	}
	info, found := b.cfg.Cache.Find(c.date)
	b.cfg.Mouse.OnClick(k, c.date, info, found)
}

// Cells returns every cell in index order.
func (b *base) Cells() []*Cell { return b.cells }

// Cell returns the cell at index.
func (b *base) Cell(index int) (*Cell, bool) {
	if index < 0 || index >= len(b.cells) {
		return nil, false
	}
	return b.cells[index], true
}

// CellOf returns the cell currently showing date.
func (b *base) CellOf(date caldate.Date) (*Cell, bool) {
	c, ok := b.byDate[date]
	return c, ok
}

// Tooltip returns the text bound to date, if the date is displayed.
func (b *base) Tooltip(date caldate.Date) (string, bool) {
	c, ok := b.byDate[date]
	if !ok {
		return "", false
	}
	return c.tooltip, true
}

// States copies every cell.
func (b *base) States() []CellState {
	out := make([]CellState, len(b.cells))
	for i, c := range b.cells {
		out[i] = c.State()
	}
	return out
}

// Press feeds a raw press on the cell at index into its click classifier.
func (b *base) Press(index int, at time.Time) bool {
	c, ok := b.Cell(index)
	if !ok || c.hidden || b.closed {
		return false
	}
	c.clicks.Press(at)
	return true
}

// SetStyleRules replaces the style rules and applies them right away.
func (b *base) SetStyleRules(rules StyleRules) {
	b.styles.revert()
	b.styles.rules = rules
	b.styles.apply(b.byDate)
}

// Close unsubscribes the view and stops its timers. The midnight timer
// goroutine has exited when Close returns.
func (b *base) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.unsubState()
	b.unsubCache()
	if b.timer != nil {
		b.timer.Stop()
	}
	for _, c := range b.cells {
		c.clicks.Stop()
	}
}
