package view

import (
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/grid"
)

// MonthConfig configures a MonthView.
type MonthConfig struct {
	Config
	FirstDayOfWeek time.Weekday
}

// MonthView shows the cursor's month on 42 cells, padded with the tail of
// the previous month and the head of the next.
type MonthView struct {
	*base
	firstDay time.Weekday
	month    caldate.YearMonth
	title    string
}

// NewMonthView builds the cells, prefetches the visible window and fills the
// grid. It must be called on the UI loop.
func NewMonthView(cfg MonthConfig) (*MonthView, error) {
	if err := cfg.withDefaults(); err != nil {
		return nil, err
	}
	v := &MonthView{
		base:     newBase(cfg.Config, grid.MonthCells),
		firstDay: cfg.FirstDayOfWeek,
		month:    cfg.State.YearMonth(),
	}
	v.start(v.onStateChange, v.Refill)
	v.loadErr("month load", v.cfg.Cache.LoadWindow(v.ctx(), v.month.Prev(), v.month, v.month.Next()))
	v.Refill()
	return v, nil
}

func (v *MonthView) onStateChange(_, updated caldate.Date) {
	if v.closed {
		return
	}
	if ym := updated.YearMonth(); ym != v.month {
		v.month = ym
		v.loadErr("month load", v.cfg.Cache.LoadWindow(v.ctx(), ym.Prev(), ym, ym.Next()))
		v.Refill()
		return
	}
	v.markSelected()
}

// Refill reassigns every cell to the visible month without reallocating.
func (v *MonthView) Refill() {
	v.styles.revert()
	clear(v.byDate)

	assigned := grid.Month(v.month, v.firstDay, v.today())
	for i, g := range assigned {
		c := v.cells[i]
		c.assign(g.Date)
		c.set(FlagPrevMonth, g.Period == grid.Prev)
		c.set(FlagCurrentMonth, g.Period == grid.Current)
		c.set(FlagNotCurrentMonth, g.Period != grid.Current)
		c.set(FlagNextMonth, g.Period == grid.Next)
		c.set(FlagToday, g.Today)
		v.refreshText(c)
		v.byDate[g.Date] = c
	}

	v.styles.apply(v.byDate)
	v.markSelected()
	v.title = v.cfg.Names.MonthTitle(v.month)
}

// Month is the visible month.
func (v *MonthView) Month() caldate.YearMonth { return v.month }

// Title is the localized "Month Year" header.
func (v *MonthView) Title() string { return v.title }

// FirstDayOfWeek is the weekday of the first column.
func (v *MonthView) FirstDayOfWeek() time.Weekday { return v.firstDay }

// WeekdayNames returns the column headers.
func (v *MonthView) WeekdayNames() [grid.Columns]string {
	var out [grid.Columns]string
	for i, w := range grid.Weekdays(v.firstDay) {
		out[i] = v.cfg.Names.WeekdayShort(w)
	}
	return out
}

// Prev moves the cursor one month back.
func (v *MonthView) Prev() { v.cfg.State.ToPrevMonth() }

// Next moves the cursor one month forward.
func (v *MonthView) Next() { v.cfg.State.ToNextMonth() }
