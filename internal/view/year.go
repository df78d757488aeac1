package view

import (
	"strconv"
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/grid"
)

// YearConfig configures a YearView.
type YearConfig struct {
	Config
}

// YearView shows every day of the cursor's year as a flat run of cells.
// It owns 366 cells; the last one is hidden in common years.
type YearView struct {
	*base
	year    int
	byMonth map[time.Month][]*Cell
}

// NewYearView builds the cells, loads the year and fills the grid. It must
// be called on the UI loop.
func NewYearView(cfg YearConfig) (*YearView, error) {
	if err := cfg.withDefaults(); err != nil {
		return nil, err
	}
	v := &YearView{
		base:    newBase(cfg.Config, grid.YearCells),
		year:    cfg.State.Year(),
		byMonth: make(map[time.Month][]*Cell, 12),
	}
	v.start(v.onStateChange, v.Refill)
	v.loadErr("year load", v.cfg.Cache.LoadYear(v.ctx(), v.year))
	v.Refill()
	return v, nil
}

func (v *YearView) onStateChange(_, updated caldate.Date) {
	if v.closed {
		return
	}
	if updated.Year != v.year {
		v.year = updated.Year
		v.loadErr("year load", v.cfg.Cache.LoadYear(v.ctx(), v.year))
		v.Refill()
		return
	}
	v.markSelected()
}

// Refill reassigns every cell to the visible year without reallocating.
func (v *YearView) Refill() {
	v.styles.revert()
	clear(v.byDate)
	for m := range v.byMonth {
		v.byMonth[m] = v.byMonth[m][:0]
	}

	assigned := grid.Year(v.year, v.today())
	for i, c := range v.cells {
		if i >= len(assigned) {
			c.hide()
			continue
		}
		g := assigned[i]
		c.assign(g.Date)
		c.set(FlagToday, g.Today)
		c.set(FlagInPast, g.Past)
		c.set(FlagInFuture, g.Future)
		c.set(FlagMonthFocused, false)
		v.refreshText(c)
		v.byDate[g.Date] = c
		v.byMonth[g.Date.Month] = append(v.byMonth[g.Date.Month], c)
	}

	v.styles.apply(v.byDate)
	v.markSelected()
}

// Year is the visible year.
func (v *YearView) Year() int { return v.year }

// Title is the year number.
func (v *YearView) Title() string { return strconv.Itoa(v.year) }

// Hover toggles month-focused on every day of the hovered cell's month.
func (v *YearView) Hover(index int, on bool) {
	c, ok := v.Cell(index)
	if !ok || c.hidden {
		return
	}
	for _, mc := range v.byMonth[c.date.Month] {
		mc.set(FlagMonthFocused, on)
	}
}

// Prev moves the cursor one year back.
func (v *YearView) Prev() { v.cfg.State.ToPrevYear() }

// Next moves the cursor one year forward.
func (v *YearView) Next() { v.cfg.State.ToNextYear() }
