// Package grid maps a visible month or year onto a fixed set of cells.
// Everything here is pure: the same inputs always give the same cells.
package grid

import (
	"time"

	"github.com/starford/daycal/internal/caldate"
)

// Period tells which month a month-grid cell belongs to.
type Period int

const (
	None Period = iota
	Prev
	Current
	Next
)

func (p Period) String() string {
	switch p {
	case Prev:
		return "prev"
	case Current:
		return "current"
	case Next:
		return "next"
	default:
		return "none"
	}
}

// Columns and Rows of a month grid.
const (
	Columns    = 7
	Rows       = 6
	MonthCells = Columns * Rows
	YearCells  = 366
)

// Cell is one resolved grid position.
type Cell struct {
	Date   caldate.Date
	Period Period
	Today  bool
	Past   bool
	Future bool
}

// LeadingDays returns how many cells before the 1st of ym show days of the
// previous month when weeks start on firstDay.
func LeadingDays(ym caldate.YearMonth, firstDay time.Weekday) int {
	return (int(ym.FirstDay().Weekday()) - int(firstDay) + Columns) % Columns
}

// Weekdays lists the column weekdays starting at firstDay.
func Weekdays(firstDay time.Weekday) [Columns]time.Weekday {
	var out [Columns]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(firstDay) + i) % Columns)
	}
	return out
}

// Month lays out ym on a 6x7 grid. The grid always has six rows; cells after
// the last day of ym continue into the next month.
func Month(ym caldate.YearMonth, firstDay time.Weekday, today caldate.Date) [MonthCells]Cell {
	var cells [MonthCells]Cell

	k := LeadingDays(ym, firstDay)
	start := ym.FirstDay().AddDays(-k)
	length := ym.LengthOfMonth()

	for i := range cells {
		d := start.AddDays(i)
		p := Current
		switch {
		case i < k:
			p = Prev
		case i >= k+length:
			p = Next
		}
		cells[i] = classify(d, today)
		cells[i].Period = p
	}
	return cells
}

// Year lays out every day of year in order, January first, with no weekday
// alignment. The result has 365 or 366 cells.
func Year(year int, today caldate.Date) []Cell {
	first := caldate.Of(year, time.January, 1)
	n := 365
	if caldate.IsLeap(year) {
		n = 366
	}
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = classify(first.AddDays(i), today)
	}
	return cells
}

func classify(d, today caldate.Date) Cell {
	c := Cell{Date: d}
	switch d.Compare(today) {
	case 0:
		c.Today = true
	case -1:
		c.Past = true
	default:
		c.Future = true
	}
	return c
}
