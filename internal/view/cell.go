package view

import (
	"slices"
	"strconv"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/click"
)

// Flag is a named boolean a renderer translates into styling.
type Flag string

// Month view flags.
const (
	FlagPrevMonth       Flag = "prev-month"
	FlagCurrentMonth    Flag = "current-month"
	FlagNotCurrentMonth Flag = "not-current-month"
	FlagNextMonth       Flag = "next-month"
)

// Year view flags.
const (
	FlagInPast       Flag = "in-past"
	FlagInFuture     Flag = "in-future"
	FlagMonthFocused Flag = "month-focused"
)

// Flags shared by both views.
const (
	FlagToday    Flag = "today"
	FlagSelected Flag = "selected"
)

// Cell is one reusable grid position. Cells are created with the view and
// only ever get new dates, flags and texts.
type Cell struct {
	index   int
	date    caldate.Date
	label   string
	tooltip string
	hasInfo bool
	hidden  bool
	flags   map[Flag]bool
	clicks  *click.Classifier
}

func newCell(index int) *Cell {
	return &Cell{index: index, flags: make(map[Flag]bool)}
}

// Index is the fixed position of the cell in its view.
func (c *Cell) Index() int { return c.index }

// Date currently shown by the cell.
func (c *Cell) Date() caldate.Date { return c.date }

// Label is the day of month.
func (c *Cell) Label() string { return c.label }

// Tooltip is the detail text bound to the cell's date.
func (c *Cell) Tooltip() string { return c.tooltip }

// HasInfo reports whether the cache had an info for the date.
func (c *Cell) HasInfo() bool { return c.hasInfo }

// Hidden is true for the 366th year cell in common years.
func (c *Cell) Hidden() bool { return c.hidden }

// Flag reports whether f is active.
func (c *Cell) Flag(f Flag) bool { return c.flags[f] }

// Flags returns the active flags, sorted.
func (c *Cell) Flags() []Flag {
	out := make([]Flag, 0, len(c.flags))
	for f, on := range c.flags {
		if on {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}

// State copies the cell for rendering.
func (c *Cell) State() CellState {
	flags := c.Flags()
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = string(f)
	}
	return CellState{
		Index:   c.index,
		Date:    c.date,
		Label:   c.label,
		Tooltip: c.tooltip,
		HasInfo: c.hasInfo,
		Hidden:  c.hidden,
		Flags:   names,
	}
}

// CellState is an immutable copy of a Cell.
type CellState struct {
	Index   int          `json:"index"`
	Date    caldate.Date `json:"date"`
	Label   string       `json:"label"`
	Tooltip string       `json:"tooltip"`
	HasInfo bool         `json:"has_info"`
	Hidden  bool         `json:"hidden,omitempty"`
	Flags   []string     `json:"flags"`
}

// Has reports whether flag f is set in s.
func (s CellState) Has(f Flag) bool {
	return slices.Contains(s.Flags, string(f))
}

func (c *Cell) set(f Flag, on bool) {
	if on {
		c.flags[f] = true
		return
	}
	delete(c.flags, f)
}

func (c *Cell) assign(d caldate.Date) {
	c.date = d
	c.hidden = false
	c.label = strconv.Itoa(d.Day)
}

func (c *Cell) hide() {
	c.date = caldate.Date{}
	c.hidden = true
	c.label = ""
	c.tooltip = ""
	c.hasInfo = false
	clear(c.flags)
}
