package calservice

import (
	"fmt"
	"strconv"

	"github.com/starford/daycal/internal/apperr"
	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/state"
	"github.com/starford/daycal/internal/view"
)

// Op names a cursor move.
type Op string

const (
	OpToday     Op = "today"
	OpDate      Op = "date"
	OpPrevDay   Op = "prev-day"
	OpNextDay   Op = "next-day"
	OpPrevMonth Op = "prev-month"
	OpNextMonth Op = "next-month"
	OpPrevYear  Op = "prev-year"
	OpNextYear  Op = "next-year"
)

var moves = map[Op]func(*state.State){
	OpPrevDay:   (*state.State).ToPrevDay,
	OpNextDay:   (*state.State).ToNextDay,
	OpPrevMonth: (*state.State).ToPrevMonth,
	OpNextMonth: (*state.State).ToNextMonth,
	OpPrevYear:  (*state.State).ToPrevYear,
	OpNextYear:  (*state.State).ToNextYear,
}

// Ops lists every accepted Op.
func Ops() []string {
	return []string{
		string(OpToday), string(OpDate),
		string(OpPrevDay), string(OpNextDay),
		string(OpPrevMonth), string(OpNextMonth),
		string(OpPrevYear), string(OpNextYear),
	}
}

// Grid selects the view a press goes to.
type Grid string

const (
	GridMonth Grid = "month"
	GridYear  Grid = "year"
)

// Cursor is the selected date with its derived fields.
type Cursor struct {
	Date      caldate.Date      `json:"date"`
	Month     caldate.YearMonth `json:"month"`
	Year      int               `json:"year"`
	DayOfWeek string            `json:"day_of_week"`
}

func cursorOf(d caldate.Date) Cursor {
	return Cursor{Date: d, Month: d.YearMonth(), Year: d.Year, DayOfWeek: d.Weekday().String()}
}

// CursorMove is the payload of cursor.moved events.
type CursorMove struct {
	From caldate.Date `json:"from"`
	To   caldate.Date `json:"to"`
}

// MonthSnapshot is a copy of the month view.
type MonthSnapshot struct {
	Month    caldate.YearMonth `json:"month"`
	Title    string            `json:"title"`
	Weekdays []string          `json:"weekdays"`
	Cursor   caldate.Date      `json:"cursor"`
	Cells    []view.CellState  `json:"cells"`
}

// YearSnapshot is a copy of the year view.
type YearSnapshot struct {
	Year   int              `json:"year"`
	Title  string           `json:"title"`
	Cursor caldate.Date     `json:"cursor"`
	Cells  []view.CellState `json:"cells"`
}

// Day is the info of one date as surfaces see it. Text is the tooltip.
type Day struct {
	Date    caldate.Date `json:"date"`
	Found   bool         `json:"found"`
	Header  string       `json:"header,omitempty"`
	Content []string     `json:"content"`
	Text    string       `json:"text"`
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > 9999 {
		return 0, fmt.Errorf("%w: year %q", apperr.ErrInvalidDate, s)
	}
	return y, nil
}
