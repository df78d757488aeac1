// Package locale renders month and weekday names for a locale such as
// "en_US" or "de_DE".
package locale

import (
	"time"

	"github.com/goodsign/monday"

	"github.com/starford/daycal/internal/caldate"
)

// Default is used when an empty or unknown locale is given.
const Default = monday.LocaleEnUS

// Names formats calendar labels for one locale.
type Names struct {
	loc monday.Locale
}

// New returns Names for code, falling back to Default for unknown codes.
func New(code string) Names {
	if !Supported(code) {
		return Names{loc: Default}
	}
	return Names{loc: monday.Locale(code)}
}

// Supported reports whether code is a known locale.
func Supported(code string) bool {
	for _, l := range monday.ListLocales() {
		if string(l) == code {
			return true
		}
	}
	return false
}

// Code returns the locale code in use.
func (n Names) Code() string { return string(n.loc) }

// MonthTitle renders ym as e.g. "October 2022".
func (n Names) MonthTitle(ym caldate.YearMonth) string {
	return monday.Format(ym.FirstDay().Time(time.UTC), "January 2006", n.loc)
}

// MonthName renders the standalone month name.
func (n Names) MonthName(m time.Month) string {
	return monday.Format(time.Date(2000, m, 1, 12, 0, 0, 0, time.UTC), "January", n.loc)
}

// DayMonth renders d as e.g. "25 October".
func (n Names) DayMonth(d caldate.Date) string {
	return monday.Format(d.Time(time.UTC), "2 January", n.loc)
}

// WeekdayShort returns the first two letters of the weekday name.
func (n Names) WeekdayShort(w time.Weekday) string {
	// 2023-01-01 is a Sunday.
	t := time.Date(2023, time.January, 1+int(w), 12, 0, 0, 0, time.UTC)
	r := []rune(monday.Format(t, "Monday", n.loc))
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
