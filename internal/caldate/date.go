// Package caldate provides a time-zone free calendar date that is always valid.
package caldate

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/daycal/internal/apperr"
)

// Layout is the text form of a Date.
const Layout = "2006-01-02"

// Date is a (year, month, day) triple in the proleptic Gregorian calendar.
// Values built through Of and the arithmetic methods are always real dates.
// Date is comparable; == is date equality.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the date for y-m-d, clamping month to 1..12 and day to the
// valid range of the resulting month.
func Of(year int, month time.Month, day int) Date {
	month = clampMonth(month)
	return Date{Year: year, Month: month, Day: clampDay(year, month, day)}
}

// FromTime returns the calendar date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a YYYY-MM-DD string. Unlike Of it rejects out-of-range fields.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("caldate: parse %q: %w", s, apperr.ErrInvalidDate)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error. Meant for tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date (which is not a real date).
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// YearMonth returns the month d belongs to.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// LengthOfMonth returns the number of days in d's month.
func (d Date) LengthOfMonth() int {
	return daysIn(d.Year, d.Month)
}

// IsLeap reports whether d falls in a leap year.
func (d Date) IsLeap() bool {
	return IsLeap(d.Year)
}

// AddDays rolls d forward (or back for negative n) by n days.
func (d Date) AddDays(n int) Date {
	return FromTime(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// AddMonths moves d by n months, clamping the day to the target month.
func (d Date) AddMonths(n int) Date {
	ym := d.YearMonth().AddMonths(n)
	return Of(ym.Year, ym.Month, d.Day)
}

// AddYears moves d by n years; Feb 29 becomes Feb 28 in common years.
func (d Date) AddYears(n int) Date {
	return Of(d.Year+n, d.Month, d.Day)
}

// WithYear replaces the year, clamping Feb 29 when needed.
func (d Date) WithYear(year int) Date {
	return Of(year, d.Month, d.Day)
}

// WithMonth replaces the month, clamping the day.
func (d Date) WithMonth(month time.Month) Date {
	return Of(d.Year, month, d.Day)
}

// WithDay replaces the day of month, clamping to the month length.
func (d Date) WithDay(day int) Date {
	return Of(d.Year, d.Month, day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// String returns d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler. The zero Date is empty.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysIn uses day 0 of the following month, which time.Date normalises to
// the last day of month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

func clampMonth(m time.Month) time.Month {
	switch {
	case m < time.January:
		return time.January
	case m > time.December:
		return time.December
	default:
		return m
	}
}

func clampDay(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	if n := daysIn(year, month); day > n {
		return n
	}
	return day
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
