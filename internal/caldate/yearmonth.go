package caldate

import (
	"fmt"
	"time"

	"github.com/starford/daycal/internal/apperr"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the YearMonth for y-m, clamping the month to 1..12.
func MonthOf(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: clampMonth(month)}
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("caldate: parse month %q: %w", s, apperr.ErrInvalidDate)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// AddMonths returns the month n months away from ym.
func (ym YearMonth) AddMonths(n int) YearMonth {
	total := ym.Year*12 + int(ym.Month) - 1 + n
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

// Prev returns the month before ym.
func (ym YearMonth) Prev() YearMonth { return ym.AddMonths(-1) }

// Next returns the month after ym.
func (ym YearMonth) Next() YearMonth { return ym.AddMonths(1) }

// FirstDay returns the 1st of ym.
func (ym YearMonth) FirstDay() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// LastDay returns the last day of ym.
func (ym YearMonth) LastDay() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: ym.LengthOfMonth()}
}

// LengthOfMonth returns the number of days in ym.
func (ym YearMonth) LengthOfMonth() int {
	return daysIn(ym.Year, ym.Month)
}

// Day returns the date of day d in ym, clamped.
func (ym YearMonth) Day(d int) Date {
	return Of(ym.Year, ym.Month, d)
}

// Contains reports whether d falls within ym.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

// String returns ym as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
