package grid

import (
	"testing"
	"time"

	"github.com/starford/daycal/internal/caldate"
)

func TestMonth_July2023MondayFirst(t *testing.T) {
	ym := caldate.MonthOf(2023, time.July)
	cells := Month(ym, time.Monday, caldate.MustParse("2023-07-15"))

	if len(cells) != 42 {
		t.Fatalf("len = %d, want 42", len(cells))
	}
	if k := LeadingDays(ym, time.Monday); k != 5 {
		t.Errorf("leading = %d, want 5", k)
	}
	if got := cells[0].Date.String(); got != "2023-06-26" {
		t.Errorf("first cell = %s, want 2023-06-26", got)
	}
	if got := cells[5]; got.Date.String() != "2023-07-01" || got.Period != Current {
		t.Errorf("cells[5] = %+v, want 2023-07-01 current", got)
	}
	if cells[5].Date.Weekday() != Weekdays(time.Monday)[5] {
		t.Errorf("July 1 column weekday mismatch")
	}

	// 5 leading + 31 current = 36, so the 6th row starts inside the trailing days.
	for i := 36; i < 42; i++ {
		if cells[i].Period != Next {
			t.Errorf("cells[%d].Period = %v, want next", i, cells[i].Period)
		}
	}
	if got := cells[41].Date.String(); got != "2023-08-06" {
		t.Errorf("last cell = %s, want 2023-08-06", got)
	}
}

func TestMonth_October2022MondayFirst(t *testing.T) {
	ym := caldate.MonthOf(2022, time.October)
	cells := Month(ym, time.Monday, caldate.MustParse("2022-10-25"))

	want := []string{"2022-09-26", "2022-09-27", "2022-09-28", "2022-09-29", "2022-09-30"}
	for i, w := range want {
		if cells[i].Date.String() != w || cells[i].Period != Prev {
			t.Errorf("cells[%d] = %s %v, want %s prev", i, cells[i].Date, cells[i].Period, w)
		}
	}
	if cells[5].Date.String() != "2022-10-01" {
		t.Errorf("cells[5] = %s, want 2022-10-01", cells[5].Date)
	}

	// Row 4 (0-based), Tuesday column.
	c := cells[4*Columns+1]
	if c.Date.String() != "2022-10-25" || !c.Today {
		t.Errorf("today cell = %+v", c)
	}
	todays := 0
	for _, c := range cells {
		if c.Today {
			todays++
		}
	}
	if todays != 1 {
		t.Errorf("today count = %d, want 1", todays)
	}
}

func TestMonth_ConsecutiveDates(t *testing.T) {
	for _, first := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		for m := time.January; m <= time.December; m++ {
			cells := Month(caldate.MonthOf(2024, m), first, caldate.Date{})
			if cells[0].Date.Weekday() != first {
				t.Errorf("%v/%v: first cell weekday = %v", m, first, cells[0].Date.Weekday())
			}
			for i := 1; i < len(cells); i++ {
				if cells[i].Date != cells[i-1].Date.AddDays(1) {
					t.Fatalf("%v/%v: gap at %d", m, first, i)
				}
			}
		}
	}
}

func TestMonth_February2015SundayFirstNeedsFourRows(t *testing.T) {
	// Feb 2015 starts on Sunday and has 28 days: zero leading, two full trailing rows.
	cells := Month(caldate.MonthOf(2015, time.February), time.Sunday, caldate.Date{})
	if cells[0].Period != Current || cells[0].Date.Day != 1 {
		t.Errorf("cells[0] = %+v", cells[0])
	}
	if cells[28].Period != Next || cells[41].Date.String() != "2015-03-14" {
		t.Errorf("trailing = %+v .. %+v", cells[28], cells[41])
	}
}

func TestYear_Flat(t *testing.T) {
	today := caldate.MustParse("2024-03-01")
	cells := Year(2024, today)
	if len(cells) != 366 {
		t.Fatalf("len = %d, want 366", len(cells))
	}
	if got := cells[59].Date.String(); got != "2024-02-29" {
		t.Errorf("cells[59] = %s", got)
	}
	if !cells[60].Today || !cells[59].Past || !cells[61].Future {
		t.Errorf("tags around today = %+v %+v %+v", cells[59], cells[60], cells[61])
	}
	if len(Year(2023, today)) != 365 {
		t.Errorf("2023 not 365 cells")
	}
	for _, c := range Year(2023, today) {
		if !c.Past || c.Period != None {
			t.Fatalf("%s: %+v", c.Date, c)
		}
	}
}

func TestWeekdays(t *testing.T) {
	w := Weekdays(time.Monday)
	if w[0] != time.Monday || w[6] != time.Sunday {
		t.Errorf("Weekdays(Monday) = %v", w)
	}
}
