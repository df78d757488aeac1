package locale

import (
	"testing"
	"time"

	"github.com/starford/daycal/internal/caldate"
)

func TestEnglish(t *testing.T) {
	n := New("en_US")
	if got := n.MonthTitle(caldate.MonthOf(2022, time.October)); got != "October 2022" {
		t.Errorf("MonthTitle = %q, want %q", got, "October 2022")
	}
	if got := n.DayMonth(caldate.MustParse("2022-10-25")); got != "25 October" {
		t.Errorf("DayMonth = %q, want %q", got, "25 October")
	}
	if got := n.WeekdayShort(time.Tuesday); got != "Tu" {
		t.Errorf("WeekdayShort = %q, want %q", got, "Tu")
	}
	if got := n.MonthName(time.March); got != "March" {
		t.Errorf("MonthName = %q, want %q", got, "March")
	}
}

func TestGerman(t *testing.T) {
	n := New("de_DE")
	if got := n.MonthName(time.March); got != "März" {
		t.Errorf("MonthName = %q, want %q", got, "März")
	}
	if got := n.WeekdayShort(time.Monday); got != "Mo" {
		t.Errorf("WeekdayShort = %q, want %q", got, "Mo")
	}
}

func TestUnknownFallsBack(t *testing.T) {
	if got := New("xx_XX").Code(); got != string(Default) {
		t.Errorf("Code = %q, want %q", got, Default)
	}
	if Supported("xx_XX") {
		t.Error("xx_XX reported as supported")
	}
}
