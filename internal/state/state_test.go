package state

import (
	"math/rand"
	"testing"
	"time"

	"github.com/starford/daycal/internal/caldate"
)

func valid(d caldate.Date) bool {
	return d.Month >= time.January && d.Month <= time.December &&
		d.Day >= 1 && d.Day <= d.LengthOfMonth()
}

func TestToYearAndMonth_ClampsDay(t *testing.T) {
	s := New(caldate.MustParse("2023-01-30"), nil)
	s.ToYearAndMonth(2023, time.February)
	if got := s.Date().String(); got != "2023-02-28" {
		t.Errorf("cursor = %s, want 2023-02-28", got)
	}

	s = New(caldate.MustParse("2024-03-30"), nil)
	s.ToYearAndMonth(2024, time.February)
	if got := s.Date().String(); got != "2024-02-29" {
		t.Errorf("cursor = %s, want 2024-02-29", got)
	}
}

func TestMutators_AlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New(caldate.MustParse("2020-02-29"), nil)

	ops := []func(){
		s.ToNextDay, s.ToPrevDay, s.ToNextMonth, s.ToPrevMonth, s.ToNextYear, s.ToPrevYear,
		func() { s.ToYear(1900 + rng.Intn(300)) },
		func() { s.ToMonth(time.Month(rng.Intn(14))) },
		func() { s.ToDayOfMonth(rng.Intn(40) - 3) },
		func() { s.ToYearAndMonth(2000+rng.Intn(30), time.Month(1+rng.Intn(12))) },
		func() { s.ToYearAndMonthAndDay(2000+rng.Intn(30), time.Month(1+rng.Intn(12)), 1+rng.Intn(31)) },
		func() { s.ToMonthAndDay(time.Month(1+rng.Intn(12)), 1+rng.Intn(31)) },
	}

	s.Subscribe(func(_, n caldate.Date) {
		if !valid(n) {
			t.Fatalf("listener observed invalid date %v", n)
		}
	})

	for i := 0; i < 5000; i++ {
		ops[rng.Intn(len(ops))]()
		if d := s.Date(); !valid(d) {
			t.Fatalf("step %d: invalid cursor %v", i, d)
		}
	}
}

func TestListeners_OrderAndValues(t *testing.T) {
	s := New(caldate.MustParse("2022-10-25"), nil)
	var calls []string
	s.Subscribe(func(o, n caldate.Date) { calls = append(calls, "a:"+o.String()+">"+n.String()) })
	s.Subscribe(func(o, n caldate.Date) {
		if s.Date() != n {
			t.Errorf("listener saw stale cursor %s, want %s", s.Date(), n)
		}
		calls = append(calls, "b:"+n.String())
	})

	s.ToNextMonth()

	if len(calls) != 2 || calls[0] != "a:2022-10-25>2022-11-25" || calls[1] != "b:2022-11-25" {
		t.Errorf("calls = %v", calls)
	}
}

func TestNoEventWhenUnchanged(t *testing.T) {
	s := New(caldate.MustParse("2022-10-25"), nil)
	fired := 0
	s.Subscribe(func(_, _ caldate.Date) { fired++ })
	s.ToDayOfMonth(25)
	s.ToYear(2022)
	if fired != 0 {
		t.Errorf("fired = %d, want 0", fired)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New(caldate.MustParse("2022-10-25"), nil)
	fired := 0
	unsub := s.Subscribe(func(_, _ caldate.Date) { fired++ })
	s.ToNextDay()
	unsub()
	unsub()
	s.ToNextDay()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestListenerPanicIsolated(t *testing.T) {
	s := New(caldate.MustParse("2022-10-25"), nil)
	reached := false
	s.Subscribe(func(_, _ caldate.Date) { panic("boom") })
	s.Subscribe(func(_, _ caldate.Date) { reached = true })
	s.ToPrevDay()
	if !reached {
		t.Error("second listener not reached after first panicked")
	}
	if got := s.Date().String(); got != "2022-10-24" {
		t.Errorf("cursor = %s", got)
	}
}

func TestAccessors(t *testing.T) {
	s := New(caldate.MustParse("2022-10-25"), nil)
	if s.Year() != 2022 || s.Month() != time.October || s.DayOfMonth() != 25 || s.DayOfWeek() != time.Tuesday {
		t.Errorf("accessors = %d %v %d %v", s.Year(), s.Month(), s.DayOfMonth(), s.DayOfWeek())
	}
	if s.YearMonth() != caldate.MonthOf(2022, time.October) {
		t.Errorf("YearMonth = %v", s.YearMonth())
	}
}
