package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/daycal/internal/apperr"
	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/dayinfo"
)

var oct = caldate.MonthOf(2022, time.October)

func TestParse_Days(t *testing.T) {
	input := []byte(`days:
  - date: 2022-10-25
    header: Birthday
    content:
      - cake
      - "  "
      - guests
  - date: "2022-10-03"
    content: [dentist]
`)
	infos, err := Parse(oct, input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}
	if infos[0].Date.String() != "2022-10-03" || infos[0].HasHeader() || infos[0].Content[0] != "dentist" {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	want := dayinfo.NewInfo(caldate.MustParse("2022-10-25"), "Birthday", "cake", "guests")
	if !infos[1].Equal(want) {
		t.Errorf("infos[1] = %+v, want %+v", infos[1], want)
	}
}

func TestParse_Empty(t *testing.T) {
	infos, err := Parse(oct, []byte("\n"))
	if err != nil || len(infos) != 0 {
		t.Errorf("Parse(empty) = %v, %v", infos, err)
	}
}

func TestParse_DuplicateKeepsLast(t *testing.T) {
	infos, err := Parse(oct, []byte("days:\n  - date: 2022-10-01\n    header: a\n  - date: 2022-10-01\n    header: b\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(infos) != 1 || infos[0].Header != "b" {
		t.Errorf("infos = %+v", infos)
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := Parse(oct, []byte("days:\n  - date: 2022-11-01\n")); !errors.Is(err, ErrOutsideMonth) {
		t.Errorf("outside month: err = %v", err)
	}
	if _, err := Parse(oct, []byte("days:\n  - date: 2022-10-32\n")); !errors.Is(err, apperr.ErrInvalidDate) {
		t.Errorf("bad date: err = %v", err)
	}
	if _, err := Parse(oct, []byte("days: {{{")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestEncode_ParsesBack(t *testing.T) {
	infos := []dayinfo.Info{
		dayinfo.NewInfo(caldate.MustParse("2022-10-25"), "Birthday", "cake"),
		dayinfo.NewInfo(caldate.MustParse("2022-10-03"), "", "dentist"),
	}
	data, err := Encode(oct, infos)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(data), "days:\n  - date: \"2022-10-03\"") && !strings.HasPrefix(string(data), "days:\n  - date: 2022-10-03") {
		t.Errorf("unexpected layout:\n%s", data)
	}
	back, err := Parse(oct, data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(back) != 2 || !back[1].Equal(infos[0]) || !back[0].Equal(infos[1]) {
		t.Errorf("back = %+v", back)
	}
}

func TestEncode_RejectsForeignDate(t *testing.T) {
	_, err := Encode(oct, []dayinfo.Info{dayinfo.NewInfo(caldate.MustParse("2022-09-30"), "x")})
	if !errors.Is(err, ErrOutsideMonth) {
		t.Errorf("err = %v", err)
	}
}
