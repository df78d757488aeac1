// Package render draws month and year snapshots for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/grid"
	"github.com/starford/daycal/internal/locale"
	"github.com/starford/daycal/internal/view"
)

// InfoMarker follows the day number of days carrying an info.
const InfoMarker = "•"

// Styles holds the lipgloss styles used by the renderers.
type Styles struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Weekday lipgloss.Style
	Day     lipgloss.Style
	Marker  lipgloss.Style
}

// DefaultStyles returns the styles used by the CLI.
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("3")),
		Weekday: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Bold(true),
		Day: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		Marker: lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")),
	}
}

// cell picks the style of one day from its flags.
func (s Styles) cell(c view.CellState) lipgloss.Style {
	st := s.Day
	if c.Has(view.FlagNotCurrentMonth) || c.Has(view.FlagInPast) {
		st = st.Faint(true)
	}
	if c.Has(view.FlagToday) {
		st = st.Bold(true)
	}
	if c.Has(view.FlagMonthFocused) {
		st = st.Underline(true)
	}
	if c.Has(view.FlagSelected) {
		st = st.Reverse(true)
	}
	return st
}

func (s Styles) day(c view.CellState) string {
	marker := " "
	if c.HasInfo {
		marker = s.Marker.Render(InfoMarker)
	}
	return s.cell(c).Render(fmt.Sprintf("%2s", c.Label)) + marker
}

// Month draws the title, the weekday header and the 6×7 grid.
func Month(snap calservice.MonthSnapshot, st Styles) string {
	var b strings.Builder
	header := make([]string, len(snap.Weekdays))
	for i, w := range snap.Weekdays {
		header[i] = st.Weekday.Render(fmt.Sprintf("%-2s", w))
	}
	b.WriteString(strings.Join(header, " "))

	for i, c := range snap.Cells {
		if i%grid.Columns == 0 {
			b.WriteByte('\n')
		}
		b.WriteString(st.day(c))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, st.Title.Render(snap.Title), b.String())
	return st.Box.Render(body)
}

// Year draws twelve small months, three per row. Year cells carry no grid
// position, so each month is laid out from firstDay.
func Year(snap calservice.YearSnapshot, names locale.Names, firstDay time.Weekday, st Styles) string {
	byMonth := make(map[time.Month][]view.CellState, 12)
	for _, c := range snap.Cells {
		if c.Hidden {
			continue
		}
		byMonth[c.Date.Month] = append(byMonth[c.Date.Month], c)
	}

	var weekdays []string
	for _, w := range grid.Weekdays(firstDay) {
		weekdays = append(weekdays, st.Weekday.Render(fmt.Sprintf("%-2s", names.WeekdayShort(w))))
	}

	var rows []string
	for q := 0; q < 4; q++ {
		var blocks []string
		for m := time.Month(q*3 + 1); m <= time.Month(q*3+3); m++ {
			ym := caldate.MonthOf(snap.Year, m)
			blocks = append(blocks, miniMonth(ym, names, weekdays, firstDay, byMonth[m], st))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{st.Title.Render(snap.Title)}, rows...)...)
	return st.Box.Render(body)
}

func miniMonth(ym caldate.YearMonth, names locale.Names, weekdays []string, firstDay time.Weekday, cells []view.CellState, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(names.MonthName(ym.Month)))
	b.WriteByte('\n')
	b.WriteString(strings.Join(weekdays, " "))

	lead := grid.LeadingDays(ym, firstDay)
	col := 0
	b.WriteByte('\n')
	for ; col < lead; col++ {
		b.WriteString("   ")
	}
	for _, c := range cells {
		if col == grid.Columns {
			b.WriteByte('\n')
			col = 0
		}
		b.WriteString(st.day(c))
		col++
	}
	return lipgloss.NewStyle().MarginRight(2).Render(b.String())
}
