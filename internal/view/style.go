package view

import "github.com/starford/daycal/internal/caldate"

// StyleRules assigns extra flags to dates. They are applied after every
// refill and undone before the next one.
type StyleRules map[caldate.Date]map[Flag]bool

type appliedStyle struct {
	cell *Cell
	flag Flag
	prev bool
}

// styler remembers what it changed so it can undo exactly that.
type styler struct {
	rules   StyleRules
	applied []appliedStyle
}

func (s *styler) apply(byDate map[caldate.Date]*Cell) {
	for date, flags := range s.rules {
		c, ok := byDate[date]
		if !ok {
			continue
		}
		for f, on := range flags {
			s.applied = append(s.applied, appliedStyle{cell: c, flag: f, prev: c.Flag(f)})
			c.set(f, on)
		}
	}
}

func (s *styler) revert() {
	for i := len(s.applied) - 1; i >= 0; i-- {
		a := s.applied[i]
		a.cell.set(a.flag, a.prev)
	}
	s.applied = s.applied[:0]
}
