package view

import (
	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/click"
	"github.com/starford/daycal/internal/dayinfo"
)

// MouseCallback receives classified clicks on day cells. found is false when
// the cache had no info for date.
type MouseCallback interface {
	OnClick(kind click.Kind, date caldate.Date, info dayinfo.Info, found bool)
}

// MouseFuncs adapts per-kind functions to MouseCallback. Nil fields ignore
// that kind.
type MouseFuncs struct {
	Single func(date caldate.Date, info dayinfo.Info, found bool)
	Multi  func(date caldate.Date, info dayinfo.Info, found bool)
}

func (m MouseFuncs) OnClick(kind click.Kind, date caldate.Date, info dayinfo.Info, found bool) {
	switch kind {
	case click.Single:
		if m.Single != nil {
			m.Single(date, info, found)
		}
	case click.Multi:
		if m.Multi != nil {
			m.Multi(date, info, found)
		}
	}
}
