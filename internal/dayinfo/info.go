// Package dayinfo holds per-day annotations and the cache that views read
// them from.
package dayinfo

import (
	"slices"
	"strings"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/locale"
)

// Formatter renders an Info as tooltip text.
type Formatter func(Info) string

// Info annotates one date. An empty Header or Content means the field is
// absent. Info values are replaced, never mutated in place.
type Info struct {
	Date    caldate.Date
	Header  string
	Content []string

	// Format overrides the view formatter for this Info when set.
	Format Formatter
}

// NewInfo builds an Info from a header and content lines.
func NewInfo(date caldate.Date, header string, lines ...string) Info {
	return Info{Date: date, Header: header, Content: slices.Clone(lines)}
}

// HasHeader reports whether the header is present.
func (i Info) HasHeader() bool { return i.Header != "" }

// HasContent reports whether any content lines are present.
func (i Info) HasContent() bool { return len(i.Content) > 0 }

// Equal compares date, header and content. Format is ignored.
func (i Info) Equal(o Info) bool {
	return i.Date == o.Date && i.Header == o.Header && slices.Equal(i.Content, o.Content)
}

// Text renders i with its own Format, or with fallback when it has none.
func (i Info) Text(fallback Formatter) string {
	if i.Format != nil {
		return i.Format(i)
	}
	if fallback == nil {
		fallback = DefaultFormatter(locale.New(""))
	}
	return fallback(i)
}

func (i Info) clone() Info {
	i.Content = slices.Clone(i.Content)
	return i
}

// Separators used by the default formatter.
const (
	HeaderSeparator = " - "
	LinePrefix      = " - "
)

// DefaultFormatter renders "25 October - header" followed by one
// " - line" per content line, each on its own line.
func DefaultFormatter(names locale.Names) Formatter {
	return func(i Info) string {
		var b strings.Builder
		b.WriteString(names.DayMonth(i.Date))
		if i.HasHeader() {
			b.WriteString(HeaderSeparator)
			b.WriteString(i.Header)
		}
		for n, line := range i.Content {
			if n > 0 || i.HasHeader() {
				b.WriteByte('\n')
			}
			b.WriteString(LinePrefix)
			b.WriteString(line)
		}
		return b.String()
	}
}

// DefaultText is the tooltip text for a date without an Info.
func DefaultText(names locale.Names) func(caldate.Date) string {
	return names.DayMonth
}
