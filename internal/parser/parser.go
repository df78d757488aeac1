// Package parser reads and writes month files of the days directory.
//
// A month file holds the day infos of one month:
//
//	days:
//	  - date: 2022-10-25
//	    header: Birthday
//	    content:
//	      - cake at 5
//	      - call grandma
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/dayinfo"
)

// ErrOutsideMonth is returned for a day that does not belong to the file's month.
var ErrOutsideMonth = errors.New("parser: date outside month")

type monthFile struct {
	Days []dayEntry `yaml:"days"`
}

type dayEntry struct {
	Date    string   `yaml:"date"`
	Header  string   `yaml:"header,omitempty"`
	Content []string `yaml:"content,omitempty"`
}

// Parse decodes a month file. Blank headers and content lines are dropped;
// a date listed twice keeps its last entry.
func Parse(ym caldate.YearMonth, data []byte) ([]dayinfo.Info, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var f monthFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parser: %s: %w", ym, err)
	}

	byDate := make(map[caldate.Date]int, len(f.Days))
	var out []dayinfo.Info
	for _, e := range f.Days {
		d, err := caldate.Parse(e.Date)
		if err != nil {
			return nil, fmt.Errorf("parser: %s: %w", ym, err)
		}
		if !ym.Contains(d) {
			return nil, fmt.Errorf("%w: %s in %s", ErrOutsideMonth, d, ym)
		}
		info := dayinfo.NewInfo(d, strings.TrimSpace(e.Header), nonBlank(e.Content)...)
		if i, ok := byDate[d]; ok {
			out[i] = info
			continue
		}
		byDate[d] = len(out)
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b dayinfo.Info) int { return a.Date.Compare(b.Date) })
	return out, nil
}

// Encode renders infos as a month file, sorted by date. Infos outside ym
// are rejected.
func Encode(ym caldate.YearMonth, infos []dayinfo.Info) ([]byte, error) {
	sorted := slices.Clone(infos)
	slices.SortFunc(sorted, func(a, b dayinfo.Info) int { return a.Date.Compare(b.Date) })

	f := monthFile{Days: make([]dayEntry, 0, len(sorted))}
	for _, i := range sorted {
		if !ym.Contains(i.Date) {
			return nil, fmt.Errorf("%w: %s in %s", ErrOutsideMonth, i.Date, ym)
		}
		f.Days = append(f.Days, dayEntry{Date: i.Date.String(), Header: i.Header, Content: i.Content})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("parser: encode %s: %w", ym, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: encode %s: %w", ym, err)
	}
	return buf.Bytes(), nil
}

func nonBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
