// Package storage defines the days directory abstraction: one YAML file per
// month, named YYYY-MM.yaml.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/models"
)

// Ext is the extension of month files.
const Ext = ".yaml"

// Provider is the interface for month file operations. Paths are relative
// to the days directory.
type Provider interface {
	// List returns metadata for every month file, sorted by month.
	List() ([]models.MonthFile, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}

// PathOf returns the file name holding ym.
func PathOf(ym caldate.YearMonth) string {
	return ym.String() + Ext
}

// MonthOf parses the month from a month file path. Any directory part is
// ignored.
func MonthOf(path string) (caldate.YearMonth, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Ext) {
		return caldate.YearMonth{}, false
	}
	ym, err := caldate.ParseYearMonth(strings.TrimSuffix(base, Ext))
	if err != nil {
		return caldate.YearMonth{}, false
	}
	return ym, true
}
