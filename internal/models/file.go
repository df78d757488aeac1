// Package models defines the file-level types shared by storage and the
// day-info repositories.
package models

import (
	"time"

	"github.com/starford/daycal/internal/caldate"
)

// MonthFile describes one YYYY-MM.yaml file in the days directory.
type MonthFile struct {
	Path      string            `json:"path"`
	Month     caldate.YearMonth `json:"month"`
	Checksum  string            `json:"checksum"`
	UpdatedAt time.Time         `json:"updated_at"`
}
