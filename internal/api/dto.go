package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/daydb"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/grid"
)

const (
	maxHeaderLen = 200
	maxLineLen   = 500
	maxLines     = 50
)

// NavigateRequest is the request body for moving the cursor.
type NavigateRequest struct {
	Op   string `json:"op" example:"next-month" validate:"required"`
	Date string `json:"date,omitempty" example:"2022-10-25"`
}

// Validate checks the op and requires a date for op "date".
func (r NavigateRequest) Validate() error {
	ops := make([]any, 0, len(calservice.Ops()))
	for _, op := range calservice.Ops() {
		ops = append(ops, op)
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Op, validation.Required, validation.In(ops...)),
		validation.Field(&r.Date, validation.When(r.Op == string(calservice.OpDate), validation.Required, validation.Date("2006-01-02"))),
	)
}

// DayRequest is the request body for storing a day info. An empty header
// and no content clear the day.
type DayRequest struct {
	Header  string   `json:"header" example:"Birthday"`
	Content []string `json:"content" example:"cake at 5,call grandma"`
}

// Validate bounds the header and content sizes.
func (r DayRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Header, validation.Length(0, maxHeaderLen)),
		validation.Field(&r.Content, validation.Length(0, maxLines), validation.Each(validation.Length(0, maxLineLen))),
	)
}

// RefreshRequest is the request body for re-reading the repository.
type RefreshRequest struct {
	Scope string `json:"scope" example:"month" validate:"required"`
	Key   string `json:"key" example:"2022-10" validate:"required"`
}

var refreshScopes = map[string]dayinfo.Scope{
	"date":  dayinfo.ScopeDate,
	"month": dayinfo.ScopeMonth,
	"year":  dayinfo.ScopeYear,
}

// Validate checks the scope name and that a key is present.
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Scope, validation.Required, validation.In("date", "month", "year")),
		validation.Field(&r.Key, validation.Required),
	)
}

// PressRequest is the request body for a raw press on a cell.
type PressRequest struct {
	Index int `json:"index" example:"29"`
}

// Validate bounds the index to the largest grid.
func (r PressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Index, validation.Min(0), validation.Max(grid.YearCells-1)),
	)
}

// PressResponse reports whether the press reached a visible cell.
type PressResponse struct {
	Accepted bool `json:"accepted"`
}

// HoverRequest is the request body for year-view month focus.
type HoverRequest struct {
	Index int  `json:"index" example:"40"`
	On    bool `json:"on" example:"true"`
}

// Validate bounds the index to the year grid.
func (r HoverRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Index, validation.Min(0), validation.Max(grid.YearCells-1)),
	)
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []daydb.SearchResult `json:"results" validate:"required"`
}

// Cursor is the cursor response type (aliased from the domain layer).
type Cursor = calservice.Cursor

// Day is the day-info response type (aliased from the domain layer).
type Day = calservice.Day
