package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/daycal/internal/apperr"
	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/daydb"
	"github.com/starford/daycal/internal/dayinfo"
)

// Handler holds API route handlers.
type Handler struct {
	svc *calservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *calservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetState handles GET /api/state.
//
//	@Summary		Get the selected date
//	@Tags			state
//	@Produce		json
//	@Success		200	{object}	Cursor
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Cursor(r.Context())
	if err != nil {
		fail(w, "get state", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Navigate handles POST /api/state/navigate.
//
//	@Summary		Move the selected date
//	@Tags			state
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NavigateRequest	true	"Move"
//	@Success		200		{object}	Cursor
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/state/navigate [post]
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.Navigate(r.Context(), calservice.Op(req.Op), req.Date)
	if err != nil {
		fail(w, "navigate", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetMonth handles GET /api/month.
//
//	@Summary		Get the month grid
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	calservice.MonthSnapshot
//	@Security		BearerAuth
//	@Router			/month [get]
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Month(r.Context())
	if err != nil {
		fail(w, "get month", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetYear handles GET /api/year.
//
//	@Summary		Get the year grid
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	calservice.YearSnapshot
//	@Security		BearerAuth
//	@Router			/year [get]
func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Year(r.Context())
	if err != nil {
		fail(w, "get year", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PressMonth handles POST /api/month/press.
//
//	@Summary		Press a month cell
//	@Tags			views
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PressRequest	true	"Cell"
//	@Success		200		{object}	PressResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/month/press [post]
func (h *Handler) PressMonth(w http.ResponseWriter, r *http.Request) {
	h.press(w, r, calservice.GridMonth)
}

// PressYear handles POST /api/year/press.
//
//	@Summary		Press a year cell
//	@Tags			views
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PressRequest	true	"Cell"
//	@Success		200		{object}	PressResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/year/press [post]
func (h *Handler) PressYear(w http.ResponseWriter, r *http.Request) {
	h.press(w, r, calservice.GridYear)
}

func (h *Handler) press(w http.ResponseWriter, r *http.Request, g calservice.Grid) {
	var req PressRequest
	if !decode(w, r, &req) {
		return
	}
	ok, err := h.svc.Press(r.Context(), g, req.Index)
	if err != nil {
		fail(w, "press", err)
		return
	}
	writeJSON(w, http.StatusOK, PressResponse{Accepted: ok})
}

// HoverYear handles POST /api/year/hover.
//
//	@Summary		Focus or unfocus the month of a year cell
//	@Tags			views
//	@Accept			json
//	@Param			body	body	HoverRequest	true	"Cell and hover state"
//	@Success		204		"Hover applied"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/year/hover [post]
func (h *Handler) HoverYear(w http.ResponseWriter, r *http.Request) {
	var req HoverRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Hover(r.Context(), req.Index, req.On); err != nil {
		fail(w, "hover", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDay handles GET /api/days/{date}.
//
//	@Summary		Get the info of one day
//	@Tags			days
//	@Produce		json
//	@Param			date	path		string	true	"Date (YYYY-MM-DD)"
//	@Success		200		{object}	Day
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := caldate.Parse(chi.URLParam(r, "date"))
	if err != nil {
		fail(w, "get day", err)
		return
	}
	day, err := h.svc.DayInfo(r.Context(), date)
	if err != nil {
		fail(w, "get day", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// PutDay handles PUT /api/days/{date}.
//
//	@Summary		Store the info of one day
//	@Tags			days
//	@Accept			json
//	@Produce		json
//	@Param			date	path		string		true	"Date (YYYY-MM-DD)"
//	@Param			body	body		DayRequest	true	"Header and content; both empty clears the day"
//	@Success		200		{object}	Day
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date} [put]
func (h *Handler) PutDay(w http.ResponseWriter, r *http.Request) {
	date, err := caldate.Parse(chi.URLParam(r, "date"))
	if err != nil {
		fail(w, "put day", err)
		return
	}
	var req DayRequest
	if !decode(w, r, &req) {
		return
	}
	day, err := h.svc.SetDayInfo(r.Context(), dayinfo.NewInfo(date, req.Header, req.Content...))
	if err != nil {
		if errors.Is(err, apperr.ErrPersist) {
			slog.Error("put day: persist failed", slog.String("date", date.String()), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("saved in memory but not persisted"))
			return
		}
		fail(w, "put day", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Refresh handles POST /api/days/refresh.
//
//	@Summary		Re-read a date, month window or year from the store
//	@Tags			days
//	@Accept			json
//	@Param			body	body	RefreshRequest	true	"Scope and key"
//	@Success		204		"Refreshed"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Refresh(r.Context(), refreshScopes[req.Scope], req.Key); err != nil {
		fail(w, "refresh", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/days/search.
//
//	@Summary		Search day headers and content
//	@Tags			days
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Failure		501		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		fail(w, "search", err)
		return
	}
	if results == nil {
		results = []daydb.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
