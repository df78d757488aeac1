package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/daycal/internal/calservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *calservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Cursor.
	r.Get("/state", h.GetState)
	r.Post("/state/navigate", h.Navigate)

	// Views.
	r.Get("/month", h.GetMonth)
	r.Post("/month/press", h.PressMonth)
	r.Get("/year", h.GetYear)
	r.Post("/year/press", h.PressYear)
	r.Post("/year/hover", h.HoverYear)

	// Day infos. Static routes first so "search" and "refresh" never parse as dates.
	r.Get("/days/search", h.Search)
	r.Post("/days/refresh", h.Refresh)
	r.Get("/days/{date}", h.GetDay)
	r.Put("/days/{date}", h.PutDay)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
