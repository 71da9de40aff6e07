package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/onthisday/server/internal/api/problem"
	"github.com/onthisday/server/internal/domain/history"
)

// PublicHandler serves the unauthenticated data endpoints.
type PublicHandler struct {
	service *history.Service
	env     string
}

func NewPublicHandler(service *history.Service, env string) *PublicHandler {
	return &PublicHandler{service: service, env: env}
}

// History handles GET /api/public-history/{date}. The date is the
// SEO-friendly MonthName-DD form (MM-DD accepted too). Unlike the
// authenticated endpoint, an unknown date responds 200 with an empty
// record; only an unparseable date is 404.
func (h *PublicHandler) History(w http.ResponseWriter, r *http.Request) {
	key, err := history.ParseURLDate(r.PathValue("date"))
	if err != nil {
		status := http.StatusNotFound
		if !errors.Is(err, history.ErrBadURLDate) {
			status = http.StatusInternalServerError
		}
		problem.Write(w, r, status,
			problem.TypeNotFound, "Invalid date format", err, h.env,
			problem.WithDetail("Use Month-DD format (e.g. August-21)"),
			problem.WithInstance(r.URL.Path))
		return
	}

	rec, _ := h.service.Record(key)

	w.Header().Set("Cache-Control", "public, max-age=1800")
	writeJSON(w, http.StatusOK, envelope(key, rec, time.Now()))
}

// Today handles GET /api/today: the record for the server's current date,
// plus the server clock so clients can detect timezone drift.
func (h *PublicHandler) Today(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	key, rec := h.service.Today(now)

	resp := envelope(key, rec, now)
	resp.Timestamp = ""
	resp.ServerDate = now.UTC().Format(time.RFC3339)

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, resp)
}
