package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/onthisday/server/internal/api/problem"
	"github.com/onthisday/server/internal/domain/history"
)

// HistoryHandler serves the token-protected per-date and batch endpoints.
type HistoryHandler struct {
	service  *history.Service
	validate *validator.Validate
	env      string
}

func NewHistoryHandler(service *history.Service, env string) *HistoryHandler {
	return &HistoryHandler{
		service:  service,
		validate: validator.New(),
		env:      env,
	}
}

// Get handles GET /api/history/{date}. The date must be a canonical MM-DD
// key; a well-formed key with no data is 404.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !history.ValidDateKey(date) {
		problem.Write(w, r, http.StatusBadRequest,
			problem.TypeValidation, "Invalid date format", nil, h.env,
			problem.WithDetail("Date must be MM-DD (e.g. 08-21)"))
		return
	}

	rec, ok := h.service.Record(date)
	if !ok {
		problem.Write(w, r, http.StatusNotFound,
			problem.TypeNotFound, "No data available for this date", nil, h.env,
			problem.WithInstance(r.URL.Path))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, envelope(date, rec, time.Now()))
}

type batchRequest struct {
	Dates []string `json:"dates" validate:"required,min=1,max=7"`
}

type batchResponse struct {
	Success   bool                      `json:"success"`
	Timestamp string                    `json:"timestamp"`
	Requested int                       `json:"requested"`
	Found     int                       `json:"found"`
	Data      map[string]history.Record `json:"data"`
}

// Batch handles POST /api/history/batch. Invalid or unknown keys in the
// list are silently skipped; only the list shape itself is validated.
func (h *HistoryHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest,
			problem.TypeValidation, "Invalid request body", err, h.env,
			problem.WithDetail("Body must be JSON: {\"dates\": [\"MM-DD\", ...]}"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		detail := "Dates array is required"
		if len(req.Dates) > history.MaxBatchDates {
			detail = "Maximum 7 dates allowed per batch request"
		}
		problem.Write(w, r, http.StatusBadRequest,
			problem.TypeValidation, "Invalid batch request", err, h.env,
			problem.WithDetail(detail))
		return
	}

	results := h.service.Batch(req.Dates)
	writeJSON(w, http.StatusOK, batchResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Requested: len(req.Dates),
		Found:     len(results),
		Data:      results,
	})
}
