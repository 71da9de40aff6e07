package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/onthisday/server/internal/domain/history"
)

// totals mirrors the legacy "total" wire object.
type totals struct {
	Events    int `json:"events"`
	Birthdays int `json:"birthdays"`
	Deaths    int `json:"deaths"`
}

// dateEnvelope is the legacy single-date success envelope. The field order
// and names are frozen; existing clients parse them.
type dateEnvelope struct {
	Success    bool           `json:"success"`
	Date       string         `json:"date"`
	Timestamp  string         `json:"timestamp,omitempty"`
	ServerDate string         `json:"serverDate,omitempty"`
	Data       history.Record `json:"data"`
	Total      totals         `json:"total"`
}

func envelope(date string, rec history.Record, now time.Time) dateEnvelope {
	t := rec.Totals()
	return dateEnvelope{
		Success:   true,
		Date:      date,
		Timestamp: now.UTC().Format(time.RFC3339),
		Data:      rec,
		Total:     totals{Events: t.Events, Birthdays: t.Birthdays, Deaths: t.Deaths},
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
