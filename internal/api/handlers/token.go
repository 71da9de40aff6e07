package handlers

import (
	"net/http"
	"time"

	"github.com/onthisday/server/internal/auth"
)

type tokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"`
	ExpiresIn int    `json:"expiresIn"`
}

// TokenHandler mints short-lived access tokens for the browser client.
type TokenHandler struct {
	verifier *auth.Verifier
}

func NewTokenHandler(verifier *auth.Verifier) *TokenHandler {
	return &TokenHandler{verifier: verifier}
}

// Issue returns a fresh token. Responses must never be cached: a cached
// token would expire before its apparent lifetime.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	writeJSON(w, http.StatusOK, tokenResponse{
		Success:   true,
		Token:     h.verifier.Issue(),
		Timestamp: time.Now().Unix(),
		ExpiresIn: int(h.verifier.MaxAge().Seconds()),
	})
}
