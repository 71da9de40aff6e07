package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/onthisday/server/internal/config"
)

func corsHandler(cfg config.CORSConfig) http.Handler {
	return CORS(cfg, zerolog.Nop())(okHandler())
}

func TestCORS_AllowedOrigin(t *testing.T) {
	handler := corsHandler(config.CORSConfig{
		AllowedOrigins: []string{"https://onthisday.app"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req.Header.Set("Origin", "https://onthisday.app")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, "https://onthisday.app", res.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header().Get("Access-Control-Allow-Headers"), "x-signature")
}

func TestCORS_RejectedOrigin(t *testing.T) {
	handler := corsHandler(config.CORSConfig{
		AllowedOrigins: []string{"https://onthisday.app"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
	// The request itself still goes through; CORS enforcement is the browser's job.
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestCORS_CaseInsensitiveMatch(t *testing.T) {
	handler := corsHandler(config.CORSConfig{
		AllowedOrigins: []string{"https://OnThisDay.app"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req.Header.Set("Origin", "https://onthisday.app")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, "https://onthisday.app", res.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowAll(t *testing.T) {
	handler := corsHandler(config.CORSConfig{AllowAllOrigins: true})

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, "http://localhost:3000", res.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	handler := corsHandler(config.CORSConfig{
		AllowedOrigins: []string{"https://onthisday.app"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/history/batch", nil)
	req.Header.Set("Origin", "https://onthisday.app")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, "GET, POST, OPTIONS", res.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_NoOriginHeader(t *testing.T) {
	handler := corsHandler(config.CORSConfig{
		AllowedOrigins: []string{"https://onthisday.app"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
}
