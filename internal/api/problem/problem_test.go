package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSetsContentTypeAndStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/history/99-99", nil)

	Write(w, r, http.StatusBadRequest, TypeValidation, "Invalid request", errors.New("bad date"), "test")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, TypeValidation, p.Type)
	assert.Equal(t, "Invalid request", p.Title)
	assert.Equal(t, 400, p.Status)
	assert.Equal(t, "bad date", p.Detail)
	assert.Equal(t, "/api/history/99-99", p.Instance)
}

func TestWriteHidesDetailInProduction(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/token", nil)

	Write(w, r, http.StatusInternalServerError, TypeServerError, "Server error", errors.New("secret internals"), "production")

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), p.Detail)
	assert.NotContains(t, w.Body.String(), "secret internals")
}

func TestWriteOptions(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/history/batch", nil)

	Write(w, r, http.StatusBadRequest, TypeValidation, "Invalid request", nil, "test",
		WithDetail("maximum 7 dates allowed per batch request"),
		WithErrors(map[string]interface{}{"dates": "too long"}),
	)

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "maximum 7 dates allowed per batch request", p.Detail)
	assert.Equal(t, "too long", p.Errors["dates"])
}
