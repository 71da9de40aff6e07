package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onthisday/server/internal/auth"
)

func TestTokenIssue(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", 5*time.Minute)
	h := NewTokenHandler(verifier)

	req := httptest.NewRequest(http.MethodGet, "/api/token", nil)
	res := httptest.NewRecorder()
	h.Issue(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", res.Header().Get("Cache-Control"))

	var body tokenResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 300, body.ExpiresIn)
	assert.InDelta(t, time.Now().Unix(), body.Timestamp, 5)

	// The minted token verifies against the same secret.
	assert.NoError(t, verifier.Verify(body.Token))
}
