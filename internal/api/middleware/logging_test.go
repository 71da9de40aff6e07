package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggingChain(logger zerolog.Logger) http.Handler {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return CorrelationID(logger)(RequestLogging(logger)(handler))
}

func TestRequestLogging_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/public-history/08-25", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	loggingChain(logger).ServeHTTP(rec, req)

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"request_id":"req-abc-123"`)
	assert.Contains(t, line, `"method":"GET"`)
	assert.Contains(t, line, `"path":"/api/public-history/08-25"`)
	assert.Contains(t, line, `"status":200`)
}

func TestRequestLogging_LangField(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/og-image/08-25?lang=en-US", nil)
	rec := httptest.NewRecorder()
	loggingChain(logger).ServeHTTP(rec, req)

	assert.Contains(t, buf.String(), `"lang":"en-US"`)
}

func TestRequestLogging_ProbesLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	for _, path := range []string{"/api/health", "/api/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		loggingChain(logger).ServeHTTP(rec, req)
	}
	assert.Empty(t, buf.String(), "probe requests should not log at info level")

	// At debug level the probe lines come through.
	buf.Reset()
	debugLogger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	loggingChain(debugLogger).ServeHTTP(rec, req)
	assert.Contains(t, buf.String(), `"path":"/api/health"`)
}

func TestRequestLogging_FallbackWithoutCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	line := buf.String()
	assert.Contains(t, line, `"status":204`)
	assert.NotContains(t, line, "request_id")
}
