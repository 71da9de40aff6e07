package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// RequestLogging emits one line per request. It prefers the correlation-scoped
// logger from the request context so lines carry request_id; the fallback
// logger covers requests that bypass CorrelationID. Health and metrics probes
// log at debug to keep orchestrator polling out of the info stream.
func RequestLogging(fallback zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			logger := LoggerFromContext(r.Context())
			if logger.GetLevel() == zerolog.Disabled {
				logger = &fallback
			}

			evt := logger.Info()
			if isProbePath(r.URL.Path) {
				evt = logger.Debug()
			}
			if lang := r.URL.Query().Get("lang"); lang != "" {
				evt = evt.Str("lang", lang)
			}
			evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.bytes).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func isProbePath(path string) bool {
	switch path {
	case "/api/health", "/api/ready", "/metrics":
		return true
	}
	return false
}
