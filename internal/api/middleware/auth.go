package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onthisday/server/internal/api/problem"
	"github.com/onthisday/server/internal/auth"
	"github.com/onthisday/server/internal/metrics"
)

// TokenAuth guards the authenticated API endpoints. The token comes from
// Authorization: Bearer or a ?token= query fallback for clients that cannot
// set headers. A missing or expired token is 401, a token that fails the
// hash check is 403.
func TokenAuth(verifier *auth.Verifier, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				metrics.TokenVerifications.WithLabelValues("missing").Inc()
				problem.Write(w, r, http.StatusUnauthorized,
					problem.TypeUnauthorized, "Unauthorized", nil, env,
					problem.WithDetail("Missing access token"))
				return
			}

			switch err := verifier.Verify(token); {
			case err == nil:
				metrics.TokenVerifications.WithLabelValues("ok").Inc()
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrExpired):
				metrics.TokenVerifications.WithLabelValues("expired").Inc()
				problem.Write(w, r, http.StatusUnauthorized,
					problem.TypeUnauthorized, "Unauthorized", err, env,
					problem.WithDetail("Token expired"))
			default:
				metrics.TokenVerifications.WithLabelValues("invalid").Inc()
				problem.Write(w, r, http.StatusForbidden,
					problem.TypeForbidden, "Forbidden", err, env,
					problem.WithDetail("Invalid access token"))
			}
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// RequestSignature verifies the optional x-timestamp/x-signature HMAC pair.
// The check only runs when both headers are present; requests without them
// pass through untouched. The body is buffered and restored so downstream
// handlers can still read it.
func RequestSignature(secret, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timestamp := r.Header.Get("x-timestamp")
			signature := r.Header.Get("x-signature")
			if timestamp == "" || signature == "" || secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				var err error
				body, err = io.ReadAll(r.Body)
				if err != nil {
					problem.Write(w, r, http.StatusBadRequest,
						problem.TypeValidation, "Bad Request", err, env,
						problem.WithDetail("Could not read request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			if err := auth.VerifySignature(secret, timestamp, signature, body, time.Now()); err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					problem.TypeUnauthorized, "Unauthorized", err, env,
					problem.WithDetail("Request signature verification failed"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
