package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/onthisday/server/internal/api/problem"
	"github.com/onthisday/server/internal/api/render"
	"github.com/onthisday/server/internal/cache"
	"github.com/onthisday/server/internal/domain/history"
	"github.com/onthisday/server/internal/metrics"
)

// OGImageHandler serves the per-date social-share SVG.
type OGImageHandler struct {
	cache cache.Cache
	env   string
}

func NewOGImageHandler(c cache.Cache, env string) *OGImageHandler {
	return &OGImageHandler{cache: c, env: env}
}

// Get handles GET /api/og-image/{date}?lang=. The image depends only on
// date and language, so rendered SVGs are cached server-side for a day.
func (h *OGImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !history.ValidDateKey(date) {
		problem.Write(w, r, http.StatusNotFound,
			problem.TypeNotFound, "Invalid date format", nil, h.env,
			problem.WithInstance(r.URL.Path))
		return
	}

	locale := requestLocale(r)
	cacheKey := "og:" + date + ":" + locale

	if body, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
		metrics.PageCacheHits.WithLabelValues("og_image").Inc()
		writeSVG(w, body)
		return
	} else if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("og-image cache read failed")
	}
	metrics.PageCacheMisses.WithLabelValues("og_image").Inc()

	svg := []byte(render.OGImage(date, locale))
	if err := h.cache.Set(r.Context(), cacheKey, svg, 24*time.Hour); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("og-image cache write failed")
	}
	writeSVG(w, svg)
}

func writeSVG(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// requestLocale normalizes the ?lang= query parameter. Anything other than
// the English locale falls back to Chinese, the site default.
func requestLocale(r *http.Request) string {
	if r.URL.Query().Get("lang") == history.LocaleEN {
		return history.LocaleEN
	}
	return history.LocaleZH
}
