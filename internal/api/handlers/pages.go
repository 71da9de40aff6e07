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

// PageHandler serves the server-rendered per-date HTML pages.
type PageHandler struct {
	service  *history.Service
	renderer *render.Renderer
	template string
	cache    cache.Cache
	pageTTL  time.Duration
	env      string
}

func NewPageHandler(service *history.Service, renderer *render.Renderer, template string, c cache.Cache, pageTTL time.Duration, env string) *PageHandler {
	if pageTTL <= 0 {
		pageTTL = time.Hour
	}
	return &PageHandler{
		service:  service,
		renderer: renderer,
		template: template,
		cache:    c,
		pageTTL:  pageTTL,
		env:      env,
	}
}

// Get handles GET /history/{date}/?lang=. Rendering is deterministic per
// (date, locale), so pages are cached in the server-side cache backend.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := history.ParseURLDate(r.PathValue("date"))
	if err != nil {
		problem.Write(w, r, http.StatusNotFound,
			problem.TypeNotFound, "Page not found", err, h.env,
			problem.WithDetail("Use Month-DD format (e.g. /history/August-21/)"),
			problem.WithInstance(r.URL.Path))
		return
	}

	locale := requestLocale(r)
	cacheKey := "page:" + key + ":" + locale

	if body, ok, cerr := h.cache.Get(r.Context(), cacheKey); cerr == nil && ok {
		metrics.PageCacheHits.WithLabelValues("page").Inc()
		writePage(w, locale, body)
		return
	} else if cerr != nil {
		zerolog.Ctx(r.Context()).Warn().Err(cerr).Msg("page cache read failed")
	}
	metrics.PageCacheMisses.WithLabelValues("page").Inc()

	rec, _ := h.service.Record(key)
	html := []byte(h.renderer.Page(h.template, key, rec, locale))

	if cerr := h.cache.Set(r.Context(), cacheKey, html, h.pageTTL); cerr != nil {
		zerolog.Ctx(r.Context()).Warn().Err(cerr).Msg("page cache write failed")
	}
	writePage(w, locale, html)
}

func writePage(w http.ResponseWriter, locale string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600, s-maxage=7200")
	w.Header().Set("X-Robots-Tag", "index, follow")
	w.Header().Set("Content-Language", locale)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
