package handlers

import (
	"net/http"
	"time"

	"github.com/onthisday/server/internal/domain/history"
	"github.com/onthisday/server/internal/seo"
)

// SEOHandler serves sitemap.xml and robots.txt, generated from the set of
// known date keys.
type SEOHandler struct {
	service *history.Service
	baseURL string
}

func NewSEOHandler(service *history.Service, baseURL string) *SEOHandler {
	return &SEOHandler{service: service, baseURL: baseURL}
}

func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Cache-Control", "public, max-age=3600, s-maxage=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(seo.Sitemap(h.baseURL, h.service.Keys(), time.Now())))
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(seo.Robots(h.baseURL)))
}
