package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/onthisday/server/internal/api/handlers"
	"github.com/onthisday/server/internal/api/middleware"
	"github.com/onthisday/server/internal/api/render"
	"github.com/onthisday/server/internal/auth"
	"github.com/onthisday/server/internal/cache"
	"github.com/onthisday/server/internal/config"
	"github.com/onthisday/server/internal/domain/history"
	"github.com/onthisday/server/internal/metrics"
	"github.com/onthisday/server/web"
)

// Deps carries the wired dependencies for the router. The server command
// builds them from config; tests build them directly.
type Deps struct {
	Service *history.Service
	Cache   cache.Cache

	Version   string
	GitCommit string
	BuildDate string
}

// NewRouter assembles the full HTTP surface: middleware chain, data API,
// SSR pages, SEO endpoints, and the metrics registry.
func NewRouter(cfg config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	verifier := auth.NewVerifier(cfg.Auth.APISecret, cfg.Auth.TokenTTL)
	renderer := render.New(cfg.Server.BaseURL)

	health := handlers.NewHealthChecker(deps.Service, deps.Cache, deps.Version, deps.GitCommit)
	token := handlers.NewTokenHandler(verifier)
	historyHandler := handlers.NewHistoryHandler(deps.Service, cfg.Environment)
	public := handlers.NewPublicHandler(deps.Service, cfg.Environment)
	ogImage := handlers.NewOGImageHandler(deps.Cache, cfg.Environment)
	pages := handlers.NewPageHandler(deps.Service, renderer, web.PageTemplate(), deps.Cache, cfg.Cache.PageTTL, cfg.Environment)
	seoHandler := handlers.NewSEOHandler(deps.Service, cfg.Server.BaseURL)

	tokenAuth := middleware.TokenAuth(verifier, cfg.Environment)
	signature := middleware.RequestSignature(cfg.Auth.SigningSecret, cfg.Environment)
	protect := func(h http.HandlerFunc) http.Handler {
		return tokenAuth(signature(h))
	}

	mux := http.NewServeMux()

	mux.Handle("/api/health", methodMux(map[string]http.Handler{
		http.MethodGet: health.Health(),
	}))
	mux.Handle("/api/ready", methodMux(map[string]http.Handler{
		http.MethodGet: health.Ready(),
	}))
	mux.Handle("/api/token", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(token.Issue),
	}))
	mux.Handle("/api/history/batch", methodMux(map[string]http.Handler{
		http.MethodPost: protect(historyHandler.Batch),
	}))
	mux.Handle("/api/history/{date}", methodMux(map[string]http.Handler{
		http.MethodGet: protect(historyHandler.Get),
	}))
	mux.Handle("/api/public-history/{date}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(public.History),
	}))
	mux.Handle("/api/today", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(public.Today),
	}))
	mux.Handle("/api/og-image/{date}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(ogImage.Get),
	}))

	mux.Handle("/history/{date}/{$}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(pages.Get),
	}))
	mux.Handle("/history/{date}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(pages.Get),
	}))

	mux.Handle("/sitemap.xml", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(seoHandler.Sitemap),
	}))
	mux.Handle("/robots.txt", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(seoHandler.Robots),
	}))

	mux.Handle("/version", VersionHandler(deps.Version, deps.GitCommit, deps.BuildDate))
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", web.IndexHandler())

	// Outermost first: each request passes security headers → CORS →
	// correlation → tracing → logging → metrics → rate limit → route.
	var handler http.Handler = mux
	handler = middleware.RateLimit(cfg.RateLimit, cfg.Environment)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.SecurityHeaders(cfg.Environment == "production")(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
