package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/onthisday/server/internal/cache"
	"github.com/onthisday/server/internal/domain/history"
)

// HealthCheck represents the health status of the server
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	GitCommit string                 `json:"git_commit,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// HealthChecker runs the dataset and cache-backend checks.
type HealthChecker struct {
	service   *history.Service
	cache     cache.Cache
	version   string
	gitCommit string
}

func NewHealthChecker(service *history.Service, c cache.Cache, version, gitCommit string) *HealthChecker {
	return &HealthChecker{
		service:   service,
		cache:     c,
		version:   version,
		gitCommit: gitCommit,
	}
}

// Health is the liveness endpoint. The flat `{status, timestamp}` shape is
// what the legacy clients and uptime monitors poll.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthCheck{
			Status:    "OK",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Ready returns the comprehensive readiness handler with per-check results.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]CheckResult{
			"dataset": h.checkDataset(),
			"cache":   h.checkCache(ctx),
		}

		overallStatus := "healthy"
		statusCode := http.StatusOK
		for _, check := range checks {
			if check.Status == "fail" {
				overallStatus = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}

		writeJSON(w, statusCode, HealthCheck{
			Status:    overallStatus,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (h *HealthChecker) checkDataset() CheckResult {
	if h.service == nil || len(h.service.Keys()) == 0 {
		return CheckResult{
			Status:  "fail",
			Message: "history dataset not loaded",
		}
	}
	return CheckResult{Status: "pass"}
}

func (h *HealthChecker) checkCache(ctx context.Context) CheckResult {
	if h.cache == nil {
		return CheckResult{
			Status:  "fail",
			Message: "cache backend not configured",
		}
	}

	start := time.Now()
	probe := "health:probe"
	if err := h.cache.Set(ctx, probe, []byte("ok"), time.Minute); err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	if _, _, err := h.cache.Get(ctx, probe); err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	return CheckResult{
		Status:    "pass",
		LatencyMs: time.Since(start).Milliseconds(),
	}
}
