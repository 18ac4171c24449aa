package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/repositories"
)

// BuildInfo carries the build metadata reported by the health endpoints.
type BuildInfo struct {
	Version     string
	CommitSHA   string
	Environment string
	StartedAt   time.Time
}

// HealthHandlers serves the liveness and readiness probes.
type HealthHandlers struct {
	build  BuildInfo
	health repositories.HealthRepository
	now    func() time.Time
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// WithHealthBuildInfo attaches build metadata to probe responses.
func WithHealthBuildInfo(build BuildInfo) HealthOption {
	return func(h *HealthHandlers) { h.build = build }
}

// WithHealthRepository wires the storage ping used by the readiness probe.
func WithHealthRepository(repo repositories.HealthRepository) HealthOption {
	return func(h *HealthHandlers) { h.health = repo }
}

// WithHealthClock overrides the time source, used by tests.
func WithHealthClock(now func() time.Time) HealthOption {
	return func(h *HealthHandlers) { h.now = now }
}

// NewHealthHandlers constructs the health probe handlers.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(h)
	}
	if h.build.StartedAt.IsZero() {
		h.build.StartedAt = h.now()
	}
	return h
}

// Healthz reports process liveness. It never touches downstream systems.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, http.StatusOK, "ok", nil)
}

// Readyz reports readiness, pinging storage when a repository is wired.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		h.writeStatus(w, http.StatusOK, "ok", nil)
		return
	}

	checkStart := h.now()
	if err := h.health.Check(r.Context()); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("not_ready", "storage is unreachable", http.StatusServiceUnavailable))
		return
	}
	latency := h.now().Sub(checkStart)
	h.writeStatus(w, http.StatusOK, "ok", map[string]any{
		"mongodb": map[string]any{"status": "ok", "latencyMs": latency.Milliseconds()},
	})
}

func (h *HealthHandlers) writeStatus(w http.ResponseWriter, status int, state string, checks map[string]any) {
	now := h.now()
	payload := map[string]any{
		"status":    state,
		"timestamp": now.UTC().Format(time.RFC3339),
		"uptime":    now.Sub(h.build.StartedAt).String(),
	}
	if h.build.Version != "" {
		payload["version"] = h.build.Version
	}
	if h.build.CommitSHA != "" {
		payload["commitSha"] = h.build.CommitSHA
	}
	if h.build.Environment != "" {
		payload["environment"] = h.build.Environment
	}
	if len(checks) > 0 {
		payload["checks"] = checks
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
