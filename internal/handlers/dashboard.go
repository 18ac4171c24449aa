package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/services"
)

// DashboardHandlers exposes the admin aggregation snapshot.
type DashboardHandlers struct {
	authn     *auth.Authenticator
	dashboard services.DashboardService
}

// NewDashboardHandlers constructs a new DashboardHandlers instance.
func NewDashboardHandlers(authn *auth.Authenticator, dashboard services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{authn: authn, dashboard: dashboard}
}

// Routes registers the dashboard endpoints. Mounted both at /dashboard and
// under /admin/dashboard; both are admin guarded.
func (h *DashboardHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAdmin())
	}
	r.Get("/", h.stats)
	r.Get("/stats", h.stats)
}

func (h *DashboardHandlers) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := h.dashboard.ComputeStats(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, snapshot)
}
