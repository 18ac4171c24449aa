package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/services"
)

type stubDashboardService struct {
	snapshot domain.DashboardSnapshot
	err      error
}

func (s *stubDashboardService) ComputeStats(context.Context) (domain.DashboardSnapshot, error) {
	return s.snapshot, s.err
}

func newDashboardRouter(svc services.DashboardService) http.Handler {
	authn := newTestAuthenticator()
	handlers := NewDashboardHandlers(authn, svc)
	return newTestRouter(authn, WithDashboardRoutes(handlers.Routes))
}

func TestDashboardRequiresAdmin(t *testing.T) {
	router := newDashboardRouter(&stubDashboardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	mustStatus(t, rr.Code, http.StatusForbidden, rr.Body.String())
}

func TestDashboardSnapshot(t *testing.T) {
	svc := &stubDashboardService{snapshot: domain.DashboardSnapshot{
		TotalRevenue:  12500,
		TotalOrders:   42,
		MonthlyGrowth: "+50.0%",
	}}
	router := newDashboardRouter(svc)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/dashboard/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		mustStatus(t, rr.Code, http.StatusOK, rr.Body.String())

		var envelope struct {
			Success bool `json:"success"`
			Data    struct {
				TotalRevenue  float64 `json:"totalRevenue"`
				MonthlyGrowth string  `json:"monthlyGrowth"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("parse response: %v", err)
		}
		if envelope.Data.TotalRevenue != 12500 || envelope.Data.MonthlyGrowth != "+50.0%" {
			t.Fatalf("unexpected snapshot body %s", rr.Body.String())
		}
	}
}

func TestDashboardUnavailableIsAtomic(t *testing.T) {
	router := newDashboardRouter(&stubDashboardService{err: services.ErrDashboardUnavailable})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	mustStatus(t, rr.Code, http.StatusInternalServerError, rr.Body.String())

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Success || envelope.Error != "dashboard_unavailable" {
		t.Fatalf("unexpected error body %s", rr.Body.String())
	}
}

func TestDashboardAdminSecretHeader(t *testing.T) {
	verifier := newTestVerifier()
	authn := newTestAuthenticatorWithSecret(verifier, "s3cret")
	handlers := NewDashboardHandlers(authn, &stubDashboardService{})
	router := newTestRouter(authn, WithDashboardRoutes(handlers.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("X-Admin-Secret", "s3cret")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	mustStatus(t, rr.Code, http.StatusOK, rr.Body.String())
}
