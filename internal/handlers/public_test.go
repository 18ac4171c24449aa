package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
	"github.com/brightfold/api/internal/services"
)

type stubContentService struct {
	services.ContentService

	banners     domain.Page[domain.Banner]
	lastOptions repositories.ListOptions
}

func (s *stubContentService) ListBanners(_ context.Context, opts repositories.ListOptions) (domain.Page[domain.Banner], error) {
	s.lastOptions = opts
	return s.banners, nil
}

type stubContactServiceHandler struct {
	services.ContactService

	submitted *services.ContactSubmission
	err       error
}

func (s *stubContactServiceHandler) Submit(_ context.Context, submission services.ContactSubmission) (domain.Contact, error) {
	if s.err != nil {
		return domain.Contact{}, s.err
	}
	s.submitted = &submission
	return domain.Contact{
		ID:        "ctc_01jx",
		Name:      submission.Name,
		Email:     submission.Email,
		Message:   submission.Message,
		CreatedAt: time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func newPublicRouter(content *stubContentService, contacts *stubContactServiceHandler) http.Handler {
	authn := newTestAuthenticator()
	handlers := NewPublicHandlers(content, nil, contacts)
	return newTestRouter(authn, WithPublicRoutes(handlers.Routes))
}

func TestPublicBannersListIsActiveOnly(t *testing.T) {
	content := &stubContentService{banners: domain.Page[domain.Banner]{
		Items:      []domain.Banner{{ID: "bnr_1", Title: "Hero", Active: true}},
		TotalCount: 1,
	}}
	router := newPublicRouter(content, &stubContactServiceHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/banners", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	mustStatus(t, rr.Code, http.StatusOK, rr.Body.String())
	if !content.lastOptions.ActiveOnly {
		t.Fatal("public listing must force the active-only filter")
	}
}

func TestPublicContactSubmit(t *testing.T) {
	contacts := &stubContactServiceHandler{}
	router := newPublicRouter(&stubContentService{}, contacts)

	body := `{"name":"Ada","email":"ada@example.com","message":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/contact", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	mustStatus(t, rr.Code, http.StatusCreated, rr.Body.String())
	if contacts.submitted == nil || contacts.submitted.Email != "ada@example.com" {
		t.Fatalf("submission not forwarded: %+v", contacts.submitted)
	}
}

func TestPublicContactValidationError(t *testing.T) {
	contacts := &stubContactServiceHandler{err: services.ErrContactInvalidInput}
	router := newPublicRouter(&stubContentService{}, contacts)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/contact", strings.NewReader(`{"name":"A"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	mustStatus(t, rr.Code, http.StatusBadRequest, rr.Body.String())

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Success || envelope.Error != "invalid_request" {
		t.Fatalf("unexpected error body %s", rr.Body.String())
	}
}
