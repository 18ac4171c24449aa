package handlers

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/services"
)

// tokenVerifierFunc adapts a function to the auth.TokenVerifier interface.
type tokenVerifierFunc func(ctx context.Context, idToken string) (*firebaseauth.Token, error)

func (f tokenVerifierFunc) VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error) {
	return f(ctx, idToken)
}

const (
	testUserToken  = "user-token"
	testAdminToken = "admin-token"
	testUserUID    = "uid-user"
	testUserEmail  = "ada@example.com"
)

func newTestVerifier() auth.TokenVerifier {
	return tokenVerifierFunc(func(_ context.Context, idToken string) (*firebaseauth.Token, error) {
		switch idToken {
		case testUserToken:
			return &firebaseauth.Token{
				UID:    testUserUID,
				Claims: map[string]any{"email": testUserEmail, "name": "Ada Lovelace"},
			}, nil
		case testAdminToken:
			return &firebaseauth.Token{
				UID:    "uid-admin",
				Claims: map[string]any{"email": "ops@example.com", "role": "admin"},
			}, nil
		default:
			return nil, errors.New("invalid token")
		}
	})
}

func newTestAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator(newTestVerifier())
}

func newTestAuthenticatorWithSecret(verifier auth.TokenVerifier, secret string) *auth.Authenticator {
	return auth.NewAuthenticator(verifier, auth.WithAdminSecret(secret, ""))
}

func newTestRouter(authn *auth.Authenticator, opts ...Option) chi.Router {
	all := append([]Option{WithMiddlewares(authn.Middleware())}, opts...)
	return NewRouter(all...)
}

// stubOrderService provides canned order responses for handler tests.
type stubOrderService struct {
	order     domain.Order
	page      domain.Page[domain.Order]
	tracking  []domain.OrderTracking
	stats     domain.OrderStats
	err       error
	lastQuery services.OrderListQuery
	cancelled *services.CancelOrderCommand
}

func (s *stubOrderService) Create(_ context.Context, _ services.CreateOrderCommand) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Get(_ context.Context, _ string, _ services.Actor) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetByNumber(_ context.Context, _ string) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, query services.OrderListQuery) (domain.Page[domain.Order], error) {
	s.lastQuery = query
	return s.page, s.err
}

func (s *stubOrderService) ListByCustomer(_ context.Context, _ services.Actor, _, _ int64) (domain.Page[domain.Order], error) {
	return s.page, s.err
}

func (s *stubOrderService) Update(_ context.Context, _ services.UpdateOrderCommand) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Delete(_ context.Context, _ string) error {
	return s.err
}

func (s *stubOrderService) TransitionStatus(_ context.Context, _ string, _ domain.OrderStatus) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) TransitionPayment(_ context.Context, _ services.PaymentUpdateCommand) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Cancel(_ context.Context, cmd services.CancelOrderCommand) (domain.Order, error) {
	s.cancelled = &cmd
	return s.order, s.err
}

func (s *stubOrderService) TrackByEmail(_ context.Context, _ string) (iter.Seq2[domain.OrderTracking, error], error) {
	if s.err != nil {
		return nil, s.err
	}
	return func(yield func(domain.OrderTracking, error) bool) {
		for _, tracking := range s.tracking {
			if !yield(tracking, nil) {
				return
			}
		}
	}, nil
}

func (s *stubOrderService) Stats(_ context.Context) (domain.OrderStats, error) {
	return s.stats, s.err
}

func sampleOrder() domain.Order {
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:          "ord_01jx",
		OrderNumber: "ORD-2026-0001",
		Status:      domain.OrderStatusPending,
		Customer: domain.OrderCustomer{
			Name:   "Ada Lovelace",
			Email:  testUserEmail,
			UserID: testUserUID,
		},
		Items: []domain.OrderItem{{Name: "Starter", Quantity: 1, UnitPrice: 499, TotalPrice: 499}},
		Pricing: domain.Pricing{
			Subtotal:   499,
			GrandTotal: 499,
			Currency:   domain.DefaultCurrency,
		},
		Payment:   domain.OrderPayment{Status: domain.PaymentStatusPending},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustStatus(t *testing.T, got, want int, body string) {
	t.Helper()
	if got != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, got, body)
	}
}
