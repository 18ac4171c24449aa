package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"
	"time"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

type stubOrderRepo struct {
	orders map[string]domain.Order

	insertErr error
	updateErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]domain.Order)}
}

func (s *stubOrderRepo) Insert(_ context.Context, order domain.Order) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) Update(_ context.Context, order domain.Order) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.orders[order.ID]; !ok {
		return repositories.NotFoundError("orders.update", order.ID)
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) Delete(_ context.Context, orderID string) error {
	if _, ok := s.orders[orderID]; !ok {
		return repositories.NotFoundError("orders.delete", orderID)
	}
	delete(s.orders, orderID)
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, repositories.NotFoundError("orders.get", orderID)
	}
	return order, nil
}

func (s *stubOrderRepo) FindByNumber(_ context.Context, orderNumber string) (domain.Order, error) {
	for _, order := range s.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return domain.Order{}, repositories.NotFoundError("orders.findByNumber", orderNumber)
}

func (s *stubOrderRepo) List(_ context.Context, filter repositories.OrderListFilter) (domain.Page[domain.Order], error) {
	var items []domain.Order
	for _, order := range s.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.CustomerEmail != "" && order.Customer.Email != filter.CustomerEmail {
			continue
		}
		items = append(items, order)
	}
	return domain.Page[domain.Order]{
		Items:      items,
		TotalCount: int64(len(items)),
		Skip:       filter.Skip,
		Limit:      filter.Limit,
	}, nil
}

func (s *stubOrderRepo) StreamByEmail(_ context.Context, email string) iter.Seq2[domain.Order, error] {
	return func(yield func(domain.Order, error) bool) {
		for _, order := range s.orders {
			if order.Customer.Email != email {
				continue
			}
			if !yield(order, nil) {
				return
			}
		}
	}
}

func (s *stubOrderRepo) Stats(_ context.Context) (domain.OrderStats, error) {
	stats := domain.OrderStats{ByStatus: make(map[domain.OrderStatus]int64)}
	for _, order := range s.orders {
		stats.Total++
		stats.ByStatus[order.Status]++
		if order.Payment.Status == domain.PaymentStatusPaid {
			stats.PaidRevenue += order.Pricing.GrandTotal
		}
	}
	return stats, nil
}

func (s *stubOrderRepo) TransactionExists(_ context.Context, transactionID string) (bool, error) {
	for _, order := range s.orders {
		if order.Payment.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

type stubCounterRepo struct {
	values map[string]int64
}

func (s *stubCounterRepo) Next(_ context.Context, counterID string, _ repositories.CounterConfig) (int64, error) {
	if s.values == nil {
		s.values = make(map[string]int64)
	}
	s.values[counterID]++
	return s.values[counterID], nil
}

type capturedEvent struct {
	message OrderEventMessage
}

type stubEventPublisher struct {
	events []capturedEvent
	err    error
}

func (s *stubEventPublisher) PublishOrderEvent(_ context.Context, message OrderEventMessage) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.events = append(s.events, capturedEvent{message: message})
	return "msg-1", nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestOrderService(t *testing.T, repo *stubOrderRepo, opts ...func(*OrderServiceDeps)) OrderService {
	t.Helper()
	deps := OrderServiceDeps{
		Orders:   repo,
		Counters: &stubCounterRepo{},
		Clock:    fixedClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	svc, err := NewOrderService(deps)
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}
	return svc
}

func validCreateCommand() CreateOrderCommand {
	return CreateOrderCommand{
		Customer: domain.OrderCustomer{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			Phone: "+44 20 7946 0000",
		},
		Pricing: domain.PricingSpec{
			Plan: &domain.PlanSpec{Name: "Starter", Price: "499"},
		},
	}
}

func TestCreateOrderAllocatesYearSequence(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	first, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.OrderNumber != "ORD-2026-0001" {
		t.Errorf("first order number = %q, want ORD-2026-0001", first.OrderNumber)
	}
	if second.OrderNumber != "ORD-2026-0002" {
		t.Errorf("second order number = %q, want ORD-2026-0002", second.OrderNumber)
	}
	if first.Status != domain.OrderStatusPending {
		t.Errorf("status = %q, want pending", first.Status)
	}
	if first.Cancellation.IsCancelled {
		t.Error("new order must not be cancelled")
	}
	if !strings.HasPrefix(first.ID, "ord_") {
		t.Errorf("order id %q missing prefix", first.ID)
	}
}

func TestCreateOrderSynthesizesPlanItem(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(order.Items) != 1 {
		t.Fatalf("expected synthesized item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.Name != "Starter" || item.Quantity != 1 || item.TotalPrice != 499 {
		t.Errorf("unexpected item %+v", item)
	}
	if order.Pricing.GrandTotal != 499 || order.Pricing.Currency != domain.DefaultCurrency {
		t.Errorf("unexpected pricing %+v", order.Pricing)
	}
}

func TestCreateOrderLooksUpPlanByName(t *testing.T) {
	repo := newStubOrderRepo()
	plans := newStubPlanRepo(domain.PricingPlan{ID: "pln_1", Name: "Growth", Price: 49.5, Active: true})
	svc := newTestOrderService(t, repo, func(deps *OrderServiceDeps) {
		deps.Plans = plans
	})

	cmd := validCreateCommand()
	cmd.Pricing = domain.PricingSpec{FlatName: "growth"}

	order, err := svc.Create(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.Pricing.GrandTotal != 49.5 {
		t.Errorf("grand total = %v, want 49.5", order.Pricing.GrandTotal)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Growth" {
		t.Errorf("unexpected items %+v", order.Items)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	cases := map[string]func(*CreateOrderCommand){
		"missing phone":     func(c *CreateOrderCommand) { c.Customer.Phone = "" },
		"missing name":      func(c *CreateOrderCommand) { c.Customer.Name = "  " },
		"bad email":         func(c *CreateOrderCommand) { c.Customer.Email = "not-an-email" },
		"no pricing":        func(c *CreateOrderCommand) { c.Pricing = domain.PricingSpec{} },
		"zero plan price":   func(c *CreateOrderCommand) { c.Pricing.Plan.Price = "0" },
		"zero item values":  func(c *CreateOrderCommand) { c.Items = []domain.OrderItem{{Name: "x"}} },
		"unnamed line item": func(c *CreateOrderCommand) { c.Items = []domain.OrderItem{{Quantity: 1, UnitPrice: 5, TotalPrice: 5}} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := validCreateCommand()
			mutate(&cmd)
			if _, err := svc.Create(context.Background(), cmd); !errors.Is(err, ErrOrderInvalidInput) {
				t.Errorf("expected ErrOrderInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateOrderDuplicateTransaction(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	cmd := validCreateCommand()
	cmd.TransactionID = "txn-123"
	if _, err := svc.Create(context.Background(), cmd); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Create(context.Background(), cmd); !errors.Is(err, ErrOrderConflict) {
		t.Errorf("expected ErrOrderConflict, got %v", err)
	}
}

func TestCreateOrderPublishesEvent(t *testing.T) {
	repo := newStubOrderRepo()
	publisher := &stubEventPublisher{}
	svc := newTestOrderService(t, repo, func(d *OrderServiceDeps) { d.Events = publisher })

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.events))
	}
	event := publisher.events[0].message
	if event.Event != "order.created" || event.OrderID != order.ID {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestCreateOrderPublishFailureIsSwallowed(t *testing.T) {
	repo := newStubOrderRepo()
	publisher := &stubEventPublisher{err: errors.New("broker down")}
	var logged []string
	svc := newTestOrderService(t, repo, func(d *OrderServiceDeps) {
		d.Events = publisher
		d.Logger = func(_ context.Context, event string, _ map[string]any) {
			logged = append(logged, event)
		}
	})

	if _, err := svc.Create(context.Background(), validCreateCommand()); err != nil {
		t.Fatalf("Create should not surface publish failures: %v", err)
	}
	if len(logged) != 1 || logged[0] != "order.event.publish_failed" {
		t.Errorf("expected publish failure to be logged, got %v", logged)
	}
}

func TestTransitionStatusLooseByDefault(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Backward move is legal without strict transitions.
	if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	updated, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusPending)
	if err != nil {
		t.Fatalf("backward transition should be allowed: %v", err)
	}
	if updated.Status != domain.OrderStatusPending {
		t.Errorf("status = %q, want pending", updated.Status)
	}
}

func TestTransitionStatusStrictTable(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo, func(d *OrderServiceDeps) { d.StrictTransitions = true })

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusCompleted); !errors.Is(err, ErrOrderInvalidState) {
		t.Errorf("pending -> completed should be rejected in strict mode, got %v", err)
	}
	if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusConfirmed); err != nil {
		t.Errorf("pending -> confirmed should be allowed: %v", err)
	}
}

func TestTransitionStatusCancelledTargetDelegatesToCancel(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cancelled, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("TransitionStatus to cancelled: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if !cancelled.Cancellation.IsCancelled || cancelled.Cancellation.CancelledAt == nil {
		t.Errorf("cancellation record not populated: %+v", cancelled.Cancellation)
	}
	if cancelled.Cancellation.CancelledBy != domain.CancelActorAdmin {
		t.Errorf("cancelled by %q, want admin", cancelled.Cancellation.CancelledBy)
	}
	if cancelled.Cancellation.Reason == "" {
		t.Error("cancellation reason must default")
	}
}

func TestTransitionStatusTerminalGuard(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), CancelOrderCommand{
		OrderID: order.ID,
		Actor:   Actor{Admin: true},
	}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusProcessing); !errors.Is(err, ErrOrderInvalidState) {
		t.Errorf("cancelled order must reject transitions, got %v", err)
	}
	// No-op target stays legal.
	if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusCancelled); err != nil {
		t.Errorf("no-op transition on cancelled order should succeed: %v", err)
	}
}

func TestTransitionPaymentStampsPaidAt(t *testing.T) {
	repo := newStubOrderRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestOrderService(t, repo, func(d *OrderServiceDeps) { d.Clock = fixedClock(now) })

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.TransitionPayment(context.Background(), PaymentUpdateCommand{
		OrderID:       order.ID,
		Status:        domain.PaymentStatusPaid,
		TransactionID: "txn-987",
		Method:        "card",
	})
	if err != nil {
		t.Fatalf("TransitionPayment: %v", err)
	}

	if updated.Payment.Status != domain.PaymentStatusPaid {
		t.Errorf("payment status = %q", updated.Payment.Status)
	}
	if updated.Payment.PaidAt == nil || !updated.Payment.PaidAt.Equal(now) {
		t.Errorf("paidAt = %v, want %v", updated.Payment.PaidAt, now)
	}
	if updated.Payment.TransactionID != "txn-987" || updated.Payment.Method != "card" {
		t.Errorf("unexpected payment %+v", updated.Payment)
	}
}

func TestTransitionPaymentRejectsReusedTransaction(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	first, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.TransitionPayment(context.Background(), PaymentUpdateCommand{
		OrderID: first.ID, Status: domain.PaymentStatusPaid, TransactionID: "txn-1",
	}); err != nil {
		t.Fatalf("TransitionPayment: %v", err)
	}
	if _, err := svc.TransitionPayment(context.Background(), PaymentUpdateCommand{
		OrderID: second.ID, Status: domain.PaymentStatusPaid, TransactionID: "txn-1",
	}); !errors.Is(err, ErrOrderConflict) {
		t.Errorf("expected ErrOrderConflict, got %v", err)
	}
}

func TestCancelRules(t *testing.T) {
	owner := Actor{UID: "user-1", Email: "ada@example.com"}
	stranger := Actor{UID: "user-2", Email: "eve@example.com"}

	t.Run("owner cancels pending with default reason", func(t *testing.T) {
		repo := newStubOrderRepo()
		svc := newTestOrderService(t, repo)
		order, _ := svc.Create(context.Background(), validCreateCommand())

		cancelled, err := svc.Cancel(context.Background(), CancelOrderCommand{OrderID: order.ID, Actor: owner})
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if cancelled.Status != domain.OrderStatusCancelled || !cancelled.Cancellation.IsCancelled {
			t.Errorf("unexpected state %+v", cancelled)
		}
		if cancelled.Cancellation.Reason != "No reason provided" {
			t.Errorf("reason = %q", cancelled.Cancellation.Reason)
		}
		if cancelled.Cancellation.CancelledBy != domain.CancelActorUser {
			t.Errorf("cancelledBy = %q, want user", cancelled.Cancellation.CancelledBy)
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		repo := newStubOrderRepo()
		svc := newTestOrderService(t, repo)
		order, _ := svc.Create(context.Background(), validCreateCommand())

		if _, err := svc.Cancel(context.Background(), CancelOrderCommand{OrderID: order.ID, Actor: stranger}); !errors.Is(err, ErrOrderForbidden) {
			t.Errorf("expected ErrOrderForbidden, got %v", err)
		}
	})

	t.Run("owner cannot cancel processing order", func(t *testing.T) {
		repo := newStubOrderRepo()
		svc := newTestOrderService(t, repo)
		order, _ := svc.Create(context.Background(), validCreateCommand())
		if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusProcessing); err != nil {
			t.Fatalf("TransitionStatus: %v", err)
		}

		if _, err := svc.Cancel(context.Background(), CancelOrderCommand{OrderID: order.ID, Actor: owner}); !errors.Is(err, ErrOrderInvalidState) {
			t.Errorf("expected ErrOrderInvalidState, got %v", err)
		}
	})

	t.Run("admin cancels processing order", func(t *testing.T) {
		repo := newStubOrderRepo()
		svc := newTestOrderService(t, repo)
		order, _ := svc.Create(context.Background(), validCreateCommand())
		if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusProcessing); err != nil {
			t.Fatalf("TransitionStatus: %v", err)
		}

		cancelled, err := svc.Cancel(context.Background(), CancelOrderCommand{
			OrderID: order.ID,
			Actor:   Actor{UID: "admin-1", Admin: true},
			Reason:  "client request",
		})
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if cancelled.Cancellation.CancelledBy != domain.CancelActorAdmin {
			t.Errorf("cancelledBy = %q, want admin", cancelled.Cancellation.CancelledBy)
		}
		if cancelled.Cancellation.Reason != "client request" {
			t.Errorf("reason = %q", cancelled.Cancellation.Reason)
		}
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		repo := newStubOrderRepo()
		svc := newTestOrderService(t, repo)
		order, _ := svc.Create(context.Background(), validCreateCommand())
		if _, err := svc.TransitionStatus(context.Background(), order.ID, domain.OrderStatusCompleted); err != nil {
			t.Fatalf("TransitionStatus: %v", err)
		}

		if _, err := svc.Cancel(context.Background(), CancelOrderCommand{
			OrderID: order.ID,
			Actor:   Actor{Admin: true},
		}); !errors.Is(err, ErrOrderInvalidState) {
			t.Errorf("expected ErrOrderInvalidState, got %v", err)
		}
	})
}

func TestUpdateGuardsTerminalOrders(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)
	order, _ := svc.Create(context.Background(), validCreateCommand())
	if _, err := svc.Cancel(context.Background(), CancelOrderCommand{OrderID: order.ID, Actor: Actor{Admin: true}}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	notes := "late edit"
	if _, err := svc.Update(context.Background(), UpdateOrderCommand{OrderID: order.ID, Notes: &notes}); !errors.Is(err, ErrOrderInvalidState) {
		t.Errorf("expected ErrOrderInvalidState, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)
	order, _ := svc.Create(context.Background(), validCreateCommand())

	notes := "rush delivery"
	updated, err := svc.Update(context.Background(), UpdateOrderCommand{OrderID: order.ID, Notes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Notes != "rush delivery" {
		t.Errorf("notes = %q", updated.Notes)
	}
	if updated.OrderNumber != order.OrderNumber || updated.Status != order.Status {
		t.Error("protected fields must not change through update")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)
	order, _ := svc.Create(context.Background(), validCreateCommand())

	if _, err := svc.Get(context.Background(), order.ID, Actor{Email: "ada@example.com"}); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), order.ID, Actor{Email: "eve@example.com"}); !errors.Is(err, ErrOrderForbidden) {
		t.Errorf("expected ErrOrderForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), order.ID, Actor{Admin: true}); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
}

func TestTrackByEmail(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)
	if _, err := svc.Create(context.Background(), validCreateCommand()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	seq, err := svc.TrackByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("TrackByEmail: %v", err)
	}

	var summaries []domain.OrderTracking
	for summary, err := range seq {
		if err != nil {
			t.Fatalf("sequence error: %v", err)
		}
		summaries = append(summaries, summary)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Amount != 499 || summaries[0].OrderNumber == "" {
		t.Errorf("unexpected summary %+v", summaries[0])
	}

	if _, err := svc.TrackByEmail(context.Background(), "nonsense"); !errors.Is(err, ErrOrderInvalidInput) {
		t.Errorf("expected ErrOrderInvalidInput for bad email, got %v", err)
	}
}

func TestStats(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(t, repo)

	order, _ := svc.Create(context.Background(), validCreateCommand())
	if _, err := svc.TransitionPayment(context.Background(), PaymentUpdateCommand{
		OrderID: order.ID, Status: domain.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("TransitionPayment: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 1 || stats.PaidRevenue != 499 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	repo := newStubOrderRepo()
	clock := fixedClock(time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC))
	svc := newTestOrderService(t, repo, func(d *OrderServiceDeps) { d.Clock = clock })

	order, err := svc.Create(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := fmt.Sprintf("ORD-%d-%04d", 2027, 1)
	if order.OrderNumber != want {
		t.Errorf("order number = %q, want %q", order.OrderNumber, want)
	}
}
