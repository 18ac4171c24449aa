package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

const (
	orderEventCreated        = "order.created"
	orderEventStatusChanged  = "order.status.changed"
	orderEventPaymentChanged = "order.payment.changed"
	orderEventCancelled      = "order.cancelled"

	orderIDPrefix       = "ord_"
	orderNumberCounter  = "orders"
	defaultCancelReason = "No reason provided"
)

var (
	// ErrOrderInvalidInput signals the caller provided invalid data.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderForbidden indicates the caller may not access the order.
	ErrOrderForbidden = errors.New("order: forbidden")
	// ErrOrderInvalidState indicates an illegal lifecycle mutation was attempted.
	ErrOrderInvalidState = errors.New("order: invalid state transition")
	// ErrOrderConflict indicates duplicate unique fields, e.g. a reused payment transaction id.
	ErrOrderConflict = errors.New("order: conflict")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// strictOrderTransitions is the hardened adjacency table, enabled via the
// Server.StrictTransitions flag. Without it any non-terminal status may move
// to any other status.
var strictOrderTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:    {domain.OrderStatusConfirmed, domain.OrderStatusProcessing, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed:  {domain.OrderStatusProcessing, domain.OrderStatusCompleted, domain.OrderStatusCancelled},
	domain.OrderStatusProcessing: {domain.OrderStatusCompleted, domain.OrderStatusCancelled},
}

// OrderServiceDeps bundles collaborators required to construct the order service.
type OrderServiceDeps struct {
	Orders   repositories.OrderRepository
	Counters repositories.CounterRepository
	Plans    repositories.PricingPlanRepository

	// StrictTransitions enables the adjacency table on status changes.
	StrictTransitions bool

	Clock       func() time.Time
	IDGenerator func() string
	Events      OrderEventPublisher
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	orders   repositories.OrderRepository
	counters repositories.CounterRepository
	plans    repositories.PricingPlanRepository

	strict bool

	clock  func() time.Time
	newID  func() string
	events OrderEventPublisher
	logger func(ctx context.Context, event string, fields map[string]any)
}

// NewOrderService wires an OrderService implementation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service requires order repository")
	}
	if deps.Counters == nil {
		return nil, errors.New("order service requires counter repository")
	}

	svc := &orderService{
		orders:   deps.Orders,
		counters: deps.Counters,
		plans:    deps.Plans,
		strict:   deps.StrictTransitions,
		clock:    deps.Clock,
		newID:    deps.IDGenerator,
		events:   deps.Events,
		logger:   deps.Logger,
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = func() string {
			return orderIDPrefix + strings.ToLower(ulid.Make().String())
		}
	}
	return svc, nil
}

// Create validates the request, resolves pricing, allocates the order number
// and persists the new order in pending state.
func (s *orderService) Create(ctx context.Context, cmd CreateOrderCommand) (domain.Order, error) {
	customer := normalizeCustomer(cmd.Customer)
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return domain.Order{}, fmt.Errorf("%w: customer name, email and phone are required", ErrOrderInvalidInput)
	}

	pricing, planName, err := s.resolvePricing(ctx, cmd.Pricing)
	if err != nil {
		return domain.Order{}, err
	}

	items := cmd.Items
	if len(items) == 0 {
		name := planName
		if name == "" {
			name = "Custom order"
		}
		items = []domain.OrderItem{{
			Name:       name,
			Quantity:   1,
			UnitPrice:  pricing.GrandTotal,
			TotalPrice: pricing.GrandTotal,
		}}
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 || item.UnitPrice <= 0 || item.TotalPrice <= 0 {
			return domain.Order{}, fmt.Errorf("%w: item %d must have name, quantity, unit price and total price", ErrOrderInvalidInput, i)
		}
	}

	if !emailPattern.MatchString(customer.Email) {
		return domain.Order{}, fmt.Errorf("%w: customer email %q is not valid", ErrOrderInvalidInput, customer.Email)
	}

	if txID := strings.TrimSpace(cmd.TransactionID); txID != "" {
		exists, err := s.orders.TransactionExists(ctx, txID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("check transaction id: %w", err)
		}
		if exists {
			return domain.Order{}, fmt.Errorf("%w: transaction %q already recorded", ErrOrderConflict, txID)
		}
	}

	now := s.clock()
	orderNumber, err := s.allocateOrderNumber(ctx, now)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:          s.newID(),
		OrderNumber: orderNumber,
		Status:      domain.OrderStatusPending,
		Customer:    customer,
		Items:       items,
		Pricing:     pricing,
		Payment: domain.OrderPayment{
			Status:        domain.PaymentStatusPending,
			Method:        strings.TrimSpace(cmd.PaymentMethod),
			TransactionID: strings.TrimSpace(cmd.TransactionID),
		},
		Cancellation: domain.OrderCancellation{IsCancelled: false},
		Notes:        strings.TrimSpace(cmd.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		if repositories.IsConflict(err) {
			return domain.Order{}, fmt.Errorf("%w: order number or transaction already exists", ErrOrderConflict)
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	s.publish(ctx, orderEventCreated, order)
	return order, nil
}

// allocateOrderNumber draws the next per-year sequence from the atomic
// counter, so concurrent creations never share a number.
func (s *orderService) allocateOrderNumber(ctx context.Context, now time.Time) (string, error) {
	year := now.UTC().Year()
	counterID := fmt.Sprintf("%s-%d", orderNumberCounter, year)
	seq, err := s.counters.Next(ctx, counterID, repositories.CounterConfig{Step: 1})
	if err != nil {
		return "", fmt.Errorf("allocate order number: %w", err)
	}
	return fmt.Sprintf("ORD-%d-%04d", year, seq), nil
}

func (s *orderService) resolvePricing(ctx context.Context, spec domain.PricingSpec) (domain.Pricing, string, error) {
	// A plan referenced by name only is looked up in the catalogue first.
	if spec.Explicit == nil && spec.Plan == nil && spec.FlatPrice == "" && spec.FlatName != "" && s.plans != nil {
		plan, err := s.plans.FindByName(ctx, spec.FlatName)
		if err == nil {
			spec.Plan = &domain.PlanSpec{Name: plan.Name, Price: strconv.FormatFloat(plan.Price, 'f', -1, 64)}
		} else if !repositories.IsNotFound(err) {
			return domain.Pricing{}, "", fmt.Errorf("resolve plan: %w", err)
		}
	}

	pricing, planName, err := domain.ResolvePricing(spec)
	if err != nil {
		return domain.Pricing{}, "", fmt.Errorf("%w: %v", ErrOrderInvalidInput, err)
	}
	return pricing, planName, nil
}

// Get loads one order, enforcing the ownership guard for non-admin callers.
func (s *orderService) Get(ctx context.Context, orderID string, actor Actor) (domain.Order, error) {
	order, err := s.findByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !actor.Admin && !ownsOrder(order, actor) {
		return domain.Order{}, fmt.Errorf("%w: order %s belongs to another customer", ErrOrderForbidden, orderID)
	}
	return order, nil
}

// GetByNumber loads one order by its human-facing number.
func (s *orderService) GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return domain.Order{}, fmt.Errorf("%w: order number is required", ErrOrderInvalidInput)
	}
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderNumber)
		}
		return domain.Order{}, fmt.Errorf("find order by number: %w", err)
	}
	return order, nil
}

// List returns a filtered page of orders for the admin console.
func (s *orderService) List(ctx context.Context, query OrderListQuery) (domain.Page[domain.Order], error) {
	filter := repositories.OrderListFilter{
		Cancelled:      query.Cancelled,
		CustomerEmail:  query.CustomerEmail,
		CustomerUserID: query.CustomerUserID,
		Search:         query.Search,
		CreatedFrom:    query.CreatedFrom,
		CreatedTo:      query.CreatedTo,
		Skip:           query.Skip,
		Limit:          query.Limit,
	}
	if raw := strings.TrimSpace(query.Status); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return domain.Page[domain.Order]{}, fmt.Errorf("%w: unknown order status %q", ErrOrderInvalidInput, raw)
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(query.PaymentStatus); raw != "" {
		status, ok := domain.ParsePaymentStatus(raw)
		if !ok {
			return domain.Page[domain.Order]{}, fmt.Errorf("%w: unknown payment status %q", ErrOrderInvalidInput, raw)
		}
		filter.PaymentStatus = &status
	}

	page, err := s.orders.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return page, nil
}

// ListByCustomer returns the caller's own orders, matched by customer email.
func (s *orderService) ListByCustomer(ctx context.Context, actor Actor, skip, limit int64) (domain.Page[domain.Order], error) {
	email := strings.ToLower(strings.TrimSpace(actor.Email))
	if email == "" {
		return domain.Page[domain.Order]{}, fmt.Errorf("%w: caller has no email on record", ErrOrderInvalidInput)
	}
	page, err := s.orders.List(ctx, repositories.OrderListFilter{
		CustomerEmail: email,
		Skip:          skip,
		Limit:         limit,
	})
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("list customer orders: %w", err)
	}
	return page, nil
}

// Update applies a partial mutation. Order number, creation time, status and
// cancellation state are not reachable through this path.
func (s *orderService) Update(ctx context.Context, cmd UpdateOrderCommand) (domain.Order, error) {
	order, err := s.findByID(ctx, cmd.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.Status.IsTerminal() {
		return domain.Order{}, fmt.Errorf("%w: order %s is %s", ErrOrderInvalidState, order.ID, order.Status)
	}

	if cmd.Customer != nil {
		customer := normalizeCustomer(*cmd.Customer)
		if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
			return domain.Order{}, fmt.Errorf("%w: customer name, email and phone are required", ErrOrderInvalidInput)
		}
		if !emailPattern.MatchString(customer.Email) {
			return domain.Order{}, fmt.Errorf("%w: customer email %q is not valid", ErrOrderInvalidInput, customer.Email)
		}
		order.Customer = customer
	}
	if cmd.Items != nil {
		if len(*cmd.Items) == 0 {
			return domain.Order{}, fmt.Errorf("%w: order must keep at least one item", ErrOrderInvalidInput)
		}
		order.Items = *cmd.Items
	}
	if cmd.Pricing != nil {
		if cmd.Pricing.GrandTotal <= 0 {
			return domain.Order{}, fmt.Errorf("%w: grand total must be positive", ErrOrderInvalidInput)
		}
		pricing := *cmd.Pricing
		if pricing.Currency == "" {
			pricing.Currency = order.Pricing.Currency
		}
		order.Pricing = pricing
	}
	if cmd.Notes != nil {
		order.Notes = strings.TrimSpace(*cmd.Notes)
	}

	order.UpdatedAt = s.clock()
	if err := s.orders.Update(ctx, order); err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, order.ID)
		}
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Delete removes an order permanently.
func (s *orderService) Delete(ctx context.Context, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// TransitionStatus moves the order to the target status. Terminal orders only
// accept a no-op; strict mode additionally enforces the adjacency table. A
// cancelled target is delegated to the cancel path so the cancellation
// sub-record is always populated.
func (s *orderService) TransitionStatus(ctx context.Context, orderID string, target domain.OrderStatus) (domain.Order, error) {
	order, err := s.findByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if target == order.Status {
		return order, nil
	}
	if order.Status.IsTerminal() {
		return domain.Order{}, fmt.Errorf("%w: order is %s", ErrOrderInvalidState, order.Status)
	}
	if target == domain.OrderStatusCancelled {
		return s.Cancel(ctx, CancelOrderCommand{OrderID: orderID, Actor: Actor{Admin: true}})
	}
	if s.strict && !transitionAllowed(order.Status, target) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrOrderInvalidState, order.Status, target)
	}

	order.Status = target
	order.UpdatedAt = s.clock()
	if err := s.orders.Update(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	s.publish(ctx, orderEventStatusChanged, order)
	return order, nil
}

func transitionAllowed(from, to domain.OrderStatus) bool {
	for _, allowed := range strictOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionPayment mutates the payment sub-record. Setting paid stamps
// paidAt; a supplied transaction id must be globally unique.
func (s *orderService) TransitionPayment(ctx context.Context, cmd PaymentUpdateCommand) (domain.Order, error) {
	order, err := s.findByID(ctx, cmd.OrderID)
	if err != nil {
		return domain.Order{}, err
	}

	if txID := strings.TrimSpace(cmd.TransactionID); txID != "" && txID != order.Payment.TransactionID {
		exists, err := s.orders.TransactionExists(ctx, txID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("check transaction id: %w", err)
		}
		if exists {
			return domain.Order{}, fmt.Errorf("%w: transaction %q already recorded", ErrOrderConflict, txID)
		}
		order.Payment.TransactionID = txID
	}
	if method := strings.TrimSpace(cmd.Method); method != "" {
		order.Payment.Method = method
	}

	now := s.clock()
	order.Payment.Status = cmd.Status
	if cmd.Status == domain.PaymentStatusPaid {
		order.Payment.PaidAt = &now
	}
	order.UpdatedAt = now

	if err := s.orders.Update(ctx, order); err != nil {
		if repositories.IsConflict(err) {
			return domain.Order{}, fmt.Errorf("%w: transaction already recorded", ErrOrderConflict)
		}
		return domain.Order{}, fmt.Errorf("update order payment: %w", err)
	}

	s.publish(ctx, orderEventPaymentChanged, order)
	return order, nil
}

// Cancel marks the order cancelled on behalf of the actor. Cancellation is
// one-way; completed orders cannot be cancelled.
func (s *orderService) Cancel(ctx context.Context, cmd CancelOrderCommand) (domain.Order, error) {
	order, err := s.findByID(ctx, cmd.OrderID)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Cancellation.IsCancelled {
		return domain.Order{}, fmt.Errorf("%w: order %s is already cancelled", ErrOrderInvalidState, order.ID)
	}
	if order.Status == domain.OrderStatusCompleted {
		return domain.Order{}, fmt.Errorf("%w: completed orders cannot be cancelled", ErrOrderInvalidState)
	}
	if !cmd.Actor.Admin {
		if !ownsOrder(order, cmd.Actor) {
			return domain.Order{}, fmt.Errorf("%w: order %s belongs to another customer", ErrOrderForbidden, order.ID)
		}
		if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusConfirmed {
			return domain.Order{}, fmt.Errorf("%w: orders in %s can only be cancelled by an administrator", ErrOrderInvalidState, order.Status)
		}
	}

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	now := s.clock()
	order.Status = domain.OrderStatusCancelled
	order.Cancellation = domain.OrderCancellation{
		IsCancelled: true,
		CancelledBy: resolveCancelActor(order, cmd.Actor),
		Reason:      reason,
		CancelledAt: &now,
	}
	order.UpdatedAt = now

	if err := s.orders.Update(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("cancel order: %w", err)
	}

	s.publish(ctx, orderEventCancelled, order)
	return order, nil
}

// TrackByEmail returns a lazy sequence of tracking summaries for the email,
// newest first. The sequence is single-use and streams off the cursor.
func (s *orderService) TrackByEmail(ctx context.Context, email string) (iter.Seq2[domain.OrderTracking, error], error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email %q is not valid", ErrOrderInvalidInput, email)
	}

	stream := s.orders.StreamByEmail(ctx, email)
	return func(yield func(domain.OrderTracking, error) bool) {
		for order, err := range stream {
			if err != nil {
				yield(domain.OrderTracking{}, fmt.Errorf("track orders: %w", err))
				return
			}
			if !yield(trackingView(order), nil) {
				return
			}
		}
	}, nil
}

// Stats summarises the orders collection for the admin console.
func (s *orderService) Stats(ctx context.Context) (domain.OrderStats, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("order stats: %w", err)
	}
	return stats, nil
}

func (s *orderService) findByID(ctx context.Context, orderID string) (domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return domain.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// publish emits an order event when a publisher is configured. Failures are
// logged and never surfaced to the caller.
func (s *orderService) publish(ctx context.Context, event string, order domain.Order) {
	if s.events == nil {
		return
	}
	message := OrderEventMessage{
		Event:         event,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		OrderStatus:   string(order.Status),
		PaymentStatus: string(order.Payment.Status),
		OccurredAt:    s.clock(),
	}
	if _, err := s.events.PublishOrderEvent(ctx, message); err != nil && s.logger != nil {
		s.logger(ctx, "order.event.publish_failed", map[string]any{
			"event":   event,
			"orderId": order.ID,
			"error":   err.Error(),
		})
	}
}

func normalizeCustomer(customer domain.OrderCustomer) domain.OrderCustomer {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.Address = strings.TrimSpace(customer.Address)
	customer.UserID = strings.TrimSpace(customer.UserID)
	return customer
}

func ownsOrder(order domain.Order, actor Actor) bool {
	if actor.UID != "" && order.Customer.UserID == actor.UID {
		return true
	}
	email := strings.ToLower(strings.TrimSpace(actor.Email))
	return email != "" && order.Customer.Email == email
}

func resolveCancelActor(order domain.Order, actor Actor) domain.CancelActor {
	switch {
	case actor.Admin:
		return domain.CancelActorAdmin
	case ownsOrder(order, actor):
		return domain.CancelActorUser
	default:
		return domain.CancelActorSystem
	}
}

func trackingView(order domain.Order) domain.OrderTracking {
	return domain.OrderTracking{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.Payment.Status,
		PaymentMethod: order.Payment.Method,
		Amount:        order.Pricing.GrandTotal,
		Currency:      order.Pricing.Currency,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
