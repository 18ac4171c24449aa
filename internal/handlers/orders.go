package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/platform/pagination"
	"github.com/brightfold/api/internal/services"
)

// OrderHandlers exposes the order lifecycle endpoints.
type OrderHandlers struct {
	authn  *auth.Authenticator
	orders services.OrderService
}

// NewOrderHandlers constructs a new OrderHandlers instance.
func NewOrderHandlers(authn *auth.Authenticator, orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{authn: authn, orders: orders}
}

// Routes registers the /orders endpoints.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}

	r.Get("/track/{email}", h.trackByEmail)

	r.Group(func(g chi.Router) {
		if h.authn != nil {
			g.Use(h.authn.RequireAuth())
		}
		g.Post("/", h.createOrder)
		g.Get("/my-orders", h.listMyOrders)
		g.Get("/{orderID}/status", h.getOrderStatus)
		g.Patch("/{orderID}/cancel", h.cancelOrder)
	})

	r.Group(func(g chi.Router) {
		if h.authn != nil {
			g.Use(h.authn.RequireAdmin())
		}
		g.Get("/", h.listOrders)
		g.Get("/stats", h.orderStats)
		g.Get("/number/{orderNumber}", h.getOrderByNumber)
		g.Patch("/{orderID}/status", h.updateOrderStatus)
		g.Patch("/{orderID}/payment", h.updateOrderPayment)
		g.Put("/{orderID}", h.updateOrder)
		g.Delete("/{orderID}", h.deleteOrder)
	})
}

type orderCreateRequest struct {
	Customer domain.OrderCustomer `json:"customer"`
	Items    []domain.OrderItem   `json:"items"`

	// Pricing union: an explicit pricing breakdown, an inline plan object,
	// or flat planName/planPrice fields.
	Pricing   *domain.Pricing  `json:"pricing"`
	Plan      *domain.PlanSpec `json:"plan"`
	PlanName  string           `json:"planName"`
	PlanPrice string           `json:"planPrice"`

	Notes         string `json:"notes"`
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
}

func actorFromContext(r *http.Request) services.Actor {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return services.Actor{}
	}
	return services.Actor{
		UID:   identity.UID,
		Email: identity.Email,
		Admin: identity.IsAdmin(),
	}
}

func (h *OrderHandlers) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor := actorFromContext(r)
	customer := req.Customer
	if customer.UserID == "" {
		customer.UserID = actor.UID
	}
	if customer.Email == "" {
		customer.Email = actor.Email
	}

	cmd := services.CreateOrderCommand{
		Customer: customer,
		Items:    req.Items,
		Pricing: domain.PricingSpec{
			Explicit:  req.Pricing,
			Plan:      req.Plan,
			FlatName:  req.PlanName,
			FlatPrice: req.PlanPrice,
		},
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	}

	order, err := h.orders.Create(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusCreated, order, "order created")
}

func (h *OrderHandlers) trackByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	seq, err := h.orders.TrackByEmail(ctx, email)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	summaries := make([]domain.OrderTracking, 0, 8)
	for tracking, iterErr := range seq {
		if iterErr != nil {
			writeServiceError(ctx, w, iterErr)
			return
		}
		summaries = append(summaries, tracking)
	}
	httpx.WriteData(w, http.StatusOK, summaries)
}

func (h *OrderHandlers) listMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.ParseParams(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.orders.ListByCustomer(ctx, actorFromContext(r), params.Skip, params.Limit)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WritePage(w, http.StatusOK, page.Items, pageMeta(page.Skip, page.Limit, page.TotalCount, len(page.Items)))
}

func (h *OrderHandlers) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.Get(ctx, chi.URLParam(r, "orderID"), actorFromContext(r))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, order)
}

type orderCancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandlers) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderCancelRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	order, err := h.orders.Cancel(ctx, services.CancelOrderCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Actor:   actorFromContext(r),
		Reason:  req.Reason,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, order, "order cancelled")
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.ParseParams(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	query := services.OrderListQuery{
		Status:         strings.TrimSpace(r.URL.Query().Get("status")),
		PaymentStatus:  strings.TrimSpace(r.URL.Query().Get("paymentStatus")),
		CustomerEmail:  strings.TrimSpace(r.URL.Query().Get("email")),
		CustomerUserID: strings.TrimSpace(r.URL.Query().Get("userId")),
		Search:         strings.TrimSpace(r.URL.Query().Get("search")),
		Skip:           params.Skip,
		Limit:          params.Limit,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("cancelled")); raw != "" {
		cancelled := raw == "true"
		query.Cancelled = &cancelled
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		ts, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "from must be an RFC3339 timestamp", http.StatusBadRequest))
			return
		}
		query.CreatedFrom = ts
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		ts, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "to must be an RFC3339 timestamp", http.StatusBadRequest))
			return
		}
		query.CreatedTo = ts
	}

	page, err := h.orders.List(ctx, query)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WritePage(w, http.StatusOK, page.Items, pageMeta(page.Skip, page.Limit, page.TotalCount, len(page.Items)))
}

func (h *OrderHandlers) orderStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, stats)
}

func (h *OrderHandlers) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.GetByNumber(ctx, chi.URLParam(r, "orderNumber"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, order)
}

type orderStatusRequest struct {
	Status string `json:"orderStatus"`
}

func (h *OrderHandlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "unknown order status", http.StatusBadRequest))
		return
	}

	order, err := h.orders.TransitionStatus(ctx, chi.URLParam(r, "orderID"), target)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, order, "order status updated")
}

type orderPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
	TransactionID string `json:"transactionId"`
	Method        string `json:"paymentMethod"`
}

func (h *OrderHandlers) updateOrderPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, ok := domain.ParsePaymentStatus(req.PaymentStatus)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "unknown payment status", http.StatusBadRequest))
		return
	}

	order, err := h.orders.TransitionPayment(ctx, services.PaymentUpdateCommand{
		OrderID:       chi.URLParam(r, "orderID"),
		Status:        status,
		TransactionID: req.TransactionID,
		Method:        req.Method,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, order, "payment updated")
}

type orderUpdateRequest struct {
	Customer *domain.OrderCustomer `json:"customer"`
	Items    *[]domain.OrderItem   `json:"items"`
	Pricing  *domain.Pricing       `json:"pricing"`
	Notes    *string               `json:"notes"`
}

func (h *OrderHandlers) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orders.Update(ctx, services.UpdateOrderCommand{
		OrderID:  chi.URLParam(r, "orderID"),
		Customer: req.Customer,
		Items:    req.Items,
		Pricing:  req.Pricing,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, order, "order updated")
}

func (h *OrderHandlers) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.orders.Delete(ctx, chi.URLParam(r, "orderID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "order deleted")
}
