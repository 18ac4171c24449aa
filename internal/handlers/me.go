package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/platform/pagination"
	"github.com/brightfold/api/internal/services"
)

// MeHandlers exposes the caller-scoped profile endpoints.
type MeHandlers struct {
	authn  *auth.Authenticator
	users  services.UserService
	orders services.OrderService
}

// NewMeHandlers constructs a new MeHandlers instance.
func NewMeHandlers(authn *auth.Authenticator, users services.UserService, orders services.OrderService) *MeHandlers {
	return &MeHandlers{authn: authn, users: users, orders: orders}
}

// Routes registers the /me endpoints.
func (h *MeHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.getProfile)
	r.Put("/", h.updateProfile)
	r.Get("/orders", h.listOrders)
}

func (h *MeHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.users.GetProfile(ctx, actorFromContext(r).UID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	PhotoURL *string `json:"photoUrl"`
	Locale   *string `json:"locale"`
}

func (h *MeHandlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req profileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(ctx, actorFromContext(r).UID, services.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		PhotoURL: req.PhotoURL,
		Locale:   req.Locale,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, user, "profile updated")
}

func (h *MeHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
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
