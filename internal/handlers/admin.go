package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/platform/pagination"
	"github.com/brightfold/api/internal/repositories"
	"github.com/brightfold/api/internal/services"
)

// AdminHandlers exposes the admin CRUD surface for content, catalog,
// contacts and users, plus the dashboard snapshot.
type AdminHandlers struct {
	authn     *auth.Authenticator
	content   services.ContentService
	catalog   services.CatalogService
	contacts  services.ContactService
	users     services.UserService
	dashboard *DashboardHandlers
}

// NewAdminHandlers constructs a new AdminHandlers instance.
func NewAdminHandlers(
	authn *auth.Authenticator,
	content services.ContentService,
	catalog services.CatalogService,
	contacts services.ContactService,
	users services.UserService,
	dashboard *DashboardHandlers,
) *AdminHandlers {
	return &AdminHandlers{
		authn:     authn,
		content:   content,
		catalog:   catalog,
		contacts:  contacts,
		users:     users,
		dashboard: dashboard,
	}
}

// crudBinding adapts one entity's service methods to the shared CRUD routes.
type crudBinding[T any] struct {
	create func(ctx context.Context, entity T) (T, error)
	update func(ctx context.Context, entity T) (T, error)
	remove func(ctx context.Context, id string) error
	list   func(ctx context.Context, opts repositories.ListOptions) (domain.Page[T], error)
	setID  func(entity *T, id string)
}

func registerCRUD[T any](r chi.Router, path string, binding crudBinding[T]) {
	r.Route(path, func(g chi.Router) {
		g.Get("/", func(w http.ResponseWriter, req *http.Request) {
			params, err := pagination.ParseParams(req)
			if err != nil {
				httpx.WriteError(req.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
				return
			}
			page, err := binding.list(req.Context(), repositories.ListOptions{Skip: params.Skip, Limit: params.Limit})
			if err != nil {
				writeServiceError(req.Context(), w, err)
				return
			}
			writeListPage(w, page)
		})
		g.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var entity T
			if !decodeJSON(w, req, &entity) {
				return
			}
			created, err := binding.create(req.Context(), entity)
			if err != nil {
				writeServiceError(req.Context(), w, err)
				return
			}
			httpx.WriteData(w, http.StatusCreated, created)
		})
		g.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			var entity T
			if !decodeJSON(w, req, &entity) {
				return
			}
			binding.setID(&entity, chi.URLParam(req, "id"))
			updated, err := binding.update(req.Context(), entity)
			if err != nil {
				writeServiceError(req.Context(), w, err)
				return
			}
			httpx.WriteData(w, http.StatusOK, updated)
		})
		g.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			if err := binding.remove(req.Context(), chi.URLParam(req, "id")); err != nil {
				writeServiceError(req.Context(), w, err)
				return
			}
			httpx.WriteMessage(w, http.StatusOK, "deleted")
		})
	})
}

// Routes registers the /admin endpoints.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAdmin())
	}

	registerCRUD(r, "/banners", crudBinding[domain.Banner]{
		create: h.content.CreateBanner,
		update: h.content.UpdateBanner,
		remove: h.content.DeleteBanner,
		list:   h.content.ListBanners,
		setID:  func(b *domain.Banner, id string) { b.ID = id },
	})
	registerCRUD(r, "/testimonials", crudBinding[domain.Testimonial]{
		create: h.content.CreateTestimonial,
		update: h.content.UpdateTestimonial,
		remove: h.content.DeleteTestimonial,
		list:   h.content.ListTestimonials,
		setID:  func(t *domain.Testimonial, id string) { t.ID = id },
	})
	registerCRUD(r, "/faqs", crudBinding[domain.FAQ]{
		create: h.content.CreateFAQ,
		update: h.content.UpdateFAQ,
		remove: h.content.DeleteFAQ,
		list:   h.content.ListFAQs,
		setID:  func(f *domain.FAQ, id string) { f.ID = id },
	})
	registerCRUD(r, "/team", crudBinding[domain.TeamMember]{
		create: h.content.CreateTeamMember,
		update: h.content.UpdateTeamMember,
		remove: h.content.DeleteTeamMember,
		list:   h.content.ListTeamMembers,
		setID:  func(m *domain.TeamMember, id string) { m.ID = id },
	})
	registerCRUD(r, "/services", crudBinding[domain.ServiceOffering]{
		create: h.content.CreateServiceOffering,
		update: h.content.UpdateServiceOffering,
		remove: h.content.DeleteServiceOffering,
		list:   h.content.ListServiceOfferings,
		setID:  func(o *domain.ServiceOffering, id string) { o.ID = id },
	})
	registerCRUD(r, "/projects", crudBinding[domain.Project]{
		create: h.content.CreateProject,
		update: h.content.UpdateProject,
		remove: h.content.DeleteProject,
		list:   h.content.ListProjects,
		setID:  func(p *domain.Project, id string) { p.ID = id },
	})
	registerCRUD(r, "/plans", crudBinding[domain.PricingPlan]{
		create: h.content.CreatePricingPlan,
		update: h.content.UpdatePricingPlan,
		remove: h.content.DeletePricingPlan,
		list:   h.content.ListPricingPlans,
		setID:  func(p *domain.PricingPlan, id string) { p.ID = id },
	})
	registerCRUD(r, "/products", crudBinding[domain.Product]{
		create: h.catalog.CreateProduct,
		update: h.catalog.UpdateProduct,
		remove: h.catalog.DeleteProduct,
		list: func(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Product], error) {
			return h.catalog.ListProducts(ctx, services.CatalogQuery{Skip: opts.Skip, Limit: opts.Limit})
		},
		setID: func(p *domain.Product, id string) { p.ID = id },
	})
	registerCRUD(r, "/categories", crudBinding[domain.Category]{
		create: h.catalog.CreateCategory,
		update: h.catalog.UpdateCategory,
		remove: h.catalog.DeleteCategory,
		list:   h.catalog.ListCategories,
		setID:  func(c *domain.Category, id string) { c.ID = id },
	})

	r.Route("/contacts", func(g chi.Router) {
		g.Get("/", h.listContacts)
		g.Patch("/{id}/read", h.markContactRead)
		g.Delete("/{id}", h.deleteContact)
	})

	r.Route("/users", func(g chi.Router) {
		g.Get("/", h.listUsers)
		g.Get("/{uid}", h.getUser)
		g.Delete("/{uid}", h.deleteUser)
	})

	if h.dashboard != nil {
		r.Route("/dashboard", h.dashboard.Routes)
	}
}

func (h *AdminHandlers) listContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.ParseParams(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.contacts.List(ctx, repositories.ListOptions{Skip: params.Skip, Limit: params.Limit})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeListPage(w, page)
}

func (h *AdminHandlers) markContactRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contact, err := h.contacts.MarkRead(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, contact, "contact marked read")
}

func (h *AdminHandlers) deleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.contacts.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "contact deleted")
}

func (h *AdminHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.ParseParams(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.users.List(ctx, r.URL.Query().Get("role"), params.Skip, params.Limit)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeListPage(w, page)
}

func (h *AdminHandlers) getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.users.GetProfile(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, user)
}

func (h *AdminHandlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.users.Delete(ctx, chi.URLParam(r, "uid")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "user deleted")
}
