package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/platform/pagination"
	"github.com/brightfold/api/internal/repositories"
	"github.com/brightfold/api/internal/services"
)

// PublicHandlers serves the unauthenticated marketing-site endpoints. Every
// list returns active documents only.
type PublicHandlers struct {
	content  services.ContentService
	catalog  services.CatalogService
	contacts services.ContactService
}

// NewPublicHandlers constructs a new PublicHandlers instance.
func NewPublicHandlers(content services.ContentService, catalog services.CatalogService, contacts services.ContactService) *PublicHandlers {
	return &PublicHandlers{content: content, catalog: catalog, contacts: contacts}
}

// Routes registers the /public endpoints.
func (h *PublicHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/banners", h.listBanners)
	r.Get("/testimonials", h.listTestimonials)
	r.Get("/faqs", h.listFAQs)
	r.Get("/team", h.listTeam)
	r.Get("/services", h.listServices)
	r.Get("/projects", h.listProjects)
	r.Get("/plans", h.listPlans)
	r.Get("/products", h.listProducts)
	r.Get("/categories", h.listCategories)
	r.Post("/contact", h.submitContact)
}

// publicListOptions parses pagination and forces the active-only filter.
func publicListOptions(w http.ResponseWriter, r *http.Request) (repositories.ListOptions, bool) {
	params, err := pagination.ParseParams(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return repositories.ListOptions{}, false
	}
	return repositories.ListOptions{Skip: params.Skip, Limit: params.Limit, ActiveOnly: true}, true
}

func writeListPage[T any](w http.ResponseWriter, page domain.Page[T]) {
	httpx.WritePage(w, http.StatusOK, page.Items, pageMeta(page.Skip, page.Limit, page.TotalCount, len(page.Items)))
}

func (h *PublicHandlers) listBanners(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListBanners(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listTestimonials(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListTestimonials(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listFAQs(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListFAQs(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listTeam(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListTeamMembers(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listServices(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListServiceOfferings(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listProjects(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListProjects(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listPlans(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.content.ListPricingPlans(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.catalog.ListProducts(r.Context(), services.CatalogQuery{
		CategoryID: r.URL.Query().Get("categoryId"),
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: true,
		Skip:       opts.Skip,
		Limit:      opts.Limit,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

func (h *PublicHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	opts, ok := publicListOptions(w, r)
	if !ok {
		return
	}
	page, err := h.catalog.ListCategories(r.Context(), opts)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeListPage(w, page)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *PublicHandlers) submitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contact, err := h.contacts.Submit(ctx, services.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteDataMessage(w, http.StatusCreated, contact, "thanks for getting in touch")
}
