// Package services contains the business logic between HTTP handlers and
// repositories.
package services

import (
	"context"
	"iter"
	"time"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

// OrderEventMessage is the payload published for order lifecycle events.
type OrderEventMessage struct {
	Event         string    `json:"event"`
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	OrderStatus   string    `json:"orderStatus"`
	PaymentStatus string    `json:"paymentStatus"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// OrderEventPublisher publishes order lifecycle events for downstream consumers.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, message OrderEventMessage) (string, error)
}

// Actor identifies who is performing an operation and with what privilege.
type Actor struct {
	UID   string
	Email string
	Admin bool
}

// CreateOrderCommand carries the inputs for order creation.
type CreateOrderCommand struct {
	Customer      domain.OrderCustomer
	Pricing       domain.PricingSpec
	Items         []domain.OrderItem
	Notes         string
	PaymentMethod string
	TransactionID string
}

// UpdateOrderCommand carries a partial order update. Nil fields are left
// untouched; protected fields have no representation here and therefore
// cannot be modified through this path.
type UpdateOrderCommand struct {
	OrderID  string
	Customer *domain.OrderCustomer
	Items    *[]domain.OrderItem
	Pricing  *domain.Pricing
	Notes    *string
}

// PaymentUpdateCommand mutates the payment sub-record.
type PaymentUpdateCommand struct {
	OrderID       string
	Status        domain.PaymentStatus
	TransactionID string
	Method        string
}

// CancelOrderCommand cancels an order on behalf of an actor.
type CancelOrderCommand struct {
	OrderID string
	Actor   Actor
	Reason  string
}

// OrderListQuery narrows admin order listings.
type OrderListQuery struct {
	Status         string
	PaymentStatus  string
	Cancelled      *bool
	CustomerEmail  string
	CustomerUserID string
	Search         string
	CreatedFrom    time.Time
	CreatedTo      time.Time
	Skip           int64
	Limit          int64
}

// OrderService manages the order lifecycle.
type OrderService interface {
	Create(ctx context.Context, cmd CreateOrderCommand) (domain.Order, error)
	Get(ctx context.Context, orderID string, actor Actor) (domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error)
	List(ctx context.Context, query OrderListQuery) (domain.Page[domain.Order], error)
	ListByCustomer(ctx context.Context, actor Actor, skip, limit int64) (domain.Page[domain.Order], error)
	Update(ctx context.Context, cmd UpdateOrderCommand) (domain.Order, error)
	Delete(ctx context.Context, orderID string) error
	TransitionStatus(ctx context.Context, orderID string, target domain.OrderStatus) (domain.Order, error)
	TransitionPayment(ctx context.Context, cmd PaymentUpdateCommand) (domain.Order, error)
	Cancel(ctx context.Context, cmd CancelOrderCommand) (domain.Order, error)
	TrackByEmail(ctx context.Context, email string) (iter.Seq2[domain.OrderTracking, error], error)
	Stats(ctx context.Context) (domain.OrderStats, error)
}

// DashboardService computes the admin aggregation snapshot.
type DashboardService interface {
	ComputeStats(ctx context.Context) (domain.DashboardSnapshot, error)
}

// ContentService manages the site's editorial content.
type ContentService interface {
	CreateBanner(ctx context.Context, banner domain.Banner) (domain.Banner, error)
	UpdateBanner(ctx context.Context, banner domain.Banner) (domain.Banner, error)
	DeleteBanner(ctx context.Context, bannerID string) error
	ListBanners(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Banner], error)

	CreateTestimonial(ctx context.Context, testimonial domain.Testimonial) (domain.Testimonial, error)
	UpdateTestimonial(ctx context.Context, testimonial domain.Testimonial) (domain.Testimonial, error)
	DeleteTestimonial(ctx context.Context, testimonialID string) error
	ListTestimonials(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Testimonial], error)

	CreateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error)
	UpdateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error)
	DeleteFAQ(ctx context.Context, faqID string) error
	ListFAQs(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.FAQ], error)

	CreateTeamMember(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error)
	UpdateTeamMember(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error)
	DeleteTeamMember(ctx context.Context, memberID string) error
	ListTeamMembers(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.TeamMember], error)

	CreateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error)
	UpdateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error)
	DeleteServiceOffering(ctx context.Context, offeringID string) error
	ListServiceOfferings(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.ServiceOffering], error)

	CreateProject(ctx context.Context, project domain.Project) (domain.Project, error)
	UpdateProject(ctx context.Context, project domain.Project) (domain.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	ListProjects(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Project], error)

	CreatePricingPlan(ctx context.Context, plan domain.PricingPlan) (domain.PricingPlan, error)
	UpdatePricingPlan(ctx context.Context, plan domain.PricingPlan) (domain.PricingPlan, error)
	DeletePricingPlan(ctx context.Context, planID string) error
	ListPricingPlans(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.PricingPlan], error)
}

// CatalogQuery narrows product listings.
type CatalogQuery struct {
	CategoryID string
	Search     string
	ActiveOnly bool
	Skip       int64
	Limit      int64
}

// CatalogService manages products and categories.
type CatalogService interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context, query CatalogQuery) (domain.Page[domain.Product], error)

	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	ListCategories(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Category], error)
}

// ProfileUpdate carries the fields a signed-in user may change on their profile.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	PhotoURL *string
	Locale   *string
}

// UserService manages persisted user profiles.
type UserService interface {
	SyncProfile(ctx context.Context, actor Actor, name, photoURL, locale string) (domain.User, error)
	GetProfile(ctx context.Context, uid string) (domain.User, error)
	UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) (domain.User, error)
	List(ctx context.Context, role string, skip, limit int64) (domain.Page[domain.User], error)
	Delete(ctx context.Context, uid string) error
}

// ContactSubmission is a public contact form payload.
type ContactSubmission struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactService accepts public submissions and exposes the admin inbox.
type ContactService interface {
	Submit(ctx context.Context, submission ContactSubmission) (domain.Contact, error)
	List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Contact], error)
	MarkRead(ctx context.Context, contactID string) (domain.Contact, error)
	Delete(ctx context.Context, contactID string) error
}
