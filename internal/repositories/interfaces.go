package repositories

import (
	"context"
	"iter"
	"time"

	domain "github.com/brightfold/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error

	Orders() OrderRepository
	Counters() CounterRepository
	Users() UserRepository
	PricingPlans() PricingPlanRepository
	Banners() BannerRepository
	Testimonials() TestimonialRepository
	FAQs() FAQRepository
	TeamMembers() TeamMemberRepository
	ServiceOfferings() ServiceOfferingRepository
	Projects() ProjectRepository
	Products() ProductRepository
	Categories() CategoryRepository
	Contacts() ContactRepository
	Dashboard() DashboardRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// OrderListFilter narrows admin order listings.
type OrderListFilter struct {
	Status         *domain.OrderStatus
	PaymentStatus  *domain.PaymentStatus
	Cancelled      *bool
	CustomerEmail  string
	CustomerUserID string
	Search         string
	CreatedFrom    time.Time
	CreatedTo      time.Time

	Skip  int64
	Limit int64
}

// OrderRepository persists orders and provides the queries the lifecycle and
// tracking surfaces need.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, orderID string) error
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (domain.Order, error)
	List(ctx context.Context, filter OrderListFilter) (domain.Page[domain.Order], error)
	// StreamByEmail yields the customer's orders newest-first without loading
	// them all at once. The sequence is single-use.
	StreamByEmail(ctx context.Context, email string) iter.Seq2[domain.Order, error]
	Stats(ctx context.Context) (domain.OrderStats, error)
	TransactionExists(ctx context.Context, transactionID string) (bool, error)
}

// CounterConfig customises increment behaviour and bounds for a counter.
type CounterConfig struct {
	Start int64
	Step  int64
	Max   int64
}

// CounterRepository provides atomic, gapless-enough sequence numbers.
type CounterRepository interface {
	Next(ctx context.Context, counterID string, cfg CounterConfig) (int64, error)
}

// UserListFilter narrows admin user listings.
type UserListFilter struct {
	Role  string
	Skip  int64
	Limit int64
}

// UserRepository stores user profiles mirrored from Firebase.
type UserRepository interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	FindByUID(ctx context.Context, uid string) (domain.User, error)
	List(ctx context.Context, filter UserListFilter) (domain.Page[domain.User], error)
	Delete(ctx context.Context, uid string) error
}

// ListOptions carries the shared offset pagination inputs for list queries.
type ListOptions struct {
	Skip  int64
	Limit int64
	// ActiveOnly restricts results to documents flagged as active/published.
	ActiveOnly bool
}

// PricingPlanRepository manages the pricing catalogue.
type PricingPlanRepository interface {
	Insert(ctx context.Context, plan domain.PricingPlan) error
	Update(ctx context.Context, plan domain.PricingPlan) error
	Delete(ctx context.Context, planID string) error
	FindByID(ctx context.Context, planID string) (domain.PricingPlan, error)
	FindByName(ctx context.Context, name string) (domain.PricingPlan, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.PricingPlan], error)
}

// BannerRepository manages homepage banner content.
type BannerRepository interface {
	Insert(ctx context.Context, banner domain.Banner) error
	Update(ctx context.Context, banner domain.Banner) error
	Delete(ctx context.Context, bannerID string) error
	FindByID(ctx context.Context, bannerID string) (domain.Banner, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.Banner], error)
}

// TestimonialRepository manages customer testimonial content.
type TestimonialRepository interface {
	Insert(ctx context.Context, testimonial domain.Testimonial) error
	Update(ctx context.Context, testimonial domain.Testimonial) error
	Delete(ctx context.Context, testimonialID string) error
	FindByID(ctx context.Context, testimonialID string) (domain.Testimonial, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.Testimonial], error)
}

// FAQRepository manages frequently asked question content.
type FAQRepository interface {
	Insert(ctx context.Context, faq domain.FAQ) error
	Update(ctx context.Context, faq domain.FAQ) error
	Delete(ctx context.Context, faqID string) error
	FindByID(ctx context.Context, faqID string) (domain.FAQ, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.FAQ], error)
}

// TeamMemberRepository manages team member profiles.
type TeamMemberRepository interface {
	Insert(ctx context.Context, member domain.TeamMember) error
	Update(ctx context.Context, member domain.TeamMember) error
	Delete(ctx context.Context, memberID string) error
	FindByID(ctx context.Context, memberID string) (domain.TeamMember, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.TeamMember], error)
}

// ServiceOfferingRepository manages the published service catalogue.
type ServiceOfferingRepository interface {
	Insert(ctx context.Context, offering domain.ServiceOffering) error
	Update(ctx context.Context, offering domain.ServiceOffering) error
	Delete(ctx context.Context, offeringID string) error
	FindByID(ctx context.Context, offeringID string) (domain.ServiceOffering, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.ServiceOffering], error)
}

// ProjectRepository manages portfolio projects.
type ProjectRepository interface {
	Insert(ctx context.Context, project domain.Project) error
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, projectID string) error
	FindByID(ctx context.Context, projectID string) (domain.Project, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.Project], error)
}

// ProductListFilter narrows product listings.
type ProductListFilter struct {
	CategoryID string
	Search     string
	ActiveOnly bool
	Skip       int64
	Limit      int64
}

// ProductRepository manages sellable products.
type ProductRepository interface {
	Insert(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, productID string) error
	FindByID(ctx context.Context, productID string) (domain.Product, error)
	List(ctx context.Context, filter ProductListFilter) (domain.Page[domain.Product], error)
}

// CategoryRepository manages product categories. Category names are unique;
// Insert and Update surface IsConflict on collisions.
type CategoryRepository interface {
	Insert(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, categoryID string) error
	FindByID(ctx context.Context, categoryID string) (domain.Category, error)
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.Category], error)
}

// ContactRepository stores inbound contact form submissions.
type ContactRepository interface {
	Insert(ctx context.Context, contact domain.Contact) error
	FindByID(ctx context.Context, contactID string) (domain.Contact, error)
	MarkRead(ctx context.Context, contactID string, readAt time.Time) error
	Delete(ctx context.Context, contactID string) error
	List(ctx context.Context, opts ListOptions) (domain.Page[domain.Contact], error)
}

// MonthlyAggregate is a per-calendar-month rollup of order volume and revenue.
type MonthlyAggregate struct {
	Year    int
	Month   time.Month
	Orders  int64
	Revenue float64
}

// DashboardRepository exposes the raw aggregates the dashboard assembles.
// Revenue figures only count orders whose payment is settled.
type DashboardRepository interface {
	CountOrders(ctx context.Context, from, to time.Time) (int64, error)
	CountPaidOrders(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context, from, to time.Time) (int64, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountActiveServices(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context, from, to time.Time) (float64, error)
	MonthlyAggregates(ctx context.Context, since time.Time) ([]MonthlyAggregate, error)
	ServiceNameCounts(ctx context.Context) (map[string]int64, error)
	PlanOrderCounts(ctx context.Context) (map[string]int64, error)
}

// HealthRepository verifies datastore connectivity for readiness probes.
type HealthRepository interface {
	Check(ctx context.Context) error
}
