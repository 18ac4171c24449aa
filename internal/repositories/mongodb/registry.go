package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

// Registry wires every MongoDB repository around a shared provider.
type Registry struct {
	provider *pmongo.Provider

	orders       *OrderRepository
	counters     *CounterRepository
	users        *UserRepository
	plans        *PricingPlanRepository
	banners      *BannerRepository
	testimonials *TestimonialRepository
	faqs         *FAQRepository
	teamMembers  *TeamMemberRepository
	offerings    *ServiceOfferingRepository
	projects     *ProjectRepository
	products     *ProductRepository
	categories   *CategoryRepository
	contacts     *ContactRepository
	dashboard    *DashboardRepository
	health       *HealthRepository
}

// NewRegistry constructs every repository against the shared provider.
func NewRegistry(provider *pmongo.Provider, queryTimeout time.Duration) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("registry requires mongodb provider")
	}

	registry := &Registry{provider: provider}

	var err error
	if registry.orders, err = NewOrderRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.counters, err = NewCounterRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.users, err = NewUserRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.plans, err = NewPricingPlanRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.banners, err = NewBannerRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.testimonials, err = NewTestimonialRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.faqs, err = NewFAQRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.teamMembers, err = NewTeamMemberRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.offerings, err = NewServiceOfferingRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.projects, err = NewProjectRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.products, err = NewProductRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.categories, err = NewCategoryRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.contacts, err = NewContactRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.dashboard, err = NewDashboardRepository(provider, queryTimeout); err != nil {
		return nil, err
	}
	if registry.health, err = NewHealthRepository(provider); err != nil {
		return nil, err
	}

	return registry, nil
}

// EnsureIndexes creates the indexes the queries and uniqueness guarantees rely on.
func (r *Registry) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return errors.New("registry not initialised")
	}

	db, err := r.provider.Database(ctx)
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	specs := map[string][]mongo.IndexModel{
		orderCollection: {
			{
				Keys:    bson.D{{Key: "orderNumber", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "customer.email", Value: 1}, {Key: "createdAt", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "orderStatus", Value: 1}, {Key: "createdAt", Value: -1}},
			},
			{
				// Partial so orders without a transaction id do not collide.
				Keys: bson.D{{Key: "payment.transactionId", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{
						"payment.transactionId": bson.M{"$type": "string", "$gt": ""},
					}),
			},
		},
		categoryCollection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		userCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		contactCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", collection, err)
		}
	}
	return nil
}

// Close disconnects the shared provider.
func (r *Registry) Close(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Close(ctx)
}

func (r *Registry) Orders() repositories.OrderRepository                     { return r.orders }
func (r *Registry) Counters() repositories.CounterRepository                 { return r.counters }
func (r *Registry) Users() repositories.UserRepository                       { return r.users }
func (r *Registry) PricingPlans() repositories.PricingPlanRepository         { return r.plans }
func (r *Registry) Banners() repositories.BannerRepository                   { return r.banners }
func (r *Registry) Testimonials() repositories.TestimonialRepository         { return r.testimonials }
func (r *Registry) FAQs() repositories.FAQRepository                         { return r.faqs }
func (r *Registry) TeamMembers() repositories.TeamMemberRepository           { return r.teamMembers }
func (r *Registry) ServiceOfferings() repositories.ServiceOfferingRepository { return r.offerings }
func (r *Registry) Projects() repositories.ProjectRepository                 { return r.projects }
func (r *Registry) Products() repositories.ProductRepository                 { return r.products }
func (r *Registry) Categories() repositories.CategoryRepository              { return r.categories }
func (r *Registry) Contacts() repositories.ContactRepository                 { return r.contacts }
func (r *Registry) Dashboard() repositories.DashboardRepository              { return r.dashboard }
func (r *Registry) Health() repositories.HealthRepository                    { return r.health }
