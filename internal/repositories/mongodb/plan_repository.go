package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	domain "github.com/brightfold/api/internal/domain"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

const planCollection = "pricing_plans"

// PricingPlanRepository stores the pricing catalogue.
type PricingPlanRepository struct {
	base *baseRepository[domain.PricingPlan]
}

// NewPricingPlanRepository constructs a MongoDB-backed pricing plan repository.
func NewPricingPlanRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*PricingPlanRepository, error) {
	base, err := newBaseRepository[domain.PricingPlan](provider, planCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &PricingPlanRepository{base: base}, nil
}

func (r *PricingPlanRepository) Insert(ctx context.Context, plan domain.PricingPlan) error {
	if r == nil || r.base == nil {
		return errors.New("pricing plan repository not initialised")
	}
	return r.base.insert(ctx, plan)
}

func (r *PricingPlanRepository) Update(ctx context.Context, plan domain.PricingPlan) error {
	if r == nil || r.base == nil {
		return errors.New("pricing plan repository not initialised")
	}
	return r.base.replace(ctx, plan.ID, plan)
}

func (r *PricingPlanRepository) Delete(ctx context.Context, planID string) error {
	if r == nil || r.base == nil {
		return errors.New("pricing plan repository not initialised")
	}
	return r.base.delete(ctx, planID)
}

func (r *PricingPlanRepository) FindByID(ctx context.Context, planID string) (domain.PricingPlan, error) {
	if r == nil || r.base == nil {
		return domain.PricingPlan{}, errors.New("pricing plan repository not initialised")
	}
	return r.base.get(ctx, planID)
}

// FindByName resolves a plan by its display name, case-insensitively.
func (r *PricingPlanRepository) FindByName(ctx context.Context, name string) (domain.PricingPlan, error) {
	if r == nil || r.base == nil {
		return domain.PricingPlan{}, errors.New("pricing plan repository not initialised")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.PricingPlan{}, errors.New("plan name is required")
	}

	coll, err := r.base.provider.Collection(ctx, planCollection)
	if err != nil {
		return domain.PricingPlan{}, wrapError("pricing_plans.findByName", "resolve collection", err)
	}

	ctx, cancel := r.base.queryContext(ctx)
	defer cancel()

	filter := bson.M{"name": bson.M{"$regex": "^" + regexEscape(name) + "$", "$options": "i"}}
	var plan domain.PricingPlan
	if err := coll.FindOne(ctx, filter).Decode(&plan); err != nil {
		return domain.PricingPlan{}, wrapError("pricing_plans.findByName", "find plan", err)
	}
	return plan, nil
}

func (r *PricingPlanRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.PricingPlan], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.PricingPlan]{}, errors.New("pricing plan repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), bson.D{{Key: "price", Value: 1}}, opts.Skip, opts.Limit)
}
