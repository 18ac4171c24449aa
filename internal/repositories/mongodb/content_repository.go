package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	domain "github.com/brightfold/api/internal/domain"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

const (
	bannerCollection      = "banners"
	testimonialCollection = "testimonials"
	faqCollection         = "faqs"
	teamMemberCollection  = "team_members"
	offeringCollection    = "services"
)

func activeFilter(opts repositories.ListOptions) bson.M {
	if opts.ActiveOnly {
		return bson.M{"active": true}
	}
	return bson.M{}
}

var sortOrderThenNewest = bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}}

// BannerRepository stores homepage banners.
type BannerRepository struct {
	base *baseRepository[domain.Banner]
}

// NewBannerRepository constructs a MongoDB-backed banner repository.
func NewBannerRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*BannerRepository, error) {
	base, err := newBaseRepository[domain.Banner](provider, bannerCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &BannerRepository{base: base}, nil
}

func (r *BannerRepository) Insert(ctx context.Context, banner domain.Banner) error {
	if r == nil || r.base == nil {
		return errors.New("banner repository not initialised")
	}
	return r.base.insert(ctx, banner)
}

func (r *BannerRepository) Update(ctx context.Context, banner domain.Banner) error {
	if r == nil || r.base == nil {
		return errors.New("banner repository not initialised")
	}
	return r.base.replace(ctx, banner.ID, banner)
}

func (r *BannerRepository) Delete(ctx context.Context, bannerID string) error {
	if r == nil || r.base == nil {
		return errors.New("banner repository not initialised")
	}
	return r.base.delete(ctx, bannerID)
}

func (r *BannerRepository) FindByID(ctx context.Context, bannerID string) (domain.Banner, error) {
	if r == nil || r.base == nil {
		return domain.Banner{}, errors.New("banner repository not initialised")
	}
	return r.base.get(ctx, bannerID)
}

func (r *BannerRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Banner], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Banner]{}, errors.New("banner repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), sortOrderThenNewest, opts.Skip, opts.Limit)
}

// TestimonialRepository stores customer testimonials.
type TestimonialRepository struct {
	base *baseRepository[domain.Testimonial]
}

// NewTestimonialRepository constructs a MongoDB-backed testimonial repository.
func NewTestimonialRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*TestimonialRepository, error) {
	base, err := newBaseRepository[domain.Testimonial](provider, testimonialCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &TestimonialRepository{base: base}, nil
}

func (r *TestimonialRepository) Insert(ctx context.Context, testimonial domain.Testimonial) error {
	if r == nil || r.base == nil {
		return errors.New("testimonial repository not initialised")
	}
	return r.base.insert(ctx, testimonial)
}

func (r *TestimonialRepository) Update(ctx context.Context, testimonial domain.Testimonial) error {
	if r == nil || r.base == nil {
		return errors.New("testimonial repository not initialised")
	}
	return r.base.replace(ctx, testimonial.ID, testimonial)
}

func (r *TestimonialRepository) Delete(ctx context.Context, testimonialID string) error {
	if r == nil || r.base == nil {
		return errors.New("testimonial repository not initialised")
	}
	return r.base.delete(ctx, testimonialID)
}

func (r *TestimonialRepository) FindByID(ctx context.Context, testimonialID string) (domain.Testimonial, error) {
	if r == nil || r.base == nil {
		return domain.Testimonial{}, errors.New("testimonial repository not initialised")
	}
	return r.base.get(ctx, testimonialID)
}

func (r *TestimonialRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Testimonial], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Testimonial]{}, errors.New("testimonial repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), bson.D{{Key: "createdAt", Value: -1}}, opts.Skip, opts.Limit)
}

// FAQRepository stores frequently asked questions.
type FAQRepository struct {
	base *baseRepository[domain.FAQ]
}

// NewFAQRepository constructs a MongoDB-backed FAQ repository.
func NewFAQRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*FAQRepository, error) {
	base, err := newBaseRepository[domain.FAQ](provider, faqCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &FAQRepository{base: base}, nil
}

func (r *FAQRepository) Insert(ctx context.Context, faq domain.FAQ) error {
	if r == nil || r.base == nil {
		return errors.New("faq repository not initialised")
	}
	return r.base.insert(ctx, faq)
}

func (r *FAQRepository) Update(ctx context.Context, faq domain.FAQ) error {
	if r == nil || r.base == nil {
		return errors.New("faq repository not initialised")
	}
	return r.base.replace(ctx, faq.ID, faq)
}

func (r *FAQRepository) Delete(ctx context.Context, faqID string) error {
	if r == nil || r.base == nil {
		return errors.New("faq repository not initialised")
	}
	return r.base.delete(ctx, faqID)
}

func (r *FAQRepository) FindByID(ctx context.Context, faqID string) (domain.FAQ, error) {
	if r == nil || r.base == nil {
		return domain.FAQ{}, errors.New("faq repository not initialised")
	}
	return r.base.get(ctx, faqID)
}

func (r *FAQRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.FAQ], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.FAQ]{}, errors.New("faq repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), sortOrderThenNewest, opts.Skip, opts.Limit)
}

// TeamMemberRepository stores team member profiles.
type TeamMemberRepository struct {
	base *baseRepository[domain.TeamMember]
}

// NewTeamMemberRepository constructs a MongoDB-backed team member repository.
func NewTeamMemberRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*TeamMemberRepository, error) {
	base, err := newBaseRepository[domain.TeamMember](provider, teamMemberCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &TeamMemberRepository{base: base}, nil
}

func (r *TeamMemberRepository) Insert(ctx context.Context, member domain.TeamMember) error {
	if r == nil || r.base == nil {
		return errors.New("team member repository not initialised")
	}
	return r.base.insert(ctx, member)
}

func (r *TeamMemberRepository) Update(ctx context.Context, member domain.TeamMember) error {
	if r == nil || r.base == nil {
		return errors.New("team member repository not initialised")
	}
	return r.base.replace(ctx, member.ID, member)
}

func (r *TeamMemberRepository) Delete(ctx context.Context, memberID string) error {
	if r == nil || r.base == nil {
		return errors.New("team member repository not initialised")
	}
	return r.base.delete(ctx, memberID)
}

func (r *TeamMemberRepository) FindByID(ctx context.Context, memberID string) (domain.TeamMember, error) {
	if r == nil || r.base == nil {
		return domain.TeamMember{}, errors.New("team member repository not initialised")
	}
	return r.base.get(ctx, memberID)
}

func (r *TeamMemberRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.TeamMember], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.TeamMember]{}, errors.New("team member repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), sortOrderThenNewest, opts.Skip, opts.Limit)
}

// ServiceOfferingRepository stores the published service catalogue.
type ServiceOfferingRepository struct {
	base *baseRepository[domain.ServiceOffering]
}

// NewServiceOfferingRepository constructs a MongoDB-backed service offering repository.
func NewServiceOfferingRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*ServiceOfferingRepository, error) {
	base, err := newBaseRepository[domain.ServiceOffering](provider, offeringCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &ServiceOfferingRepository{base: base}, nil
}

func (r *ServiceOfferingRepository) Insert(ctx context.Context, offering domain.ServiceOffering) error {
	if r == nil || r.base == nil {
		return errors.New("service offering repository not initialised")
	}
	return r.base.insert(ctx, offering)
}

func (r *ServiceOfferingRepository) Update(ctx context.Context, offering domain.ServiceOffering) error {
	if r == nil || r.base == nil {
		return errors.New("service offering repository not initialised")
	}
	return r.base.replace(ctx, offering.ID, offering)
}

func (r *ServiceOfferingRepository) Delete(ctx context.Context, offeringID string) error {
	if r == nil || r.base == nil {
		return errors.New("service offering repository not initialised")
	}
	return r.base.delete(ctx, offeringID)
}

func (r *ServiceOfferingRepository) FindByID(ctx context.Context, offeringID string) (domain.ServiceOffering, error) {
	if r == nil || r.base == nil {
		return domain.ServiceOffering{}, errors.New("service offering repository not initialised")
	}
	return r.base.get(ctx, offeringID)
}

func (r *ServiceOfferingRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.ServiceOffering], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.ServiceOffering]{}, errors.New("service offering repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), sortOrderThenNewest, opts.Skip, opts.Limit)
}
