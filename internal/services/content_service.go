package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

var (
	// ErrContentInvalidInput signals the caller provided invalid data.
	ErrContentInvalidInput = errors.New("content: invalid input")
	// ErrContentNotFound indicates the document could not be located.
	ErrContentNotFound = errors.New("content: not found")
)

// ContentServiceDeps bundles collaborators for the content service.
type ContentServiceDeps struct {
	Banners      repositories.BannerRepository
	Testimonials repositories.TestimonialRepository
	FAQs         repositories.FAQRepository
	TeamMembers  repositories.TeamMemberRepository
	Offerings    repositories.ServiceOfferingRepository
	Projects     repositories.ProjectRepository
	Plans        repositories.PricingPlanRepository

	Clock       func() time.Time
	IDGenerator func(prefix string) string
}

type contentService struct {
	banners      repositories.BannerRepository
	testimonials repositories.TestimonialRepository
	faqs         repositories.FAQRepository
	teamMembers  repositories.TeamMemberRepository
	offerings    repositories.ServiceOfferingRepository
	projects     repositories.ProjectRepository
	plans        repositories.PricingPlanRepository

	clock    func() time.Time
	newID    func(prefix string) string
	sanitize *bluemonday.Policy
}

// NewContentService wires a ContentService implementation. Rich-text fields
// pass through a UGC sanitation policy on every write.
func NewContentService(deps ContentServiceDeps) (ContentService, error) {
	switch {
	case deps.Banners == nil:
		return nil, errors.New("content service requires banner repository")
	case deps.Testimonials == nil:
		return nil, errors.New("content service requires testimonial repository")
	case deps.FAQs == nil:
		return nil, errors.New("content service requires faq repository")
	case deps.TeamMembers == nil:
		return nil, errors.New("content service requires team member repository")
	case deps.Offerings == nil:
		return nil, errors.New("content service requires service offering repository")
	case deps.Projects == nil:
		return nil, errors.New("content service requires project repository")
	case deps.Plans == nil:
		return nil, errors.New("content service requires pricing plan repository")
	}

	svc := &contentService{
		banners:      deps.Banners,
		testimonials: deps.Testimonials,
		faqs:         deps.FAQs,
		teamMembers:  deps.TeamMembers,
		offerings:    deps.Offerings,
		projects:     deps.Projects,
		plans:        deps.Plans,
		clock:        deps.Clock,
		newID:        deps.IDGenerator,
		sanitize:     bluemonday.UGCPolicy(),
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = func(prefix string) string {
			return prefix + strings.ToLower(ulid.Make().String())
		}
	}
	return svc, nil
}

func (s *contentService) clean(html string) string {
	return strings.TrimSpace(s.sanitize.Sanitize(html))
}

func wrapContentErr(op string, err error) error {
	if repositories.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrContentNotFound, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateBanner stores a new homepage banner.
func (s *contentService) CreateBanner(ctx context.Context, banner domain.Banner) (domain.Banner, error) {
	if strings.TrimSpace(banner.Title) == "" || strings.TrimSpace(banner.ImageURL) == "" {
		return domain.Banner{}, fmt.Errorf("%w: banner title and image are required", ErrContentInvalidInput)
	}
	now := s.clock()
	banner.ID = s.newID("bnr_")
	banner.Title = s.clean(banner.Title)
	banner.Subtitle = s.clean(banner.Subtitle)
	banner.CreatedAt = now
	banner.UpdatedAt = now
	if err := s.banners.Insert(ctx, banner); err != nil {
		return domain.Banner{}, wrapContentErr("create banner", err)
	}
	return banner, nil
}

func (s *contentService) UpdateBanner(ctx context.Context, banner domain.Banner) (domain.Banner, error) {
	existing, err := s.banners.FindByID(ctx, banner.ID)
	if err != nil {
		return domain.Banner{}, wrapContentErr("find banner", err)
	}
	banner.Title = s.clean(banner.Title)
	banner.Subtitle = s.clean(banner.Subtitle)
	banner.CreatedAt = existing.CreatedAt
	banner.UpdatedAt = s.clock()
	if err := s.banners.Update(ctx, banner); err != nil {
		return domain.Banner{}, wrapContentErr("update banner", err)
	}
	return banner, nil
}

func (s *contentService) DeleteBanner(ctx context.Context, bannerID string) error {
	if err := s.banners.Delete(ctx, bannerID); err != nil {
		return wrapContentErr("delete banner", err)
	}
	return nil
}

func (s *contentService) ListBanners(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Banner], error) {
	page, err := s.banners.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.Banner]{}, wrapContentErr("list banners", err)
	}
	return page, nil
}

// CreateTestimonial stores a customer testimonial.
func (s *contentService) CreateTestimonial(ctx context.Context, testimonial domain.Testimonial) (domain.Testimonial, error) {
	if strings.TrimSpace(testimonial.Author) == "" || strings.TrimSpace(testimonial.Quote) == "" {
		return domain.Testimonial{}, fmt.Errorf("%w: testimonial author and quote are required", ErrContentInvalidInput)
	}
	if testimonial.Rating < 0 || testimonial.Rating > 5 {
		return domain.Testimonial{}, fmt.Errorf("%w: rating must be between 0 and 5", ErrContentInvalidInput)
	}
	now := s.clock()
	testimonial.ID = s.newID("tst_")
	testimonial.Quote = s.clean(testimonial.Quote)
	testimonial.CreatedAt = now
	testimonial.UpdatedAt = now
	if err := s.testimonials.Insert(ctx, testimonial); err != nil {
		return domain.Testimonial{}, wrapContentErr("create testimonial", err)
	}
	return testimonial, nil
}

func (s *contentService) UpdateTestimonial(ctx context.Context, testimonial domain.Testimonial) (domain.Testimonial, error) {
	existing, err := s.testimonials.FindByID(ctx, testimonial.ID)
	if err != nil {
		return domain.Testimonial{}, wrapContentErr("find testimonial", err)
	}
	testimonial.Quote = s.clean(testimonial.Quote)
	testimonial.CreatedAt = existing.CreatedAt
	testimonial.UpdatedAt = s.clock()
	if err := s.testimonials.Update(ctx, testimonial); err != nil {
		return domain.Testimonial{}, wrapContentErr("update testimonial", err)
	}
	return testimonial, nil
}

func (s *contentService) DeleteTestimonial(ctx context.Context, testimonialID string) error {
	if err := s.testimonials.Delete(ctx, testimonialID); err != nil {
		return wrapContentErr("delete testimonial", err)
	}
	return nil
}

func (s *contentService) ListTestimonials(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Testimonial], error) {
	page, err := s.testimonials.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.Testimonial]{}, wrapContentErr("list testimonials", err)
	}
	return page, nil
}

// CreateFAQ stores a frequently asked question.
func (s *contentService) CreateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error) {
	if strings.TrimSpace(faq.Question) == "" || strings.TrimSpace(faq.Answer) == "" {
		return domain.FAQ{}, fmt.Errorf("%w: question and answer are required", ErrContentInvalidInput)
	}
	now := s.clock()
	faq.ID = s.newID("faq_")
	faq.Answer = s.clean(faq.Answer)
	faq.CreatedAt = now
	faq.UpdatedAt = now
	if err := s.faqs.Insert(ctx, faq); err != nil {
		return domain.FAQ{}, wrapContentErr("create faq", err)
	}
	return faq, nil
}

func (s *contentService) UpdateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error) {
	existing, err := s.faqs.FindByID(ctx, faq.ID)
	if err != nil {
		return domain.FAQ{}, wrapContentErr("find faq", err)
	}
	faq.Answer = s.clean(faq.Answer)
	faq.CreatedAt = existing.CreatedAt
	faq.UpdatedAt = s.clock()
	if err := s.faqs.Update(ctx, faq); err != nil {
		return domain.FAQ{}, wrapContentErr("update faq", err)
	}
	return faq, nil
}

func (s *contentService) DeleteFAQ(ctx context.Context, faqID string) error {
	if err := s.faqs.Delete(ctx, faqID); err != nil {
		return wrapContentErr("delete faq", err)
	}
	return nil
}

func (s *contentService) ListFAQs(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.FAQ], error) {
	page, err := s.faqs.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.FAQ]{}, wrapContentErr("list faqs", err)
	}
	return page, nil
}

// CreateTeamMember stores a team member profile.
func (s *contentService) CreateTeamMember(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	if strings.TrimSpace(member.Name) == "" || strings.TrimSpace(member.Role) == "" {
		return domain.TeamMember{}, fmt.Errorf("%w: member name and role are required", ErrContentInvalidInput)
	}
	now := s.clock()
	member.ID = s.newID("tm_")
	member.Bio = s.clean(member.Bio)
	member.CreatedAt = now
	member.UpdatedAt = now
	if err := s.teamMembers.Insert(ctx, member); err != nil {
		return domain.TeamMember{}, wrapContentErr("create team member", err)
	}
	return member, nil
}

func (s *contentService) UpdateTeamMember(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	existing, err := s.teamMembers.FindByID(ctx, member.ID)
	if err != nil {
		return domain.TeamMember{}, wrapContentErr("find team member", err)
	}
	member.Bio = s.clean(member.Bio)
	member.CreatedAt = existing.CreatedAt
	member.UpdatedAt = s.clock()
	if err := s.teamMembers.Update(ctx, member); err != nil {
		return domain.TeamMember{}, wrapContentErr("update team member", err)
	}
	return member, nil
}

func (s *contentService) DeleteTeamMember(ctx context.Context, memberID string) error {
	if err := s.teamMembers.Delete(ctx, memberID); err != nil {
		return wrapContentErr("delete team member", err)
	}
	return nil
}

func (s *contentService) ListTeamMembers(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.TeamMember], error) {
	page, err := s.teamMembers.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.TeamMember]{}, wrapContentErr("list team members", err)
	}
	return page, nil
}

// CreateServiceOffering stores a service catalogue entry.
func (s *contentService) CreateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error) {
	if strings.TrimSpace(offering.Name) == "" {
		return domain.ServiceOffering{}, fmt.Errorf("%w: offering name is required", ErrContentInvalidInput)
	}
	now := s.clock()
	offering.ID = s.newID("svc_")
	if offering.Slug == "" {
		offering.Slug = slugify(offering.Name)
	}
	offering.Description = s.clean(offering.Description)
	offering.CreatedAt = now
	offering.UpdatedAt = now
	if err := s.offerings.Insert(ctx, offering); err != nil {
		return domain.ServiceOffering{}, wrapContentErr("create service offering", err)
	}
	return offering, nil
}

func (s *contentService) UpdateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error) {
	existing, err := s.offerings.FindByID(ctx, offering.ID)
	if err != nil {
		return domain.ServiceOffering{}, wrapContentErr("find service offering", err)
	}
	offering.Description = s.clean(offering.Description)
	if offering.Slug == "" {
		offering.Slug = existing.Slug
	}
	offering.CreatedAt = existing.CreatedAt
	offering.UpdatedAt = s.clock()
	if err := s.offerings.Update(ctx, offering); err != nil {
		return domain.ServiceOffering{}, wrapContentErr("update service offering", err)
	}
	return offering, nil
}

func (s *contentService) DeleteServiceOffering(ctx context.Context, offeringID string) error {
	if err := s.offerings.Delete(ctx, offeringID); err != nil {
		return wrapContentErr("delete service offering", err)
	}
	return nil
}

func (s *contentService) ListServiceOfferings(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.ServiceOffering], error) {
	page, err := s.offerings.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.ServiceOffering]{}, wrapContentErr("list service offerings", err)
	}
	return page, nil
}

// CreateProject stores a portfolio entry.
func (s *contentService) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	if strings.TrimSpace(project.Title) == "" {
		return domain.Project{}, fmt.Errorf("%w: project title is required", ErrContentInvalidInput)
	}
	now := s.clock()
	project.ID = s.newID("prj_")
	if project.Slug == "" {
		project.Slug = slugify(project.Title)
	}
	project.Description = s.clean(project.Description)
	project.CreatedAt = now
	project.UpdatedAt = now
	if err := s.projects.Insert(ctx, project); err != nil {
		return domain.Project{}, wrapContentErr("create project", err)
	}
	return project, nil
}

func (s *contentService) UpdateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	existing, err := s.projects.FindByID(ctx, project.ID)
	if err != nil {
		return domain.Project{}, wrapContentErr("find project", err)
	}
	project.Description = s.clean(project.Description)
	if project.Slug == "" {
		project.Slug = existing.Slug
	}
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = s.clock()
	if err := s.projects.Update(ctx, project); err != nil {
		return domain.Project{}, wrapContentErr("update project", err)
	}
	return project, nil
}

func (s *contentService) DeleteProject(ctx context.Context, projectID string) error {
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return wrapContentErr("delete project", err)
	}
	return nil
}

func (s *contentService) ListProjects(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Project], error) {
	page, err := s.projects.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.Project]{}, wrapContentErr("list projects", err)
	}
	return page, nil
}

// CreatePricingPlan stores a pricing plan.
func (s *contentService) CreatePricingPlan(ctx context.Context, plan domain.PricingPlan) (domain.PricingPlan, error) {
	if strings.TrimSpace(plan.Name) == "" || plan.Price <= 0 {
		return domain.PricingPlan{}, fmt.Errorf("%w: plan name and positive price are required", ErrContentInvalidInput)
	}
	now := s.clock()
	plan.ID = s.newID("pln_")
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if err := s.plans.Insert(ctx, plan); err != nil {
		return domain.PricingPlan{}, wrapContentErr("create pricing plan", err)
	}
	return plan, nil
}

func (s *contentService) UpdatePricingPlan(ctx context.Context, plan domain.PricingPlan) (domain.PricingPlan, error) {
	existing, err := s.plans.FindByID(ctx, plan.ID)
	if err != nil {
		return domain.PricingPlan{}, wrapContentErr("find pricing plan", err)
	}
	if plan.Price <= 0 {
		return domain.PricingPlan{}, fmt.Errorf("%w: plan price must be positive", ErrContentInvalidInput)
	}
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = s.clock()
	if err := s.plans.Update(ctx, plan); err != nil {
		return domain.PricingPlan{}, wrapContentErr("update pricing plan", err)
	}
	return plan, nil
}

func (s *contentService) DeletePricingPlan(ctx context.Context, planID string) error {
	if err := s.plans.Delete(ctx, planID); err != nil {
		return wrapContentErr("delete pricing plan", err)
	}
	return nil
}

func (s *contentService) ListPricingPlans(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.PricingPlan], error) {
	page, err := s.plans.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.PricingPlan]{}, wrapContentErr("list pricing plans", err)
	}
	return page, nil
}

// slugify lowercases and hyphenates a title for URL use.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
