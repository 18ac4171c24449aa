package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

type stubDashboardRepo struct {
	revenue        float64
	orders         int64
	paidOrders     int64
	users          int64
	activeProducts int64
	activeServices int64
	monthly        []repositories.MonthlyAggregate
	itemCounts     map[string]int64
	planOrders     map[string]int64

	err error
}

func (s *stubDashboardRepo) CountOrders(context.Context, time.Time, time.Time) (int64, error) {
	return s.orders, s.err
}

func (s *stubDashboardRepo) CountPaidOrders(context.Context) (int64, error) {
	return s.paidOrders, s.err
}

func (s *stubDashboardRepo) CountUsers(context.Context, time.Time, time.Time) (int64, error) {
	return s.users, s.err
}

func (s *stubDashboardRepo) CountActiveProducts(context.Context) (int64, error) {
	return s.activeProducts, s.err
}

func (s *stubDashboardRepo) CountActiveServices(context.Context) (int64, error) {
	return s.activeServices, s.err
}

func (s *stubDashboardRepo) SumRevenue(context.Context, time.Time, time.Time) (float64, error) {
	return s.revenue, s.err
}

func (s *stubDashboardRepo) MonthlyAggregates(context.Context, time.Time) ([]repositories.MonthlyAggregate, error) {
	return s.monthly, s.err
}

func (s *stubDashboardRepo) ServiceNameCounts(context.Context) (map[string]int64, error) {
	return s.itemCounts, s.err
}

func (s *stubDashboardRepo) PlanOrderCounts(context.Context) (map[string]int64, error) {
	return s.planOrders, s.err
}

type stubPlanRepo struct {
	plans []domain.PricingPlan
	err   error
}

func newStubPlanRepo(plans ...domain.PricingPlan) *stubPlanRepo {
	return &stubPlanRepo{plans: plans}
}

func (s *stubPlanRepo) Insert(_ context.Context, plan domain.PricingPlan) error {
	s.plans = append(s.plans, plan)
	return nil
}

func (s *stubPlanRepo) Update(_ context.Context, plan domain.PricingPlan) error {
	for i := range s.plans {
		if s.plans[i].ID == plan.ID {
			s.plans[i] = plan
			return nil
		}
	}
	return repositories.NotFoundError("plans.update", "plan not found")
}

func (s *stubPlanRepo) Delete(_ context.Context, planID string) error {
	for i := range s.plans {
		if s.plans[i].ID == planID {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return nil
		}
	}
	return repositories.NotFoundError("plans.delete", "plan not found")
}

func (s *stubPlanRepo) FindByID(_ context.Context, planID string) (domain.PricingPlan, error) {
	for _, plan := range s.plans {
		if plan.ID == planID {
			return plan, nil
		}
	}
	return domain.PricingPlan{}, repositories.NotFoundError("plans.get", "plan not found")
}

func (s *stubPlanRepo) FindByName(_ context.Context, name string) (domain.PricingPlan, error) {
	for _, plan := range s.plans {
		if strings.EqualFold(plan.Name, name) {
			return plan, nil
		}
	}
	return domain.PricingPlan{}, repositories.NotFoundError("plans.findByName", "plan not found")
}
func (s *stubPlanRepo) List(context.Context, repositories.ListOptions) (domain.Page[domain.PricingPlan], error) {
	if s.err != nil {
		return domain.Page[domain.PricingPlan]{}, s.err
	}
	return domain.Page[domain.PricingPlan]{Items: s.plans, TotalCount: int64(len(s.plans))}, nil
}

func newTestDashboardService(t *testing.T, repo *stubDashboardRepo, plans *stubPlanRepo, now time.Time) DashboardService {
	t.Helper()
	svc, err := NewDashboardService(DashboardServiceDeps{
		Dashboard: repo,
		Plans:     plans,
		Clock:     fixedClock(now),
	})
	if err != nil {
		t.Fatalf("NewDashboardService: %v", err)
	}
	return svc
}

func TestComputeStatsAssemblesSnapshot(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubDashboardRepo{
		revenue:        15000,
		orders:         42,
		paidOrders:     30,
		users:          120,
		activeProducts: 7,
		activeServices: 4,
		monthly: []repositories.MonthlyAggregate{
			{Year: 2026, Month: time.July, Orders: 10, Revenue: 2000},
			{Year: 2026, Month: time.August, Orders: 12, Revenue: 3000},
			{Year: 2026, Month: time.September, Orders: 5, Revenue: 800},
		},
		itemCounts: map[string]int64{
			"ui/ux design":    4,
			"mobile app":      2,
			"landing website": 6,
		},
		planOrders: map[string]int64{"Starter": 11, "Growth": 3},
	}
	plans := &stubPlanRepo{plans: []domain.PricingPlan{
		{Name: "Starter", Price: 499, Features: []string{"a", "b"}},
		{Name: "Growth", Price: 999, Features: []string{"a", "b", "c"}},
	}}

	snapshot, err := newTestDashboardService(t, repo, plans, now).ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}

	if snapshot.TotalRevenue != 15000 || snapshot.TotalOrders != 42 || snapshot.PaidOrders != 30 {
		t.Errorf("unexpected totals %+v", snapshot)
	}
	if snapshot.TotalUsers != 120 || snapshot.ActiveProducts != 7 || snapshot.ActiveServices != 4 {
		t.Errorf("unexpected counts %+v", snapshot)
	}

	// August (3000) vs July (2000) = +50.0%.
	if snapshot.MonthlyGrowth != "+50.0%" {
		t.Errorf("growth = %q, want +50.0%%", snapshot.MonthlyGrowth)
	}

	if len(snapshot.RevenueTrend) != 6 || len(snapshot.OrderTrend) != 6 {
		t.Fatalf("trend lengths = %d/%d", len(snapshot.RevenueTrend), len(snapshot.OrderTrend))
	}
	if snapshot.RevenueTrend[0].Label != "Apr" || snapshot.RevenueTrend[5].Label != "Sep" {
		t.Errorf("trend labels = %q..%q", snapshot.RevenueTrend[0].Label, snapshot.RevenueTrend[5].Label)
	}
	if snapshot.RevenueTrend[4].Revenue != 3000 {
		t.Errorf("August revenue = %v", snapshot.RevenueTrend[4].Revenue)
	}
	if snapshot.OrderTrend[5].Orders != 5 {
		t.Errorf("September orders = %v", snapshot.OrderTrend[5].Orders)
	}
	// Months with no data stay zero.
	if snapshot.RevenueTrend[0].Revenue != 0 {
		t.Errorf("April revenue = %v, want 0", snapshot.RevenueTrend[0].Revenue)
	}

	wantShares := map[string]int{"UI/UX": 33, "Web Dev": 50, "App Dev": 17}
	for _, share := range snapshot.Distribution {
		if share.Percentage != wantShares[share.Category] {
			t.Errorf("%s = %d%%, want %d%%", share.Category, share.Percentage, wantShares[share.Category])
		}
	}

	if len(snapshot.Plans) != 2 || snapshot.Plans[1].FeatureCount != 3 {
		t.Errorf("unexpected plans %+v", snapshot.Plans)
	}
	if snapshot.Plans[0].Orders != 11 || snapshot.Plans[1].Orders != 3 {
		t.Errorf("unexpected plan order counts %+v", snapshot.Plans)
	}
}

func TestComputeStatsGrowthZeroBaseline(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubDashboardRepo{
		monthly: []repositories.MonthlyAggregate{
			{Year: 2026, Month: time.August, Orders: 3, Revenue: 1200},
		},
	}

	snapshot, err := newTestDashboardService(t, repo, &stubPlanRepo{}, now).ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if snapshot.MonthlyGrowth != "0%" {
		t.Errorf("growth = %q, want 0%%", snapshot.MonthlyGrowth)
	}
}

func TestComputeStatsNegativeGrowth(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubDashboardRepo{
		monthly: []repositories.MonthlyAggregate{
			{Year: 2026, Month: time.July, Orders: 10, Revenue: 4000},
			{Year: 2026, Month: time.August, Orders: 4, Revenue: 3000},
		},
	}

	snapshot, err := newTestDashboardService(t, repo, &stubPlanRepo{}, now).ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if snapshot.MonthlyGrowth != "-25.0%" {
		t.Errorf("growth = %q, want -25.0%%", snapshot.MonthlyGrowth)
	}
}

func TestComputeStatsDistributionFallback(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubDashboardRepo{itemCounts: map[string]int64{}}

	snapshot, err := newTestDashboardService(t, repo, &stubPlanRepo{}, now).ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}

	want := map[string]int{"UI/UX": 35, "Web Dev": 40, "App Dev": 25}
	if len(snapshot.Distribution) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(snapshot.Distribution))
	}
	for _, share := range snapshot.Distribution {
		if share.Percentage != want[share.Category] {
			t.Errorf("%s = %d%%, want %d%%", share.Category, share.Percentage, want[share.Category])
		}
	}
}

func TestComputeStatsFailsAtomically(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubDashboardRepo{err: errors.New("primary unreachable")}

	if _, err := newTestDashboardService(t, repo, &stubPlanRepo{}, now).ComputeStats(context.Background()); !errors.Is(err, ErrDashboardUnavailable) {
		t.Errorf("expected ErrDashboardUnavailable, got %v", err)
	}
}

func TestComputeStatsPlanRepoFailureAborts(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	plans := &stubPlanRepo{err: errors.New("plans unavailable")}

	if _, err := newTestDashboardService(t, &stubDashboardRepo{}, plans, now).ComputeStats(context.Background()); !errors.Is(err, ErrDashboardUnavailable) {
		t.Errorf("expected ErrDashboardUnavailable, got %v", err)
	}
}
