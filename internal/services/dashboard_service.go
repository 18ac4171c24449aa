package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

// ErrDashboardUnavailable indicates the snapshot could not be computed.
// Partial results are never returned.
var ErrDashboardUnavailable = errors.New("dashboard: aggregation failed")

const trendMonths = 6

// Distribution bucket names and their fallback shares when no line item
// classifies.
const (
	bucketUIUX   = "UI/UX"
	bucketWebDev = "Web Dev"
	bucketAppDev = "App Dev"
)

var fallbackShares = map[string]int{
	bucketUIUX:   35,
	bucketWebDev: 40,
	bucketAppDev: 25,
}

var bucketOrder = []string{bucketUIUX, bucketWebDev, bucketAppDev}

// DashboardServiceDeps bundles collaborators for the dashboard service.
type DashboardServiceDeps struct {
	Dashboard repositories.DashboardRepository
	Plans     repositories.PricingPlanRepository
	Clock     func() time.Time
}

type dashboardService struct {
	dashboard repositories.DashboardRepository
	plans     repositories.PricingPlanRepository
	clock     func() time.Time
}

// NewDashboardService wires a DashboardService implementation.
func NewDashboardService(deps DashboardServiceDeps) (DashboardService, error) {
	if deps.Dashboard == nil {
		return nil, errors.New("dashboard service requires dashboard repository")
	}
	if deps.Plans == nil {
		return nil, errors.New("dashboard service requires pricing plan repository")
	}
	svc := &dashboardService{
		dashboard: deps.Dashboard,
		plans:     deps.Plans,
		clock:     deps.Clock,
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

// ComputeStats assembles the point-in-time snapshot. All independent reads are
// issued concurrently and joined; any failure aborts the whole computation.
func (s *dashboardService) ComputeStats(ctx context.Context) (domain.DashboardSnapshot, error) {
	now := s.clock().UTC()
	windowStart := monthStart(now).AddDate(0, -(trendMonths - 1), 0)

	var (
		totalRevenue   float64
		totalOrders    int64
		paidOrders     int64
		totalUsers     int64
		activeProducts int64
		activeServices int64
		monthly        []repositories.MonthlyAggregate
		itemCounts     map[string]int64
		planOrders     map[string]int64
		plans          domain.Page[domain.PricingPlan]
	)

	var wg sync.WaitGroup
	errs := make([]error, 10)

	run := func(slot int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[slot] = fn()
		}()
	}

	run(0, func() (err error) {
		totalRevenue, err = s.dashboard.SumRevenue(ctx, time.Time{}, time.Time{})
		return err
	})
	run(1, func() (err error) {
		totalOrders, err = s.dashboard.CountOrders(ctx, time.Time{}, time.Time{})
		return err
	})
	run(2, func() (err error) {
		paidOrders, err = s.dashboard.CountPaidOrders(ctx)
		return err
	})
	run(3, func() (err error) {
		totalUsers, err = s.dashboard.CountUsers(ctx, time.Time{}, time.Time{})
		return err
	})
	run(4, func() (err error) {
		activeProducts, err = s.dashboard.CountActiveProducts(ctx)
		return err
	})
	run(5, func() (err error) {
		activeServices, err = s.dashboard.CountActiveServices(ctx)
		return err
	})
	run(6, func() (err error) {
		monthly, err = s.dashboard.MonthlyAggregates(ctx, windowStart)
		return err
	})
	run(7, func() (err error) {
		itemCounts, err = s.dashboard.ServiceNameCounts(ctx)
		return err
	})
	run(8, func() (err error) {
		plans, err = s.plans.List(ctx, repositories.ListOptions{Limit: 100})
		return err
	})
	run(9, func() (err error) {
		planOrders, err = s.dashboard.PlanOrderCounts(ctx)
		return err
	})

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return domain.DashboardSnapshot{}, fmt.Errorf("%w: %v", ErrDashboardUnavailable, err)
		}
	}

	revenueTrend, orderTrend := buildTrends(now, monthly)

	snapshot := domain.DashboardSnapshot{
		TotalRevenue:   totalRevenue,
		TotalOrders:    totalOrders,
		PaidOrders:     paidOrders,
		TotalUsers:     totalUsers,
		ActiveProducts: activeProducts,
		ActiveServices: activeServices,
		MonthlyGrowth:  growthLabel(now, monthly),
		RevenueTrend:   revenueTrend,
		OrderTrend:     orderTrend,
		Distribution:   classifyDistribution(itemCounts),
		Plans:          planSummaries(plans.Items, planOrders),
	}
	return snapshot, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthLabel(m time.Month) string {
	return m.String()[:3]
}

// growthLabel compares paid revenue of the previous calendar month with the
// month before it. Zero baseline reports "0%" rather than infinity.
func growthLabel(now time.Time, monthly []repositories.MonthlyAggregate) string {
	lookup := make(map[[2]int]float64, len(monthly))
	for _, agg := range monthly {
		lookup[[2]int{agg.Year, int(agg.Month)}] = agg.Revenue
	}

	last := monthStart(now).AddDate(0, -1, 0)
	prev := monthStart(now).AddDate(0, -2, 0)
	lastRevenue := lookup[[2]int{last.Year(), int(last.Month())}]
	prevRevenue := lookup[[2]int{prev.Year(), int(prev.Month())}]

	if prevRevenue == 0 {
		return "0%"
	}
	growth := (lastRevenue - prevRevenue) / prevRevenue * 100
	return fmt.Sprintf("%+.1f%%", growth)
}

// buildTrends lays the trailing six months oldest to newest, filling months
// with no orders with zeroes.
func buildTrends(now time.Time, monthly []repositories.MonthlyAggregate) ([]domain.MonthPoint, []domain.MonthPoint) {
	lookup := make(map[[2]int]repositories.MonthlyAggregate, len(monthly))
	for _, agg := range monthly {
		lookup[[2]int{agg.Year, int(agg.Month)}] = agg
	}

	revenue := make([]domain.MonthPoint, 0, trendMonths)
	orders := make([]domain.MonthPoint, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		month := monthStart(now).AddDate(0, -i, 0)
		agg := lookup[[2]int{month.Year(), int(month.Month())}]
		label := monthLabel(month.Month())
		revenue = append(revenue, domain.MonthPoint{Label: label, Revenue: agg.Revenue})
		orders = append(orders, domain.MonthPoint{Label: label, Orders: agg.Orders})
	}
	return revenue, orders
}

// classifyBucket maps a line item name onto a distribution bucket.
func classifyBucket(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "ui") || strings.Contains(name, "ux") || strings.Contains(name, "design"):
		return bucketUIUX
	case strings.Contains(name, "app") || strings.Contains(name, "mobile"):
		return bucketAppDev
	default:
		return bucketWebDev
	}
}

func classifyDistribution(itemCounts map[string]int64) []domain.CategoryShare {
	totals := make(map[string]int64, len(bucketOrder))
	var classified int64
	for name, count := range itemCounts {
		bucket := classifyBucket(name)
		totals[bucket] += count
		classified += count
	}

	shares := make([]domain.CategoryShare, 0, len(bucketOrder))
	for _, bucket := range bucketOrder {
		share := domain.CategoryShare{Category: bucket, Quantity: totals[bucket]}
		if classified == 0 {
			share.Percentage = fallbackShares[bucket]
		} else {
			share.Percentage = int(math.Round(float64(totals[bucket]) / float64(classified) * 100))
		}
		shares = append(shares, share)
	}
	return shares
}

func planSummaries(plans []domain.PricingPlan, orders map[string]int64) []domain.PlanSummary {
	summaries := make([]domain.PlanSummary, 0, len(plans))
	for _, plan := range plans {
		summaries = append(summaries, domain.PlanSummary{
			Name:         plan.Name,
			Price:        plan.Price,
			FeatureCount: len(plan.Features),
			Orders:       orders[plan.Name],
		})
	}
	return summaries
}
