package domain

// MonthPoint is one month of a trailing trend series, labelled with the
// three-letter month abbreviation.
type MonthPoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue,omitempty"`
	Orders  int64   `json:"orders,omitempty"`
}

// CategoryShare is one bucket of the product/category distribution.
type CategoryShare struct {
	Category   string `json:"category"`
	Quantity   int64  `json:"quantity"`
	Percentage int    `json:"percentage"`
}

// PlanSummary reports a stored pricing plan for the dashboard.
type PlanSummary struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	FeatureCount int     `json:"featureCount"`
	Orders       int64   `json:"orders"`
}

// DashboardSnapshot is the point-in-time aggregation returned by the admin
// dashboard. It is recomputed on every call; partial results are never
// returned.
type DashboardSnapshot struct {
	TotalRevenue    float64         `json:"totalRevenue"`
	TotalOrders     int64           `json:"totalOrders"`
	PaidOrders      int64           `json:"paidOrders"`
	TotalUsers      int64           `json:"totalUsers"`
	ActiveProducts  int64           `json:"activeProducts"`
	ActiveServices  int64           `json:"activeServices"`
	MonthlyGrowth   string          `json:"monthlyGrowth"`
	RevenueTrend    []MonthPoint    `json:"revenueTrend"`
	OrderTrend      []MonthPoint    `json:"orderTrend"`
	Distribution    []CategoryShare `json:"distribution"`
	Plans           []PlanSummary   `json:"plans"`
}
