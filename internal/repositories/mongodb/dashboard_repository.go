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

// DashboardRepository answers the aggregate queries behind the admin dashboard.
type DashboardRepository struct {
	provider *pmongo.Provider
	timeout  time.Duration
}

// NewDashboardRepository constructs a MongoDB-backed dashboard repository.
func NewDashboardRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*DashboardRepository, error) {
	if provider == nil {
		return nil, errors.New("dashboard repository requires mongodb provider")
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &DashboardRepository{provider: provider, timeout: queryTimeout}, nil
}

func (r *DashboardRepository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// rangeFilter builds a createdAt window. Zero bounds are open.
func rangeFilter(from, to time.Time) bson.M {
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from.UTC()
	}
	if !to.IsZero() {
		window["$lt"] = to.UTC()
	}
	if len(window) == 0 {
		return bson.M{}
	}
	return bson.M{"createdAt": window}
}

func (r *DashboardRepository) count(ctx context.Context, collection string, from, to time.Time) (int64, error) {
	coll, err := r.provider.Collection(ctx, collection)
	if err != nil {
		return 0, wrapError("dashboard.count", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	count, err := coll.CountDocuments(ctx, rangeFilter(from, to))
	if err != nil {
		return 0, wrapError("dashboard.count", "count "+collection, err)
	}
	return count, nil
}

// CountOrders counts orders created within the window.
func (r *DashboardRepository) CountOrders(ctx context.Context, from, to time.Time) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("dashboard repository not initialised")
	}
	return r.count(ctx, orderCollection, from, to)
}

// CountUsers counts accounts created within the window.
func (r *DashboardRepository) CountUsers(ctx context.Context, from, to time.Time) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("dashboard repository not initialised")
	}
	return r.count(ctx, userCollection, from, to)
}

// CountPaidOrders counts orders whose payment is settled.
func (r *DashboardRepository) CountPaidOrders(ctx context.Context) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("dashboard repository not initialised")
	}
	return r.countWhere(ctx, orderCollection, bson.M{"payment.status": domain.PaymentStatusPaid})
}

// CountActiveProducts counts products flagged active.
func (r *DashboardRepository) CountActiveProducts(ctx context.Context) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("dashboard repository not initialised")
	}
	return r.countWhere(ctx, productCollection, bson.M{"active": true})
}

// CountActiveServices counts service offerings flagged active.
func (r *DashboardRepository) CountActiveServices(ctx context.Context) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("dashboard repository not initialised")
	}
	return r.countWhere(ctx, offeringCollection, bson.M{"active": true})
}

func (r *DashboardRepository) countWhere(ctx context.Context, collection string, filter bson.M) (int64, error) {
	coll, err := r.provider.Collection(ctx, collection)
	if err != nil {
		return 0, wrapError("dashboard.count", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrapError("dashboard.count", "count "+collection, err)
	}
	return count, nil
}

// SumRevenue totals the grand total of settled orders within the window.
func (r *DashboardRepository) SumRevenue(ctx context.Context, from, to time.Time) (float64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("dashboard repository not initialised")
	}

	coll, err := r.provider.Collection(ctx, orderCollection)
	if err != nil {
		return 0, wrapError("dashboard.sumRevenue", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	match := rangeFilter(from, to)
	match["payment.status"] = domain.PaymentStatusPaid

	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$pricing.grandTotal"},
		}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, wrapError("dashboard.sumRevenue", "aggregate revenue", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var row struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return 0, wrapError("dashboard.sumRevenue", "decode revenue", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, wrapError("dashboard.sumRevenue", "iterate revenue", err)
	}
	return row.Total, nil
}

// MonthlyAggregates groups orders created since the given time by calendar
// month, counting volume and summing settled revenue.
func (r *DashboardRepository) MonthlyAggregates(ctx context.Context, since time.Time) ([]repositories.MonthlyAggregate, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("dashboard repository not initialised")
	}

	coll, err := r.provider.Collection(ctx, orderCollection)
	if err != nil {
		return nil, wrapError("dashboard.monthly", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": since.UTC()}}},
		bson.M{"$group": bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"orders": bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$payment.status", domain.PaymentStatusPaid}},
				"$pricing.grandTotal",
				0,
			}}},
		}},
		bson.M{"$sort": bson.M{"_id.year": 1, "_id.month": 1}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError("dashboard.monthly", "aggregate months", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var aggregates []repositories.MonthlyAggregate
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Orders  int64   `bson:"orders"`
			Revenue float64 `bson:"revenue"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, wrapError("dashboard.monthly", "decode month row", err)
		}
		aggregates = append(aggregates, repositories.MonthlyAggregate{
			Year:    row.ID.Year,
			Month:   time.Month(row.ID.Month),
			Orders:  row.Orders,
			Revenue: row.Revenue,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapError("dashboard.monthly", "iterate months", err)
	}
	return aggregates, nil
}

// ServiceNameCounts sums line item quantities by lowercased name across paid
// orders.
func (r *DashboardRepository) ServiceNameCounts(ctx context.Context) (map[string]int64, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("dashboard repository not initialised")
	}

	coll, err := r.provider.Collection(ctx, orderCollection)
	if err != nil {
		return nil, wrapError("dashboard.serviceNames", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$match": bson.M{"payment.status": domain.PaymentStatusPaid}},
		bson.M{"$unwind": "$items"},
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$toLower": "$items.name"},
			"count": bson.M{"$sum": "$items.quantity"},
		}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError("dashboard.serviceNames", "aggregate item names", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Name  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, wrapError("dashboard.serviceNames", "decode item row", err)
		}
		counts[row.Name] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapError("dashboard.serviceNames", "iterate item names", err)
	}
	return counts, nil
}

// PlanOrderCounts tallies orders per pricing plan, matching plan names against
// ordered line items.
func (r *DashboardRepository) PlanOrderCounts(ctx context.Context) (map[string]int64, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("dashboard repository not initialised")
	}

	coll, err := r.provider.Collection(ctx, orderCollection)
	if err != nil {
		return nil, wrapError("dashboard.planOrders", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$unwind": "$items"},
		bson.M{"$match": bson.M{"items.serviceId": bson.M{"$ne": ""}}},
		bson.M{"$group": bson.M{
			"_id":   "$items.name",
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError("dashboard.planOrders", "aggregate plan orders", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Name  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, wrapError("dashboard.planOrders", "decode plan row", err)
		}
		counts[row.Name] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapError("dashboard.planOrders", "iterate plan orders", err)
	}
	return counts, nil
}
