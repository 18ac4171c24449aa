package mongodb

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/brightfold/api/internal/domain"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

const orderCollection = "orders"

// OrderRepository persists orders in MongoDB.
type OrderRepository struct {
	base *baseRepository[domain.Order]
}

// NewOrderRepository constructs a MongoDB-backed order repository.
func NewOrderRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*OrderRepository, error) {
	base, err := newBaseRepository[domain.Order](provider, orderCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &OrderRepository{base: base}, nil
}

// Insert stores a new order document.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if r == nil || r.base == nil {
		return errors.New("order repository not initialised")
	}
	if strings.TrimSpace(order.ID) == "" {
		return errors.New("order id is required")
	}
	return r.base.insert(ctx, order)
}

// Update replaces the stored order document.
func (r *OrderRepository) Update(ctx context.Context, order domain.Order) error {
	if r == nil || r.base == nil {
		return errors.New("order repository not initialised")
	}
	return r.base.replace(ctx, order.ID, order)
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	if r == nil || r.base == nil {
		return errors.New("order repository not initialised")
	}
	return r.base.delete(ctx, orderID)
}

// FindByID loads an order by document id.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	if r == nil || r.base == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	return r.base.get(ctx, orderID)
}

// FindByNumber loads an order by its human-facing order number.
func (r *OrderRepository) FindByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	if r == nil || r.base == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return domain.Order{}, errors.New("order number is required")
	}

	coll, err := r.base.provider.Collection(ctx, orderCollection)
	if err != nil {
		return domain.Order{}, wrapError("orders.findByNumber", "resolve collection", err)
	}

	ctx, cancel := r.base.queryContext(ctx)
	defer cancel()

	var order domain.Order
	if err := coll.FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order); err != nil {
		return domain.Order{}, wrapError("orders.findByNumber", "find order", err)
	}
	return order, nil
}

// List returns a filtered page of orders, newest first.
func (r *OrderRepository) List(ctx context.Context, filter repositories.OrderListFilter) (domain.Page[domain.Order], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Order]{}, errors.New("order repository not initialised")
	}

	query := bson.M{}
	if filter.Status != nil {
		query["orderStatus"] = *filter.Status
	}
	if filter.PaymentStatus != nil {
		query["payment.status"] = *filter.PaymentStatus
	}
	if filter.Cancelled != nil {
		query["cancellation.isCancelled"] = *filter.Cancelled
	}
	if email := strings.TrimSpace(filter.CustomerEmail); email != "" {
		query["customer.email"] = strings.ToLower(email)
	}
	if userID := strings.TrimSpace(filter.CustomerUserID); userID != "" {
		query["customer.userId"] = userID
	}
	if !filter.CreatedFrom.IsZero() || !filter.CreatedTo.IsZero() {
		window := bson.M{}
		if !filter.CreatedFrom.IsZero() {
			window["$gte"] = filter.CreatedFrom.UTC()
		}
		if !filter.CreatedTo.IsZero() {
			window["$lt"] = filter.CreatedTo.UTC()
		}
		query["createdAt"] = window
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexEscape(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"orderNumber": pattern},
			bson.M{"customer.name": pattern},
			bson.M{"customer.email": pattern},
		}
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.base.list(ctx, query, sort, filter.Skip, filter.Limit)
}

// StreamByEmail yields the customer's orders newest-first directly off the
// cursor. Iteration stops at the first error; the sequence is single-use.
func (r *OrderRepository) StreamByEmail(ctx context.Context, email string) iter.Seq2[domain.Order, error] {
	return func(yield func(domain.Order, error) bool) {
		if r == nil || r.base == nil {
			yield(domain.Order{}, errors.New("order repository not initialised"))
			return
		}
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized == "" {
			yield(domain.Order{}, errors.New("customer email is required"))
			return
		}

		coll, err := r.base.provider.Collection(ctx, orderCollection)
		if err != nil {
			yield(domain.Order{}, wrapError("orders.streamByEmail", "resolve collection", err))
			return
		}

		findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := coll.Find(ctx, bson.M{"customer.email": normalized}, findOpts)
		if err != nil {
			yield(domain.Order{}, wrapError("orders.streamByEmail", "find orders", err))
			return
		}
		defer func() {
			_ = cursor.Close(ctx)
		}()

		for cursor.Next(ctx) {
			var order domain.Order
			if err := cursor.Decode(&order); err != nil {
				yield(domain.Order{}, wrapError("orders.streamByEmail", "decode order", err))
				return
			}
			if !yield(order, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(domain.Order{}, wrapError("orders.streamByEmail", "iterate orders", err))
		}
	}
}

// Stats aggregates order counts per status and the settled revenue total.
func (r *OrderRepository) Stats(ctx context.Context) (domain.OrderStats, error) {
	if r == nil || r.base == nil {
		return domain.OrderStats{}, errors.New("order repository not initialised")
	}

	coll, err := r.base.provider.Collection(ctx, orderCollection)
	if err != nil {
		return domain.OrderStats{}, wrapError("orders.stats", "resolve collection", err)
	}

	ctx, cancel := r.base.queryContext(ctx)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$orderStatus",
			"count": bson.M{"$sum": 1},
			"paidRevenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$payment.status", domain.PaymentStatusPaid}},
				"$pricing.grandTotal",
				0,
			}}},
		}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.OrderStats{}, wrapError("orders.stats", "aggregate orders", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	stats := domain.OrderStats{ByStatus: make(map[domain.OrderStatus]int64)}
	for cursor.Next(ctx) {
		var row struct {
			Status      domain.OrderStatus `bson:"_id"`
			Count       int64              `bson:"count"`
			PaidRevenue float64            `bson:"paidRevenue"`
		}
		if err := cursor.Decode(&row); err != nil {
			return domain.OrderStats{}, wrapError("orders.stats", "decode aggregate row", err)
		}
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		stats.PaidRevenue += row.PaidRevenue
	}
	if err := cursor.Err(); err != nil {
		return domain.OrderStats{}, wrapError("orders.stats", "iterate aggregate", err)
	}
	return stats, nil
}

// TransactionExists reports whether any order already references the payment
// transaction id.
func (r *OrderRepository) TransactionExists(ctx context.Context, transactionID string) (bool, error) {
	if r == nil || r.base == nil {
		return false, errors.New("order repository not initialised")
	}
	if strings.TrimSpace(transactionID) == "" {
		return false, nil
	}

	coll, err := r.base.provider.Collection(ctx, orderCollection)
	if err != nil {
		return false, wrapError("orders.transactionExists", "resolve collection", err)
	}

	ctx, cancel := r.base.queryContext(ctx)
	defer cancel()

	count, err := coll.CountDocuments(ctx, bson.M{"payment.transactionId": transactionID}, options.Count().SetLimit(1))
	if err != nil {
		return false, wrapError("orders.transactionExists", "count transactions", err)
	}
	return count > 0, nil
}

// regexEscape neutralises regex metacharacters in user-provided search text.
func regexEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
