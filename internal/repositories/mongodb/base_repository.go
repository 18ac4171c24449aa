// Package mongodb contains the MongoDB-backed repository implementations.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/brightfold/api/internal/domain"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
)

const defaultQueryTimeout = 5 * time.Second

// baseRepository factors the CRUD plumbing shared by the simple document
// collections (content, catalog, plans). Documents carry their own string _id.
type baseRepository[T any] struct {
	provider   *pmongo.Provider
	collection string
	timeout    time.Duration
}

func newBaseRepository[T any](provider *pmongo.Provider, collection string, timeout time.Duration) (*baseRepository[T], error) {
	if provider == nil {
		return nil, fmt.Errorf("%s repository requires mongodb provider", collection)
	}
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &baseRepository[T]{provider: provider, collection: collection, timeout: timeout}, nil
}

func (r *baseRepository[T]) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *baseRepository[T]) insert(ctx context.Context, doc T) error {
	coll, err := r.provider.Collection(ctx, r.collection)
	if err != nil {
		return wrapError(r.collection+".insert", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return wrapError(r.collection+".insert", "insert document", err)
	}
	return nil
}

func (r *baseRepository[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	if strings.TrimSpace(id) == "" {
		return zero, errors.New(r.collection + ": document id is required")
	}

	coll, err := r.provider.Collection(ctx, r.collection)
	if err != nil {
		return zero, wrapError(r.collection+".get", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var doc T
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return zero, wrapError(r.collection+".get", "find document", err)
	}
	return doc, nil
}

func (r *baseRepository[T]) replace(ctx context.Context, id string, doc T) error {
	if strings.TrimSpace(id) == "" {
		return errors.New(r.collection + ": document id is required")
	}

	coll, err := r.provider.Collection(ctx, r.collection)
	if err != nil {
		return wrapError(r.collection+".replace", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return wrapError(r.collection+".replace", "replace document", err)
	}
	if result.MatchedCount == 0 {
		return repositoryNotFound(r.collection+".replace", id)
	}
	return nil
}

func (r *baseRepository[T]) delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New(r.collection + ": document id is required")
	}

	coll, err := r.provider.Collection(ctx, r.collection)
	if err != nil {
		return wrapError(r.collection+".delete", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapError(r.collection+".delete", "delete document", err)
	}
	if result.DeletedCount == 0 {
		return repositoryNotFound(r.collection+".delete", id)
	}
	return nil
}

// list runs a filtered, sorted, offset-paginated query and counts the total
// matching documents for the page envelope.
func (r *baseRepository[T]) list(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) (domain.Page[T], error) {
	if filter == nil {
		filter = bson.M{}
	}
	if limit <= 0 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}

	coll, err := r.provider.Collection(ctx, r.collection)
	if err != nil {
		return domain.Page[T]{}, wrapError(r.collection+".list", "resolve collection", err)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return domain.Page[T]{}, wrapError(r.collection+".list", "count documents", err)
	}

	findOpts := options.Find().SetSkip(skip).SetLimit(limit)
	if len(sort) > 0 {
		findOpts.SetSort(sort)
	}

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return domain.Page[T]{}, wrapError(r.collection+".list", "find documents", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	items := make([]T, 0, limit)
	if err := cursor.All(ctx, &items); err != nil {
		return domain.Page[T]{}, wrapError(r.collection+".list", "decode documents", err)
	}

	return domain.Page[T]{Items: items, TotalCount: total, Skip: skip, Limit: limit}, nil
}
