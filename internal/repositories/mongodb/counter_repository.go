package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

const counterCollection = "counters"

// counterDocument holds a named sequence value.
type counterDocument struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// CounterRepository allocates sequence numbers with a single atomic
// find-and-increment, so concurrent order creation never hands out the same
// number twice.
type CounterRepository struct {
	provider *pmongo.Provider
	timeout  time.Duration
}

// NewCounterRepository constructs a MongoDB-backed counter repository.
func NewCounterRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*CounterRepository, error) {
	if provider == nil {
		return nil, errors.New("counter repository requires mongodb provider")
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &CounterRepository{provider: provider, timeout: queryTimeout}, nil
}

// Next atomically increments the named counter and returns the new value.
// Missing counters are seeded from cfg.Start via upsert.
func (r *CounterRepository) Next(ctx context.Context, counterID string, cfg repositories.CounterConfig) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("counter repository not initialised")
	}
	counterID = strings.TrimSpace(counterID)
	if counterID == "" {
		return 0, repositories.NewCounterError(repositories.CounterErrorInvalidInput, "counter id is required", nil)
	}

	step := cfg.Step
	if step <= 0 {
		step = 1
	}
	start := cfg.Start
	if start < 0 {
		return 0, repositories.NewCounterError(repositories.CounterErrorInvalidInput, "counter start must not be negative", nil)
	}

	coll, err := r.provider.Collection(ctx, counterCollection)
	if err != nil {
		return 0, wrapError("counters.next", "resolve collection", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// $inc on an upserted document seeds the value at start+step for the
	// first allocation and increments atomically afterwards.
	update := bson.M{
		"$inc":         bson.M{"value": step},
		"$setOnInsert": bson.M{"seededAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDocument
	if err := coll.FindOneAndUpdate(ctx, bson.M{"_id": counterID}, update, opts).Decode(&doc); err != nil {
		return 0, wrapError("counters.next", "increment counter", err)
	}

	value := doc.Value + start
	if cfg.Max > 0 && value > cfg.Max {
		return 0, repositories.NewCounterError(
			repositories.CounterErrorExhausted,
			fmt.Sprintf("counter %s exceeded maximum %d", counterID, cfg.Max),
			nil,
		)
	}
	return value, nil
}
