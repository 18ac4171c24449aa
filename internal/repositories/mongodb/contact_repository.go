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

const contactCollection = "contacts"

// ContactRepository stores inbound contact form submissions.
type ContactRepository struct {
	base *baseRepository[domain.Contact]
}

// NewContactRepository constructs a MongoDB-backed contact repository.
func NewContactRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*ContactRepository, error) {
	base, err := newBaseRepository[domain.Contact](provider, contactCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &ContactRepository{base: base}, nil
}

func (r *ContactRepository) Insert(ctx context.Context, contact domain.Contact) error {
	if r == nil || r.base == nil {
		return errors.New("contact repository not initialised")
	}
	return r.base.insert(ctx, contact)
}

func (r *ContactRepository) FindByID(ctx context.Context, contactID string) (domain.Contact, error) {
	if r == nil || r.base == nil {
		return domain.Contact{}, errors.New("contact repository not initialised")
	}
	return r.base.get(ctx, contactID)
}

// MarkRead flags a submission as handled.
func (r *ContactRepository) MarkRead(ctx context.Context, contactID string, readAt time.Time) error {
	if r == nil || r.base == nil {
		return errors.New("contact repository not initialised")
	}

	coll, err := r.base.provider.Collection(ctx, contactCollection)
	if err != nil {
		return wrapError("contacts.markRead", "resolve collection", err)
	}

	ctx, cancel := r.base.queryContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"read": true, "updatedAt": readAt.UTC()}}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": contactID}, update)
	if err != nil {
		return wrapError("contacts.markRead", "update contact", err)
	}
	if result.MatchedCount == 0 {
		return repositoryNotFound("contacts.markRead", contactID)
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, contactID string) error {
	if r == nil || r.base == nil {
		return errors.New("contact repository not initialised")
	}
	return r.base.delete(ctx, contactID)
}

func (r *ContactRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Contact], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Contact]{}, errors.New("contact repository not initialised")
	}
	return r.base.list(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, opts.Skip, opts.Limit)
}
