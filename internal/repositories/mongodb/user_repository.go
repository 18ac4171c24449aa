package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/brightfold/api/internal/domain"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

const userCollection = "users"

// UserRepository stores user profiles keyed by Firebase UID.
type UserRepository struct {
	base *baseRepository[domain.User]
}

// NewUserRepository constructs a MongoDB-backed user repository.
func NewUserRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*UserRepository, error) {
	base, err := newBaseRepository[domain.User](provider, userCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &UserRepository{base: base}, nil
}

// Upsert writes the profile, creating it on first sign-in. CreatedAt is
// preserved for existing documents.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	if r == nil || r.base == nil {
		return domain.User{}, errors.New("user repository not initialised")
	}
	if strings.TrimSpace(user.ID) == "" {
		return domain.User{}, errors.New("user uid is required")
	}

	coll, err := r.base.provider.Collection(ctx, userCollection)
	if err != nil {
		return domain.User{}, wrapError("users.upsert", "resolve collection", err)
	}

	ctx, cancel := r.base.queryContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"updatedAt": now,
	}
	if user.Phone != "" {
		set["phone"] = user.Phone
	}
	if user.PhotoURL != "" {
		set["photoUrl"] = user.PhotoURL
	}
	if user.Locale != "" {
		set["locale"] = user.Locale
	}
	if user.Role != "" {
		set["role"] = user.Role
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved domain.User
	if err := coll.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, opts).Decode(&saved); err != nil {
		return domain.User{}, wrapError("users.upsert", "upsert user", err)
	}
	if saved.Role == "" {
		saved.Role = "user"
	}
	return saved, nil
}

// FindByUID loads a profile by Firebase UID.
func (r *UserRepository) FindByUID(ctx context.Context, uid string) (domain.User, error) {
	if r == nil || r.base == nil {
		return domain.User{}, errors.New("user repository not initialised")
	}
	return r.base.get(ctx, uid)
}

// List returns a page of users, newest first, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, filter repositories.UserListFilter) (domain.Page[domain.User], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.User]{}, errors.New("user repository not initialised")
	}
	query := bson.M{}
	if role := strings.TrimSpace(filter.Role); role != "" {
		query["role"] = role
	}
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.base.list(ctx, query, sort, filter.Skip, filter.Limit)
}

// Delete removes a profile.
func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	if r == nil || r.base == nil {
		return errors.New("user repository not initialised")
	}
	return r.base.delete(ctx, uid)
}
