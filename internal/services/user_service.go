package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

var (
	// ErrUserInvalidInput signals the caller provided invalid data.
	ErrUserInvalidInput = errors.New("user: invalid input")
	// ErrUserNotFound indicates no profile exists for the given uid.
	ErrUserNotFound = errors.New("user: not found")
)

// supportedLocales is the set of site languages a profile may request.
// Unknown tags are matched to the closest supported one.
var supportedLocales = language.NewMatcher([]language.Tag{
	language.English,
	language.Japanese,
	language.Korean,
	language.SimplifiedChinese,
})

// UserServiceDeps bundles collaborators for the user service.
type UserServiceDeps struct {
	Users repositories.UserRepository
	Clock func() time.Time
}

type userService struct {
	users repositories.UserRepository
	clock func() time.Time
}

// NewUserService wires a UserService implementation.
func NewUserService(deps UserServiceDeps) (UserService, error) {
	if deps.Users == nil {
		return nil, errors.New("user service requires user repository")
	}
	svc := &userService{users: deps.Users, clock: deps.Clock}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

// normalizeLocale canonicalises a BCP 47 tag against the supported set.
// Blank and unparseable inputs normalise to empty, leaving the stored
// value untouched on upsert.
func normalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	matched, _, _ := supportedLocales.Match(tag)
	base, _ := matched.Base()
	return base.String()
}

// SyncProfile mirrors the authenticated identity into the users collection.
// Called on session creation so the admin user listing stays current.
func (s *userService) SyncProfile(ctx context.Context, actor Actor, name, photoURL, locale string) (domain.User, error) {
	if actor.UID == "" {
		return domain.User{}, fmt.Errorf("%w: actor uid is required", ErrUserInvalidInput)
	}
	role := "user"
	if actor.Admin {
		role = "admin"
	}
	user := domain.User{
		ID:       actor.UID,
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(actor.Email)),
		PhotoURL: strings.TrimSpace(photoURL),
		Locale:   normalizeLocale(locale),
		Role:     role,
	}
	if user.Name == "" {
		user.Name = user.Email
	}
	saved, err := s.users.Upsert(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("sync profile: %w", err)
	}
	return saved, nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (domain.User, error) {
	if uid == "" {
		return domain.User{}, fmt.Errorf("%w: uid is required", ErrUserInvalidInput)
	}
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.User{}, fmt.Errorf("%w: uid %s", ErrUserNotFound, uid)
		}
		return domain.User{}, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the caller-editable profile fields. Role and email
// are deliberately not updatable through this path.
func (s *userService) UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) (domain.User, error) {
	user, err := s.GetProfile(ctx, uid)
	if err != nil {
		return domain.User{}, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return domain.User{}, fmt.Errorf("%w: name cannot be blank", ErrUserInvalidInput)
		}
		user.Name = name
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.PhotoURL != nil {
		user.PhotoURL = strings.TrimSpace(*update.PhotoURL)
	}
	if update.Locale != nil {
		normalized := normalizeLocale(*update.Locale)
		if normalized == "" && strings.TrimSpace(*update.Locale) != "" {
			return domain.User{}, fmt.Errorf("%w: unrecognised locale %q", ErrUserInvalidInput, *update.Locale)
		}
		user.Locale = normalized
	}
	user.UpdatedAt = s.clock()
	saved, err := s.users.Upsert(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return saved, nil
}

func (s *userService) List(ctx context.Context, role string, skip, limit int64) (domain.Page[domain.User], error) {
	page, err := s.users.List(ctx, repositories.UserListFilter{
		Role:  strings.ToLower(strings.TrimSpace(role)),
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return page, nil
}

func (s *userService) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrUserInvalidInput)
	}
	if err := s.users.Delete(ctx, uid); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: uid %s", ErrUserNotFound, uid)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
