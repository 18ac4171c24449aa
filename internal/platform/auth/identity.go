package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// Role constants used throughout the API when checking authorisation boundaries.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrUserLoaderUnavailable indicates that the identity was created without a user loader.
var ErrUserLoaderUnavailable = errors.New("auth: user loader not configured")

// Identity captures the authenticated principal. It is populated from a
// Firebase ID token, a session cookie, or the shared admin secret.
type Identity struct {
	UID    string
	Email  string
	Roles  []string
	Locale string

	// Source records which credential produced this identity:
	// "firebase", "session", or "admin-secret".
	Source string

	token *firebaseauth.Token

	userLoader UserLoader
	once       sync.Once
	userRecord *firebaseauth.UserRecord
	userErr    error
}

// Token exposes the decoded Firebase ID token when the identity came from one.
func (i *Identity) Token() *firebaseauth.Token {
	if i == nil {
		return nil
	}
	return i.token
}

// HasRole reports whether the identity includes the requested role (case-insensitive).
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries administrative privilege.
func (i *Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

// User resolves the Firebase user profile using the injected loader on first access.
func (i *Identity) User(ctx context.Context) (*firebaseauth.UserRecord, error) {
	if i == nil {
		return nil, ErrUserLoaderUnavailable
	}
	if i.userLoader == nil {
		return nil, ErrUserLoaderUnavailable
	}

	i.once.Do(func() {
		i.userRecord, i.userErr = i.userLoader(ctx, i.UID)
	})

	return i.userRecord, i.userErr
}

type contextKey string

const identityContextKey contextKey = "github.com/brightfold/api/internal/platform/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// UserLoader fetches the Firebase user profile corresponding to a UID.
type UserLoader func(ctx context.Context, uid string) (*firebaseauth.UserRecord, error)

// IdentityFromToken builds an Identity from a verified Firebase ID token,
// lifting the email, locale and role claims.
func IdentityFromToken(token *firebaseauth.Token) *Identity {
	identity := &Identity{
		UID:    token.UID,
		Roles:  []string{RoleUser},
		Source: "firebase",
		token:  token,
	}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if locale, ok := token.Claims["locale"].(string); ok {
		identity.Locale = locale
	}
	if role, ok := token.Claims["role"].(string); ok && strings.EqualFold(role, RoleAdmin) {
		identity.Roles = append(identity.Roles, RoleAdmin)
	}
	if admin, ok := token.Claims["admin"].(bool); ok && admin && !identity.IsAdmin() {
		identity.Roles = append(identity.Roles, RoleAdmin)
	}
	return identity
}
