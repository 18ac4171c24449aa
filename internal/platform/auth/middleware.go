package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/brightfold/api/internal/platform/httpx"
)

const defaultVerifyTimeout = 10 * time.Second

// TokenVerifier abstracts Firebase ID token verification for testability.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// Authenticator resolves the request identity from a bearer token, a session
// cookie, or the shared admin secret, in that order.
type Authenticator struct {
	verifier     TokenVerifier
	sessions     *SessionManager
	userLoader   UserLoader
	adminSecret  string
	secretHeader string
}

// AuthenticatorOption customises Authenticator instances.
type AuthenticatorOption func(*Authenticator)

// WithSessionManager enables session-cookie fallback authentication.
func WithSessionManager(sessions *SessionManager) AuthenticatorOption {
	return func(a *Authenticator) {
		a.sessions = sessions
	}
}

// WithUserLoader injects the loader used for lazy Firebase profile resolution.
func WithUserLoader(loader UserLoader) AuthenticatorOption {
	return func(a *Authenticator) {
		a.userLoader = loader
	}
}

// WithAdminSecret enables the shared-secret header escape hatch used by
// trusted server-side callers. An empty secret disables it.
func WithAdminSecret(secret, header string) AuthenticatorOption {
	return func(a *Authenticator) {
		a.adminSecret = secret
		if header != "" {
			a.secretHeader = header
		}
	}
}

// NewAuthenticator constructs an Authenticator around the given verifier.
func NewAuthenticator(verifier TokenVerifier, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		verifier:     verifier,
		secretHeader: "X-Admin-Secret",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Middleware attaches the resolved identity to the request context when any
// credential is present. Requests without credentials pass through untouched;
// RequireAuth is the enforcement point.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.resolve(r)
			if err != nil {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", err.Error(), http.StatusUnauthorized))
				return
			}
			if identity != nil {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that did not resolve an identity.
func (a *Authenticator) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose identity lacks the admin role.
func (a *Authenticator) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
				return
			}
			if !identity.IsAdmin() {
				httpx.WriteError(r.Context(), w, httpx.NewError("forbidden", "admin privilege required", http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve inspects request credentials. A present-but-invalid credential is an
// error; a missing credential yields a nil identity.
func (a *Authenticator) resolve(r *http.Request) (*Identity, error) {
	if identity := a.resolveAdminSecret(r); identity != nil {
		return identity, nil
	}

	if token := bearerToken(r); token != "" {
		return a.resolveFirebase(r.Context(), token)
	}

	if a.sessions != nil {
		cookie, err := r.Cookie(a.sessions.CookieName())
		if err == nil && cookie.Value != "" {
			return a.resolveSession(cookie.Value)
		}
	}

	return nil, nil
}

func (a *Authenticator) resolveAdminSecret(r *http.Request) *Identity {
	if a.adminSecret == "" {
		return nil
	}
	provided := r.Header.Get(a.secretHeader)
	if provided == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(a.adminSecret)) != 1 {
		return nil
	}
	return &Identity{
		UID:    "admin-secret",
		Roles:  []string{RoleAdmin},
		Source: "admin-secret",
	}
}

func (a *Authenticator) resolveFirebase(ctx context.Context, idToken string) (*Identity, error) {
	token, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	identity := IdentityFromToken(token)
	identity.userLoader = a.userLoader
	return identity, nil
}

func (a *Authenticator) resolveSession(token string) (*Identity, error) {
	claims, err := a.sessions.Verify(token)
	if err != nil {
		return nil, err
	}
	roles := claims.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	return &Identity{
		UID:        claims.Subject,
		Email:      claims.Email,
		Roles:      roles,
		Source:     "session",
		userLoader: a.userLoader,
	}, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
