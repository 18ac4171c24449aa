package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/brightfold/api/internal/platform/config"
)

// Session verification failures surfaced by SessionManager.
var (
	ErrSessionInvalid = errors.New("auth: session token invalid")
	ErrSessionExpired = errors.New("auth: session token expired")
)

// SessionClaims is the JWT payload minted for signed-in users. The subject
// holds the Firebase UID so a session survives Admin SDK outages.
type SessionClaims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager mints and verifies the HttpOnly session cookie that backs
// browser clients after the initial Firebase token exchange.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// SessionOption customises SessionManager instances.
type SessionOption func(*SessionManager)

// WithSessionClock overrides the time source, primarily for tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewSessionManager builds a SessionManager from configuration.
func NewSessionManager(cfg config.SessionConfig, opts ...SessionOption) (*SessionManager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("auth: session secret is required")
	}

	manager := &SessionManager{
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		now:        time.Now,
	}
	if manager.cookieName == "" {
		manager.cookieName = "bf_session"
	}
	if manager.ttl <= 0 {
		manager.ttl = 24 * time.Hour
	}

	for _, opt := range opts {
		if opt != nil {
			opt(manager)
		}
	}

	return manager, nil
}

// CookieName returns the cookie name the manager reads and writes.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Issue mints a signed session token for the identity and returns the token
// together with its expiry.
func (m *SessionManager) Issue(identity *Identity) (string, time.Time, error) {
	if identity == nil || identity.UID == "" {
		return "", time.Time{}, errors.New("auth: identity with uid required to issue session")
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := SessionClaims{
		Email: identity.Email,
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a session token, returning its claims. Expiry
// is checked against the manager's clock rather than the parser's global one.
func (m *SessionManager) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrSessionInvalid
	}
	if claims.ExpiresAt == nil || !m.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// Cookie builds the HttpOnly cookie carrying the session token.
func (m *SessionManager) Cookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt) / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds an expired cookie so clients drop the session.
func (m *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
