package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/brightfold/api/internal/platform/config"
)

func newSessionManagerAt(t *testing.T, now func() time.Time) *SessionManager {
	t.Helper()
	opts := []SessionOption{}
	if now != nil {
		opts = append(opts, WithSessionClock(now))
	}
	manager, err := NewSessionManager(config.SessionConfig{
		Secret:     "test-secret",
		CookieName: "bf_session",
		TTL:        time.Hour,
	}, opts...)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return manager
}

func TestSessionVerifyRoundTrip(t *testing.T) {
	manager := newSessionManagerAt(t, nil)

	token, _, err := manager.Issue(&Identity{UID: "user-123", Email: "ada@example.com", Roles: []string{RoleUser}})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject = %q, want user-123", claims.Subject)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestSessionVerifyExpiredAgainstManagerClock(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuing := newSessionManagerAt(t, func() time.Time { return past })

	token, _, err := issuing.Issue(&Identity{UID: "user-456"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	verifying := newSessionManagerAt(t, nil)
	if _, err := verifying.Verify(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionVerifyRejectsTamperedToken(t *testing.T) {
	manager := newSessionManagerAt(t, nil)

	token, _, err := manager.Issue(&Identity{UID: "user-789"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := manager.Verify(tampered); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}
