package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/services"
)

// SessionHandlers exchanges Firebase ID tokens for session cookies.
type SessionHandlers struct {
	verifier auth.TokenVerifier
	sessions *auth.SessionManager
	users    services.UserService
}

// NewSessionHandlers constructs a new SessionHandlers instance.
func NewSessionHandlers(verifier auth.TokenVerifier, sessions *auth.SessionManager, users services.UserService) *SessionHandlers {
	return &SessionHandlers{verifier: verifier, sessions: sessions, users: users}
}

// Routes registers the /auth/session endpoints.
func (h *SessionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/session", h.createSession)
	r.Delete("/session", h.deleteSession)
}

type sessionRequest struct {
	IDToken string `json:"idToken"`
}

func (h *SessionHandlers) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "idToken is required", http.StatusBadRequest))
		return
	}

	token, err := h.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "invalid ID token", http.StatusUnauthorized))
		return
	}

	identity := auth.IdentityFromToken(token)
	sessionToken, expiresAt, err := h.sessions.Issue(identity)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "could not issue session", http.StatusInternalServerError))
		return
	}

	// Keep the users collection current with the verified identity.
	if h.users != nil {
		actor := services.Actor{UID: identity.UID, Email: identity.Email, Admin: identity.IsAdmin()}
		name, _ := token.Claims["name"].(string)
		picture, _ := token.Claims["picture"].(string)
		if _, syncErr := h.users.SyncProfile(ctx, actor, name, picture, identity.Locale); syncErr != nil {
			httpx.WriteError(ctx, w, httpx.NewError("internal_error", "could not sync profile", http.StatusInternalServerError))
			return
		}
	}

	http.SetCookie(w, h.sessions.Cookie(sessionToken, expiresAt))
	httpx.WriteDataMessage(w, http.StatusCreated, map[string]any{
		"uid":       identity.UID,
		"email":     identity.Email,
		"expiresAt": expiresAt,
	}, "session created")
}

func (h *SessionHandlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.ClearCookie())
	httpx.WriteMessage(w, http.StatusOK, "session cleared")
}
