package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"turnready/internal/authn"
)

// AuthMetrics records authentication events. Satisfied by
// metrics.Collector.
type AuthMetrics interface {
	RecordAuthEvent(event string)
}

// AuthHandler handles signup, login, and logout.
type AuthHandler struct {
	provider      *authn.Provider
	sessionTTL    time.Duration
	secureCookies bool
	metrics       AuthMetrics
}

// NewAuthHandler creates a new auth handler. metrics may be nil.
func NewAuthHandler(provider *authn.Provider, sessionTTL time.Duration, secureCookies bool, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{
		provider:      provider,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
		metrics:       metrics,
	}
}

// credentialsRequest is the JSON request for signup and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the JSON response for a newly opened session.
// The token is also set as an HTTP-only cookie for browser clients.
type sessionResponse struct {
	Identity *authn.Identity `json:"identity"`
	Token    string          `json:"token"`
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	identity, token, err := h.provider.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authn.ErrInvalidEmail), errors.Is(err, authn.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, authn.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email is already registered")
		default:
			slog.Error("signup failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to sign up")
		}
		return
	}

	h.recordEvent("signup")
	authn.SetSessionCookie(w, token, int(h.sessionTTL.Seconds()), h.secureCookies)
	writeJSON(w, http.StatusCreated, sessionResponse{Identity: identity, Token: token})
}

// SignIn handles POST /api/auth/login
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	identity, token, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		slog.Error("login failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.recordEvent("signin")
	authn.SetSessionCookie(w, token, int(h.sessionTTL.Seconds()), h.secureCookies)
	writeJSON(w, http.StatusOK, sessionResponse{Identity: identity, Token: token})
}

// SignOut handles POST /api/auth/logout
// Logging out without a session is a no-op, not an error.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, err := authn.ExtractToken(r)
	if err == nil && token != "" {
		if err := h.provider.SignOut(r.Context(), token); err != nil {
			slog.Error("logout failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to log out")
			return
		}
		h.recordEvent("signout")
	}

	authn.ClearSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) recordEvent(event string) {
	if h.metrics != nil {
		h.metrics.RecordAuthEvent(event)
	}
}
