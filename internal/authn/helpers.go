package authn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// SessionCookieName is the HTTP-only cookie carrying the session token for
// browser clients. API clients send the same token as a bearer header.
const SessionCookieName = "tr_session"

// Sentinel errors for token extraction failures.
// These can be used for debugging/logging but should NOT be exposed in responses.
var (
	ErrNoToken           = errors.New("no session token in request")
	ErrInvalidAuthScheme = errors.New("invalid authorization scheme: expected Bearer")
	ErrEmptyToken        = errors.New("empty bearer token")
)

// ExtractToken pulls the session token from a request, preferring the
// Authorization header over the session cookie. Returns an error if neither
// carries a token. Does not log anything.
func ExtractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			return "", ErrInvalidAuthScheme
		}
		token := strings.TrimPrefix(authHeader, prefix)
		if token == "" {
			return "", ErrEmptyToken
		}
		return token, nil
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	return cookie.Value, nil
}

// SetSessionCookie attaches the session token to the response as an
// HTTP-only cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// APIError is the JSON error envelope used across the API.
type APIError struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error message and type.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// WriteJSONError writes a JSON error response.
// Response format: {"error": {"message": "<message>", "type": "<errorType>"}}
func WriteJSONError(w http.ResponseWriter, status int, message, errorType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
		},
	}); err != nil {
		slog.Error("failed to write JSON error response", "error", err)
	}
}

// WriteUnauthorized writes a 401 Unauthorized JSON response.
func WriteUnauthorized(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
}

// WriteForbidden writes a 403 Forbidden JSON response.
func WriteForbidden(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusForbidden, "forbidden", "authentication_error")
}
