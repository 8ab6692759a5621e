package auth

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "crm_session"

type contextKey string

const userContextKey contextKey = "user"

// SetSessionCookie stores the session token in an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// SessionClaims returns the claims the middleware attached to the
// request context, or nil when the request is unauthenticated.
func SessionClaims(ctx context.Context) jwt.MapClaims {
	claims, _ := ctx.Value(userContextKey).(jwt.MapClaims)
	return claims
}
