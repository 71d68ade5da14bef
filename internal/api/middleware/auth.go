package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/apierr"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/services/auth"
)

// TokenCookieName is the cookie an organizer token may be carried in
const TokenCookieName = "openplay_token"

// RequireOrganizer creates middleware that only lets the organizer of the
// session named by the {code} route variable through. Sessions created
// without a password are open to everyone.
func RequireOrganizer(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := model.SessionCode(mux.Vars(r)["code"])

			if err := authService.Authorize(r.Context(), code, ExtractToken(r)); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the organizer token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(TokenCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}
