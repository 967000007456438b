package middleware

import (
	"context"
	"net/http"

	"github.com/ChristopherDonnelly/message-board/internal/csrf"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

const CSRFFormField = csrf.FormField

type csrfContextKey struct{}

// GenerateCSRFToken issues the double-submit cookie if the client has none
// (or a malformed one) and exposes the token to templates through the request context.
func GenerateCSRFToken(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(csrf.CookieName); err == nil && csrf.WellFormed(cookie.Value) {
				token = cookie.Value
			} else {
				token, err = csrf.GenerateToken()
				if err != nil {
					logger.FromContext(r.Context()).Error("failed to generate CSRF token", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     csrf.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   86400,
				})
			}

			ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateCSRFToken rejects form posts whose token doesn't match the cookie.
func ValidateCSRFToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(csrf.CookieName)
			if err != nil {
				logger.FromContext(r.Context()).Warn("CSRF token cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}

			if !csrf.ValidateToken(cookie.Value, r.PostFormValue(CSRFFormField)) {
				logger.FromContext(r.Context()).Warn("CSRF token validation failed", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfContextKey{}).(string)
	return token
}
