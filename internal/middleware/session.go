package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
	"github.com/ChristopherDonnelly/message-board/internal/utils"
)

const SessionCookieName = "msgboard_session"

type authContextKey struct{}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.AuthContext, error)
}

type Session struct {
	gate          Authenticator
	ttl           time.Duration
	secureCookies bool
}

// NewSession loads identities through gate. ttl must match the lifetime the
// gate gives stored sessions, since the cookie is re-issued with it.
func NewSession(gate Authenticator, ttl time.Duration, secureCookies bool) *Session {
	return &Session{gate: gate, ttl: ttl, secureCookies: secureCookies}
}

// Load resolves the session cookie and stores the resulting identity in the
// request context. It never rejects: without a valid session the request
// proceeds as Anonymous. An authenticated request gets its cookie re-issued
// so the browser's expiry slides along with the stored session.
func (s *Session) Load() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			auth, err := s.gate.Authenticate(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Error("session lookup failed, continuing anonymous", "error", err)
			}
			ctx := WithAuth(r.Context(), auth)
			if auth.Authenticated() {
				SetSessionCookie(w, token, s.ttl, s.secureCookies)
				ctx = logger.With(ctx, "user_id", auth.UserId)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

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

// RedirectAnonymous sends requests without a session to target.
func RedirectAnonymous(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetAuth(r).Authenticated() {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RejectAnonymous answers requests without a session with 401.
func RejectAnonymous() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetAuth(r).Authenticated() {
				utils.WriteErrorAndStatusCode(w, internal_errors.AuthRequired())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithAuth(ctx context.Context, auth domain.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// GetAuth returns the request's identity, Anonymous if none was loaded.
func GetAuth(r *http.Request) domain.AuthContext {
	auth, _ := r.Context().Value(authContextKey{}).(domain.AuthContext)
	return auth
}
