package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/obs"
	"github.com/brfrastenen/brfweb/internal/service"
)

type contextKey string

const principalKey contextKey = "principal"

// SessionCookieName holds the authentication artifact (15 min).
// WebSessionCookieName holds the first-party web session (1 h) used
// only to show who is logged in on rendered pages.
const (
	SessionCookieName    = "session"
	WebSessionCookieName = "brf_session"
)

// SessionGate verifies the session artifact on every request and
// attaches the principal to the context. A missing or invalid
// artifact is a navigational outcome, not an error: the cookies are
// cleared and the caller is redirected to the login page.
func SessionGate(authService *service.AuthService, loginPath string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				obs.IncAuthOutcome("rejected")
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			principal, err := authService.VerifyArtifact(cookie.Value)
			if err != nil {
				log.Printf("ERROR [middleware.SessionGate] artifact verification failed: %v", err)
				obs.IncAuthOutcome("expired")
				ClearSessionCookies(w, secure)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			obs.IncAuthOutcome("ok")
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal returns the principal attached by the session gate.
func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*domain.Principal)
	return principal, ok
}

// ClearSessionCookies expires both session cookies on the client.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{SessionCookieName, WebSessionCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
