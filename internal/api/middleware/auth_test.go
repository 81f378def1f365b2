package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brfrastenen/brfweb/internal/api/middleware"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier struct{}

func (staticVerifier) VerifyIDToken(ctx context.Context, idToken string) (*identity.Identity, error) {
	if idToken != "valid-id-token" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Identity{UID: "u1", Email: "styrelsen@example.se", DisplayName: "Styrelsen"}, nil
}

func gateConfig() *config.Config {
	return &config.Config{
		Environment:      "development",
		SessionSecret:    "test-session-secret-for-testing-only",
		SessionCookieTTL: 15 * time.Minute,
		WebSessionTTL:    time.Hour,
	}
}

func newGatedHandler(t *testing.T, authService *service.AuthService) http.Handler {
	t.Helper()

	gate := middleware.SessionGate(authService, "/admin/login", false)
	return gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.GetPrincipal(r.Context())
		require.True(t, ok)
		w.Write([]byte(principal.UID))
	}))
}

func TestSessionGate(t *testing.T) {
	authService := service.NewAuthService(staticVerifier{}, gateConfig())
	tokens, _, err := authService.BeginSession(context.Background(), "valid-id-token")
	require.NoError(t, err)

	expiredCfg := gateConfig()
	expiredCfg.SessionCookieTTL = -time.Minute
	expiredTokens, _, err := service.NewAuthService(staticVerifier{}, expiredCfg).
		BeginSession(context.Background(), "valid-id-token")
	require.NoError(t, err)

	tests := []struct {
		name         string
		cookie       string
		wantStatus   int
		wantBody     string
		wantsCleared bool
	}{
		{
			name:       "no cookie redirects to login",
			wantStatus: http.StatusFound,
		},
		{
			name:       "valid artifact attaches the principal",
			cookie:     tokens.Artifact,
			wantStatus: http.StatusOK,
			wantBody:   "u1",
		},
		{
			name:         "expired artifact redirects and clears cookies",
			cookie:       expiredTokens.Artifact,
			wantStatus:   http.StatusFound,
			wantsCleared: true,
		},
		{
			name:         "web session cookie does not pass the gate",
			cookie:       tokens.WebSession,
			wantStatus:   http.StatusFound,
			wantsCleared: true,
		},
		{
			name:         "garbage cookie redirects",
			cookie:       "not-a-token",
			wantStatus:   http.StatusFound,
			wantsCleared: true,
		},
	}

	handler := newGatedHandler(t, authService)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusFound {
				assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}

			if tt.wantsCleared {
				cleared := map[string]bool{}
				for _, c := range rec.Result().Cookies() {
					if c.MaxAge < 0 {
						cleared[c.Name] = true
					}
				}
				assert.True(t, cleared[middleware.SessionCookieName])
				assert.True(t, cleared[middleware.WebSessionCookieName])
			}
		})
	}
}

func TestGetPrincipal_MissingContext(t *testing.T) {
	principal, ok := middleware.GetPrincipal(context.Background())
	assert.False(t, ok)
	assert.Nil(t, principal)
}
