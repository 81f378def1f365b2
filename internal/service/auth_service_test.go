package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaticVerifier() *testutil.StaticVerifier {
	return &testutil.StaticVerifier{
		Token: "valid-id-token",
		Identity: identity.Identity{
			UID:         "u1",
			Email:       "styrelsen@example.se",
			DisplayName: "Styrelsen",
		},
	}
}

func TestAuthService_BeginSession(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		idToken   string
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "valid token mints both cookies",
			idToken:   "valid-id-token",
			wantCalls: 1,
		},
		{
			name:      "empty token never reaches the verifier",
			idToken:   "",
			wantCalls: 0,
			wantErr:   true,
		},
		{
			name:      "rejected token",
			idToken:   "forged-token",
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newStaticVerifier()
			authService := service.NewAuthService(verifier, testutil.TestConfig())

			tokens, principal, err := authService.BeginSession(ctx, tt.idToken)
			assert.Equal(t, tt.wantCalls, verifier.CallCount())

			if tt.wantErr {
				var authErr *domain.AuthenticationError
				assert.ErrorAs(t, err, &authErr)
				assert.Nil(t, tokens)
				assert.Nil(t, principal)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, tokens.Artifact)
			assert.NotEmpty(t, tokens.WebSession)
			assert.NotEqual(t, tokens.Artifact, tokens.WebSession)
			assert.Equal(t, "u1", principal.UID)
			assert.Equal(t, "styrelsen@example.se", principal.Email)
		})
	}
}

func TestAuthService_VerifyArtifact(t *testing.T) {
	ctx := context.Background()
	verifier := newStaticVerifier()
	authService := service.NewAuthService(verifier, testutil.TestConfig())

	tokens, _, err := authService.BeginSession(ctx, "valid-id-token")
	require.NoError(t, err)

	tests := []struct {
		name     string
		artifact string
		wantErr  bool
	}{
		{
			name:     "valid artifact re-derives the principal",
			artifact: tokens.Artifact,
		},
		{
			name:     "web session cookie cannot pass as an artifact",
			artifact: tokens.WebSession,
			wantErr:  true,
		},
		{
			name:     "tampered artifact",
			artifact: tokens.Artifact + "x",
			wantErr:  true,
		},
		{
			name:     "malformed artifact",
			artifact: "not.a.jwt",
			wantErr:  true,
		},
		{
			name:     "empty artifact",
			artifact: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := authService.VerifyArtifact(tt.artifact)

			if tt.wantErr {
				var authErr *domain.AuthenticationError
				assert.ErrorAs(t, err, &authErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u1", principal.UID)
			assert.Equal(t, "styrelsen@example.se", principal.Email)
			assert.Equal(t, "Styrelsen", principal.DisplayName)
		})
	}

	// Verification is stateless: the verifier was only consulted at
	// login, never during artifact checks.
	assert.Equal(t, 1, verifier.CallCount())
}

func TestAuthService_ExpiredArtifact(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.TestConfig()
	cfg.SessionCookieTTL = -time.Minute
	authService := service.NewAuthService(newStaticVerifier(), cfg)

	tokens, _, err := authService.BeginSession(ctx, "valid-id-token")
	require.NoError(t, err)

	_, err = authService.VerifyArtifact(tokens.Artifact)
	var authErr *domain.AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestAuthService_ReadWebSession(t *testing.T) {
	ctx := context.Background()
	authService := service.NewAuthService(newStaticVerifier(), testutil.TestConfig())

	tokens, _, err := authService.BeginSession(ctx, "valid-id-token")
	require.NoError(t, err)

	principal, err := authService.ReadWebSession(tokens.WebSession)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UID)

	// The artifact is not a web session either; the two cookies are
	// never interchangeable.
	_, err = authService.ReadWebSession(tokens.Artifact)
	assert.Error(t, err)
}

func TestAuthService_DifferentSecretRejected(t *testing.T) {
	ctx := context.Background()
	authService := service.NewAuthService(newStaticVerifier(), testutil.TestConfig())

	tokens, _, err := authService.BeginSession(ctx, "valid-id-token")
	require.NoError(t, err)

	otherCfg := testutil.TestConfig()
	otherCfg.SessionSecret = "a-completely-different-secret"
	other := service.NewAuthService(newStaticVerifier(), otherCfg)

	_, err = other.VerifyArtifact(tokens.Artifact)
	assert.Error(t, err)
}
