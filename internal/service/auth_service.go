package service

import (
	"context"
	"errors"
	"time"

	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService is the session gate core: it exchanges a one-time ID
// token for a signed session artifact and re-verifies that artifact on
// every protected request. Verification is stateless; nothing is kept
// server-side between requests.
type AuthService struct {
	verifier identity.Verifier
	cfg      *config.Config
}

func NewAuthService(verifier identity.Verifier, cfg *config.Config) *AuthService {
	return &AuthService{verifier: verifier, cfg: cfg}
}

// purpose keeps the two cookies from standing in for each other: a
// web session token must never pass the gate.
const (
	purposeArtifact   = "auth"
	purposeWebSession = "web"
)

type sessionClaims struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	Purpose     string `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionTokens holds the two cookies minted at login: the
// authentication artifact (15 min) and the first-party web session
// (1 h). The windows differ on purpose; only the artifact carries
// authorization truth.
type SessionTokens struct {
	Artifact   string
	WebSession string
}

// BeginSession verifies the one-time token exactly once and mints the
// session cookies. Any failure leaves the caller anonymous.
func (s *AuthService) BeginSession(ctx context.Context, idToken string) (*SessionTokens, *domain.Principal, error) {
	if idToken == "" {
		return nil, nil, &domain.AuthenticationError{Cause: errors.New("no id token presented")}
	}

	id, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, nil, &domain.AuthenticationError{Cause: err}
	}

	principal := &domain.Principal{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
	}

	artifact, err := s.mint(principal, s.cfg.SessionCookieTTL, purposeArtifact)
	if err != nil {
		return nil, nil, &domain.AuthenticationError{Cause: err}
	}
	webSession, err := s.mint(principal, s.cfg.WebSessionTTL, purposeWebSession)
	if err != nil {
		return nil, nil, &domain.AuthenticationError{Cause: err}
	}

	return &SessionTokens{Artifact: artifact, WebSession: webSession}, principal, nil
}

// VerifyArtifact checks signature and expiry of a session artifact and
// re-derives the principal. There is no renewal: an expired artifact
// is permanently invalid.
func (s *AuthService) VerifyArtifact(artifact string) (*domain.Principal, error) {
	return s.parse(artifact, purposeArtifact)
}

// ReadWebSession resolves the first-party web session cookie. The
// result is for template rendering only, never for authorization.
func (s *AuthService) ReadWebSession(token string) (*domain.Principal, error) {
	return s.parse(token, purposeWebSession)
}

func (s *AuthService) mint(p *domain.Principal, ttl time.Duration, purpose string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Purpose:     purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func (s *AuthService) parse(tokenString, purpose string) (*domain.Principal, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil {
		return nil, &domain.AuthenticationError{Cause: err}
	}
	if !token.Valid || claims.Subject == "" || claims.Purpose != purpose {
		return nil, &domain.AuthenticationError{Cause: errors.New("invalid session artifact")}
	}

	return &domain.Principal{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
