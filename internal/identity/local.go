package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// localTokenTTL bounds how long an issued dev token can be exchanged.
const localTokenTTL = 5 * time.Minute

// LocalUser is one entry in the development login table.
type LocalUser struct {
	UID          string
	Email        string
	DisplayName  string
	PasswordHash string // bcrypt
}

// LocalVerifier is a development stand-in for the hosted identity
// provider: it checks an email/password pair against a bcrypt table
// and issues short-lived signed tokens that it alone can verify.
// Never wired in production.
type LocalVerifier struct {
	secret []byte
	users  map[string]LocalUser
}

func NewLocalVerifier(secret string, users []LocalUser) *LocalVerifier {
	byEmail := make(map[string]LocalUser, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return &LocalVerifier{secret: []byte(secret), users: byEmail}
}

type localClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueIDToken authenticates the password and returns a one-time
// token suitable for the normal begin-session exchange.
func (v *LocalVerifier) IssueIDToken(email, password string) (string, error) {
	user, ok := v.users[email]
	if !ok {
		return "", ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := localClaims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(localTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *LocalVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	var claims localClaims
	token, err := jwt.ParseWithClaims(idToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// The user may have been removed from the table since issuance.
	user, ok := v.users[claims.Email]
	if !ok || user.UID != claims.Subject {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}
