// Package identity holds the collaborators that turn a one-time ID
// token into a verified identity. Session artifacts are minted and
// checked elsewhere; this package only answers "who is this token?".
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Identity is what the provider knows about a verified subject.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Verifier exchanges a one-time ID token for a verified identity.
// Implementations must not retry on failure; a bad token means the
// caller re-authenticates from scratch.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}
