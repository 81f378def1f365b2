package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("news item not found")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ValidationError carries per-field messages for rejected input. The
// operation that produced it was aborted before any mutation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "ogiltiga fält"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// AuthenticationError wraps a credential failure. Cause is for
// operator logs only; clients get the generic message regardless of
// whether the token was bad or the verifier was unreachable.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string { return "Autentiseringsfel" }

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// StorageError wraps a repository failure. The operation name is for
// server-side logs; callers see a generic message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }
