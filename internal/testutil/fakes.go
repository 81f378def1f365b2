package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FakeNewsRepository is an in-memory NewsRepository that counts every
// call, so tests can assert that rejected requests never reach
// storage.
type FakeNewsRepository struct {
	mu    sync.Mutex
	Items []domain.NewsItem

	CreateCalls int
	GetCalls    int
	ListCalls   int
	UpdateCalls int
	DeleteCalls int

	// Err, when set, is returned by every method.
	Err error
}

func (r *FakeNewsRepository) Create(ctx context.Context, item *domain.NewsItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	if r.Err != nil {
		return r.Err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.Items = append(r.Items, *item)
	return nil
}

func (r *FakeNewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NewsItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	for _, item := range r.Items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeNewsRepository) List(ctx context.Context) ([]domain.NewsItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ListCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	items := make([]domain.NewsItem, len(r.Items))
	copy(items, r.Items)
	return items, nil
}

func (r *FakeNewsRepository) Update(ctx context.Context, item *domain.NewsItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UpdateCalls++
	if r.Err != nil {
		return r.Err
	}
	for i, existing := range r.Items {
		if existing.ID == item.ID {
			item.UpdatedAt = time.Now()
			r.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeNewsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeleteCalls++
	if r.Err != nil {
		return false, r.Err
	}
	for i, existing := range r.Items {
		if existing.ID == id {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// FakeAuditRepository collects audit entries in memory.
type FakeAuditRepository struct {
	mu      sync.Mutex
	Entries []domain.AuditEntry
}

func (r *FakeAuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.CreatedAt = time.Now()
	r.Entries = append(r.Entries, *entry)
	return nil
}

func (r *FakeAuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]domain.AuditEntry, len(r.Entries))
	copy(entries, r.Entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// StaticVerifier resolves a fixed token to a fixed identity and counts
// verification calls.
type StaticVerifier struct {
	Token    string
	Identity identity.Identity

	mu    sync.Mutex
	Calls int
}

func (v *StaticVerifier) VerifyIDToken(ctx context.Context, idToken string) (*identity.Identity, error) {
	v.mu.Lock()
	v.Calls++
	v.mu.Unlock()
	if idToken != v.Token {
		return nil, identity.ErrInvalidToken
	}
	id := v.Identity
	return &id, nil
}

func (v *StaticVerifier) CallCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Calls
}
