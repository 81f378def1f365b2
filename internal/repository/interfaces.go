package repository

import (
	"context"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/google/uuid"
)

type NewsRepository interface {
	Create(ctx context.Context, item *domain.NewsItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.NewsItem, error)
	// List returns every item, newest creation first. Public-feed
	// filtering happens in the domain layer.
	List(ctx context.Context) ([]domain.NewsItem, error)
	Update(ctx context.Context, item *domain.NewsItem) error
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type Repositories struct {
	News  NewsRepository
	Audit AuditRepository
}
