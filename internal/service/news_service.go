package service

import (
	"context"
	"errors"
	"time"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsService owns the news lifecycle: defaulting, validation, CRUD
// and the public feed. Concurrent edits are last-write-wins.
type NewsService struct {
	repo  repository.NewsRepository
	audit *AuditService
}

func NewNewsService(repo repository.NewsRepository, audit *AuditService) *NewsService {
	return &NewsService{repo: repo, audit: audit}
}

// NewsInput carries the editable fields from a form submission. Zero
// values get the documented defaults.
type NewsInput struct {
	Title        string
	Content      string
	PublishDate  time.Time
	VisibleUntil time.Time
	IsPermanent  bool
	IsPublished  bool
	Author       string
}

// permanentWindow stands in for "no end date" on permanent items so
// the column is never null; the visibility check ignores it anyway.
func permanentWindow(now time.Time) time.Time {
	return now.AddDate(100, 0, 0)
}

func (s *NewsService) Create(ctx context.Context, principal *domain.Principal, input NewsInput) (*domain.NewsItem, error) {
	now := time.Now()

	item := &domain.NewsItem{
		Title:       input.Title,
		Content:     input.Content,
		PublishDate: input.PublishDate,
		IsPermanent: input.IsPermanent,
		IsPublished: input.IsPublished,
		Author:      authorOrDefault(input.Author, principal),
	}
	if item.PublishDate.IsZero() {
		item.PublishDate = now
	}
	switch {
	case input.IsPermanent:
		item.VisibleUntil = permanentWindow(now)
	case input.VisibleUntil.IsZero():
		item.VisibleUntil = now.Add(domain.DefaultVisibilityWindow)
	default:
		item.VisibleUntil = input.VisibleUntil
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, &domain.StorageError{Op: "create news", Err: err}
	}

	s.audit.Record(ctx, principal.UID, "news.create", item.ID.String(), map[string]any{
		"title":       item.Title,
		"isPublished": item.IsPublished,
	})
	return item, nil
}

// Update replaces every editable field. A missing end date keeps the
// stored one rather than re-defaulting.
func (s *NewsService) Update(ctx context.Context, principal *domain.Principal, id uuid.UUID, input NewsInput) (*domain.NewsItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Title = input.Title
	item.Content = input.Content
	item.IsPermanent = input.IsPermanent
	item.IsPublished = input.IsPublished
	item.Author = authorOrDefault(input.Author, principal)
	if !input.PublishDate.IsZero() {
		item.PublishDate = input.PublishDate
	}
	switch {
	case input.IsPermanent:
		item.VisibleUntil = permanentWindow(time.Now())
	case !input.VisibleUntil.IsZero():
		item.VisibleUntil = input.VisibleUntil
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, &domain.StorageError{Op: "update news", Err: err}
	}

	s.audit.Record(ctx, principal.UID, "news.update", item.ID.String(), map[string]any{
		"title":       item.Title,
		"isPublished": item.IsPublished,
	})
	return item, nil
}

func (s *NewsService) Delete(ctx context.Context, principal *domain.Principal, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return &domain.StorageError{Op: "delete news", Err: err}
	}
	if !removed {
		return domain.ErrNotFound
	}

	s.audit.Record(ctx, principal.UID, "news.delete", id.String(), nil)
	return nil
}

func (s *NewsService) Get(ctx context.Context, id uuid.UUID) (*domain.NewsItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "get news", Err: err}
	}
	return item, nil
}

// AdminList returns every item, drafts included, newest first.
func (s *NewsService) AdminList(ctx context.Context) ([]domain.NewsItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "list news", Err: err}
	}
	return items, nil
}

// PublicFeed returns the items visible at now, newest publish date
// first.
func (s *NewsService) PublicFeed(ctx context.Context, now time.Time) ([]domain.NewsItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "list news", Err: err}
	}
	return domain.SelectPublicFeed(items, now), nil
}

func authorOrDefault(author string, principal *domain.Principal) string {
	if author != "" {
		return author
	}
	if principal != nil && principal.Email != "" {
		return principal.Email
	}
	return domain.DefaultAuthor
}
