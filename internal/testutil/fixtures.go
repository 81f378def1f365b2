package testutil

import (
	"testing"
	"time"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsBuilder creates test news items with a builder pattern
type NewsBuilder struct {
	item domain.NewsItem
}

// NewNewsBuilder creates a new NewsBuilder with sensible defaults
func NewNewsBuilder() *NewsBuilder {
	now := time.Now()
	return &NewsBuilder{
		item: domain.NewsItem{
			ID:           uuid.New(),
			Title:        "Testnyhet",
			Content:      "Innehåll för testnyhet",
			PublishDate:  now.Add(-time.Hour),
			VisibleUntil: now.Add(domain.DefaultVisibilityWindow),
			IsPublished:  true,
			Author:       domain.DefaultAuthor,
		},
	}
}

func (b *NewsBuilder) WithTitle(title string) *NewsBuilder {
	b.item.Title = title
	return b
}

func (b *NewsBuilder) WithContent(content string) *NewsBuilder {
	b.item.Content = content
	return b
}

func (b *NewsBuilder) WithPublishDate(t time.Time) *NewsBuilder {
	b.item.PublishDate = t
	return b
}

func (b *NewsBuilder) WithVisibleUntil(t time.Time) *NewsBuilder {
	b.item.VisibleUntil = t
	return b
}

func (b *NewsBuilder) Permanent() *NewsBuilder {
	b.item.IsPermanent = true
	return b
}

func (b *NewsBuilder) Draft() *NewsBuilder {
	b.item.IsPublished = false
	return b
}

// Item returns the built value without persisting it.
func (b *NewsBuilder) Item() domain.NewsItem {
	return b.item
}

// Build persists the item and returns it.
func (b *NewsBuilder) Build(t *testing.T, db *gorm.DB) *domain.NewsItem {
	t.Helper()
	item := b.item
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create news item: %v", err)
	}
	return &item
}
