package postgres

import (
	"context"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *newsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, item *domain.NewsItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *newsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NewsItem, error) {
	var item domain.NewsItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *newsRepository) List(ctx context.Context) ([]domain.NewsItem, error) {
	var items []domain.NewsItem
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsRepository) Update(ctx context.Context, item *domain.NewsItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.NewsItem{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
