package repository

import (
	"context"

	"portal-backend/internal/domain"
)

// ItemRepository defines persistence operations for Item entities.
type ItemRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, item *domain.Item) (int64, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, skip, limit int) ([]domain.Item, error)
	ListAll(ctx context.Context) ([]domain.Item, error)
	Count(ctx context.Context) (int64, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}
