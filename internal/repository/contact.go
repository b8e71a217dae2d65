package repository

import (
	"context"

	"portal-backend/internal/domain"
)

// ContactRepository defines persistence operations for contact messages.
type ContactRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, contact *domain.Contact) (int64, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Contact, error)
	List(ctx context.Context, skip, limit int) ([]domain.Contact, error)
	Count(ctx context.Context) (int64, error)
	CountUnresolved(ctx context.Context) (int64, error)
}
