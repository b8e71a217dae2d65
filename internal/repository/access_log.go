package repository

import (
	"context"
	"time"

	"portal-backend/internal/domain"
)

// AccessLogRepository stores request access logs and the aggregates over them.
type AccessLogRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, log *domain.AccessLog) (int64, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.AccessLog, error)
	// ListRecent returns entries newest first, joined with their user when present.
	ListRecent(ctx context.Context, skip, limit int) ([]domain.AccessLogEntry, error)
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]domain.AccessLogEntry, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	// CountBy tallies rows per distinct non-null value of the group column.
	CountBy(ctx context.Context, group domain.AccessLogGroup) (map[string]int64, error)
}
