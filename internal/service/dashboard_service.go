package service

import (
	"context"
	"time"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

// RecentAccessWindow bounds the recent_access_count statistic.
const RecentAccessWindow = 7 * 24 * time.Hour

// DashboardService aggregates statistics and access history.
type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	RecentAccess(ctx context.Context, page Page) ([]domain.AccessLogEntry, error)
	UserAccess(ctx context.Context, userID int64, page Page) ([]domain.AccessLogEntry, error)
}

type dashboardService struct {
	users    repository.UserRepository
	items    repository.ItemRepository
	contacts repository.ContactRepository
	logs     repository.AccessLogRepository
	now      func() time.Time
}

func NewDashboardService(
	users repository.UserRepository,
	items repository.ItemRepository,
	contacts repository.ContactRepository,
	logs repository.AccessLogRepository,
	now func() time.Time,
) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{
		users:    users,
		items:    items,
		contacts: contacts,
		logs:     logs,
		now:      now,
	}
}

// Stats runs every aggregate as its own query; the results are not a consistent snapshot.
func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		stats domain.DashboardStats
		err   error
	)

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.TotalContacts, err = s.contacts.Count(ctx); err != nil {
		return nil, err
	}
	if stats.UnresolvedContacts, err = s.contacts.CountUnresolved(ctx); err != nil {
		return nil, err
	}
	if stats.TotalItems, err = s.items.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RecentAccessCount, err = s.logs.CountSince(ctx, s.now().Add(-RecentAccessWindow)); err != nil {
		return nil, err
	}
	if stats.AccessByEndpoint, err = s.logs.CountBy(ctx, domain.AccessLogGroupEndpoint); err != nil {
		return nil, err
	}
	if stats.AccessByMethod, err = s.logs.CountBy(ctx, domain.AccessLogGroupMethod); err != nil {
		return nil, err
	}
	if stats.AccessByStatus, err = s.logs.CountBy(ctx, domain.AccessLogGroupStatus); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *dashboardService) RecentAccess(ctx context.Context, page Page) ([]domain.AccessLogEntry, error) {
	return s.logs.ListRecent(ctx, page.Skip, page.Limit)
}

func (s *dashboardService) UserAccess(ctx context.Context, userID int64, page Page) ([]domain.AccessLogEntry, error) {
	return s.logs.ListByUser(ctx, userID, page.Skip, page.Limit)
}
