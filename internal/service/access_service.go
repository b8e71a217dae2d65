package service

import (
	"context"
	"fmt"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

// RequestInfo carries what the transport layer knows about the inbound request.
type RequestInfo struct {
	ClientIP  string
	UserAgent string
}

// AccessService records, looks up and removes access logs.
type AccessService interface {
	Log(ctx context.Context, input domain.AccessLogInput, req RequestInfo) (*domain.AccessLog, error)
	Get(ctx context.Context, id int64) (*domain.AccessLog, error)
	Delete(ctx context.Context, id int64) error
}

type accessService struct {
	logs  repository.AccessLogRepository
	users repository.UserRepository
}

func NewAccessService(logs repository.AccessLogRepository, users repository.UserRepository) AccessService {
	return &accessService{
		logs:  logs,
		users: users,
	}
}

// Log persists exactly one access log row. IP address and user agent fall back to
// the values observed on the request.
func (s *accessService) Log(ctx context.Context, input domain.AccessLogInput, req RequestInfo) (*domain.AccessLog, error) {
	if input.UserID != nil {
		if _, err := s.users.GetByID(ctx, *input.UserID); err != nil {
			return nil, fmt.Errorf("access log user %d: %w", *input.UserID, err)
		}
	}

	log := &domain.AccessLog{
		UserID:     input.UserID,
		IPAddress:  input.IPAddress,
		UserAgent:  input.UserAgent,
		Endpoint:   input.Endpoint,
		Method:     input.Method,
		StatusCode: input.StatusCode,
	}
	if log.IPAddress == "" {
		log.IPAddress = req.ClientIP
	}
	if log.UserAgent == "" {
		log.UserAgent = req.UserAgent
	}

	if _, err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *accessService) Get(ctx context.Context, id int64) (*domain.AccessLog, error) {
	return s.logs.Get(ctx, id)
}

func (s *accessService) Delete(ctx context.Context, id int64) error {
	return s.logs.Delete(ctx, id)
}
